package server

import (
	"io"

	"lattice/internal/models"
	"lattice/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/profile.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	user, err := s.userService.GetProfile(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// UpdateProfile handles PUT /api/profile. Omitted fields are left
// unchanged; an explicit empty string clears a field.
func (s *Server) UpdateProfile(c *fiber.Ctx) error {
	var req struct {
		Title      *string `json:"title"`
		Location   *string `json:"location"`
		Bio        *string `json:"bio"`
		Skills     *string `json:"skills"`
		Experience *string `json:"experience"`
		Education  *string `json:"education"`
		Phone      *string `json:"phone"`
		LinkedIn   *string `json:"linkedin"`
		GitHub     *string `json:"github"`
		Twitter    *string `json:"twitter"`
		Avatar     *string `json:"avatar"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:     currentUserID(c),
		Title:      req.Title,
		Location:   req.Location,
		Bio:        req.Bio,
		Skills:     req.Skills,
		Experience: req.Experience,
		Education:  req.Education,
		Phone:      req.Phone,
		LinkedIn:   req.LinkedIn,
		GitHub:     req.GitHub,
		Twitter:    req.Twitter,
		Avatar:     req.Avatar,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// UploadAvatar handles POST /api/profile/image. The multipart field is
// named "image".
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewMissingFieldError("image"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read uploaded file"))
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError,
			models.NewInternalError(err))
	}

	userID := currentUserID(c)
	storedName, err := s.media.SaveAvatar(userID, fileHeader.Filename, content)
	if err != nil {
		return respondServiceError(c, err)
	}

	user, err := s.userService.SetAvatar(c.Context(), userID, storedName)
	if err != nil {
		// The profile row was not updated, so drop the orphaned file.
		s.media.Remove(storedName)
		return respondServiceError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":    "Avatar updated",
		"avatar":     user.Avatar,
		"avatar_url": "/uploads/" + user.Avatar,
	})
}
