package server

import (
	"errors"

	"lattice/internal/models"
	"lattice/internal/repository"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const maxPerPage = 100

// Pagination holds parsed page/per_page query parameters. Pages are
// 1-indexed.
type Pagination struct {
	Page    int
	PerPage int
}

func parsePagination(c *fiber.Ctx) Pagination {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	perPage := c.QueryInt("per_page", repository.DefaultPageSize)
	if perPage < 1 {
		perPage = repository.DefaultPageSize
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	return Pagination{Page: page, PerPage: perPage}
}

// parseID extracts a route parameter as a positive uint. On failure it
// writes a 400 JSON response and returns errResponseWritten; callers should
// check: if err != nil { return nil }.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// currentUserID returns the authenticated user's ID placed in locals by the
// auth middleware.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// statusForCode maps application error codes to HTTP status codes.
func statusForCode(code string) int {
	switch code {
	case models.CodeMissingField, models.CodeWeakPassword,
		models.CodeValidation, models.CodeInvalidFileType,
		models.CodeInvalidFilename:
		return fiber.StatusBadRequest
	case models.CodeInvalidCredentials, models.CodeUnauthorized:
		return fiber.StatusUnauthorized
	case models.CodeForbidden:
		return fiber.StatusForbidden
	case models.CodeNotFound:
		return fiber.StatusNotFound
	case models.CodeDuplicateUsername, models.CodeDuplicateEmail:
		return fiber.StatusConflict
	case models.CodeFileTooLarge:
		return fiber.StatusRequestEntityTooLarge
	case models.CodeUnsupportedType:
		return fiber.StatusUnsupportedMediaType
	default:
		return fiber.StatusInternalServerError
	}
}

// respondServiceError writes the JSON error response for a service or
// repository error.
func respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, statusForCode(models.CodeOf(err)), err)
}
