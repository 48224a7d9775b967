package server

import (
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"lattice/internal/models"
	"lattice/internal/service"

	"github.com/gofiber/fiber/v2"
)

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm)
}

// readFormFile reads an optional multipart file field. An absent field
// returns empty content and no error.
func readFormFile(c *fiber.Ctx, field string) (filename string, content []byte, err error) {
	var fileHeader *multipart.FileHeader
	fileHeader, err = c.FormFile(field)
	if err != nil {
		return "", nil, nil
	}

	var file multipart.File
	file, err = fileHeader.Open()
	if err != nil {
		return "", nil, models.NewValidationError("Could not read uploaded file")
	}
	defer file.Close()

	content, err = io.ReadAll(file)
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	return fileHeader.Filename, content, nil
}

// CreatePost handles POST /api/posts. The body is either JSON or, when an
// attachment is included, a multipart form with a "media" file field.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	in := service.CreatePostInput{UserID: currentUserID(c)}

	if isMultipart(c) {
		in.Title = c.FormValue("title")
		in.Content = c.FormValue("content")
		in.Category = c.FormValue("category")
		in.Visibility = c.FormValue("visibility")
		in.Tags = c.FormValue("tags")

		filename, content, err := readFormFile(c, "media")
		if err != nil {
			return respondServiceError(c, err)
		}
		in.MediaFilename = filename
		in.MediaContent = content
	} else {
		var req struct {
			Title      string `json:"title"`
			Content    string `json:"content"`
			Category   string `json:"category"`
			Visibility string `json:"visibility"`
			Tags       string `json:"tags"`
		}
		if err := c.BodyParser(&req); err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
		in.Title = req.Title
		in.Content = req.Content
		in.Category = req.Category
		in.Visibility = req.Visibility
		in.Tags = req.Tags
	}

	post, err := s.postService.Create(c.Context(), in)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPosts handles GET /api/posts: one feed page plus the category and tag
// aggregates. The exclude_user_id query param drops that user's posts; when
// absent the feed includes every author.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	pagination := parsePagination(c)

	var tags []string
	if raw := c.Query("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	var excludeUserID uint
	if raw := c.Query("exclude_user_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid exclude_user_id"))
		}
		excludeUserID = uint(id)
	}

	feed, err := s.postService.List(c.Context(), service.ListPostsInput{
		Category:      c.Query("category"),
		Search:        c.Query("search"),
		Tags:          tags,
		SortBy:        c.Query("sort_by"),
		SortOrder:     c.Query("sort_order"),
		Page:          pagination.Page,
		PerPage:       pagination.PerPage,
		ExcludeUserID: excludeUserID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}

	posts := feed.Posts
	if posts == nil {
		posts = []models.Post{}
	}
	categories := feed.Categories
	if categories == nil {
		categories = []string{}
	}
	popularTags := feed.Tags
	if popularTags == nil {
		popularTags = []string{}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"posts":      posts,
		"total":      feed.Total,
		"page":       feed.Page,
		"per_page":   feed.PerPage,
		"categories": categories,
		"tags":       popularTags,
	})
}

// GetMyPosts handles GET /api/my-posts, newest first.
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListOwn(c.Context(), currentUserID(c))
	if err != nil {
		return respondServiceError(c, err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"posts": posts})
}

// UpdatePost handles PUT /api/posts/:id. Only the post's owner may edit it.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	in := service.UpdatePostInput{UserID: currentUserID(c), PostID: postID}

	if isMultipart(c) {
		formPtr := func(field string) *string {
			if form, formErr := c.MultipartForm(); formErr == nil {
				if values, ok := form.Value[field]; ok && len(values) > 0 {
					return &values[0]
				}
			}
			return nil
		}
		in.Title = formPtr("title")
		in.Content = formPtr("content")
		in.Category = formPtr("category")
		in.Visibility = formPtr("visibility")
		in.Tags = formPtr("tags")
		in.RemoveMedia, _ = strconv.ParseBool(c.FormValue("remove_media"))

		filename, content, fileErr := readFormFile(c, "media")
		if fileErr != nil {
			return respondServiceError(c, fileErr)
		}
		in.MediaFilename = filename
		in.MediaContent = content
	} else {
		var req struct {
			Title       *string `json:"title"`
			Content     *string `json:"content"`
			Category    *string `json:"category"`
			Visibility  *string `json:"visibility"`
			Tags        *string `json:"tags"`
			RemoveMedia bool    `json:"remove_media"`
		}
		if parseErr := c.BodyParser(&req); parseErr != nil {
			return models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Invalid request body"))
		}
		in.Title = req.Title
		in.Content = req.Content
		in.Category = req.Category
		in.Visibility = req.Visibility
		in.Tags = req.Tags
		in.RemoveMedia = req.RemoveMedia
	}

	post, serviceErr := s.postService.Edit(c.Context(), in)
	if serviceErr != nil {
		return respondServiceError(c, serviceErr)
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

// DeletePost handles DELETE /api/posts/:id. Only the post's owner may
// delete it.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.Delete(c.Context(), currentUserID(c), postID); err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post deleted successfully",
	})
}

// GetPostCategories handles GET /api/posts/categories.
func (s *Server) GetPostCategories(c *fiber.Ctx) error {
	categories, err := s.postService.Categories(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	if categories == nil {
		categories = []string{}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"categories": categories})
}

// GetPopularTags handles GET /api/posts/popular-tags.
func (s *Server) GetPopularTags(c *fiber.Ctx) error {
	tags, err := s.postService.PopularTags(c.Context())
	if err != nil {
		return respondServiceError(c, err)
	}
	if tags == nil {
		tags = []string{}
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"tags": tags})
}
