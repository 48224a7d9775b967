package server

import (
	"lattice/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// ServeUpload handles GET /uploads/:filename. The store resolves the name,
// rejecting traversal attempts and extensions it never writes.
func (s *Server) ServeUpload(c *fiber.Ctx) error {
	path, err := s.media.Resolve(c.Params("filename"))
	if err != nil {
		return respondServiceError(c, err)
	}
	observability.MediaServes.Inc()
	return c.SendFile(path)
}
