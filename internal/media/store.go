// Package media stores and serves uploaded avatar and post attachment files.
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"lattice/internal/models"
	"lattice/internal/observability"
)

const (
	// MaxAvatarBytes bounds avatar uploads to 5 MiB.
	MaxAvatarBytes int64 = 5 * 1024 * 1024
	// MaxPostMediaBytes bounds post attachments to 10 MiB.
	MaxPostMediaBytes int64 = 10 * 1024 * 1024
)

var (
	avatarExtensions = map[string]bool{
		"png": true, "jpg": true, "jpeg": true,
	}
	postMediaExtensions = map[string]bool{
		"png": true, "jpg": true, "jpeg": true, "gif": true,
		"mp4": true, "mov": true, "avi": true, "webm": true,
	}
	unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.\-]`)
)

// Store writes uploaded files into a single upload directory and resolves
// stored names back to paths for serving. The directory is created on demand.
type Store struct {
	dir string
	// now is swappable in tests so stored names are deterministic.
	now func() time.Time
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir, now: time.Now}
}

// Dir returns the upload directory path.
func (s *Store) Dir() string {
	return s.dir
}

// extension returns the lowercased filename extension without the dot.
func extension(filename string) string {
	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	return strings.ToLower(ext)
}

// sanitizeFilename reduces a client-supplied filename to a filesystem-safe
// token. Path separators and any other unsafe characters become underscores.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

func (s *Store) write(storedName string, content []byte) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return models.NewInternalError(err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, storedName), content, 0o644); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// SaveAvatar validates and stores an avatar upload, returning the stored
// filename. Accepted extensions are png, jpg and jpeg; uploads over
// MaxAvatarBytes are rejected. The stored name is {userID}_{unixSeconds}.{ext}.
func (s *Store) SaveAvatar(userID uint, originalFilename string, content []byte) (string, error) {
	ext := extension(originalFilename)
	if !avatarExtensions[ext] {
		return "", models.NewInvalidFileTypeError(originalFilename)
	}
	if int64(len(content)) > MaxAvatarBytes {
		return "", models.NewFileTooLargeError(MaxAvatarBytes)
	}

	storedName := sanitizeFilename(fmt.Sprintf("%d_%d.%s", userID, s.now().Unix(), ext))
	if err := s.write(storedName, content); err != nil {
		return "", err
	}
	observability.MediaUploadBytes.WithLabelValues("avatar").Observe(float64(len(content)))
	return storedName, nil
}

// SavePostMedia validates and stores a post attachment, returning the stored
// filename. The stored name is {userID}_{unixSeconds}_{sanitizedOriginal}.
func (s *Store) SavePostMedia(userID uint, originalFilename string, content []byte) (string, error) {
	ext := extension(originalFilename)
	if !postMediaExtensions[ext] {
		return "", models.NewInvalidFileTypeError(originalFilename)
	}
	if int64(len(content)) > MaxPostMediaBytes {
		return "", models.NewFileTooLargeError(MaxPostMediaBytes)
	}

	storedName := sanitizeFilename(fmt.Sprintf("%d_%d_%s", userID, s.now().Unix(), originalFilename))
	if err := s.write(storedName, content); err != nil {
		return "", err
	}
	observability.MediaUploadBytes.WithLabelValues("post").Observe(float64(len(content)))
	return storedName, nil
}

// Remove deletes a stored file. Removal is best effort: a missing file or a
// filesystem error is not surfaced to the caller.
func (s *Store) Remove(storedName string) {
	if storedName == "" {
		return
	}
	_ = os.Remove(filepath.Join(s.dir, storedName))
}

// Resolve validates a requested filename and returns the on-disk path for
// serving. Names containing path traversal are rejected outright, absent
// files map to NOT_FOUND, and extensions outside the servable allow-list are
// refused even if the file exists.
func (s *Store) Resolve(filename string) (string, error) {
	if filename == "" ||
		strings.Contains(filename, "..") ||
		strings.ContainsAny(filename, `/\`) {
		return "", models.NewInvalidFilenameError()
	}

	path := filepath.Join(s.dir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", models.NewNotFoundError("File", filename)
	}

	if !postMediaExtensions[extension(filename)] {
		return "", models.NewUnsupportedTypeError(filename)
	}
	return path, nil
}
