package media

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lattice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "uploads"))
	s.now = func() time.Time { return time.Unix(1700000000, 0) }
	return s
}

func TestSaveAvatar(t *testing.T) {
	t.Parallel()

	t.Run("stores with deterministic name", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)
		name, err := s.SaveAvatar(7, "me.PNG", []byte("png-bytes"))
		require.NoError(t, err)
		assert.Equal(t, "7_1700000000.png", name)

		content, err := os.ReadFile(filepath.Join(s.Dir(), name))
		require.NoError(t, err)
		assert.Equal(t, []byte("png-bytes"), content)
	})

	t.Run("rejects disallowed extension", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)
		for _, filename := range []string{"har.gif", "movie.mp4", "doc.pdf", "noext"} {
			_, err := s.SaveAvatar(1, filename, []byte("x"))
			require.Error(t, err, filename)
			assert.Equal(t, models.CodeInvalidFileType, models.CodeOf(err), filename)
		}
	})

	t.Run("rejects oversized upload", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)
		_, err := s.SaveAvatar(1, "big.jpg", make([]byte, MaxAvatarBytes+1))
		require.Error(t, err)
		assert.Equal(t, models.CodeFileTooLarge, models.CodeOf(err))
	})
}

func TestSavePostMedia(t *testing.T) {
	t.Parallel()

	t.Run("keeps sanitized original name", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)
		name, err := s.SavePostMedia(3, "my clip (1).mp4", []byte("vid"))
		require.NoError(t, err)
		assert.Equal(t, "3_1700000000_my_clip__1_.mp4", name)
	})

	t.Run("strips path components from original name", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)
		name, err := s.SavePostMedia(3, "../../etc/passwd.png", []byte("x"))
		require.NoError(t, err)
		assert.NotContains(t, name, "/")
		assert.NotContains(t, name, "..")
	})

	t.Run("accepts video extensions", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)
		for _, filename := range []string{"a.gif", "b.mov", "c.webm", "d.avi"} {
			_, err := s.SavePostMedia(1, filename, []byte("x"))
			assert.NoError(t, err, filename)
		}
	})

	t.Run("rejects oversized upload", func(t *testing.T) {
		t.Parallel()
		s := newTestStore(t)
		_, err := s.SavePostMedia(1, "big.mp4", make([]byte, MaxPostMediaBytes+1))
		require.Error(t, err)
		assert.Equal(t, models.CodeFileTooLarge, models.CodeOf(err))
	})
}

func TestRemove(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	name, err := s.SavePostMedia(1, "gone.png", []byte("x"))
	require.NoError(t, err)

	s.Remove(name)
	_, statErr := os.Stat(filepath.Join(s.Dir(), name))
	assert.True(t, os.IsNotExist(statErr))

	// Removing again (or removing a name that never existed) is silent.
	s.Remove(name)
	s.Remove("never-existed.png")
	s.Remove("")
}

func TestResolve(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	stored, err := s.SavePostMedia(2, "pic.jpeg", []byte("x"))
	require.NoError(t, err)

	t.Run("serves stored file", func(t *testing.T) {
		path, err := s.Resolve(stored)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(s.Dir(), stored), path)
	})

	t.Run("rejects traversal", func(t *testing.T) {
		for _, filename := range []string{"../secret.png", "a/../../b.png", `a\b.png`, "..", ""} {
			_, err := s.Resolve(filename)
			require.Error(t, err, fmt.Sprintf("filename %q", filename))
			assert.Equal(t, models.CodeInvalidFilename, models.CodeOf(err))
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := s.Resolve("absent.png")
		require.Error(t, err)
		assert.Equal(t, models.CodeNotFound, models.CodeOf(err))
	})

	t.Run("unsupported extension", func(t *testing.T) {
		// Write a file with a non-servable extension directly.
		require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.txt"), []byte("x"), 0o644))
		_, err := s.Resolve("notes.txt")
		require.Error(t, err)
		assert.Equal(t, models.CodeUnsupportedType, models.CodeOf(err))
	})
}
