package service

import (
	"context"
	"path"
	"strings"

	"lattice/internal/media"
	"lattice/internal/models"
	"lattice/internal/repository"
)

// Aggregator exposes the derived feed indexes. *repository.AggregateCache
// satisfies it; tests swap in stubs.
type Aggregator interface {
	Categories(ctx context.Context) ([]string, error)
	PopularTags(ctx context.Context) ([]string, error)
}

type PostService struct {
	postRepo   repository.PostRepository
	aggregates Aggregator
	media      *media.Store
}

type CreatePostInput struct {
	UserID     uint
	Title      string
	Content    string
	Category   string
	Visibility string
	Tags       string

	// MediaFilename/MediaContent carry an optional upload.
	MediaFilename string
	MediaContent  []byte
}

type ListPostsInput struct {
	Category  string
	Search    string
	Tags      []string
	SortBy    string
	SortOrder string
	Page      int
	PerPage   int
	// ExcludeUserID drops that user's posts from the feed when non-zero.
	ExcludeUserID uint
}

// Feed is the list response envelope: one page of posts plus the cached
// aggregates so clients can render filters without extra round trips.
type Feed struct {
	Posts      []models.Post
	Total      int64
	Page       int
	PerPage    int
	Categories []string
	Tags       []string
}

// UpdatePostInput mirrors UpdateProfileInput's pointer convention: nil
// leaves a field unchanged.
type UpdatePostInput struct {
	UserID     uint
	PostID     uint
	Title      *string
	Content    *string
	Category   *string
	Visibility *string
	Tags       *string

	MediaFilename string
	MediaContent  []byte
	RemoveMedia   bool
}

func NewPostService(postRepo repository.PostRepository, aggregates Aggregator, mediaStore *media.Store) *PostService {
	return &PostService{
		postRepo:   postRepo,
		aggregates: aggregates,
		media:      mediaStore,
	}
}

// mediaURL maps a stored filename to the public path it is served under.
func mediaURL(storedName string) string {
	return "/uploads/" + storedName
}

func storedNameFromURL(url string) string {
	if url == "" {
		return ""
	}
	return path.Base(url)
}

// Create persists a new post. When an upload is attached the file is
// written before the database row, and removed again if the insert fails.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" {
		return nil, models.NewMissingFieldError("title")
	}
	if content == "" {
		return nil, models.NewMissingFieldError("content")
	}

	post := &models.Post{
		UserID:     in.UserID,
		Title:      title,
		Content:    content,
		Category:   strings.TrimSpace(in.Category),
		Visibility: in.Visibility,
		Tags:       normalizeTags(in.Tags),
	}

	var storedName string
	if len(in.MediaContent) > 0 {
		name, err := s.media.SavePostMedia(in.UserID, in.MediaFilename, in.MediaContent)
		if err != nil {
			return nil, err
		}
		storedName = name
		post.MediaURL = mediaURL(storedName)
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		if storedName != "" {
			s.media.Remove(storedName)
		}
		return nil, err
	}
	return post, nil
}

// normalizeTags trims whitespace around each comma-separated tag and drops
// empty entries.
func normalizeTags(raw string) string {
	if raw == "" {
		return ""
	}
	parts := strings.Split(raw, ",")
	tags := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return strings.Join(tags, ",")
}

// List returns one feed page plus the category and tag aggregates.
func (s *PostService) List(ctx context.Context, in ListPostsInput) (*Feed, error) {
	params := repository.ListPostsParams{
		Category:      in.Category,
		Search:        in.Search,
		Tags:          in.Tags,
		SortBy:        in.SortBy,
		SortOrder:     in.SortOrder,
		Page:          in.Page,
		PerPage:       in.PerPage,
		ExcludeUserID: in.ExcludeUserID,
	}
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PerPage < 1 {
		params.PerPage = repository.DefaultPageSize
	}

	posts, total, err := s.postRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	categories, err := s.aggregates.Categories(ctx)
	if err != nil {
		return nil, err
	}
	tags, err := s.aggregates.PopularTags(ctx)
	if err != nil {
		return nil, err
	}

	return &Feed{
		Posts:      posts,
		Total:      total,
		Page:       params.Page,
		PerPage:    params.PerPage,
		Categories: categories,
		Tags:       tags,
	}, nil
}

func (s *PostService) Get(ctx context.Context, postID uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, postID)
}

func (s *PostService) ListOwn(ctx context.Context, userID uint) ([]models.Post, error) {
	return s.postRepo.ListByUser(ctx, userID)
}

// Edit applies a partial update to a post the caller owns. Blanking title
// or content is rejected; a new upload replaces and deletes the previous
// file.
func (s *PostService) Edit(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if post.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, models.NewMissingFieldError("title")
		}
		post.Title = title
	}
	if in.Content != nil {
		content := strings.TrimSpace(*in.Content)
		if content == "" {
			return nil, models.NewMissingFieldError("content")
		}
		post.Content = content
	}
	if in.Category != nil {
		post.Category = strings.TrimSpace(*in.Category)
	}
	if in.Visibility != nil {
		post.Visibility = *in.Visibility
	}
	if in.Tags != nil {
		post.Tags = normalizeTags(*in.Tags)
	}

	previous := storedNameFromURL(post.MediaURL)
	var storedName string
	switch {
	case len(in.MediaContent) > 0:
		name, saveErr := s.media.SavePostMedia(in.UserID, in.MediaFilename, in.MediaContent)
		if saveErr != nil {
			return nil, saveErr
		}
		storedName = name
		post.MediaURL = mediaURL(storedName)
	case in.RemoveMedia:
		post.MediaURL = ""
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		if storedName != "" {
			s.media.Remove(storedName)
		}
		return nil, err
	}

	// The old file is deleted only after the row is committed, so a failed
	// update never orphans the post's media reference.
	if previous != "" && (storedName != "" || in.RemoveMedia) {
		s.media.Remove(previous)
	}
	return post, nil
}

// Delete removes a post the caller owns, along with its media file.
func (s *PostService) Delete(ctx context.Context, userID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != userID {
		return models.NewForbiddenError("You can only delete your own posts")
	}
	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return err
	}
	if name := storedNameFromURL(post.MediaURL); name != "" {
		s.media.Remove(name)
	}
	return nil
}

func (s *PostService) Categories(ctx context.Context) ([]string, error) {
	return s.aggregates.Categories(ctx)
}

func (s *PostService) PopularTags(ctx context.Context) ([]string, error) {
	return s.aggregates.PopularTags(ctx)
}
