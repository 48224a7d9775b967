// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"lattice/internal/models"
	"lattice/internal/observability"

	"gorm.io/gorm"
)

// DefaultPageSize is the page size used when the caller does not supply one.
const DefaultPageSize = 10

// sortableFields enumerates the caller-selectable sort columns. Unknown sort
// names deliberately fall back to creation time instead of erroring.
var sortableFields = map[string]string{
	"created_at":  "created_at",
	"updated_at":  "updated_at",
	"likes_count": "likes_count",
	"views_count": "views_count",
	"title":       "title",
}

// ListPostsParams describes one parameterized feed query.
type ListPostsParams struct {
	// Category filters on exact category match when non-empty.
	Category string
	// ExcludeUserID drops posts owned by this user when non-zero.
	ExcludeUserID uint
	// Search matches a case-insensitive substring of title OR content.
	Search string
	// Tags are AND-combined case-insensitive substrings of the raw tag text.
	Tags []string
	// SortBy names a sortable field; unrecognized names sort by created_at.
	SortBy string
	// SortOrder is "asc" or "desc" (default).
	SortOrder string
	// Page is 1-indexed.
	Page    int
	PerPage int
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	// List returns one page of matching posts plus the total number of
	// matching rows before pagination.
	List(ctx context.Context, params ListPostsParams) ([]models.Post, int64, error)
	// ListByUser returns all posts of one owner, newest first.
	ListByUser(ctx context.Context, userID uint) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
	Aggregates() *AggregateCache
}

// postRepository implements PostRepository
type postRepository struct {
	db         *gorm.DB
	aggregates *AggregateCache
}

// NewPostRepository creates a new post repository with its derived-index cache.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{
		db:         db,
		aggregates: NewAggregateCache(db),
	}
}

func (r *postRepository) Aggregates() *AggregateCache {
	return r.aggregates
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if post.Visibility == "" {
		post.Visibility = models.DefaultVisibility
	}
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	// Invalidate before the caller can acknowledge the write.
	r.aggregates.Invalidate()
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Preload("User").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &post, nil
}

// applyFilters appends the WHERE clauses for one feed query.
func applyFilters(db *gorm.DB, params ListPostsParams) *gorm.DB {
	if params.Category != "" {
		db = db.Where("category = ?", params.Category)
	}
	if params.ExcludeUserID != 0 {
		db = db.Where("user_id <> ?", params.ExcludeUserID)
	}
	if params.Search != "" {
		like := "%" + strings.ToLower(params.Search) + "%"
		db = db.Where("(LOWER(title) LIKE ? OR LOWER(content) LIKE ?)", like, like)
	}
	// Tag matching is substring containment on the raw comma-joined text,
	// not a structured set match; every requested tag must be contained.
	for _, tag := range params.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		db = db.Where("LOWER(tags) LIKE ?", "%"+strings.ToLower(tag)+"%")
	}
	return db
}

func orderClause(params ListPostsParams) string {
	column, ok := sortableFields[params.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(params.SortOrder, "asc") {
		direction = "ASC"
	}
	return fmt.Sprintf("%s %s", column, direction)
}

func (r *postRepository) List(ctx context.Context, params ListPostsParams) ([]models.Post, int64, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.PerPage <= 0 {
		params.PerPage = DefaultPageSize
	}

	filtered := params.Category != "" || params.Search != "" || len(params.Tags) > 0
	observability.FeedQueries.WithLabelValues(strconv.FormatBool(filtered)).Inc()

	// Session makes base safely reusable for both the count and the page
	// query.
	base := applyFilters(r.db.WithContext(ctx).Model(&models.Post{}), params).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, models.NewInternalError(err)
	}

	var posts []models.Post
	err := base.
		Preload("User").
		Order(orderClause(params)).
		Limit(params.PerPage).
		Offset((params.Page - 1) * params.PerPage).
		Find(&posts).Error
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	return posts, total, nil
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	r.aggregates.Invalidate()
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	r.aggregates.Invalidate()
	return nil
}
