package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"lattice/internal/models"
	"lattice/internal/observability"

	"gorm.io/gorm"
)

// AggregateCache memoizes two derived indexes over the full post set: the
// sorted distinct category list and the popularity-ranked tag list. Both are
// recomputed lazily on first read after an invalidation. One mutex guards
// read, recompute and invalidate so a reader never observes a half-updated
// aggregate and a concurrent writer never loses an invalidation.
type AggregateCache struct {
	db *gorm.DB

	mu              sync.Mutex
	categories      []string
	categoriesValid bool
	tags            []string
	tagsValid       bool
}

// NewAggregateCache returns an empty cache over the given database.
func NewAggregateCache(db *gorm.DB) *AggregateCache {
	return &AggregateCache{db: db}
}

// Invalidate clears both cached aggregates. It is called synchronously by
// every successful post create, edit and delete before the mutating call
// returns to its caller.
func (c *AggregateCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = nil
	c.categoriesValid = false
	c.tags = nil
	c.tagsValid = false
}

// Categories returns the distinct non-empty category values across all
// posts, lexicographically sorted.
func (c *AggregateCache) Categories(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.categoriesValid {
		categories, err := c.computeCategories(ctx)
		if err != nil {
			return nil, err
		}
		c.categories = categories
		c.categoriesValid = true
		observability.AggregateRecomputes.WithLabelValues("categories").Inc()
	}

	// Hand out a copy so callers cannot mutate the memoized slice.
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out, nil
}

// PopularTags returns all distinct tags across all posts ordered by
// descending occurrence count. Ties are broken lexicographically ascending;
// that ordering is a behavioral contract relied on by clients.
func (c *AggregateCache) PopularTags(ctx context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.tagsValid {
		tags, err := c.computeTags(ctx)
		if err != nil {
			return nil, err
		}
		c.tags = tags
		c.tagsValid = true
		observability.AggregateRecomputes.WithLabelValues("tags").Inc()
	}

	out := make([]string, len(c.tags))
	copy(out, c.tags)
	return out, nil
}

func (c *AggregateCache) computeCategories(ctx context.Context) ([]string, error) {
	var categories []string
	err := c.db.WithContext(ctx).
		Model(&models.Post{}).
		Distinct("category").
		Where("category <> ''").
		Order("category ASC").
		Pluck("category", &categories).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return categories, nil
}

func (c *AggregateCache) computeTags(ctx context.Context) ([]string, error) {
	var rawTags []string
	err := c.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("tags <> ''").
		Pluck("tags", &rawTags).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	counts := make(map[string]int)
	for _, raw := range rawTags {
		for _, tag := range strings.Split(raw, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			counts[tag]++
		}
	}

	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	return tags, nil
}
