package repository

import (
	"context"
	"testing"

	"lattice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateCache_Categories(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")

	for _, category := range []string{"Engineering", "Company", "Engineering", ""} {
		require.NoError(t, repo.Create(ctx, &models.Post{
			UserID: owner.ID, Title: "t", Content: "c", Category: category,
		}))
	}

	got, err := repo.Aggregates().Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Company", "Engineering"}, got)
}

func TestAggregateCache_PopularTags(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")

	require.NoError(t, repo.Create(ctx, &models.Post{UserID: owner.ID, Title: "a", Content: "c", Tags: "go,rust"}))
	require.NoError(t, repo.Create(ctx, &models.Post{UserID: owner.ID, Title: "b", Content: "c", Tags: "go"}))

	got, err := repo.Aggregates().PopularTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "rust"}, got)
}

func TestAggregateCache_PopularTags_TieBreak(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")

	require.NoError(t, repo.Create(ctx, &models.Post{UserID: owner.ID, Title: "a", Content: "c", Tags: "zig, ada"}))

	got, err := repo.Aggregates().PopularTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ada", "zig"}, got)
}

func TestAggregateCache_InvalidatedOnMutation(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")

	first := &models.Post{UserID: owner.ID, Title: "a", Content: "c", Category: "Alpha", Tags: "go"}
	require.NoError(t, repo.Create(ctx, first))

	categories, err := repo.Aggregates().Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha"}, categories)

	// Create invalidates, so the next read sees the new category.
	second := &models.Post{UserID: owner.ID, Title: "b", Content: "c", Category: "Beta", Tags: "rust"}
	require.NoError(t, repo.Create(ctx, second))

	categories, err = repo.Aggregates().Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta"}, categories)

	// Update invalidates too.
	second.Category = "Gamma"
	require.NoError(t, repo.Update(ctx, second))

	categories, err = repo.Aggregates().Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Gamma"}, categories)

	// And delete.
	require.NoError(t, repo.Delete(ctx, first.ID))

	categories, err = repo.Aggregates().Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gamma"}, categories)

	tags, err := repo.Aggregates().PopularTags(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"rust"}, tags)
}

func TestAggregateCache_ReturnsCopies(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")

	require.NoError(t, repo.Create(ctx, &models.Post{UserID: owner.ID, Title: "a", Content: "c", Category: "Alpha"}))

	first, err := repo.Aggregates().Categories(ctx)
	require.NoError(t, err)
	first[0] = "mutated"

	second, err := repo.Aggregates().Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha"}, second)
}
