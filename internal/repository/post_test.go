package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"lattice/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_CreateDefaults(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")

	post := &models.Post{UserID: owner.ID, Title: "Hi", Content: "World"}
	require.NoError(t, repo.Create(ctx, post))

	stored, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultVisibility, stored.Visibility)
	assert.Equal(t, 0, stored.LikesCount)
	assert.Equal(t, 0, stored.ViewsCount)
	assert.False(t, stored.CreatedAt.IsZero())
}

func TestPostRepository_GetByID_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostRepository(db)

	_, err := repo.GetByID(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.CodeOf(err))
}

func TestPostRepository_List(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	posts := []models.Post{
		{UserID: alice.ID, Title: "Go generics deep dive", Content: "type parameters", Category: "Engineering", Tags: "go,generics", CreatedAt: base.Add(1 * time.Hour)},
		{UserID: alice.ID, Title: "Hiring update", Content: "we are growing", Category: "Company", Tags: "hiring", CreatedAt: base.Add(2 * time.Hour)},
		{UserID: bob.ID, Title: "Rust vs Go", Content: "a friendly comparison of Go and Rust", Category: "Engineering", Tags: "go,rust", CreatedAt: base.Add(3 * time.Hour)},
		{UserID: bob.ID, Title: "Coffee chat", Content: "office culture", Category: "", Tags: "", CreatedAt: base.Add(4 * time.Hour)},
	}
	for i := range posts {
		require.NoError(t, repo.Create(ctx, &posts[i]))
	}

	t.Run("no filters returns all newest first", func(t *testing.T) {
		got, total, err := repo.List(ctx, ListPostsParams{})
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
		require.Len(t, got, 4)
		assert.Equal(t, "Coffee chat", got[0].Title)
		assert.Equal(t, "Go generics deep dive", got[3].Title)
	})

	t.Run("category filter is exact", func(t *testing.T) {
		got, total, err := repo.List(ctx, ListPostsParams{Category: "Engineering"})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Len(t, got, 2)
	})

	t.Run("exclude owner", func(t *testing.T) {
		got, total, err := repo.List(ctx, ListPostsParams{ExcludeUserID: alice.ID})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		for _, p := range got {
			assert.NotEqual(t, alice.ID, p.UserID)
		}
	})

	t.Run("search matches title or content case-insensitively", func(t *testing.T) {
		got, total, err := repo.List(ctx, ListPostsParams{Search: "GO"})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		titles := []string{got[0].Title, got[1].Title}
		assert.Contains(t, titles, "Go generics deep dive")
		assert.Contains(t, titles, "Rust vs Go")
	})

	t.Run("tags are AND-combined substrings", func(t *testing.T) {
		_, total, err := repo.List(ctx, ListPostsParams{Tags: []string{"go", "rust"}})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)

		_, total, err = repo.List(ctx, ListPostsParams{Tags: []string{"go"}})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
	})

	t.Run("sort by title ascending", func(t *testing.T) {
		got, _, err := repo.List(ctx, ListPostsParams{SortBy: "title", SortOrder: "asc"})
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, "Coffee chat", got[0].Title)
		assert.Equal(t, "Rust vs Go", got[3].Title)
	})

	t.Run("unknown sort field falls back to created_at", func(t *testing.T) {
		got, _, err := repo.List(ctx, ListPostsParams{SortBy: "likes; DROP TABLE posts"})
		require.NoError(t, err)
		require.Len(t, got, 4)
		assert.Equal(t, "Coffee chat", got[0].Title)
	})

	t.Run("idempotent for identical parameters", func(t *testing.T) {
		params := ListPostsParams{Category: "Engineering", SortBy: "title", SortOrder: "asc"}
		first, firstTotal, err := repo.List(ctx, params)
		require.NoError(t, err)
		second, secondTotal, err := repo.List(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, firstTotal, secondTotal)
		require.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].ID, second[i].ID)
		}
	})
}

func TestPostRepository_Pagination(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "paginator")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	const total = 7
	for i := 0; i < total; i++ {
		require.NoError(t, repo.Create(ctx, &models.Post{
			UserID:    owner.ID,
			Title:     fmt.Sprintf("post %d", i),
			Content:   "content",
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	const perPage = 3
	var collected []uint
	for page := 1; ; page++ {
		got, gotTotal, err := repo.List(ctx, ListPostsParams{Page: page, PerPage: perPage})
		require.NoError(t, err)
		assert.EqualValues(t, total, gotTotal)
		if len(got) == 0 {
			break
		}
		for _, p := range got {
			collected = append(collected, p.ID)
		}
		if page > total {
			t.Fatal("pagination did not terminate")
		}
	}

	// ceil(7/3) = 3 pages concatenate to the full result set without
	// duplicates or omissions.
	require.Len(t, collected, total)
	seen := make(map[uint]bool)
	for _, id := range collected {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
}

func TestPostRepository_ListByUser(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, &models.Post{UserID: alice.ID, Title: "older", Content: "c", CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, &models.Post{UserID: alice.ID, Title: "newer", Content: "c", CreatedAt: base.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &models.Post{UserID: bob.ID, Title: "not mine", Content: "c", CreatedAt: base.Add(2 * time.Hour)}))

	got, err := repo.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "newer", got[0].Title)
	assert.Equal(t, "older", got[1].Title)
}

func TestPostRepository_Delete(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner")

	post := &models.Post{UserID: owner.ID, Title: "t", Content: "c"}
	require.NoError(t, repo.Create(ctx, post))
	require.NoError(t, repo.Delete(ctx, post.ID))

	_, err := repo.GetByID(ctx, post.ID)
	require.Error(t, err)
	assert.Equal(t, models.CodeNotFound, models.CodeOf(err))
}
