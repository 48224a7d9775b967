package service

import (
	"context"

	"lattice/internal/models"
	"lattice/internal/repository"
)

// userRepoStub implements repository.UserRepository with swappable
// function fields so each test overrides only what it needs.
type userRepoStub struct {
	getByIDFn         func(ctx context.Context, id uint) (*models.User, error)
	getByIdentifierFn func(ctx context.Context, identifier string) (*models.User, error)
	getByUsernameFn   func(ctx context.Context, username string) (*models.User, error)
	getByEmailFn      func(ctx context.Context, email string) (*models.User, error)
	createFn          func(ctx context.Context, user *models.User) error
	updateFn          func(ctx context.Context, user *models.User) error
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		getByIdentifierFn: func(context.Context, string) (*models.User, error) { return nil, nil },
		getByUsernameFn:   func(context.Context, string) (*models.User, error) { return nil, nil },
		getByEmailFn:      func(context.Context, string) (*models.User, error) { return nil, nil },
		createFn:          func(context.Context, *models.User) error { return nil },
		updateFn:          func(context.Context, *models.User) error { return nil },
	}
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *userRepoStub) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return s.getByIdentifierFn(ctx, identifier)
}

func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}

func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}

func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}

// postRepoStub implements repository.PostRepository the same way.
type postRepoStub struct {
	createFn     func(ctx context.Context, post *models.Post) error
	getByIDFn    func(ctx context.Context, id uint) (*models.Post, error)
	listFn       func(ctx context.Context, params repository.ListPostsParams) ([]models.Post, int64, error)
	listByUserFn func(ctx context.Context, userID uint) ([]models.Post, error)
	updateFn     func(ctx context.Context, post *models.Post) error
	deleteFn     func(ctx context.Context, id uint) error
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(context.Context, *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id}, nil
		},
		listFn: func(context.Context, repository.ListPostsParams) ([]models.Post, int64, error) {
			return nil, 0, nil
		},
		listByUserFn: func(context.Context, uint) ([]models.Post, error) { return nil, nil },
		updateFn:     func(context.Context, *models.Post) error { return nil },
		deleteFn:     func(context.Context, uint) error { return nil },
	}
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}

func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}

func (s *postRepoStub) List(ctx context.Context, params repository.ListPostsParams) ([]models.Post, int64, error) {
	return s.listFn(ctx, params)
}

func (s *postRepoStub) ListByUser(ctx context.Context, userID uint) ([]models.Post, error) {
	return s.listByUserFn(ctx, userID)
}

func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}

func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func (s *postRepoStub) Aggregates() *repository.AggregateCache { return nil }

// aggregatorStub satisfies Aggregator with fixed values.
type aggregatorStub struct {
	categories []string
	tags       []string
	err        error
}

func (s *aggregatorStub) Categories(context.Context) ([]string, error) {
	return s.categories, s.err
}

func (s *aggregatorStub) PopularTags(context.Context) ([]string, error) {
	return s.tags, s.err
}
