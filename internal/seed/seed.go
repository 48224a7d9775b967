// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"lattice/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password shared by every seeded account.
const DefaultPassword = "Password123!"

// Options controls seeder behavior.
type Options struct {
	// MaxDays bounds how far into the past generated timestamps spread.
	MaxDays int
}

// Seeder populates the database with generated users and posts.
type Seeder struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

var categories = []string{
	"Engineering", "Design", "Product", "Career", "Community",
}

var tagPool = []string{
	"go", "rust", "python", "react", "databases", "kubernetes",
	"hiring", "remote", "mentorship", "opensource", "testing",
}

// NewSeeder creates a Seeder bound to the provided database.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	if opts.MaxDays <= 0 {
		opts.MaxDays = 90
	}
	return &Seeder{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded rows. Posts go first to respect the foreign
// key on user_id.
func (s *Seeder) ClearAll() error {
	if err := s.db.Where("1 = 1").Delete(&models.Post{}).Error; err != nil {
		return fmt.Errorf("clearing posts: %w", err)
	}
	if err := s.db.Where("1 = 1").Delete(&models.User{}).Error; err != nil {
		return fmt.Errorf("clearing users: %w", err)
	}
	return nil
}

// randomPast returns a time up to MaxDays in the past.
func (s *Seeder) randomPast() time.Time {
	daysBack := s.rng.Intn(s.opts.MaxDays)
	hoursBack := s.rng.Intn(24)
	minsBack := s.rng.Intn(60)
	return time.Now().
		Add(-time.Duration(daysBack) * 24 * time.Hour).
		Add(-time.Duration(hoursBack) * time.Hour).
		Add(-time.Duration(minsBack) * time.Minute)
}

// BuildUser constructs a user with a populated profile but does not
// persist it.
func (s *Seeder) BuildUser(hashedPassword string) *models.User {
	return &models.User{
		Username:   fmt.Sprintf("%s%d", strings.ToLower(gofakeit.Username()), gofakeit.Number(100, 999)),
		Email:      gofakeit.Email(),
		Password:   hashedPassword,
		Title:      gofakeit.JobTitle(),
		Location:   fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.Country()),
		Bio:        gofakeit.Sentence(12),
		Skills:     strings.Join([]string{gofakeit.ProgrammingLanguage(), gofakeit.ProgrammingLanguage(), gofakeit.ProgrammingLanguage()}, ", "),
		Experience: fmt.Sprintf("%s at %s", gofakeit.JobTitle(), gofakeit.Company()),
		Education:  fmt.Sprintf("%s University", gofakeit.LastName()),
		Phone:      gofakeit.Phone(),
		LinkedIn:   fmt.Sprintf("https://linkedin.com/in/%s", gofakeit.Username()),
		GitHub:     fmt.Sprintf("https://github.com/%s", gofakeit.Username()),
		Twitter:    fmt.Sprintf("https://twitter.com/%s", gofakeit.Username()),
	}
}

// SeedUsers creates count users, all sharing DefaultPassword.
func (s *Seeder) SeedUsers(count int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hashing seed password: %w", err)
	}

	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		users = append(users, *s.BuildUser(string(hashed)))
	}
	if err := s.db.Create(&users).Error; err != nil {
		return nil, fmt.Errorf("creating users: %w", err)
	}
	return users, nil
}

// BuildPost constructs a post for the given author without persisting it.
func (s *Seeder) BuildPost(author *models.User) *models.Post {
	tagCount := 1 + s.rng.Intn(3)
	tags := make([]string, 0, tagCount)
	seen := make(map[string]bool)
	for len(tags) < tagCount {
		tag := tagPool[s.rng.Intn(len(tagPool))]
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	return &models.Post{
		UserID:     author.ID,
		Title:      gofakeit.Sentence(5),
		Content:    gofakeit.Paragraph(1, 3, 5, "\n"),
		Category:   categories[s.rng.Intn(len(categories))],
		Visibility: models.DefaultVisibility,
		Tags:       strings.Join(tags, ","),
		LikesCount: s.rng.Intn(200),
		ViewsCount: s.rng.Intn(2000),
		CreatedAt:  s.randomPast(),
	}
}

// SeedPosts creates count posts spread across the given authors.
func (s *Seeder) SeedPosts(authors []models.User, count int) ([]models.Post, error) {
	if len(authors) == 0 {
		return nil, fmt.Errorf("no authors to attribute posts to")
	}

	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		author := authors[s.rng.Intn(len(authors))]
		posts = append(posts, *s.BuildPost(&author))
	}
	if err := s.db.Create(&posts).Error; err != nil {
		return nil, fmt.Errorf("creating posts: %w", err)
	}
	return posts, nil
}
