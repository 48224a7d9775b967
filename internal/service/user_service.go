// Package service implements the business logic layer between the HTTP
// handlers and the repositories.
package service

import (
	"context"

	"lattice/internal/models"
	"lattice/internal/repository"
	"lattice/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo repository.UserRepository
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// UpdateProfileInput carries the optional profile fields. Nil means "leave
// unchanged"; a non-nil empty string clears the field.
type UpdateProfileInput struct {
	UserID     uint
	Title      *string
	Location   *string
	Bio        *string
	Skills     *string
	Experience *string
	Education  *string
	Phone      *string
	LinkedIn   *string
	GitHub     *string
	Twitter    *string
	Avatar     *string
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// Register creates a new account. Username and email are sanitized before
// any check, so whitespace or control characters never reach storage.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := validation.SanitizeIdentifier(in.Username)
	email := validation.SanitizeIdentifier(in.Email)

	if username == "" {
		return nil, models.NewMissingFieldError("username")
	}
	if email == "" {
		return nil, models.NewMissingFieldError("email")
	}
	if in.Password == "" {
		return nil, models.NewMissingFieldError("password")
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	if existing, err := s.userRepo.GetByUsername(ctx, username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewDuplicateUsernameError()
	}
	if existing, err := s.userRepo.GetByEmail(ctx, email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, models.NewDuplicateEmailError()
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate verifies an identifier/password pair. The identifier matches
// either username or email. Unknown identifier and wrong password both
// return the same invalid-credentials error so callers cannot probe which
// accounts exist.
func (s *UserService) Authenticate(ctx context.Context, identifier, password string) (*models.User, error) {
	identifier = validation.SanitizeIdentifier(identifier)
	if identifier == "" {
		return nil, models.NewMissingFieldError("identifier")
	}
	if password == "" {
		return nil, models.NewMissingFieldError("password")
	}

	user, err := s.userRepo.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewInvalidCredentialsError()
	}
	if cmpErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); cmpErr != nil {
		return nil, models.NewInvalidCredentialsError()
	}
	return user, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile validates every provided field before applying any of them,
// so a single invalid value rejects the whole update.
func (s *UserService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if err := validation.ValidateTitle(*in.Title); err != nil {
			return nil, err
		}
	}
	if in.Location != nil {
		if err := validation.ValidateLocation(*in.Location); err != nil {
			return nil, err
		}
	}
	if in.Bio != nil {
		if err := validation.ValidateBio(*in.Bio); err != nil {
			return nil, err
		}
	}
	if in.Phone != nil {
		if err := validation.ValidatePhone(*in.Phone); err != nil {
			return nil, err
		}
	}
	if in.LinkedIn != nil {
		if err := validation.ValidateProfileURL("linkedin", *in.LinkedIn); err != nil {
			return nil, err
		}
	}
	if in.GitHub != nil {
		if err := validation.ValidateProfileURL("github", *in.GitHub); err != nil {
			return nil, err
		}
	}
	if in.Twitter != nil {
		if err := validation.ValidateProfileURL("twitter", *in.Twitter); err != nil {
			return nil, err
		}
	}
	if in.Avatar != nil {
		if err := validation.ValidateAvatar(*in.Avatar); err != nil {
			return nil, err
		}
	}

	if in.Title != nil {
		user.Title = *in.Title
	}
	if in.Location != nil {
		user.Location = *in.Location
	}
	if in.Bio != nil {
		user.Bio = *in.Bio
	}
	if in.Skills != nil {
		user.Skills = *in.Skills
	}
	if in.Experience != nil {
		user.Experience = *in.Experience
	}
	if in.Education != nil {
		user.Education = *in.Education
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.LinkedIn != nil {
		user.LinkedIn = *in.LinkedIn
	}
	if in.GitHub != nil {
		user.GitHub = *in.GitHub
	}
	if in.Twitter != nil {
		user.Twitter = *in.Twitter
	}
	if in.Avatar != nil {
		user.Avatar = *in.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetAvatar records the stored avatar filename on the profile.
func (s *UserService) SetAvatar(ctx context.Context, userID uint, storedName string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Avatar = storedName
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
