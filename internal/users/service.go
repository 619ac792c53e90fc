package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"resume-analyzer/internal/shared/auth"
)

type credentials struct {
	Email    string `validate:"required,email,max=254"`
	Password string `validate:"required,max=72"`
}

type Service struct {
	Repo     Repo
	Hasher   auth.PasswordHasher
	validate *validator.Validate
	now      func() time.Time
}

func NewService(repo Repo, hasher auth.PasswordHasher) *Service {
	return &Service{Repo: repo, Hasher: hasher, validate: validator.New(), now: time.Now}
}

// Register creates a user with a bcrypt-hashed password. Emails are stored
// lower-cased and must be unique.
func (s *Service) Register(ctx context.Context, email, password string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	in := credentials{Email: strings.ToLower(strings.TrimSpace(email)), Password: password}
	if err := s.validator().Struct(in); err != nil {
		return User{}, fmt.Errorf("%w: %s", ErrInvalidInput, describe(err))
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	user := User{
		ID:             uuid.NewString(),
		Email:          in.Email,
		HashedPassword: hash,
		CreatedAt:      s.clock().UTC().Truncate(time.Microsecond),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Authenticate returns the user owning email when password matches. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}
	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if err := s.Hasher.Check(user.HashedPassword, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	return user, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if _, err := uuid.Parse(userID); err != nil {
		return User{}, ErrNotFound
	}
	return s.Repo.GetByID(ctx, userID)
}

func (s *Service) validator() *validator.Validate {
	if s.validate == nil {
		s.validate = validator.New()
	}
	return s.validate
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, strings.ToLower(fe.Field())+" is "+tagMessage(fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

func tagMessage(tag string) string {
	switch tag {
	case "required":
		return "required"
	case "email":
		return "not a valid email address"
	case "max":
		return "too long"
	default:
		return "invalid"
	}
}
