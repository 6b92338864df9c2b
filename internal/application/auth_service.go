package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/taskhub/taskhub-api/internal/domain/entity"
	"github.com/taskhub/taskhub-api/internal/domain/repository"
	"github.com/taskhub/taskhub-api/pkg/helpers"
)

// dummyHash keeps the bcrypt comparison on the login path even when the
// account does not exist, so response timing does not reveal which emails
// are registered.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// AuthService orchestrates registration, login and profile lookup.
type AuthService struct {
	Repo       repository.UserRepository
	JWT        *helpers.JWTManager
	Logger     *logrus.Logger
	BcryptCost int
}

func NewAuthService(repo repository.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, bcryptCost int) *AuthService {
	return &AuthService{Repo: repo, JWT: jwt, Logger: logger, BcryptCost: bcryptCost}
}

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// Every storage write and lookup goes through this.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and issues a token for it. The duplicate check
// here is a fast path; the unique index behind the repository is the real
// guarantee, and its violation surfaces as ErrEmailTaken as well.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*entity.User, string, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)

	verr := &ValidationError{}
	if name == "" {
		verr.add("name", "is required")
	}
	if len(password) < 8 {
		verr.add("password", "must be at least 8 characters long")
	}
	if err := verr.orNil(); err != nil {
		return nil, "", err
	}

	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}

	hash, err := helpers.HashPassword(password, s.BcryptCost)
	if err != nil {
		return nil, "", err
	}

	u := &entity.User{Email: email, Name: name, PasswordHash: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	token, _, err := s.JWT.Generate(u.ID, u.Email)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return nil, "", err
	}
	return u, token, nil
}

// Login validates credentials and issues a token. Unknown email and wrong
// password produce the same error and the same amount of bcrypt work; a
// storage failure is not a credential failure and passes through.
func (s *AuthService) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	u, err := s.Repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, "", err
	}

	hash := dummyHash
	if err == nil {
		hash = u.PasswordHash
	}
	ok := helpers.CompareHashAndPassword(hash, password)
	if err != nil || !ok {
		return nil, "", ErrInvalidCredentials
	}

	token, _, err := s.JWT.Generate(u.ID, u.Email)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		}
		return nil, "", err
	}
	return u, token, nil
}

// GetProfile looks up the verified subject. A deleted account holding a still
// valid token resolves to ErrUserNotFound.
func (s *AuthService) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
