package user

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/SuwethaV/bookreview/pkg/errors"
)

const defaultBcryptCost = 12

var (
	ErrInvalidEmail = apperrors.New(apperrors.ErrCodeInvalidParams, "invalid email address")
	ErrInvalidName  = apperrors.New(apperrors.ErrCodeInvalidParams, "name must be 2-50 characters")

	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	hasLetter    = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit     = regexp.MustCompile(`[0-9]`)
)

// Service holds the account rules.
type Service interface {
	Register(ctx context.Context, name, email, password string) (*User, error)

	// Login returns ErrUserNotFound or ErrInvalidPassword on failure.
	Login(ctx context.Context, email, password string) (*User, error)

	ValidatePassword(hashedPassword, plainPassword string) error

	GetByID(ctx context.Context, id string) (*User, error)

	UpdateProfile(ctx context.Context, id, name, avatar string) (*User, error)
}

type service struct {
	repo Repository
	cost int
}

// NewService creates the account service.
func NewService(repo Repository) Service {
	return NewServiceWithCost(repo, defaultBcryptCost)
}

// NewServiceWithCost sets the bcrypt cost. Tests use bcrypt.MinCost.
func NewServiceWithCost(repo Repository, cost int) Service {
	return &service{repo: repo, cost: cost}
}

// Register validates and stores a new account.
// Email uniqueness is enforced by the store's unique index, not a pre-check.
func (s *service) Register(ctx context.Context, name, email, password string) (*User, error) {
	// 1. email
	email = NormalizeEmail(email)
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}

	// 2. password strength
	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	// 3. name
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	// 4. hash
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to hash password")
	}

	// 5. persist
	user := NewUser(name, email, string(hashed))
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}

	if err := s.ValidatePassword(user.Password, password); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "failed to verify password")
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, id string) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) UpdateProfile(ctx context.Context, id, name, avatar string) (*User, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.UpdateProfile(name, strings.TrimSpace(avatar))
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// NormalizeEmail lowercases and trims.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 2 || n > 50 {
		return ErrInvalidName
	}
	return nil
}

// validatePasswordStrength: 8-20 chars with at least one letter and one digit.
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return apperrors.ErrWeakPassword
	}
	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return apperrors.ErrWeakPassword
	}
	return nil
}
