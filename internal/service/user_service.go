package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"unicode"

	dom "taskplanner/internal/domain"
	"taskplanner/internal/repo"
	"taskplanner/internal/utils"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// UserService handles registration and credential checks.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo}
}

type RegisterInput struct {
	Username        string
	Email           string
	FirstName       string
	LastName        string
	Password        string
	PasswordConfirm string
}

// Register creates a new user with a hashed password. Uniqueness of username
// and email is checked up front and backed by the unique constraints, whose
// violations map to the same field errors.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (dom.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	if in.Password != in.PasswordConfirm {
		return dom.User{}, NewValidationError("password", "The two password fields didn't match.")
	}
	if err := validatePassword(in.Password); err != nil {
		return dom.User{}, err
	}
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return dom.User{}, NewValidationError("username", "This username is already in use.")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return dom.User{}, err
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return dom.User{}, NewValidationError("email", "This email is already in use.")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return dom.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, dom.User{
		Username:     username,
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: string(hash),
	})
	if err != nil {
		// The existence checks above race with concurrent registrations;
		// the unique constraints are the real guard.
		if utils.IsPGUniqueViolation(err) {
			if strings.Contains(utils.PGConstraintName(err), "email") {
				return dom.User{}, NewValidationError("email", "This email is already in use.")
			}
			return dom.User{}, NewValidationError("username", "This username is already in use.")
		}
		return dom.User{}, err
	}
	log.Printf("user registered: %s (%s)", u.Username, u.Email)
	return u, nil
}

// Authenticate checks email and password; returns the user if valid.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (dom.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, NewValidationError("email", "No account found with this email.")
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, NewValidationError("password", "Incorrect password.")
	}
	return u, nil
}

// GetByID returns the user by id.
func (s *UserService) GetByID(ctx context.Context, id int64) (dom.User, error) {
	return s.repo.GetByID(ctx, id)
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return NewValidationError("password", "This password is too short. It must contain at least 8 characters.")
	}
	for _, r := range password {
		if !unicode.IsDigit(r) {
			return nil
		}
	}
	return NewValidationError("password", "This password is entirely numeric.")
}
