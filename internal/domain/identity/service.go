package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/carefull/carefull/internal/platform/auth"
	"github.com/carefull/carefull/internal/platform/db"
)

var (
	// ErrNotFound is returned when a user does not exist.
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when registering with an email already in use.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	repo   Repository
	issuer *auth.TokenIssuer
}

func NewService(repo Repository, issuer *auth.TokenIssuer) *Service {
	return &Service{repo: repo, issuer: issuer}
}

// Register creates a user account and issues a session token. An empty role
// defaults to "user".
func (s *Service) Register(ctx context.Context, fullName, email, password, mobileNumber, role string) (*User, string, error) {
	if fullName == "" || email == "" || password == "" {
		return nil, "", fmt.Errorf("full name, email and password are required")
	}
	if role == "" {
		role = "user"
	}
	if !validRoles[role] {
		return nil, "", fmt.Errorf("invalid role: %s", role)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, "", err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	u := &User{FullName: fullName, Email: email, PasswordHash: hash, Role: role}
	if mobileNumber != "" {
		u.MobileNumber = &mobileNumber
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.issuer.Issue(u.ID.String(), u.Role, db.TenantFromContext(ctx))
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*User, string, error) {
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("email and password are required")
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !auth.CheckPassword(u.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(u.ID.String(), u.Role, db.TenantFromContext(ctx))
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Me returns the profile of the given user id.
func (s *Service) Me(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.GetByID(ctx, id)
}
