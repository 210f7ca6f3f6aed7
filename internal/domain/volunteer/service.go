package volunteer

import (
	"context"
	"errors"
	"fmt"

	"github.com/carefull/carefull/internal/platform/auth"
)

var (
	// ErrNotFound is returned when a volunteer does not exist.
	ErrNotFound = errors.New("volunteer not found")
	// ErrNameTaken is returned when registering under a name already in use.
	ErrNameTaken = errors.New("volunteer already registered")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a volunteer record. New volunteers start unverified;
// credential verification happens out of band before they are activated.
func (s *Service) Register(ctx context.Context, name string, specialties []string, password string) (*Volunteer, error) {
	if name == "" || password == "" {
		return nil, fmt.Errorf("name and password are required")
	}

	if _, err := s.repo.GetByName(ctx, name); err == nil {
		return nil, ErrNameTaken
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	if specialties == nil {
		specialties = []string{}
	}
	v := &Volunteer{
		Name:         name,
		Specialties:  specialties,
		PasswordHash: hash,
		Verified:     false,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// List returns all registered volunteers.
func (s *Service) List(ctx context.Context) ([]*Volunteer, error) {
	return s.repo.List(ctx)
}
