package identity

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/carefull/carefull/internal/platform/auth"
)

// -- Mock Repository --

type mockRepo struct {
	users map[uuid.UUID]*User
}

func newMockRepo() *mockRepo {
	return &mockRepo{users: make(map[uuid.UUID]*User)}
}

func (m *mockRepo) Create(_ context.Context, u *User) error {
	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	m.users[u.ID] = u
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (m *mockRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

// -- Tests --

func newTestService() *Service {
	return NewService(newMockRepo(), auth.NewTokenIssuer("test-secret"))
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService()

	u, token, err := svc.Register(context.Background(), "Asha Rao", "asha@example.com", "secret123", "9876543210", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if token == "" || u.ID == uuid.Nil {
		t.Error("expected token and user id")
	}
	if u.Role != "user" {
		t.Errorf("expected default role user, got %q", u.Role)
	}
	if u.PasswordHash == "secret123" {
		t.Error("password stored in plain text")
	}

	got, loginToken, err := svc.Login(context.Background(), "asha@example.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if got.ID != u.ID || loginToken == "" {
		t.Error("unexpected login result")
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService()

	if _, _, err := svc.Register(context.Background(), "", "a@b.com", "pw", "", ""); err == nil {
		t.Error("expected error for missing name")
	}
	if _, _, err := svc.Register(context.Background(), "A", "a@b.com", "pw123456", "", "superuser"); err == nil {
		t.Error("expected error for invalid role")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestService()

	if _, _, err := svc.Register(context.Background(), "A", "dup@example.com", "pw123456", "", ""); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, _, err := svc.Register(context.Background(), "B", "DUP@example.com", "pw123456", "", "")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginFailures(t *testing.T) {
	svc := newTestService()
	_, _, _ = svc.Register(context.Background(), "A", "a@example.com", "rightpass", "", "")

	if _, _, err := svc.Login(context.Background(), "missing@example.com", "x"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "a@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad password: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestMe(t *testing.T) {
	svc := newTestService()
	u, _, _ := svc.Register(context.Background(), "A", "a@example.com", "pw123456", "", "pharmacist")

	got, err := svc.Me(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if got.Email != "a@example.com" || got.Role != "pharmacist" {
		t.Errorf("unexpected profile: %+v", got)
	}

	if _, err := svc.Me(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
