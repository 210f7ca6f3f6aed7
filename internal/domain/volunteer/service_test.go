package volunteer

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// -- Mock Repository --

type mockRepo struct {
	volunteers map[uuid.UUID]*Volunteer
	seq        []uuid.UUID
}

func newMockRepo() *mockRepo {
	return &mockRepo{volunteers: make(map[uuid.UUID]*Volunteer)}
}

func (m *mockRepo) Create(_ context.Context, v *Volunteer) error {
	v.ID = uuid.New()
	v.CreatedAt = time.Now()
	m.volunteers[v.ID] = v
	m.seq = append(m.seq, v.ID)
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Volunteer, error) {
	v, ok := m.volunteers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (m *mockRepo) GetByName(_ context.Context, name string) (*Volunteer, error) {
	for _, v := range m.volunteers {
		if strings.EqualFold(v.Name, name) {
			return v, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) List(_ context.Context) ([]*Volunteer, error) {
	var result []*Volunteer
	for _, id := range m.seq {
		result = append(result, m.volunteers[id])
	}
	return result, nil
}

// -- Tests --

func TestRegisterVolunteer(t *testing.T) {
	svc := NewService(newMockRepo())

	v, err := svc.Register(context.Background(), "Dr. Mehta", []string{"pediatrics"}, "secret123")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if v.ID == uuid.Nil || v.Verified {
		t.Errorf("expected an unverified volunteer with id, got %+v", v)
	}
	if v.PasswordHash == "secret123" {
		t.Error("password stored in plain text")
	}
	if len(v.Specialties) != 1 || v.Specialties[0] != "pediatrics" {
		t.Errorf("unexpected specialties: %v", v.Specialties)
	}
}

func TestRegisterVolunteerValidation(t *testing.T) {
	svc := NewService(newMockRepo())

	if _, err := svc.Register(context.Background(), "", nil, "pw"); err == nil {
		t.Error("expected error for missing name")
	}
	if _, err := svc.Register(context.Background(), "Dr. Mehta", nil, ""); err == nil {
		t.Error("expected error for missing password")
	}
}

func TestRegisterVolunteerDuplicateName(t *testing.T) {
	svc := NewService(newMockRepo())

	if _, err := svc.Register(context.Background(), "Dr. Mehta", nil, "pw123456"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), "dr. mehta", nil, "pw123456")
	if !errors.Is(err, ErrNameTaken) {
		t.Errorf("expected ErrNameTaken, got %v", err)
	}
}

func TestListVolunteers(t *testing.T) {
	svc := NewService(newMockRepo())
	_, _ = svc.Register(context.Background(), "Dr. Mehta", []string{"pediatrics"}, "pw123456")
	_, _ = svc.Register(context.Background(), "Dr. Rao", []string{"elderly care"}, "pw123456")

	volunteers, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(volunteers) != 2 || volunteers[0].Name != "Dr. Mehta" {
		t.Errorf("unexpected volunteers: %d", len(volunteers))
	}
}

// -- Handler tests --

func TestHandlerRegister(t *testing.T) {
	h := NewHandler(NewService(newMockRepo()))
	e := echo.New()

	body := `{"name":"Dr. Mehta","specialties":["pediatrics"],"password":"secret123"}`
	req := httptest.NewRequest(http.MethodPost, "/volunteers/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Message   string     `json:"message"`
		Volunteer *Volunteer `json:"volunteer"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Volunteer == nil || resp.Volunteer.Name != "Dr. Mehta" {
		t.Errorf("unexpected response: %s", rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "secret123") {
		t.Error("password leaked in response")
	}
}

func TestHandlerList(t *testing.T) {
	svc := NewService(newMockRepo())
	_, _ = svc.Register(context.Background(), "Dr. Mehta", nil, "pw123456")
	h := NewHandler(svc)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/volunteers", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.List(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Dr. Mehta") {
		t.Errorf("unexpected response: %d %s", rec.Code, rec.Body.String())
	}
}
