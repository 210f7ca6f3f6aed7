package inventory

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func TestHandlerLowStock(t *testing.T) {
	svc, repo, _, _, pharmacyID := newTestService()
	seedEntry(repo, pharmacyID, "Paracetamol", 1, 5, "s@medi.com")
	h := NewHandler(svc)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/inventory/low-stock/"+pharmacyID.String(), nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("pharmacyId")
	c.SetParamValues(pharmacyID.String())

	if err := h.LowStock(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "lowStockItems") || !strings.Contains(rec.Body.String(), "Paracetamol") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestHandlerLowStockUnknownPharmacy(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()

	other := uuid.New().String()
	req := httptest.NewRequest(http.MethodGet, "/inventory/low-stock/"+other, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("pharmacyId")
	c.SetParamValues(other)

	err := h.LowStock(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %v", err)
	}
}

func TestHandlerReorder(t *testing.T) {
	svc, repo, _, notifier, pharmacyID := newTestService()
	entry := seedEntry(repo, pharmacyID, "Paracetamol", 1, 5, "s@medi.com")
	h := NewHandler(svc)
	e := echo.New()

	body := fmt.Sprintf(`{"pharmacyId":%q,"drugId":%q,"quantityToAdd":25}`, pharmacyID, entry.MedicineID)
	req := httptest.NewRequest(http.MethodPost, "/inventory/reorder", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Reorder(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(notifier.calls) != 1 {
		t.Errorf("expected supplier email, got %d calls", len(notifier.calls))
	}
	if !strings.Contains(rec.Body.String(), "s@medi.com") {
		t.Errorf("confirmation should name the supplier: %s", rec.Body.String())
	}

	got, _ := repo.GetEntry(c.Request().Context(), pharmacyID, entry.MedicineID)
	if got.Quantity != 26 {
		t.Errorf("expected quantity 26, got %d", got.Quantity)
	}
}

// The older medicineId/quantity keys stay accepted as aliases.
func TestHandlerReorderLegacyKeys(t *testing.T) {
	svc, repo, _, notifier, pharmacyID := newTestService()
	entry := seedEntry(repo, pharmacyID, "Paracetamol", 1, 5, "s@medi.com")
	h := NewHandler(svc)
	e := echo.New()

	body := fmt.Sprintf(`{"pharmacyId":%q,"medicineId":%q,"quantity":25}`, pharmacyID, entry.MedicineID)
	req := httptest.NewRequest(http.MethodPost, "/inventory/reorder", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Reorder(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(notifier.calls) != 1 {
		t.Errorf("expected supplier email, got %d calls", len(notifier.calls))
	}
}

func TestHandlerReorderNotifyFailure(t *testing.T) {
	svc, repo, _, notifier, pharmacyID := newTestService()
	notifier.shouldFail = true
	entry := seedEntry(repo, pharmacyID, "Paracetamol", 1, 5, "s@medi.com")
	h := NewHandler(svc)
	e := echo.New()

	body := fmt.Sprintf(`{"pharmacyId":%q,"medicineId":%q,"quantity":25}`, pharmacyID, entry.MedicineID)
	req := httptest.NewRequest(http.MethodPost, "/inventory/reorder", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.Reorder(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadGateway {
		t.Errorf("expected 502, got %v", err)
	}
}

func TestHandlerUpdateStock(t *testing.T) {
	svc, _, _, _, pharmacyID := newTestService()
	h := NewHandler(svc)
	e := echo.New()

	body := fmt.Sprintf(`{"pharmacyId":%q,"medicineId":%q,"quantity":40}`, pharmacyID, uuid.New())
	req := httptest.NewRequest(http.MethodPut, "/inventory/stock", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.UpdateStock(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"quantity":40`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}
