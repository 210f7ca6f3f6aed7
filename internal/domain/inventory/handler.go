package inventory

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carefull/carefull/internal/domain/pharmacy"
	"github.com/carefull/carefull/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole("pharmacist"))
	g.GET("/inventory", h.ListInventory)
	g.GET("/inventory/low-stock/:pharmacyId", h.LowStock)
	g.POST("/inventory/reorder", h.Reorder)
	g.PUT("/inventory/stock", h.UpdateStock)
}

func (h *Handler) LowStock(c echo.Context) error {
	pharmacyID, err := uuid.Parse(c.Param("pharmacyId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pharmacy id")
	}

	report, err := h.svc.LowStock(c.Request().Context(), pharmacyID)
	if err != nil {
		if errors.Is(err, pharmacy.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "pharmacy not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, report)
}

// reorderRequest accepts both the documented keys (drugId, quantityToAdd)
// and the older medicineId/quantity aliases.
type reorderRequest struct {
	PharmacyID    string `json:"pharmacyId"`
	DrugID        string `json:"drugId"`
	MedicineID    string `json:"medicineId"`
	QuantityToAdd int    `json:"quantityToAdd"`
	Quantity      int    `json:"quantity"`
}

func (r reorderRequest) drugID() string {
	if r.DrugID != "" {
		return r.DrugID
	}
	return r.MedicineID
}

func (r reorderRequest) quantity() int {
	if r.QuantityToAdd != 0 {
		return r.QuantityToAdd
	}
	return r.Quantity
}

func (h *Handler) Reorder(c echo.Context) error {
	var req reorderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pharmacyID, err := h.resolvePharmacyID(c, req.PharmacyID)
	if err != nil {
		return err
	}
	medicineID, err := uuid.Parse(req.drugID())
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid drug id")
	}

	entry, err := h.svc.Reorder(c.Request().Context(), pharmacyID, medicineID, req.quantity())
	if err != nil {
		switch {
		case errors.Is(err, pharmacy.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "pharmacy not found")
		case errors.Is(err, ErrEntryNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "inventory entry not found")
		case errors.Is(err, ErrNotifyFailed):
			return echo.NewHTTPError(http.StatusBadGateway, "supplier notification failed")
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": fmt.Sprintf("order placed with %s and stock updated", entry.SupplierEmail),
	})
}

type updateStockRequest struct {
	PharmacyID string `json:"pharmacyId"`
	MedicineID string `json:"medicineId"`
	Quantity   int    `json:"quantity"`
}

func (h *Handler) UpdateStock(c echo.Context) error {
	var req updateStockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	pharmacyID, err := h.resolvePharmacyID(c, req.PharmacyID)
	if err != nil {
		return err
	}
	medicineID, err := uuid.Parse(req.MedicineID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid medicine id")
	}

	entry, err := h.svc.UpdateStock(c.Request().Context(), pharmacyID, medicineID, req.Quantity)
	if err != nil {
		if errors.Is(err, pharmacy.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "pharmacy not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, entry)
}

func (h *Handler) ListInventory(c echo.Context) error {
	pharmacyID, err := h.resolvePharmacyID(c, c.QueryParam("pharmacyId"))
	if err != nil {
		return err
	}

	entries, err := h.svc.ListByPharmacy(c.Request().Context(), pharmacyID)
	if err != nil {
		if errors.Is(err, pharmacy.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "pharmacy not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if entries == nil {
		entries = []*Entry{}
	}
	return c.JSON(http.StatusOK, entries)
}

// resolvePharmacyID prefers an explicit pharmacy id and falls back to the
// token subject.
func (h *Handler) resolvePharmacyID(c echo.Context, explicit string) (uuid.UUID, error) {
	raw := explicit
	if raw == "" {
		raw = auth.UserIDFromContext(c.Request().Context())
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid pharmacy id")
	}
	return id, nil
}
