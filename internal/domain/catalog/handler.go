package catalog

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carefull/carefull/internal/platform/auth"
	"github.com/carefull/carefull/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/medicines", h.ListMedicines)
	api.GET("/medicines/search", h.SearchMedicines)
	api.GET("/medicines/manufacturers", h.ListWithManufacturer)
	api.GET("/medicines/:id", h.GetMedicine)

	// Write endpoints are restricted to pharmacists.
	writeGroup := api.Group("", auth.RequireRole("pharmacist"))
	writeGroup.POST("/medicines", h.AddMedicine)
	writeGroup.PUT("/medicines/:id", h.UpdateMedicine)
	writeGroup.DELETE("/medicines/:id", h.DeleteMedicine)
}

func (h *Handler) AddMedicine(c echo.Context) error {
	var m Medicine
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.AddMedicine(c.Request().Context(), &m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *Handler) GetMedicine(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	m, err := h.svc.GetMedicine(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) ListMedicines(c echo.Context) error {
	pg := pagination.FromContext(c)
	meds, total, err := h.svc.ListMedicines(c.Request().Context(), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if meds == nil {
		meds = []*Medicine{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(meds, total, pg.Limit, pg.Offset))
}

func (h *Handler) SearchMedicines(c echo.Context) error {
	pg := pagination.FromContext(c)
	meds, total, err := h.svc.SearchMedicines(c.Request().Context(), c.QueryParam("q"), pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if meds == nil {
		meds = []*Medicine{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(meds, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListWithManufacturer(c echo.Context) error {
	summaries, err := h.svc.ListWithManufacturer(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if summaries == nil {
		summaries = []*MedicineSummary{}
	}
	return c.JSON(http.StatusOK, summaries)
}

func (h *Handler) UpdateMedicine(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var m Medicine
	if err := c.Bind(&m); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	m.ID = id
	if err := h.svc.UpdateMedicine(c.Request().Context(), &m); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, m)
}

func (h *Handler) DeleteMedicine(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteMedicine(c.Request().Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "medicine not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	return c.NoContent(http.StatusNoContent)
}
