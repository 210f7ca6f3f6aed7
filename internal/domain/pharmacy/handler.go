package pharmacy

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/carefull/carefull/internal/domain/catalog"
	"github.com/carefull/carefull/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/pharmacies/register", h.Register)
	api.POST("/pharmacies/login", h.Login)

	pharmacistGroup := api.Group("", auth.RequireRole("pharmacist"))
	pharmacistGroup.GET("/pharmacies/suppliers", h.Suppliers)
	pharmacistGroup.POST("/pharmacies/onboarding", h.SaveOnboarding)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Location string `json:"location"`
}

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, token, err := h.svc.Register(c.Request().Context(), req.Name, req.Email, req.Password, req.Location)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":    "pharmacy registered successfully",
		"token":      token,
		"pharmacist": p,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	p, token, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":    "login successful",
		"token":      token,
		"pharmacist": p,
	})
}

func (h *Handler) Suppliers(c echo.Context) error {
	pharmacyID, err := requesterPharmacyID(c)
	if err != nil {
		return err
	}

	suppliers, err := h.svc.Suppliers(c.Request().Context(), pharmacyID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "pharmacy not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if suppliers == nil {
		suppliers = []*Supplier{}
	}
	return c.JSON(http.StatusOK, suppliers)
}

type onboardingRequest struct {
	SupplierName  string `json:"supplierName"`
	SupplierEmail string `json:"supplierEmail"`
	DrugName      string `json:"drugName"`
	Manufacturer  string `json:"manufacturer"`
}

func (h *Handler) SaveOnboarding(c echo.Context) error {
	pharmacyID, err := requesterPharmacyID(c)
	if err != nil {
		return err
	}

	var req onboardingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = h.svc.SaveOnboardingSelection(c.Request().Context(), pharmacyID,
		req.SupplierName, req.SupplierEmail, req.DrugName, req.Manufacturer)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "pharmacy not found")
		case errors.Is(err, catalog.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "drug not found")
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "onboarding selection saved",
	})
}

func requesterPharmacyID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	return id, nil
}
