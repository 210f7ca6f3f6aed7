package volunteer

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.POST("/volunteers/register", h.Register)
	api.GET("/volunteers", h.List)
}

type registerRequest struct {
	Name        string   `json:"name"`
	Specialties []string `json:"specialties"`
	Password    string   `json:"password"`
}

func (h *Handler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	v, err := h.svc.Register(c.Request().Context(), req.Name, req.Specialties, req.Password)
	if err != nil {
		if errors.Is(err, ErrNameTaken) {
			return echo.NewHTTPError(http.StatusConflict, "volunteer already registered")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":   "volunteer registered successfully",
		"volunteer": v,
	})
}

func (h *Handler) List(c echo.Context) error {
	volunteers, err := h.svc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if volunteers == nil {
		volunteers = []*Volunteer{}
	}
	return c.JSON(http.StatusOK, volunteers)
}
