package order

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
	api.POST("/orders", h.CreateOrder)
	api.GET("/orders", h.ListOrders)
	api.GET("/orders/:orderId", h.GetOrder)
	api.POST("/orders/:orderId/cancel", h.CancelOrder)

	pharmacistGroup := api.Group("", auth.RequireRole("pharmacist"))
	pharmacistGroup.PATCH("/orders/:orderId/status", h.UpdateOrderStatus)
}

type createOrderRequest struct {
	Items             []ItemInput `json:"items"`
	DeliveryAddress   string      `json:"deliveryAddress"`
	PrescriptionImage *string     `json:"prescriptionImage"`
}

func (h *Handler) CreateOrder(c echo.Context) error {
	userID, err := requesterID(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	o, err := h.svc.Create(c.Request().Context(), userID, req.Items, req.DeliveryAddress, req.PrescriptionImage)
	if err != nil {
		var insufficientErr *catalog.InsufficientStockError
		switch {
		case errors.As(err, &insufficientErr):
			return echo.NewHTTPError(http.StatusBadRequest, insufficientErr.Error())
		case errors.Is(err, catalog.ErrNotFound):
			return echo.NewHTTPError(http.StatusBadRequest, "one or more medicines do not exist")
		default:
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "order placed successfully",
		"order": map[string]interface{}{
			"id":     o.ID,
			"total":  o.Total,
			"status": o.Status,
		},
	})
}

func (h *Handler) ListOrders(c echo.Context) error {
	userID, err := requesterID(c)
	if err != nil {
		return err
	}

	orders, err := h.svc.ListByUser(c.Request().Context(), userID, c.QueryParam("status"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
	if orders == nil {
		orders = []*Order{}
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c echo.Context) error {
	userID, err := requesterID(c)
	if err != nil {
		return err
	}
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	o, err := h.svc.Get(c.Request().Context(), orderID, userID, auth.RoleFromContext(c.Request().Context()))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, "not allowed to access this order")
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}
	return c.JSON(http.StatusOK, o)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	o, err := h.svc.UpdateStatus(c.Request().Context(), orderID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, ErrInvalidStatus), errors.Is(err, ErrInvalidTransition):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "order status updated",
		"order": map[string]interface{}{
			"id":        o.ID,
			"status":    o.Status,
			"updatedAt": o.UpdatedAt,
		},
	})
}

func (h *Handler) CancelOrder(c echo.Context) error {
	userID, err := requesterID(c)
	if err != nil {
		return err
	}
	orderID, err := uuid.Parse(c.Param("orderId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	o, err := h.svc.Cancel(c.Request().Context(), orderID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, "not allowed to cancel this order")
		case errors.Is(err, ErrInvalidTransition):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "order cancelled",
		"order": map[string]interface{}{
			"id":          o.ID,
			"status":      o.Status,
			"cancelledAt": o.CancelledAt,
		},
	})
}

func requesterID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(auth.UserIDFromContext(c.Request().Context()))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
	}
	return id, nil
}
