package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/talktrade/internal/marketplace"
)

func (h *Handler) GetOrders(c echo.Context) error {
	orders, err := h.service(c).GetOrders(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *Handler) CreateOrder(c echo.Context) error {
	var req marketplace.CreateOrderRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	o, err := h.service(c).CreateOrder(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, o)
}

// ConfirmOrder marks the order completed. The id is the order id.
func (h *Handler) ConfirmOrder(c echo.Context) error {
	ack, err := h.service(c).ConfirmOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ack)
}
