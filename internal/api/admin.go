package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/talktrade/internal/marketplace"
)

func (h *Handler) Stats(c echo.Context) error {
	stats, err := h.service(c).Stats(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// ListUsers returns every user, or only sellers with ?sellers=true.
func (h *Handler) ListUsers(c echo.Context) error {
	sellersOnly, _ := strconv.ParseBool(c.QueryParam("sellers"))
	users, err := h.service(c).ListUsers(c.Request().Context(), sellersOnly)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) SellerRequests(c echo.Context) error {
	users, err := h.service(c).SellerRequests(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) ApproveSeller(c echo.Context) error {
	ack, err := h.service(c).ApproveSeller(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ack)
}

func (h *Handler) RejectSeller(c echo.Context) error {
	ack, err := h.service(c).RejectSeller(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ack)
}

// CreateEmployee adds an account that starts out as an approved seller.
func (h *Handler) CreateEmployee(c echo.Context) error {
	var req marketplace.RegisterRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	u, err := h.service(c).CreateEmployee(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}
