package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/talktrade/internal/marketplace"
)

type LoginResponse struct {
	User  *marketplace.User `json:"user"`
	Token string            `json:"token"`
}

func (h *Handler) Register(c echo.Context) error {
	var req marketplace.RegisterRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	ack, err := h.service(c).Register(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, ack)
}

func (h *Handler) Login(c echo.Context) error {
	var req marketplace.LoginRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	u, err := h.backend.Authenticate(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	token, err := h.tokens.Issue(u)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, LoginResponse{User: u, Token: token})
}

// Logout is stateless on the server; the client drops its token.
func (h *Handler) Logout(c echo.Context) error {
	ack, err := h.service(c).Logout(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ack)
}

func (h *Handler) CurrentUser(c echo.Context) error {
	u, err := h.service(c).CurrentUser(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}
