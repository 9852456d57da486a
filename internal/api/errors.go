package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/talktrade/internal/logger"
	"github.com/sudo-init-do/talktrade/internal/marketplace"
)

// StatusFor maps a service error onto an HTTP status.
func StatusFor(err error) int {
	switch marketplace.ErrorCode(err) {
	case marketplace.CodeDuplicateIdentity, marketplace.CodeInvalidState:
		return http.StatusConflict
	case marketplace.CodeInvalidCredentials, marketplace.CodeUnauthenticated:
		return http.StatusUnauthorized
	case marketplace.CodeNotFound:
		return http.StatusNotFound
	case marketplace.CodeInvalidInput:
		return http.StatusBadRequest
	case marketplace.CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c echo.Context, err error) error {
	code := marketplace.ErrorCode(err)
	status := StatusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed", "method", c.Request().Method, "path", c.Path(), "error", err)
		msg = "internal server error"
	}
	return c.JSON(status, echo.Map{"error": msg, "code": code})
}

// bind decodes the request into req and validates it.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return fmt.Errorf("%w: %v", marketplace.ErrInvalidInput, he.Message)
		}
		return fmt.Errorf("%w: %v", marketplace.ErrInvalidInput, err)
	}
	return c.Validate(req)
}
