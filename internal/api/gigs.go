package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/talktrade/internal/marketplace"
)

// gigFilter reads the ListGigs query string. Blank numbers mean no bound.
func gigFilter(c echo.Context) (marketplace.GigFilter, error) {
	f := marketplace.GigFilter{
		Category: marketplace.Category(c.QueryParam("category")),
		Search:   c.QueryParam("search"),
		Sort:     marketplace.SortKey(c.QueryParam("sort")),
		UserID:   c.QueryParam("userId"),
	}
	for name, dst := range map[string]**int64{"min": &f.Min, "max": &f.Max} {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return f, fmt.Errorf("%w: %s must be a whole number", marketplace.ErrInvalidInput, name)
		}
		*dst = &v
	}
	return f, nil
}

func (h *Handler) ListGigs(c echo.Context) error {
	f, err := gigFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	gigs, err := h.service(c).ListGigs(c.Request().Context(), f)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, gigs)
}

func (h *Handler) GetGig(c echo.Context) error {
	g, err := h.service(c).GetGig(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

func (h *Handler) GetMyGigs(c echo.Context) error {
	gigs, err := h.service(c).GetMyGigs(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, gigs)
}

func (h *Handler) CreateGig(c echo.Context) error {
	var req marketplace.CreateGigRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	g, err := h.service(c).CreateGig(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, g)
}

func (h *Handler) DeleteGig(c echo.Context) error {
	ack, err := h.service(c).DeleteGig(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ack)
}
