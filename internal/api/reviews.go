package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/talktrade/internal/marketplace"
)

func (h *Handler) CreateReview(c echo.Context) error {
	var req marketplace.CreateReviewRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	r, err := h.service(c).CreateReview(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}

// GetReviews lists a gig's reviews; :id is the gig id.
func (h *Handler) GetReviews(c echo.Context) error {
	reviews, err := h.service(c).GetReviews(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, reviews)
}

// DeleteReview removes one review; :id is the review id.
func (h *Handler) DeleteReview(c echo.Context) error {
	ack, err := h.service(c).DeleteReview(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ack)
}
