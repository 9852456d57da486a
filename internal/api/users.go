package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/talktrade/internal/marketplace"
)

type FavouritesResponse struct {
	Favourites []string `json:"favourites"`
}

func (h *Handler) GetUser(c echo.Context) error {
	u, err := h.service(c).GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateUser(c echo.Context) error {
	var req marketplace.UpdateUserRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	u, err := h.service(c).UpdateUser(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) DeleteUser(c echo.Context) error {
	ack, err := h.service(c).DeleteUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ack)
}

func (h *Handler) RequestSeller(c echo.Context) error {
	ack, err := h.service(c).RequestSeller(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, ack)
}

func (h *Handler) ToggleFavouriteGig(c echo.Context) error {
	favs, err := h.service(c).ToggleFavouriteGig(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, FavouritesResponse{Favourites: favs})
}

func (h *Handler) GetFavouriteGigs(c echo.Context) error {
	gigs, err := h.service(c).GetFavouriteGigs(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, gigs)
}
