package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sudo-init-do/talktrade/internal/marketplace"
	mware "github.com/sudo-init-do/talktrade/internal/middleware"
)

func (h *Handler) GetConversations(c echo.Context) error {
	convs, err := h.service(c).GetConversations(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, convs)
}

func (h *Handler) CreateConversation(c echo.Context) error {
	var req marketplace.CreateConversationRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	conv, err := h.service(c).CreateConversation(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, conv)
}

func (h *Handler) GetSingleConversation(c echo.Context) error {
	conv, err := h.service(c).GetSingleConversation(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, conv)
}

// UpdateConversation marks the conversation read by the caller.
func (h *Handler) UpdateConversation(c echo.Context) error {
	conv, err := h.service(c).UpdateConversation(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, conv)
}

func (h *Handler) CreateMessage(c echo.Context) error {
	var req marketplace.CreateMessageRequest
	if err := bind(c, &req); err != nil {
		return respondError(c, err)
	}
	msg, err := h.service(c).CreateMessage(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, msg)
}

func (h *Handler) GetMessages(c echo.Context) error {
	msgs, err := h.service(c).GetMessages(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, msgs)
}

// ConversationSocket upgrades to a websocket subscribed to one conversation.
// Only participants may join.
func (h *Handler) ConversationSocket(c echo.Context) error {
	if h.hub == nil {
		return respondError(c, marketplace.ErrNotFound)
	}
	conv, err := h.service(c).GetSingleConversation(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return h.hub.Serve(c, conv.ID, mware.CurrentUser(c).ID)
}
