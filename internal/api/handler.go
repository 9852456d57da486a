// Package api exposes marketplace.Service over HTTP. Every route maps onto
// one Service operation, run against a per-request view bound to the
// authenticated user.
package api

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/sudo-init-do/talktrade/internal/auth"
	"github.com/sudo-init-do/talktrade/internal/marketplace"
	"github.com/sudo-init-do/talktrade/internal/messaging"
	mware "github.com/sudo-init-do/talktrade/internal/middleware"
)

// Backend is what the handlers need from marketplace.Local.
type Backend interface {
	Authenticate(ctx context.Context, req marketplace.LoginRequest) (*marketplace.User, error)
	ForUser(u *marketplace.User) marketplace.Service
	GetUser(ctx context.Context, id string) (*marketplace.User, error)
	Ping(ctx context.Context) error
}

type Handler struct {
	backend Backend
	tokens  *auth.Tokens
	hub     *messaging.Hub
}

// New builds the handler set. hub may be nil, which disables the websocket route.
func New(backend Backend, tokens *auth.Tokens, hub *messaging.Hub) *Handler {
	return &Handler{backend: backend, tokens: tokens, hub: hub}
}

// service returns a Service bound to the request's user, or an anonymous
// one on public routes.
func (h *Handler) service(c echo.Context) marketplace.Service {
	return h.backend.ForUser(mware.CurrentUser(c))
}

type Options struct {
	// AuthRateLimit is requests per second per IP on /api/auth; 0 disables it.
	AuthRateLimit int
}

func (h *Handler) Routes(e *echo.Echo, opts Options) {
	e.Validator = NewValidator()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/ready", h.Ready)
	e.GET("/metrics", mware.MetricsHandler())

	jwt := mware.JWT(h.tokens, h.backend)
	api := e.Group("/api")

	// Auth routes with per-IP rate limiting to protect register/login from abuse
	authGroup := api.Group("/auth")
	if opts.AuthRateLimit > 0 {
		authGroup.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(opts.AuthRateLimit))))
	}
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.POST("/logout", h.Logout, jwt)

	// Public routes
	api.GET("/gigs", h.ListGigs)
	api.GET("/gigs/:id", h.GetGig)
	api.GET("/users/:id", h.GetUser)
	api.GET("/reviews/:id", h.GetReviews)

	// Protected routes
	p := api.Group("", jwt)

	p.GET("/users/me", h.CurrentUser)
	p.PUT("/users/:id", h.UpdateUser)
	p.DELETE("/users/:id", h.DeleteUser)
	p.POST("/users/seller-request", h.RequestSeller)
	p.GET("/users/favourites", h.GetFavouriteGigs)
	p.PUT("/users/favourites/:id", h.ToggleFavouriteGig)

	p.POST("/gigs", h.CreateGig, mware.RequireRoles("seller", "admin"))
	p.GET("/gigs/mine", h.GetMyGigs)
	p.DELETE("/gigs/:id", h.DeleteGig)

	p.GET("/orders", h.GetOrders)
	p.POST("/orders", h.CreateOrder)
	p.PUT("/orders/:id", h.ConfirmOrder)

	p.POST("/reviews", h.CreateReview)
	p.DELETE("/reviews/:id", h.DeleteReview)

	p.GET("/conversations", h.GetConversations)
	p.POST("/conversations", h.CreateConversation)
	p.GET("/conversations/single/:id", h.GetSingleConversation)
	p.PUT("/conversations/:id", h.UpdateConversation)

	p.POST("/messages", h.CreateMessage)
	p.GET("/messages/:id", h.GetMessages)
	p.GET("/messages/:id/ws", h.ConversationSocket)

	// Admin routes
	admin := api.Group("/admin", jwt, mware.AdminGuard)
	admin.GET("/stats", h.Stats)
	admin.GET("/users", h.ListUsers)
	admin.GET("/seller-requests", h.SellerRequests)
	admin.POST("/sellers/:id/approve", h.ApproveSeller)
	admin.POST("/sellers/:id/reject", h.RejectSeller)
	admin.POST("/users", h.CreateEmployee)
}

func (h *Handler) Ready(c echo.Context) error {
	if err := h.backend.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "not_ready", "error": "store unreachable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "ready"})
}
