package handlers

import (
	"context"
	"log"
	"net/http"
	"order_queue/internal/auth"
	"order_queue/internal/middleware"
	"time"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 3 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

// APIHandler carries the handlers mounted by NewRouter. WhatsApp is nil when
// customer notifications are not configured.
type APIHandler struct {
	Public   *PublicHandler
	Auth     *AuthHandler
	Orders   *OrderHandler
	Sessions *SessionHandler
	Menu     *MenuHandler
	Invites  *InviteHandler
	WhatsApp *WhatsAppHandler

	Authenticator middleware.Authenticator
	Checks        map[string]Pinger
}

func (h *APIHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{}
	for name, pinger := range h.Checks {
		if err := pinger.Ping(ctx); err != nil {
			log.Printf("Health check %s failed: %v", name, err)
			checks[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "up"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}
	c.JSON(status, gin.H{"status": state, "checks": checks})
}

// NewRouter mounts the public, auth and staff routes on a gin engine.
func NewRouter(h *APIHandler) *gin.Engine {
	router := gin.New()
	router.Use(middleware.AccessLogger(nil), gin.Recovery())

	api := router.Group("/api")
	api.GET("/health", h.Health)

	public := api.Group("/public")
	{
		public.GET("/active-session", h.Public.GetActiveSession)
		public.GET("/menu-items", h.Public.GetMenu)
		public.POST("/cart/refresh", h.Public.RefreshCart)
		public.POST("/orders", h.Public.CreateOrder)
		public.GET("/orders/:id", h.Public.GetOrder)
		public.GET("/orders/:id/stream", h.Public.StreamOrder)
	}

	requireStaff := middleware.AuthRequired(h.Authenticator)

	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/signup", h.Auth.Signup)
		authRoutes.POST("/login", h.Auth.Login)
		authRoutes.GET("/me", requireStaff, h.Auth.GetProfile)
		authRoutes.PATCH("/me", requireStaff, h.Auth.UpdateProfile)
	}

	api.GET("/orders/stream", middleware.StreamToken(), requireStaff,
		middleware.Require(auth.ActionViewQueue), h.Orders.Stream)

	staff := api.Group("")
	staff.Use(requireStaff)
	{
		staff.GET("/orders/active", middleware.Require(auth.ActionViewQueue), h.Orders.ListActive)
		staff.POST("/orders/:id/assign", middleware.Require(auth.ActionAssignOrder), h.Orders.Assign)
		// Status and unassign depend on the assignee and are decided by the service.
		staff.PATCH("/orders/:id/status", h.Orders.UpdateStatus)
		staff.POST("/orders/:id/unassign", h.Orders.Unassign)

		staff.GET("/sessions", middleware.Require(auth.ActionViewQueue), h.Sessions.List)
		staff.GET("/menu-items", middleware.Require(auth.ActionViewQueue), h.Menu.List)
	}

	sessions := staff.Group("/sessions")
	sessions.Use(middleware.Require(auth.ActionManageSession))
	{
		sessions.POST("", h.Sessions.Create)
		sessions.POST("/:id/activate", h.Sessions.Activate)
		sessions.POST("/:id/close", h.Sessions.Close)
	}

	menu := staff.Group("/menu-items")
	menu.Use(middleware.Require(auth.ActionManageMenu))
	{
		menu.POST("", h.Menu.Create)
		menu.POST("/reorder", h.Menu.Reorder)
		menu.PATCH("/:id", h.Menu.Update)
		menu.DELETE("/:id", h.Menu.Delete)
	}

	staff.POST("/invites", middleware.Require(auth.ActionCreateInvite), h.Invites.Create)

	if h.WhatsApp != nil {
		notify := staff.Group("/orders/:id")
		notify.Use(middleware.Require(auth.ActionNotifyOrder))
		{
			notify.GET("/notifications", h.WhatsApp.ListNotifications)
			notify.POST("/notify", h.WhatsApp.ResendReady)
		}
	}

	return router
}
