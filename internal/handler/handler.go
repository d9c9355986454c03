// Package handler wires the auth contract to HTTP routes. Handlers
// validate input, call contract operations, and relay the responses
// those operations shaped; they never build envelopes of their own
// beyond input validation.
package handler

import (
	"net/http"

	"authkit/internal/auth"
	"authkit/internal/logger"
	"authkit/internal/metrics"
	"authkit/internal/middleware"
	"authkit/internal/respond"
	"authkit/internal/users"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	auth     auth.Auth[auth.AuthUser]
	sessions auth.AuthSession
	profiles *users.Controller
	metrics  *metrics.Metrics
}

func NewHandler(
	authProvider auth.Auth[auth.AuthUser],
	sessions auth.AuthSession,
	profiles *users.Controller,
	m *metrics.Metrics,
) *Handler {
	return &Handler{
		auth:     authProvider,
		sessions: sessions,
		profiles: profiles,
		metrics:  m,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, guard *middleware.AuthMiddleware) {
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)

	api := r.Group("/api")
	api.Use(middleware.GinRequireUser(guard))
	api.GET("/me", h.Me)

	admin := r.Group("/api/admin")
	admin.Use(middleware.GinRequireUser(guard.WithRole("admin")))
	admin.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	for _, route := range r.Routes() {
		logger.Info("route registered", map[string]any{
			"method": route.Method,
			"path":   route.Path,
		})
	}
}

// relay writes a contract response through Gin.
func relay(c *gin.Context, res *respond.Response) {
	res.Write(c.Writer)
}
