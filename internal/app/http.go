package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"authkit/internal/auth"
	"authkit/internal/auth/credauth"
	"authkit/internal/auth/credentials"
	"authkit/internal/auth/tokenauth"
	"authkit/internal/config"
	"authkit/internal/controller"
	"authkit/internal/handler"
	"authkit/internal/identity"
	"authkit/internal/identity/oidcpassword"
	"authkit/internal/identity/toolkit"
	"authkit/internal/metrics"
	"authkit/internal/middleware"
	"authkit/internal/respond"
	"authkit/internal/session"
	"authkit/internal/users"

	"github.com/gin-gonic/gin"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Session manager
	// ----------------------------

	cookieOpts := session.CookieOptions{
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}

	var sessions auth.AuthSession
	switch cfg.SessionBackend {
	case "redis":
		sessions = session.NewStoreSession(
			session.NewRedisStore(infra.Redis.Client),
			cookieOpts,
			cfg.SessionTTL,
		)
	case "cookie":
		sessions, err = session.NewCookieSession(
			[]byte(cfg.SessionSecret),
			"authkit",
			cookieOpts,
			cfg.SessionTTL,
		)
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("unknown session backend: %s", cfg.SessionBackend)
	}

	// ----------------------------
	// Identity clients
	// ----------------------------

	registry := identity.NewRegistry()

	if cfg.ToolkitBaseURL != "" {
		tk, err := toolkit.New(cfg.ToolkitBaseURL, cfg.ToolkitAPIKey)
		if err != nil {
			return nil, nil, err
		}
		registry.Register("toolkit", tk)
	}

	if cfg.OIDCIssuer != "" {
		op, err := oidcpassword.New(
			ctx,
			cfg.OIDCIssuer,
			cfg.OIDCClientID,
			cfg.OIDCClientSecret,
		)
		if err != nil {
			return nil, nil, err
		}
		registry.Register("oidc-password", op)
	}

	// ----------------------------
	// Provider binding
	// ----------------------------

	var provider auth.Auth[auth.AuthUser]
	switch cfg.AuthBackend {
	case "credentials":
		if infra.DB == nil {
			return nil, nil, errors.New("credentials auth backend requires DATABASE_DSN")
		}
		provider, err = credauth.New[auth.AuthUser](
			sessions,
			credentials.NewService(infra.DB),
			[]byte(cfg.SessionSecret),
			"authkit",
		)
		if err != nil {
			return nil, nil, err
		}
	case "token":
		client, err := registry.Get(cfg.IdentityProvider)
		if err != nil {
			return nil, nil, err
		}
		provider = tokenauth.New[auth.AuthUser](sessions, client)
	default:
		return nil, nil, fmt.Errorf("unknown auth backend: %s", cfg.AuthBackend)
	}

	// ----------------------------
	// Profile store
	// ----------------------------

	var profileDB controller.DB[users.Profile]
	if infra.DB != nil {
		profileDB = controller.NewPostgresDB[users.Profile](infra.DB)
	} else {
		profileDB = controller.NewMemoryDB[users.Profile]()
	}
	profiles := users.NewController(profileDB)

	// ----------------------------
	// Router
	// ----------------------------

	m := metrics.New()
	authHandler := handler.NewHandler(provider, sessions, profiles, m)
	guard := middleware.NewAuthMiddleware(provider).WithMetrics(m)

	router := gin.New()
	router.Use(gin.Recovery())

	authHandler.RegisterRoutes(router, guard)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": respond.StatusSuccess})
	})

	router.GET("/metrics", gin.WrapH(m.Handler()))

	return router, infra.Close, nil
}
