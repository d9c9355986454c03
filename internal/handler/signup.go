package handler

import (
	"errors"
	"net/http"

	"authkit/internal/auth"
	"authkit/internal/identity"
	"authkit/internal/logger"
	"authkit/internal/metrics"
	"authkit/internal/respond"
	"authkit/internal/users"

	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	RedirectTo string `json:"redirectTo"`
}

// Signup creates the identity, the application profile, and the
// session, in that order. Account creation alone implies neither of
// the other two; this handler owns the composition.
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		relay(c, respond.ValidationFailure(
			auth.CodeValidationPrefix+"malformed-body",
			"request body must be valid JSON",
		))
		return
	}

	user := auth.AuthUser{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Role:     req.Role,
	}

	// Existence check first, so duplicates fail here instead of
	// surfacing as a provider error.
	exists, err := h.auth.Exists(c.Request.Context(), user)
	if err != nil && !errors.Is(err, identity.ErrUnsupported) {
		h.metrics.Signups.WithLabelValues(metrics.Result(false)).Inc()
		relay(c, respond.Error(
			http.StatusInternalServerError,
			auth.CodeSignupGeneral,
			"could not check account existence",
		))
		return
	}
	if exists {
		h.metrics.Signups.WithLabelValues(metrics.Result(false)).Inc()
		relay(c, respond.Error(
			http.StatusConflict,
			"signup/email-exists",
			"account already exists",
		))
		return
	}

	res := h.auth.CreateAccount(c.Request.Context(), user, "")
	if !res.IsSuccess() {
		h.metrics.Signups.WithLabelValues(metrics.Result(false)).Inc()
		relay(c, res)
		return
	}

	id, token := accountFields(res)

	if _, err := h.profiles.Create(c.Request.Context(), users.Profile{
		ID:       id,
		Username: req.Username,
		Name:     req.Name,
		Role:     req.Role,
	}); err != nil {
		h.metrics.Signups.WithLabelValues(metrics.Result(false)).Inc()
		logger.Error("profile creation failed", map[string]any{
			"error": err.Error(),
		})
		relay(c, respond.Error(
			http.StatusInternalServerError,
			auth.CodeSignupGeneral,
			"could not create user profile",
		))
		return
	}

	h.metrics.Signups.WithLabelValues(metrics.Result(true)).Inc()

	relay(c, h.sessions.CreateAuthSession(c.Request.Context(), map[string]any{
		auth.KeyID:       id,
		auth.KeyUsername: req.Username,
		auth.KeyName:     req.Name,
		auth.KeyRole:     req.Role,
		auth.KeyToken:    token,
	}, req.RedirectTo))
}

// accountFields pulls the identity id and token out of a provider
// success payload.
func accountFields(res *respond.Response) (id, token string) {
	if res.Body == nil {
		return "", ""
	}
	if t, ok := res.Body.Payload["idToken"].(string); ok {
		token = t
	}
	if u, ok := res.Body.Payload["user"].(map[string]any); ok {
		if v, ok := u["id"].(string); ok {
			id = v
		}
	}
	return id, token
}
