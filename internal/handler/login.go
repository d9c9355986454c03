package handler

import (
	"authkit/internal/auth"
	"authkit/internal/logger"
	"authkit/internal/metrics"
	"authkit/internal/respond"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	RedirectTo string `json:"redirectTo"`
}

// Login verifies credentials through the auth contract and then
// commits the returned token into a fresh session. The contract's
// Login never touches the session manager itself; this handler owns
// that follow-up.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		relay(c, respond.ValidationFailure(
			auth.CodeValidationPrefix+"malformed-body",
			"request body must be valid JSON",
		))
		return
	}

	res := h.auth.Login(c.Request.Context(), auth.AuthUser{
		Username: req.Username,
		Password: req.Password,
	}, "")
	if !res.IsSuccess() {
		h.metrics.Logins.WithLabelValues(metrics.Result(false)).Inc()
		relay(c, res)
		return
	}

	id, token := accountFields(res)

	// The session holds the denormalized profile fields later
	// authorization checks read.
	name, role := "", ""
	profile, err := h.profiles.FindByUsername(c.Request.Context(), req.Username)
	if err != nil {
		logger.Warn("profile lookup failed on login", map[string]any{
			"error": err.Error(),
		})
	}
	if profile != nil {
		name = profile.Name
		role = profile.Role
		if id == "" {
			id = profile.ID
		}
	}

	h.metrics.Logins.WithLabelValues(metrics.Result(true)).Inc()

	relay(c, h.sessions.CreateAuthSession(c.Request.Context(), map[string]any{
		auth.KeyID:       id,
		auth.KeyUsername: req.Username,
		auth.KeyName:     name,
		auth.KeyRole:     role,
		auth.KeyToken:    token,
	}, req.RedirectTo))
}

// Logout destroys the session keys and relays the recommitted cookie.
func (h *Handler) Logout(c *gin.Context) {
	relay(c, h.auth.Logout(c.Request, c.Query("redirectTo")))
}

// Me reports the current session's user for display logic. It never
// denies; absent users read as null.
func (h *Handler) Me(c *gin.Context) {
	user := h.auth.User(c.Request)
	if user == nil {
		c.JSON(200, gin.H{"user": nil})
		return
	}
	c.JSON(200, gin.H{"user": user})
}
