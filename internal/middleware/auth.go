package middleware

import (
	"context"
	"net/http"

	"authkit/internal/auth"
	"authkit/internal/metrics"
	"authkit/internal/respond"
)

// unexported, collision-proof context key
type userContextKeyType struct{}

var userKey = userContextKeyType{}

// UserFromContext extracts the authenticated user from context.
func UserFromContext(ctx context.Context) (*auth.AuthUser, bool) {
	u, ok := ctx.Value(userKey).(*auth.AuthUser)
	return u, ok
}

// Guard is the slice of the auth contract the middleware needs; every
// provider binding satisfies it.
type Guard interface {
	RequireUser(r *http.Request, role string, redirectTo string) (*auth.AuthUser, *respond.Response)
}

// AuthMiddleware runs the RequireUser guard before protected handlers.
type AuthMiddleware struct {
	Guard      Guard
	Role       string           // empty means any authenticated user
	RedirectTo string           // empty means JSON denial
	Metrics    *metrics.Metrics // nil disables denial counting
}

func NewAuthMiddleware(guard Guard) *AuthMiddleware {
	return &AuthMiddleware{Guard: guard}
}

// WithRole returns a copy enforcing the given role.
func (a *AuthMiddleware) WithRole(role string) *AuthMiddleware {
	out := *a
	out.Role = role
	return &out
}

// WithRedirect returns a copy that redirects denials instead of
// returning a JSON envelope.
func (a *AuthMiddleware) WithRedirect(redirectTo string) *AuthMiddleware {
	out := *a
	out.RedirectTo = redirectTo
	return &out
}

// WithMetrics returns a copy that counts denials.
func (a *AuthMiddleware) WithMetrics(m *metrics.Metrics) *AuthMiddleware {
	out := *a
	out.Metrics = m
	return &out
}

func (a *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, denial := a.Guard.RequireUser(r, a.Role, a.RedirectTo)
		if denial != nil {
			if a.Metrics != nil {
				a.Metrics.GuardDenials.WithLabelValues(denialReason(denial)).Inc()
			}
			denial.Write(w)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// denialReason labels a denial for the guard counter: the envelope's
// error code, or "redirect" when the policy redirects instead.
func denialReason(denial *respond.Response) string {
	if denial.Body != nil && denial.Body.ErrorCode != "" {
		return denial.Body.ErrorCode
	}
	return "redirect"
}
