package auth

import (
	"net/http"

	"authkit/internal/respond"
)

// SessionUser reads the request's session and returns the denormalized
// user stored in it, or nil when no identity is present. A destroyed
// session (keys blanked) counts as no identity.
func SessionUser(sessions AuthSession, r *http.Request) *AuthUser {
	s := sessions.GetAuthSession(r)
	if s.Get(KeyID) == "" && s.Get(KeyUsername) == "" {
		return nil
	}
	return &AuthUser{
		ID:       s.Get(KeyID),
		Username: s.Get(KeyUsername),
		Name:     s.Get(KeyName),
		Role:     s.Get(KeyRole),
	}
}

// RequireSessionUser is the guard shared by every provider binding.
// It evaluates the request's current session without contacting the
// identity provider and transitions nothing.
//
// No identity: redirect to redirectTo when given, else a 401 envelope
// with code auth/unauthenticated. Role mismatch: redirect when given,
// else a 403 envelope with code auth/forbidden. An empty role means
// any authenticated user passes.
func RequireSessionUser(sessions AuthSession, r *http.Request, role, redirectTo string) (*AuthUser, *respond.Response) {
	user := SessionUser(sessions, r)
	if user == nil {
		if redirectTo != "" {
			return nil, respond.Redirect(redirectTo)
		}
		return nil, respond.Error(
			http.StatusUnauthorized,
			CodeUnauthenticated,
			"authentication required",
		)
	}

	if role != "" && user.Role != role {
		if redirectTo != "" {
			return nil, respond.Redirect(redirectTo)
		}
		return nil, respond.Error(
			http.StatusForbidden,
			CodeForbidden,
			"user lacks the required role",
		)
	}

	return user, nil
}
