package auth

import (
	"context"
	"net/http"

	"authkit/internal/respond"
)

// AuthUser is the base user shape provider bindings operate on.
// Password is present only on account-creation and login requests;
// it is never serialized or persisted in a session.
type AuthUser struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"-"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
}

func (u AuthUser) AuthUsername() string { return u.Username }
func (u AuthUser) AuthPassword() string { return u.Password }
func (u AuthUser) AuthName() string     { return u.Name }
func (u AuthUser) AuthRole() string     { return u.Role }

// UserModel is the constraint richer application user types satisfy
// so bindings can stay generic over them.
type UserModel interface {
	AuthUsername() string
	AuthPassword() string
	AuthName() string
	AuthRole() string
}

// AuthSession manages the opaque, cookie-addressed key-value session
// associated with one HTTP request.
type AuthSession interface {
	// GetAuthSession returns the session addressed by the request's
	// cookie. It never fails: a missing or invalid cookie yields an
	// empty session.
	GetAuthSession(r *http.Request) *Session

	// CreateAuthSession writes every field of data into a fresh
	// session (strings verbatim, everything else JSON-encoded),
	// commits it, and returns a redirect to redirectTo or a 201
	// success envelope, either carrying the session cookie. A commit
	// failure yields a 500 envelope with code session/create.
	CreateAuthSession(ctx context.Context, data map[string]any, redirectTo string) *respond.Response

	// DestroyAuthSession blanks the named keys in the request's
	// session, recommits it, and returns a redirect or a 204 success
	// envelope carrying the recommitted cookie. A commit failure
	// yields a 500 envelope with code session/destroy.
	DestroyAuthSession(r *http.Request, keys []string, redirectTo string) *respond.Response
}

// Auth is the contract every identity-provider binding satisfies.
// One concrete implementation exists per binding; all of them share
// the same envelope and error semantics.
type Auth[U UserModel] interface {
	// CreateAccount registers the user with the identity provider and
	// returns its raw success payload with status 201. It does not
	// establish a session or an application profile; callers do both.
	CreateAccount(ctx context.Context, user U, redirectTo string) *respond.Response

	// Login verifies the user's credentials and returns a 200 payload
	// with the identity token and user info. It does not call the
	// session manager; establishing the session from the returned
	// token is the caller's responsibility.
	Login(ctx context.Context, user U, redirectTo string) *respond.Response

	// Logout destroys the known session keys for the request.
	Logout(r *http.Request, redirectTo string) *respond.Response

	// Exists reports whether the user's username is already
	// registered with the provider.
	Exists(ctx context.Context, user U) (bool, error)

	// RequireUser is the single enforcement point protected routes
	// call. A non-nil denial response (redirect when redirectTo is
	// given, 401/403 envelope otherwise) means the guard failed and
	// must be relayed; the user is returned only on success.
	RequireUser(r *http.Request, role string, redirectTo string) (*AuthUser, *respond.Response)

	// User returns the session's user if one is present, else nil.
	// It never fails and enforces nothing.
	User(r *http.Request) *AuthUser
}
