// Package tokenauth binds a token-issuing identity client to a session
// manager, giving route handlers the full account/login/guard surface
// without touching either collaborator directly.
package tokenauth

import (
	"context"
	"errors"
	"net/http"

	"authkit/internal/auth"
	"authkit/internal/identity"
	"authkit/internal/respond"
)

// Auth is the token-provider binding of the auth contract.
type Auth[U auth.UserModel] struct {
	sessions auth.AuthSession
	client   identity.Client
}

func New[U auth.UserModel](sessions auth.AuthSession, client identity.Client) *Auth[U] {
	return &Auth[U]{sessions: sessions, client: client}
}

var _ auth.Auth[auth.AuthUser] = (*Auth[auth.AuthUser])(nil)

// CreateAccount registers the user with the identity provider and
// echoes the provider's success payload with status 201. It creates
// neither a session nor an application profile; callers own both
// follow-ups.
func (a *Auth[U]) CreateAccount(ctx context.Context, user U, redirectTo string) *respond.Response {
	if denial := validateCredentials(user); denial != nil {
		return denial
	}

	rec, err := a.client.SignUp(ctx, user.AuthUsername(), user.AuthPassword())
	if err != nil {
		return signUpFailure(err)
	}

	if redirectTo != "" {
		return respond.Redirect(redirectTo)
	}
	return respond.Success(http.StatusCreated, map[string]any{
		"user": map[string]any{
			"id":    rec.UID,
			"email": rec.Email,
		},
		"idToken": rec.IDToken,
	})
}

// Login verifies credentials with the identity provider and returns
// the token payload. It deliberately does not create the session;
// callers commit the returned token via CreateAuthSession.
func (a *Auth[U]) Login(ctx context.Context, user U, redirectTo string) *respond.Response {
	if denial := validateCredentials(user); denial != nil {
		return denial
	}

	rec, err := a.client.SignIn(ctx, user.AuthUsername(), user.AuthPassword())
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return respond.Error(
				http.StatusUnauthorized,
				errorCode(err, auth.CodeInvalidCredentials),
				"invalid username or password",
			)
		}
		return respond.Error(
			http.StatusInternalServerError,
			auth.CodeLoginGeneral,
			"login failed: "+err.Error(),
		)
	}

	if redirectTo != "" {
		return respond.Redirect(redirectTo)
	}
	// The payload carries only what the provider verified; role and
	// name enrichment happens when the caller commits the session.
	return respond.Success(http.StatusOK, map[string]any{
		"idToken": rec.IDToken,
		"user": map[string]any{
			"id":       rec.UID,
			"username": rec.Email,
		},
	})
}

func (a *Auth[U]) Logout(r *http.Request, redirectTo string) *respond.Response {
	return a.sessions.DestroyAuthSession(r, auth.SessionKeys, redirectTo)
}

func (a *Auth[U]) Exists(ctx context.Context, user U) (bool, error) {
	return a.client.Registered(ctx, user.AuthUsername())
}

func (a *Auth[U]) RequireUser(r *http.Request, role string, redirectTo string) (*auth.AuthUser, *respond.Response) {
	return auth.RequireSessionUser(a.sessions, r, role, redirectTo)
}

func (a *Auth[U]) User(r *http.Request) *auth.AuthUser {
	return auth.SessionUser(a.sessions, r)
}

func validateCredentials[U auth.UserModel](user U) *respond.Response {
	if user.AuthUsername() == "" {
		return respond.ValidationFailure(
			auth.CodeValidationPrefix+"missing-username",
			"username is required",
		)
	}
	if user.AuthPassword() == "" {
		return respond.ValidationFailure(
			auth.CodeValidationPrefix+"missing-password",
			"password is required",
		)
	}
	return nil
}

func signUpFailure(err error) *respond.Response {
	switch {
	case errors.Is(err, identity.ErrEmailExists):
		return respond.Error(
			http.StatusConflict,
			errorCode(err, auth.CodeSignupGeneral),
			"account already exists",
		)
	case errors.Is(err, identity.ErrWeakPassword):
		return respond.ValidationFailure(
			errorCode(err, auth.CodeValidationPrefix+"weak-password"),
			"password does not meet provider requirements",
		)
	case errors.Is(err, identity.ErrUnsupported):
		return respond.Error(
			http.StatusNotImplemented,
			errorCode(err, auth.CodeSignupGeneral),
			"provider does not support account creation",
		)
	default:
		return respond.Error(
			http.StatusInternalServerError,
			auth.CodeSignupGeneral,
			"account creation failed: "+err.Error(),
		)
	}
}

// errorCode prefers the provider-supplied code, falling back to the
// layer's own taxonomy.
func errorCode(err error, fallback string) string {
	if code := identity.CodeOf(err); code != "" {
		return code
	}
	return fallback
}
