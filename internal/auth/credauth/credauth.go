// Package credauth is the database-credential binding of the auth
// contract: bcrypt hashes in Postgres instead of an external identity
// provider, with self-issued id tokens. It satisfies the same contract
// and envelope semantics as the token binding.
package credauth

import (
	"context"
	"errors"
	"net/http"

	"authkit/internal/auth"
	"authkit/internal/auth/credentials"
	"authkit/internal/respond"
)

type Auth[U auth.UserModel] struct {
	sessions auth.AuthSession
	creds    *credentials.Service
	tokens   *tokenIssuer
}

func New[U auth.UserModel](sessions auth.AuthSession, creds *credentials.Service, signingKey []byte, issuer string) (*Auth[U], error) {
	tokens, err := newTokenIssuer(signingKey, issuer)
	if err != nil {
		return nil, err
	}
	return &Auth[U]{
		sessions: sessions,
		creds:    creds,
		tokens:   tokens,
	}, nil
}

var _ auth.Auth[auth.AuthUser] = (*Auth[auth.AuthUser])(nil)

func (a *Auth[U]) CreateAccount(ctx context.Context, user U, redirectTo string) *respond.Response {
	if denial := validateCredentials(user); denial != nil {
		return denial
	}

	created, err := a.creds.Register(ctx, credentials.User{
		Email: user.AuthUsername(),
		Name:  user.AuthName(),
		Role:  user.AuthRole(),
	}, user.AuthPassword())

	if err != nil {
		switch {
		case errors.Is(err, credentials.ErrAlreadyRegistered):
			return respond.Error(
				http.StatusConflict,
				"signup/email-exists",
				"account already exists",
			)
		case errors.Is(err, credentials.ErrPasswordTooShort):
			return respond.ValidationFailure(
				auth.CodeValidationPrefix+"weak-password",
				"password is too short",
			)
		default:
			return respond.Error(
				http.StatusInternalServerError,
				auth.CodeSignupGeneral,
				"account creation failed: "+err.Error(),
			)
		}
	}

	idToken, err := a.tokens.issue(created)
	if err != nil {
		return respond.Error(
			http.StatusInternalServerError,
			auth.CodeSignupGeneral,
			"token issuance failed: "+err.Error(),
		)
	}

	if redirectTo != "" {
		return respond.Redirect(redirectTo)
	}
	return respond.Success(http.StatusCreated, map[string]any{
		"user": map[string]any{
			"id":    created.ID,
			"email": created.Email,
		},
		"idToken": idToken,
	})
}

func (a *Auth[U]) Login(ctx context.Context, user U, redirectTo string) *respond.Response {
	if denial := validateCredentials(user); denial != nil {
		return denial
	}

	found, err := a.creds.Authenticate(ctx, user.AuthUsername(), user.AuthPassword())
	if err != nil {
		if errors.Is(err, credentials.ErrInvalidCredentials) {
			return respond.Error(
				http.StatusUnauthorized,
				auth.CodeInvalidCredentials,
				"invalid username or password",
			)
		}
		return respond.Error(
			http.StatusInternalServerError,
			auth.CodeLoginGeneral,
			"login failed: "+err.Error(),
		)
	}

	idToken, err := a.tokens.issue(found)
	if err != nil {
		return respond.Error(
			http.StatusInternalServerError,
			auth.CodeLoginGeneral,
			"token issuance failed: "+err.Error(),
		)
	}

	if redirectTo != "" {
		return respond.Redirect(redirectTo)
	}
	return respond.Success(http.StatusOK, map[string]any{
		"idToken": idToken,
		"user": map[string]any{
			"id":       found.ID,
			"username": found.Email,
			"name":     found.Name,
			"role":     found.Role,
		},
	})
}

func (a *Auth[U]) Logout(r *http.Request, redirectTo string) *respond.Response {
	return a.sessions.DestroyAuthSession(r, auth.SessionKeys, redirectTo)
}

func (a *Auth[U]) Exists(ctx context.Context, user U) (bool, error) {
	return a.creds.Exists(ctx, user.AuthUsername())
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
