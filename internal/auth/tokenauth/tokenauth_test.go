package tokenauth

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"authkit/internal/auth"
	"authkit/internal/identity"
	"authkit/internal/respond"
	"authkit/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient is an in-memory identity provider.
type fakeClient struct {
	accounts map[string]string
	fail     error // when set, every call fails with this error
}

func newFakeClient() *fakeClient {
	return &fakeClient{accounts: make(map[string]string)}
}

func (f *fakeClient) SignUp(_ context.Context, email, password string) (*identity.Record, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	if _, ok := f.accounts[email]; ok {
		return nil, &identity.Error{Code: "EMAIL_EXISTS", Err: identity.ErrEmailExists}
	}
	f.accounts[email] = password
	return &identity.Record{
		UID:     "uid-" + email,
		Email:   email,
		IDToken: "token-" + email,
	}, nil
}

func (f *fakeClient) SignIn(_ context.Context, email, password string) (*identity.Record, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	stored, ok := f.accounts[email]
	if !ok || stored != password {
		return nil, &identity.Error{Code: "INVALID_PASSWORD", Err: identity.ErrInvalidCredentials}
	}
	return &identity.Record{
		UID:     "uid-" + email,
		Email:   email,
		IDToken: "token-" + email,
	}, nil
}

func (f *fakeClient) Registered(_ context.Context, email string) (bool, error) {
	if f.fail != nil {
		return false, f.fail
	}
	_, ok := f.accounts[email]
	return ok, nil
}

func newTestAuth(t *testing.T) (*Auth[auth.AuthUser], *fakeClient, auth.AuthSession) {
	t.Helper()

	sessions, err := session.NewCookieSession(
		[]byte("0123456789abcdef0123456789abcdef"),
		"authkit-test",
		session.CookieOptions{},
		time.Hour,
	)
	require.NoError(t, err)

	client := newFakeClient()
	return New[auth.AuthUser](sessions, client), client, sessions
}

func withCookies(res *respond.Response) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range res.Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestCreateAccountSuccess(t *testing.T) {
	a, _, _ := newTestAuth(t)

	res := a.CreateAccount(context.Background(), auth.AuthUser{
		Username: "new@example.com",
		Password: "new123",
	}, "")

	require.Equal(t, http.StatusCreated, res.Code)
	assert.Equal(t, respond.StatusSuccess, res.Body.Status)

	user, ok := res.Body.Payload["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "new@example.com", user["email"])
	assert.NotEmpty(t, res.Body.Payload["idToken"])

	// no session is established by account creation
	assert.Empty(t, res.Cookies())

	exists, err := a.Exists(context.Background(), auth.AuthUser{Username: "new@example.com"})
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreateAccountDuplicate(t *testing.T) {
	a, _, _ := newTestAuth(t)
	ctx := context.Background()

	first := a.CreateAccount(ctx, auth.AuthUser{Username: "test@example.com", Password: "test123"}, "")
	require.True(t, first.IsSuccess())

	res := a.CreateAccount(ctx, auth.AuthUser{Username: "test@example.com", Password: "test123"}, "")
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Equal(t, respond.StatusError, res.Body.Status)
	assert.Equal(t, "EMAIL_EXISTS", res.Body.ErrorCode)
}

func TestCreateAccountValidation(t *testing.T) {
	a, _, _ := newTestAuth(t)

	res := a.CreateAccount(context.Background(), auth.AuthUser{Password: "x"}, "")
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, respond.StatusValidationFailure, res.Body.Status)
	assert.Equal(t, "validation/missing-username", res.Body.ErrorCode)

	res = a.CreateAccount(context.Background(), auth.AuthUser{Username: "x@example.com"}, "")
	assert.Equal(t, "validation/missing-password", res.Body.ErrorCode)
}

func TestLoginSuccessReturnsTokenWithoutSession(t *testing.T) {
	a, client, _ := newTestAuth(t)
	client.accounts["test@example.com"] = "test123"

	res := a.Login(context.Background(), auth.AuthUser{
		Username: "test@example.com",
		Password: "test123",
	}, "")

	require.Equal(t, http.StatusOK, res.Code)
	assert.NotEmpty(t, res.Body.Payload["idToken"])

	user, ok := res.Body.Payload["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "uid-test@example.com", user["id"])
	assert.Equal(t, "test@example.com", user["username"])
	// role is not part of the provider payload; the session layer
	// enriches it from the profile store
	assert.NotContains(t, user, "role")

	// Login does not call the session manager; committing the token
	// is the caller's job.
	assert.Empty(t, res.Cookies())
}

func TestLoginWrongPassword(t *testing.T) {
	a, client, _ := newTestAuth(t)
	client.accounts["test@example.com"] = "test123"

	res := a.Login(context.Background(), auth.AuthUser{
		Username: "test@example.com",
		Password: "wrong",
	}, "")

	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, respond.StatusError, res.Body.Status)
	assert.Equal(t, "INVALID_PASSWORD", res.Body.ErrorCode)
	assert.Empty(t, res.Cookies())
}

func TestLoginProviderFault(t *testing.T) {
	a, client, _ := newTestAuth(t)
	client.fail = fmt.Errorf("connection refused")

	res := a.Login(context.Background(), auth.AuthUser{
		Username: "test@example.com",
		Password: "test123",
	}, "")

	assert.Equal(t, http.StatusInternalServerError, res.Code)
	assert.Equal(t, auth.CodeLoginGeneral, res.Body.ErrorCode)
}

func TestRequireUserWithoutCookieRedirects(t *testing.T) {
	a, _, _ := newTestAuth(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	user, denial := a.RequireUser(req, "", "/login")

	assert.Nil(t, user)
	require.NotNil(t, denial)
	assert.Equal(t, http.StatusFound, denial.Code)
	assert.Equal(t, "/login", denial.Location)
}

func TestRequireUserRoleGating(t *testing.T) {
	a, _, sessions := newTestAuth(t)

	created := sessions.CreateAuthSession(context.Background(), map[string]any{
		auth.KeyID:       "uid-1",
		auth.KeyUsername: "admin@example.com",
		auth.KeyRole:     "admin",
		auth.KeyToken:    "token-1",
	}, "")
	req := withCookies(created)

	user, denial := a.RequireUser(req, "admin", "")
	assert.Nil(t, denial)
	require.NotNil(t, user)
	assert.Equal(t, "admin@example.com", user.Username)

	user, denial = a.RequireUser(req, "superadmin", "")
	assert.Nil(t, user)
	require.NotNil(t, denial)
	assert.Equal(t, http.StatusForbidden, denial.Code)
	assert.Equal(t, auth.CodeForbidden, denial.Body.ErrorCode)
}

func TestLogoutBlanksSessionAndUserBecomesNil(t *testing.T) {
	a, _, sessions := newTestAuth(t)

	created := sessions.CreateAuthSession(context.Background(), map[string]any{
		auth.KeyID:       "uid-1",
		auth.KeyUsername: "test@example.com",
		auth.KeyRole:     "user",
		auth.KeyToken:    "token-1",
	}, "")

	require.NotNil(t, a.User(withCookies(created)))

	out := a.Logout(withCookies(created), "")
	require.Equal(t, http.StatusNoContent, out.Code)
	require.NotEmpty(t, out.Cookies())

	assert.Nil(t, a.User(withCookies(out)))
}

func TestUserNeverFails(t *testing.T) {
	a, _, _ := newTestAuth(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, a.User(req))
}

func TestCreateAccountRedirectVariant(t *testing.T) {
	a, _, _ := newTestAuth(t)

	res := a.CreateAccount(context.Background(), auth.AuthUser{
		Username: "new@example.com",
		Password: "new123",
	}, "/welcome")

	assert.Equal(t, http.StatusFound, res.Code)
	assert.Equal(t, "/welcome", res.Location)
}
