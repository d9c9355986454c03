package toolkit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"authkit/internal/identity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeProvider emulates the identity-toolkit REST surface the client
// talks to, the way the hosted emulator does.
type fakeProvider struct {
	mu       sync.Mutex
	accounts map[string]string // email -> password
	nextUID  int
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{accounts: make(map[string]string)}
}

func (f *fakeProvider) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/accounts:signUp", f.signUp)
	mux.HandleFunc("/v1/accounts:signInWithPassword", f.signIn)
	mux.HandleFunc("/v1/accounts:createAuthUri", f.createAuthURI)
	return mux
}

func (f *fakeProvider) signUp(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.accounts[req.Email]; ok {
		writeError(w, "EMAIL_EXISTS")
		return
	}
	if len(req.Password) < 6 {
		writeError(w, "WEAK_PASSWORD : Password should be at least 6 characters")
		return
	}

	f.nextUID++
	f.accounts[req.Email] = req.Password

	_ = json.NewEncoder(w).Encode(map[string]any{
		"localId":      fmt.Sprintf("uid-%d", f.nextUID),
		"email":        req.Email,
		"idToken":      "token-" + req.Email,
		"refreshToken": "refresh-" + req.Email,
		"expiresIn":    "3600",
	})
}

func (f *fakeProvider) signIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	password, ok := f.accounts[req.Email]
	f.mu.Unlock()

	if !ok {
		writeError(w, "EMAIL_NOT_FOUND")
		return
	}
	if password != req.Password {
		writeError(w, "INVALID_PASSWORD")
		return
	}

	_ = json.NewEncoder(w).Encode(map[string]any{
		"localId":   "uid-known",
		"email":     req.Email,
		"idToken":   "token-" + req.Email,
		"expiresIn": "3600",
	})
}

func (f *fakeProvider) createAuthURI(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Identifier string `json:"identifier"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	_, registered := f.accounts[req.Identifier]
	f.mu.Unlock()

	_ = json.NewEncoder(w).Encode(map[string]any{
		"registered": registered,
	})
}

func writeError(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    400,
			"message": message,
		},
	})
}

func newTestClient(t *testing.T) (*Client, *fakeProvider) {
	t.Helper()

	provider := newFakeProvider()
	srv := httptest.NewServer(provider.handler())
	t.Cleanup(srv.Close)

	client, err := New(srv.URL, "test-key")
	require.NoError(t, err)
	return client, provider
}

func TestSignUpThenRegistered(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	registered, err := client.Registered(ctx, "new@example.com")
	require.NoError(t, err)
	assert.False(t, registered)

	rec, err := client.SignUp(ctx, "new@example.com", "new123456")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", rec.Email)
	assert.NotEmpty(t, rec.UID)
	assert.NotEmpty(t, rec.IDToken)
	assert.Equal(t, int64(3600), rec.ExpiresIn)

	registered, err = client.Registered(ctx, "new@example.com")
	require.NoError(t, err)
	assert.True(t, registered)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_, err := client.SignUp(ctx, "test@example.com", "test123456")
	require.NoError(t, err)

	_, err = client.SignUp(ctx, "test@example.com", "other12345")
	require.Error(t, err)
	assert.ErrorIs(t, err, identity.ErrEmailExists)
	assert.Equal(t, "EMAIL_EXISTS", identity.CodeOf(err))
}

func TestSignUpWeakPassword(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.SignUp(context.Background(), "weak@example.com", "no")
	require.Error(t, err)
	assert.ErrorIs(t, err, identity.ErrWeakPassword)
	assert.Equal(t, "WEAK_PASSWORD", identity.CodeOf(err))
}

func TestSignInSuccess(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_, err := client.SignUp(ctx, "test@example.com", "test123456")
	require.NoError(t, err)

	rec, err := client.SignIn(ctx, "test@example.com", "test123456")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.IDToken)
	assert.Equal(t, "test@example.com", rec.Email)
}

func TestSignInWrongPassword(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	_, err := client.SignUp(ctx, "test@example.com", "test123456")
	require.NoError(t, err)

	_, err = client.SignIn(ctx, "test@example.com", "wrong-password")
	require.Error(t, err)
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
	assert.Equal(t, "INVALID_PASSWORD", identity.CodeOf(err))
}

func TestSignInUnknownEmail(t *testing.T) {
	client, _ := newTestClient(t)

	_, err := client.SignIn(context.Background(), "nobody@example.com", "whatever1")
	require.Error(t, err)
	assert.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestUnknownProviderCodePassesThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "QUOTA_EXCEEDED")
	}))
	t.Cleanup(srv.Close)

	client, err := New(srv.URL, "test-key")
	require.NoError(t, err)

	_, err = client.SignUp(context.Background(), "x@example.com", "x1234567")
	require.Error(t, err)
	assert.Equal(t, "QUOTA_EXCEEDED", identity.CodeOf(err))
	assert.NotErrorIs(t, err, identity.ErrEmailExists)
}

func TestNewRequiresConfig(t *testing.T) {
	_, err := New("", "key")
	assert.Error(t, err)

	_, err = New("http://localhost:9099", "")
	assert.Error(t, err)
}
