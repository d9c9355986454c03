// Package toolkit implements the identity.Client surface against an
// identity-toolkit style REST API (accounts:signUp, sign-in with
// password, account-existence lookup). Pointing BaseURL at a local
// emulator gives a fully offline provider.
package toolkit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"authkit/internal/identity"
)

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func New(baseURL, apiKey string) (*Client, error) {
	if baseURL == "" || apiKey == "" {
		return nil, errors.New("toolkit: base url and api key are required")
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}, nil
}

var _ identity.Client = (*Client)(nil)

// accountResponse is the provider's account payload shape, shared by
// sign-up and sign-in.
type accountResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*identity.Record, error) {
	var out accountResponse
	err := c.post(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return record(out), nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*identity.Record, error) {
	var out accountResponse
	err := c.post(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &out)
	if err != nil {
		return nil, err
	}
	return record(out), nil
}

func (c *Client) Registered(ctx context.Context, email string) (bool, error) {
	var out struct {
		Registered bool `json:"registered"`
	}
	err := c.post(ctx, "accounts:createAuthUri", map[string]any{
		"identifier":  email,
		"continueUri": c.baseURL + "/dummy-uri",
	}, &out)
	if err != nil {
		return false, err
	}
	return out.Registered, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body map[string]any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("toolkit: encode request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/%s?key=%s", c.baseURL, endpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("toolkit: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("toolkit: %s: %w", endpoint, err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		var eres errorResponse
		if err := json.NewDecoder(res.Body).Decode(&eres); err != nil {
			return fmt.Errorf("toolkit: %s returned status %d", endpoint, res.StatusCode)
		}
		return classify(eres.Error.Message)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("toolkit: decode %s response: %w", endpoint, err)
	}
	return nil
}

// classify maps the provider's error message codes onto the identity
// error taxonomy, keeping the provider code for envelopes.
func classify(code string) error {
	// WEAK_PASSWORD arrives with a trailing explanation,
	// e.g. "WEAK_PASSWORD : Password should be at least 6 characters".
	head, _, _ := strings.Cut(code, " ")

	switch head {
	case "EMAIL_EXISTS":
		return &identity.Error{Code: head, Err: identity.ErrEmailExists}
	case "WEAK_PASSWORD":
		return &identity.Error{Code: head, Err: identity.ErrWeakPassword}
	case "INVALID_PASSWORD", "EMAIL_NOT_FOUND", "INVALID_LOGIN_CREDENTIALS", "USER_DISABLED":
		return &identity.Error{Code: head, Err: identity.ErrInvalidCredentials}
	default:
		return &identity.Error{Code: head, Err: fmt.Errorf("identity: provider rejected request: %s", code)}
	}
}

func record(res accountResponse) *identity.Record {
	expiresIn, _ := strconv.ParseInt(res.ExpiresIn, 10, 64)
	return &identity.Record{
		UID:          res.LocalID,
		Email:        res.Email,
		IDToken:      res.IDToken,
		RefreshToken: res.RefreshToken,
		ExpiresIn:    expiresIn,
	}
}
