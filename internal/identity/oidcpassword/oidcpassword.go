// Package oidcpassword implements identity.Client against an OIDC
// issuer that supports the resource-owner password grant. Sign-in
// exchanges the credentials at the token endpoint and verifies the
// returned id_token; registration and existence lookups stay with the
// issuer and are reported as unsupported.
package oidcpassword

import (
	"context"
	"errors"
	"fmt"

	"authkit/internal/identity"
	"authkit/internal/logger"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

type Client struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

// New initializes the client using OIDC discovery on the issuer URL.
func New(
	ctx context.Context,
	issuer string,
	clientID string,
	clientSecret string,
) (*Client, error) {

	if issuer == "" || clientID == "" {
		return nil, errors.New("oidcpassword: issuer and client id are required")
	}

	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("oidcpassword: init provider: %w", err)
	}

	verifier := oidcProvider.Verifier(&oidc.Config{
		ClientID: clientID,
	})

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     oidcProvider.Endpoint(),
		Scopes: []string{
			oidc.ScopeOpenID,
			"profile",
			"email",
		},
	}

	return &Client{
		oauthConfig: oauthCfg,
		verifier:    verifier,
	}, nil
}

var _ identity.Client = (*Client)(nil)

func (c *Client) SignIn(ctx context.Context, email, password string) (*identity.Record, error) {
	token, err := c.oauthConfig.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.ErrorCode == "invalid_grant" {
			return nil, &identity.Error{
				Code: rerr.ErrorCode,
				Err:  identity.ErrInvalidCredentials,
			}
		}
		return nil, fmt.Errorf("oidcpassword: token request failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("oidcpassword: issuer did not return id_token")
	}

	idToken, err := c.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("oidcpassword: id_token verification failed: %w", err)
	}

	var claims struct {
		Subject string `json:"sub"`
		Email   string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("oidcpassword: id_token claims parse failed: %w", err)
	}

	if claims.Subject == "" {
		return nil, errors.New("oidcpassword: id_token missing subject")
	}
	if claims.Email == "" {
		claims.Email = email
	}

	logger.Info("oidc password grant verified", map[string]any{
		"issuer":      idToken.Issuer,
		"subject":     claims.Subject,
		"expiry_unix": idToken.Expiry.Unix(),
	})

	return &identity.Record{
		UID:          claims.Subject,
		Email:        claims.Email,
		IDToken:      rawIDToken,
		RefreshToken: token.RefreshToken,
	}, nil
}

// SignUp is not available over the password grant; accounts are
// managed in the issuer.
func (c *Client) SignUp(ctx context.Context, email, password string) (*identity.Record, error) {
	return nil, &identity.Error{Code: "registration_disabled", Err: identity.ErrUnsupported}
}

// Registered is not answerable over the password grant without
// probing credentials, which the issuer treats as a failed login.
func (c *Client) Registered(ctx context.Context, email string) (bool, error) {
	return false, &identity.Error{Code: "lookup_disabled", Err: identity.ErrUnsupported}
}
