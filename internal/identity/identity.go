package identity

import "context"

// Record is the value object an identity provider returns for a
// successful sign-up or sign-in: the provider-assigned unique ID, the
// account email, and a short-lived bearer token. Bindings extract
// fields from it and never persist it beyond the current session write.
type Record struct {
	UID          string
	Email        string
	IDToken      string
	RefreshToken string
	ExpiresIn    int64 // token lifetime in seconds, 0 if unreported
}

// Client is the narrow call surface this layer consumes from an
// identity provider. Implementations own transport, credential
// verification, and token issuance; they make no auth decisions.
type Client interface {
	// SignUp registers email/password and returns the new identity.
	SignUp(ctx context.Context, email, password string) (*Record, error)

	// SignIn verifies email/password and returns the identity with a
	// fresh token.
	SignIn(ctx context.Context, email, password string) (*Record, error)

	// Registered reports whether an account exists for email.
	Registered(ctx context.Context, email string) (bool, error)
}
