package credauth

import (
	"errors"
	"time"

	"authkit/internal/auth/credentials"

	"github.com/golang-jwt/jwt/v5"
)

const tokenTTL = 1 * time.Hour

// tokenIssuer mints the short-lived HS256 id tokens this binding
// returns where an external provider would return its own.
type tokenIssuer struct {
	signingKey []byte
	issuer     string
}

func newTokenIssuer(signingKey []byte, issuer string) (*tokenIssuer, error) {
	if len(signingKey) == 0 {
		return nil, errors.New("credauth: signing key must not be empty")
	}
	return &tokenIssuer{signingKey: signingKey, issuer: issuer}, nil
}

func (t *tokenIssuer) issue(user *credentials.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":   t.issuer,
		"sub":   user.ID,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(tokenTTL).Unix(),
	}
	if user.Role != "" {
		claims["role"] = user.Role
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.signingKey)
}
