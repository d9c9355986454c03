package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"authkit/internal/auth"
	"authkit/internal/respond"

	"github.com/golang-jwt/jwt/v5"
)

// CookieSession is the stateless AuthSession: the session mapping is
// signed into the cookie itself as HS256 JWT claims. No server-side
// store is involved; tampered or expired cookies read as empty.
type CookieSession struct {
	signingKey []byte
	issuer     string
	opts       CookieOptions
	ttl        time.Duration
}

type sessionClaims struct {
	jwt.RegisteredClaims

	// Data holds the session's key-value mapping.
	Data map[string]string `json:"data"`
}

func NewCookieSession(signingKey []byte, issuer string, opts CookieOptions, ttl time.Duration) (*CookieSession, error) {
	if len(signingKey) == 0 {
		return nil, errors.New("session: signing key must not be empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CookieSession{
		signingKey: signingKey,
		issuer:     issuer,
		opts:       opts,
		ttl:        ttl,
	}, nil
}

var _ auth.AuthSession = (*CookieSession)(nil)

func (s *CookieSession) GetAuthSession(r *http.Request) *auth.Session {
	raw := cookieValue(r)
	if raw == "" {
		return auth.NewSession()
	}

	values, _, err := s.decode(raw)
	if err != nil {
		return auth.NewSession()
	}
	return auth.SessionFromValues(values)
}

func (s *CookieSession) CreateAuthSession(_ context.Context, data map[string]any, redirectTo string) *respond.Response {
	sess := auth.NewSession()
	if err := sess.SetData(data); err != nil {
		return createFailure(err)
	}

	cookie, err := s.commit(sess.Values(), time.Now().Add(s.ttl))
	if err != nil {
		return createFailure(err)
	}

	return committed(http.StatusCreated, redirectTo).AddCookie(cookie)
}

func (s *CookieSession) DestroyAuthSession(r *http.Request, keys []string, redirectTo string) *respond.Response {
	expiresAt := time.Now().Add(s.ttl)

	values := make(map[string]string)
	if raw := cookieValue(r); raw != "" {
		if decoded, exp, err := s.decode(raw); err == nil {
			values = decoded
			if exp.After(time.Now()) {
				expiresAt = exp
			}
		}
	}

	for _, key := range keys {
		values[key] = ""
	}

	cookie, err := s.commit(values, expiresAt)
	if err != nil {
		return destroyFailure(err)
	}

	return committed(http.StatusNoContent, redirectTo).AddCookie(cookie)
}

// commit signs the mapping into a fresh cookie.
func (s *CookieSession) commit(values map[string]string, expiresAt time.Time) (*http.Cookie, error) {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Data: values,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return nil, err
	}

	return NewCookie(signed, expiresAt, s.opts), nil
}

func (s *CookieSession) decode(raw string) (map[string]string, time.Time, error) {
	var claims sessionClaims

	_, err := jwt.ParseWithClaims(
		raw,
		&claims,
		func(t *jwt.Token) (any, error) {
			return s.signingKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
	)
	if err != nil {
		return nil, time.Time{}, err
	}

	if claims.Data == nil {
		claims.Data = make(map[string]string)
	}

	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return claims.Data, expiresAt, nil
}
