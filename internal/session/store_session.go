package session

import (
	"context"
	"net/http"
	"time"

	"authkit/internal/auth"
	"authkit/internal/respond"
)

// StoreSession is the store-backed AuthSession: the cookie carries an
// opaque record ID and the session values live server-side in a Store.
type StoreSession struct {
	store Store
	opts  CookieOptions
	ttl   time.Duration
}

func NewStoreSession(store Store, opts CookieOptions, ttl time.Duration) *StoreSession {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &StoreSession{store: store, opts: opts, ttl: ttl}
}

var _ auth.AuthSession = (*StoreSession)(nil)

// GetAuthSession resolves the request's cookie to its stored record.
// A missing cookie, unknown ID, or store fault yields an empty session.
func (s *StoreSession) GetAuthSession(r *http.Request) *auth.Session {
	id := cookieValue(r)
	if id == "" {
		return auth.NewSession()
	}

	rec, err := s.store.Get(r.Context(), id)
	if err != nil || rec == nil {
		return auth.NewSession()
	}
	return auth.SessionFromValues(rec.Values)
}

func (s *StoreSession) CreateAuthSession(ctx context.Context, data map[string]any, redirectTo string) *respond.Response {
	sess := auth.NewSession()
	if err := sess.SetData(data); err != nil {
		return createFailure(err)
	}

	id, err := GenerateID()
	if err != nil {
		return createFailure(err)
	}

	expiresAt := time.Now().Add(s.ttl)
	rec := Record{ID: id, Values: sess.Values(), ExpiresAt: expiresAt}

	if err := s.store.Create(ctx, rec); err != nil {
		return createFailure(err)
	}

	return committed(http.StatusCreated, redirectTo).
		AddCookie(NewCookie(id, expiresAt, s.opts))
}

// DestroyAuthSession blanks the named keys and recommits the record.
// The record itself is kept; a destroyed session is a placeholder with
// empty values, not an absent cookie.
func (s *StoreSession) DestroyAuthSession(r *http.Request, keys []string, redirectTo string) *respond.Response {
	ctx := r.Context()
	expiresAt := time.Now().Add(s.ttl)

	id := cookieValue(r)
	var rec *Record
	if id != "" {
		existing, err := s.store.Get(ctx, id)
		if err != nil {
			return destroyFailure(err)
		}
		if existing != nil {
			rec = existing
			if rec.ExpiresAt.After(time.Now()) {
				expiresAt = rec.ExpiresAt
			}
		}
	}

	// No current record: commit a fresh placeholder, like reading a
	// session from an absent cookie yields a fresh session.
	if rec == nil {
		newID, err := GenerateID()
		if err != nil {
			return destroyFailure(err)
		}
		rec = &Record{ID: newID, Values: make(map[string]string)}
	}
	rec.ExpiresAt = expiresAt

	if rec.Values == nil {
		rec.Values = make(map[string]string)
	}
	for _, key := range keys {
		rec.Values[key] = ""
	}

	if err := s.store.Update(ctx, *rec); err != nil {
		return destroyFailure(err)
	}

	return committed(http.StatusNoContent, redirectTo).
		AddCookie(NewCookie(rec.ID, expiresAt, s.opts))
}

func committed(successCode int, redirectTo string) *respond.Response {
	if redirectTo != "" {
		return respond.Redirect(redirectTo)
	}
	return respond.Success(successCode, nil)
}

func createFailure(err error) *respond.Response {
	return respond.Error(
		http.StatusInternalServerError,
		auth.CodeSessionCreate,
		"could not create user session: "+err.Error(),
	)
}

func destroyFailure(err error) *respond.Response {
	return respond.Error(
		http.StatusInternalServerError,
		auth.CodeSessionDestroy,
		"could not destroy user session: "+err.Error(),
	)
}
