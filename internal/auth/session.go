package auth

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Session key names bindings commit on login and the guard reads back.
const (
	KeyID       = "id"
	KeyUsername = "username"
	KeyName     = "name"
	KeyRole     = "role"
	KeyToken    = "token"
)

// SessionKeys lists every key a binding writes, in the order Logout
// blanks them.
var SessionKeys = []string{KeyID, KeyUsername, KeyName, KeyRole, KeyToken}

// Session is the in-memory representation of one request's session:
// an opaque string-to-string mapping. Mutations only become visible to
// clients when the owning AuthSession commits the session as a whole.
type Session struct {
	values map[string]string
}

func NewSession() *Session {
	return &Session{values: make(map[string]string)}
}

// SessionFromValues builds a session from an already-decoded mapping.
// The mapping is copied.
func SessionFromValues(values map[string]string) *Session {
	s := NewSession()
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

func (s *Session) Get(key string) string {
	return s.values[key]
}

func (s *Session) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

func (s *Session) Set(key, value string) {
	s.values[key] = value
}

// SetValue stores a value under key. Strings are stored verbatim;
// anything else is JSON-encoded.
func (s *Session) SetValue(key string, v any) error {
	if str, ok := v.(string); ok {
		s.values[key] = str
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("session: encode %q: %w", key, err)
	}
	s.values[key] = string(data)
	return nil
}

// GetValue decodes the JSON-encoded value under key into out.
func (s *Session) GetValue(key string, out any) error {
	raw, ok := s.values[key]
	if !ok {
		return fmt.Errorf("session: no value for %q", key)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("session: decode %q: %w", key, err)
	}
	return nil
}

// SetData writes every field of data into the session, per the
// create-session contract.
func (s *Session) SetData(data map[string]any) error {
	for k, v := range data {
		if err := s.SetValue(k, v); err != nil {
			return err
		}
	}
	return nil
}

// Keys returns the session's keys in sorted order.
func (s *Session) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values returns a copy of the underlying mapping.
func (s *Session) Values() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// IsEmpty reports whether the session holds no non-blank values.
// A destroyed session still carries its keys, set to empty strings.
func (s *Session) IsEmpty() bool {
	for _, v := range s.values {
		if v != "" {
			return false
		}
	}
	return true
}
