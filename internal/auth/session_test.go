package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStringValuesStoredVerbatim(t *testing.T) {
	s := NewSession()

	require.NoError(t, s.SetValue("username", "test@example.com"))

	assert.Equal(t, "test@example.com", s.Get("username"))
	assert.True(t, s.Has("username"))
}

func TestSessionNonStringValuesRoundTripThroughJSON(t *testing.T) {
	s := NewSession()

	type prefs struct {
		Theme string `json:"theme"`
		Count int    `json:"count"`
	}

	require.NoError(t, s.SetValue("prefs", prefs{Theme: "dark", Count: 3}))

	var got prefs
	require.NoError(t, s.GetValue("prefs", &got))
	assert.Equal(t, prefs{Theme: "dark", Count: 3}, got)
}

func TestSessionSetDataWritesEveryField(t *testing.T) {
	s := NewSession()

	require.NoError(t, s.SetData(map[string]any{
		"id":       "u-1",
		"username": "test@example.com",
		"attempts": 2,
	}))

	assert.Equal(t, "u-1", s.Get("id"))
	assert.Equal(t, "test@example.com", s.Get("username"))
	assert.Equal(t, "2", s.Get("attempts"))
	assert.ElementsMatch(t, []string{"attempts", "id", "username"}, s.Keys())
}

func TestSessionIsEmpty(t *testing.T) {
	s := NewSession()
	assert.True(t, s.IsEmpty())

	s.Set("username", "test@example.com")
	assert.False(t, s.IsEmpty())

	// A destroyed session keeps its keys with blank values.
	s.Set("username", "")
	assert.True(t, s.IsEmpty())
	assert.True(t, s.Has("username"))
}

func TestSessionFromValuesCopies(t *testing.T) {
	src := map[string]string{"role": "admin"}
	s := SessionFromValues(src)

	src["role"] = "user"
	assert.Equal(t, "admin", s.Get("role"))
}
