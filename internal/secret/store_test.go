package secret

import (
	"testing"

	"github.com/99designs/keyring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyringStoreRoundTrip(t *testing.T) {
	s := newKeyringStore(keyring.NewArrayKeyring(nil))

	_, _, _, found, err := s.Get("nas", "media")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set("nas", "media", "CORP", "alice", "pw"))
	domain, user, pass, found, err := s.Get("nas", "media")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "CORP", domain)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "pw", pass)

	require.NoError(t, s.Set("nas", "other", "", "bob", "x"))
	domain, user, _, _, _ = s.Get("nas", "other")
	assert.Empty(t, domain)
	assert.Equal(t, "bob", user)

	require.NoError(t, s.Delete("nas", "media"))
	_, _, _, found, _ = s.Get("nas", "media")
	assert.False(t, found)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	require.NoError(t, s.Set("h", "s", "d", "u", "p"))
	d, u, p, found, err := s.Get("h", "s")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"d", "u", "p"}, []string{d, u, p})
	require.NoError(t, s.Delete("h", "s"))
	_, _, _, found, _ = s.Get("h", "s")
	assert.False(t, found)
}
