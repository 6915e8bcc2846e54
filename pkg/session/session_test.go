package session

import (
	"os"
	"path/filepath"
	"testing"

	clierrors "github.com/penfolio/penfolio-cli/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = Session{UserID: "65f0a1b2c3d4e5f601234567", Username: "alice", Role: "USER"}

// TestSessionValid validates the identity check
func TestSessionValid(t *testing.T) {
	testCases := []struct {
		s      Session
		expect bool
		name   string
	}{
		{alice, true, "complete"},
		{Session{Username: "alice"}, false, "missing id"},
		{Session{UserID: "1"}, false, "missing username"},
		{Session{}, false, "empty"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, tc.s.Valid())
		})
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session")
	store := NewFileStore(path)

	s, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, s, "missing file loads as no session")

	require.NoError(t, store.Save(alice))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	s, err = store.Load()
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, alice, *s)

	require.NoError(t, store.Delete())
	require.NoError(t, store.Delete(), "second delete is a no-op")
	s, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestFileStoreIgnoresIncompleteSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	require.NoError(t, os.WriteFile(path, []byte(`{"username":"alice"}`), 0o600))

	s, err := NewFileStore(path).Load()
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewManager(NewFileStore(path))
	assert.Error(t, err)
}

func TestManagerRestoresStoredSession(t *testing.T) {
	m, err := NewManager(NewMemoryStore(&alice))
	require.NoError(t, err)

	got, ok := m.Current()
	assert.True(t, ok)
	assert.Equal(t, alice, got)
}

func TestManagerRequireUser(t *testing.T) {
	m, err := NewManager(NewMemoryStore(nil))
	require.NoError(t, err)

	_, err = m.RequireUser()
	require.Error(t, err)
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeNotLoggedIn))

	require.NoError(t, m.Start(alice))
	got, err := m.RequireUser()
	require.NoError(t, err)
	assert.Equal(t, "alice", got.Username)
}

func TestManagerStartRejectsMissingID(t *testing.T) {
	store := NewMemoryStore(nil)
	m, err := NewManager(store)
	require.NoError(t, err)

	err = m.Start(Session{Username: "alice"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials. Please try again.", err.Error())

	stored, _ := store.Load()
	assert.Nil(t, stored)
}

func TestManagerStartPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")
	m, err := NewManager(NewFileStore(path))
	require.NoError(t, err)
	require.NoError(t, m.Start(alice))

	// A fresh manager over the same file sees the session.
	again, err := NewManager(NewFileStore(path))
	require.NoError(t, err)
	got, ok := again.Current()
	assert.True(t, ok)
	assert.Equal(t, alice, got)
}

func TestLogoutRunsHooksInOrder(t *testing.T) {
	m, err := NewManager(NewMemoryStore(&alice))
	require.NoError(t, err)

	var order []string
	m.OnInvalidate(func() { order = append(order, "notifications") })
	unregister := m.OnInvalidate(func() { order = append(order, "removed") })
	m.OnInvalidate(func() { order = append(order, "chat") })
	unregister()

	require.NoError(t, m.Logout())

	assert.Equal(t, []string{"notifications", "chat"}, order)
	_, ok := m.Current()
	assert.False(t, ok)
}

func TestLogoutWithoutSession(t *testing.T) {
	m, err := NewManager(NewFileStore(filepath.Join(t.TempDir(), "session")))
	require.NoError(t, err)

	called := false
	m.OnInvalidate(func() { called = true })

	require.NoError(t, m.Logout())
	assert.True(t, called)
}
