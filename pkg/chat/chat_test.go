package chat

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/penfolio/penfolio-cli/internal/fakeapi"
	"github.com/penfolio/penfolio-cli/pkg/api"
	"github.com/penfolio/penfolio-cli/pkg/client"
	"github.com/penfolio/penfolio-cli/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	threadRoute = fakeapi.Route(http.MethodGet, "/api/messages/:from/:to")
	sendRoute   = fakeapi.Route(http.MethodPost, "/api/messages")
)

type fixture struct {
	srv   *fakeapi.Server
	sess  *session.Manager
	panel *Panel
	me    api.User
	bob   api.User
	carol api.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := fakeapi.New()
	t.Cleanup(srv.Close)

	me := srv.AddUser("alice", "pw")
	bob := srv.AddUser("bob", "pw")
	carol := srv.AddUser("Carolyn", "pw")
	srv.AddUser("dave", "pw")
	srv.Follow(me.ID, bob.ID)
	srv.Follow(me.ID, carol.ID)

	sess, err := session.NewManager(session.NewMemoryStore(&session.Session{UserID: me.ID, Username: me.Username}))
	require.NoError(t, err)

	c := api.New(client.New(client.Options{BaseURL: srv.URL, Timeout: 5 * time.Second}))
	return &fixture{srv: srv, sess: sess, panel: New(c, sess), me: me, bob: bob, carol: carol}
}

func summary(u api.User) api.UserSummary {
	return api.UserSummary{ID: u.ID, Username: u.Username}
}

func TestOpenLoadsFollowing(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, Idle, f.panel.State())

	require.NoError(t, f.panel.Open(context.Background()))

	assert.Equal(t, FollowingLoaded, f.panel.State())
	assert.Len(t, f.panel.Contacts(""), 2)
}

func TestContactsFilter(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.panel.Open(context.Background()))
	calls := f.srv.Calls(fakeapi.Route(http.MethodGet, "/api/profile/:username/following"))

	tests := []struct {
		filter string
		want   []string
	}{
		{"", []string{"bob", "Carolyn"}},
		{"  ", []string{"bob", "Carolyn"}},
		{"CAROL", []string{"Carolyn"}},
		{"o", []string{"bob", "Carolyn"}},
		{"dave", []string{}},
	}
	for _, tt := range tests {
		names := []string{}
		for _, c := range f.panel.Contacts(tt.filter) {
			names = append(names, c.Username)
		}
		assert.ElementsMatch(t, tt.want, names, "filter %q", tt.filter)
	}

	assert.Equal(t, calls, f.srv.Calls(fakeapi.Route(http.MethodGet, "/api/profile/:username/following")), "filtering never refetches")
}

func TestSelectLoadsThread(t *testing.T) {
	f := newFixture(t)
	f.srv.AddMessage(f.me.ID, f.bob.ID, "hey bob")
	f.srv.AddMessage(f.bob.ID, f.me.ID, "hey alice")
	f.srv.AddMessage(f.carol.ID, f.me.ID, "unrelated")
	require.NoError(t, f.panel.Open(context.Background()))

	require.NoError(t, f.panel.Select(context.Background(), summary(f.bob)))

	assert.Equal(t, ThreadLoaded, f.panel.State())
	thread := f.panel.Thread()
	require.Len(t, thread, 2)
	assert.Equal(t, "hey bob", thread[0].Text)
	assert.Equal(t, "hey alice", thread[1].Text)
}

func TestSelectSupersedesInFlightLoad(t *testing.T) {
	f := newFixture(t)
	f.srv.AddMessage(f.bob.ID, f.me.ID, "from bob")
	f.srv.AddMessage(f.carol.ID, f.me.ID, "from carol")
	require.NoError(t, f.panel.Open(context.Background()))

	release := f.srv.Hold(threadRoute)
	first := make(chan error, 1)
	go func() { first <- f.panel.Select(context.Background(), summary(f.bob)) }()

	require.Eventually(t, func() bool { return f.srv.Calls(threadRoute) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, LoadingThread, f.panel.State())

	second := make(chan error, 1)
	go func() { second <- f.panel.Select(context.Background(), summary(f.carol)) }()

	// Selecting carol cancels the bob load without waiting for the server.
	assert.ErrorIs(t, <-first, ErrSuperseded)
	require.Eventually(t, func() bool { return f.srv.Calls(threadRoute) == 2 }, time.Second, 5*time.Millisecond)
	release()
	require.NoError(t, <-second)

	sel, _ := f.panel.Selected()
	assert.Equal(t, f.carol.ID, sel.ID)
	thread := f.panel.Thread()
	require.Len(t, thread, 1)
	assert.Equal(t, "from carol", thread[0].Text)
}

func TestSendAppendsEchoImmediately(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.panel.Open(context.Background()))
	require.NoError(t, f.panel.Select(context.Background(), summary(f.bob)))
	require.Empty(t, f.panel.Thread())

	release := f.srv.Hold(sendRoute)
	result := make(chan SendResult, 1)
	go func() { result <- f.panel.Send(context.Background(), "  hello ") }()

	require.Eventually(t, func() bool { return len(f.panel.Thread()) == 1 }, time.Second, 5*time.Millisecond)
	thread := f.panel.Thread()
	assert.Equal(t, "hello", thread[0].Text)
	assert.Equal(t, "alice", thread[0].User)
	assert.True(t, thread[0].Local)
	release()

	r := <-result
	assert.True(t, r.Delivered)
	assert.NoError(t, r.Err)
	assert.Len(t, f.panel.Thread(), 1)
}

func TestSendFailureIsReported(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.panel.Open(context.Background()))
	require.NoError(t, f.panel.Select(context.Background(), summary(f.bob)))
	f.srv.Fail(sendRoute, http.StatusInternalServerError, "broker down")

	r := f.panel.Send(context.Background(), "hello")

	assert.False(t, r.Delivered)
	require.Error(t, r.Err)
	assert.True(t, r.Message.Failed)
	thread := f.panel.Thread()
	require.Len(t, thread, 1)
	assert.True(t, thread[0].Failed)
}

func TestSendWhileThreadLoadingIsRejected(t *testing.T) {
	f := newFixture(t)
	f.srv.AddMessage(f.bob.ID, f.me.ID, "from bob")
	require.NoError(t, f.panel.Open(context.Background()))

	release := f.srv.Hold(threadRoute)
	loaded := make(chan error, 1)
	go func() { loaded <- f.panel.Select(context.Background(), summary(f.bob)) }()
	require.Eventually(t, func() bool { return f.srv.Calls(threadRoute) == 1 }, time.Second, 5*time.Millisecond)

	r := f.panel.Send(context.Background(), "too early")
	assert.False(t, r.Delivered)
	assert.ErrorIs(t, r.Err, ErrThreadLoading)
	assert.Zero(t, f.srv.Calls(sendRoute))

	release()
	require.NoError(t, <-loaded)
	thread := f.panel.Thread()
	require.Len(t, thread, 1)
	assert.Equal(t, "from bob", thread[0].Text)

	r = f.panel.Send(context.Background(), "now")
	assert.True(t, r.Delivered)
	assert.Len(t, f.panel.Thread(), 2)
}

func TestSendIgnoresBlankOrUnselected(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.panel.Open(context.Background()))

	r := f.panel.Send(context.Background(), "hello")
	assert.False(t, r.Delivered)
	assert.NoError(t, r.Err)

	require.NoError(t, f.panel.Select(context.Background(), summary(f.bob)))
	r = f.panel.Send(context.Background(), "   ")
	assert.False(t, r.Delivered)

	assert.Zero(t, f.srv.Calls(sendRoute))
	assert.Empty(t, f.panel.Thread())
}

func TestOnChangeFiresForEveryUpdate(t *testing.T) {
	f := newFixture(t)
	var mu sync.Mutex
	var lengths []int
	f.panel.OnChange(func(thread []ThreadMessage) {
		mu.Lock()
		lengths = append(lengths, len(thread))
		mu.Unlock()
	})
	f.srv.AddMessage(f.bob.ID, f.me.ID, "one")

	require.NoError(t, f.panel.Open(context.Background()))
	require.NoError(t, f.panel.Select(context.Background(), summary(f.bob)))
	f.panel.Send(context.Background(), "two")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 2}, lengths)
}

func TestThreadLoadFailureShowsEmpty(t *testing.T) {
	f := newFixture(t)
	f.srv.AddMessage(f.bob.ID, f.me.ID, "one")
	require.NoError(t, f.panel.Open(context.Background()))
	f.srv.Fail(threadRoute, http.StatusInternalServerError, "")

	require.Error(t, f.panel.Select(context.Background(), summary(f.bob)))
	assert.Equal(t, ThreadLoaded, f.panel.State())
	assert.Empty(t, f.panel.Thread())
}

func TestLogoutClosesPanel(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.panel.Open(context.Background()))
	require.NoError(t, f.panel.Select(context.Background(), summary(f.bob)))

	require.NoError(t, f.sess.Logout())

	assert.Equal(t, Idle, f.panel.State())
	assert.Empty(t, f.panel.Contacts(""))
	_, ok := f.panel.Selected()
	assert.False(t, ok)
}
