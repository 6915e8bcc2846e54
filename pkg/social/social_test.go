package social

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/penfolio/penfolio-cli/internal/fakeapi"
	"github.com/penfolio/penfolio-cli/pkg/api"
	"github.com/penfolio/penfolio-cli/pkg/client"
	clierrors "github.com/penfolio/penfolio-cli/pkg/errors"
	"github.com/penfolio/penfolio-cli/pkg/optimistic"
	"github.com/penfolio/penfolio-cli/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	commentRoute  = fakeapi.Route(http.MethodPost, "/api/blogs/:id/comment")
	followRoute   = fakeapi.Route(http.MethodPost, "/api/profile/:username/follow")
	unfollowRoute = fakeapi.Route(http.MethodPost, "/api/profile/:username/unfollow")
)

type fixture struct {
	srv  *fakeapi.Server
	api  *api.Client
	sess *session.Manager
	me   api.User
	bob  api.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	srv := fakeapi.New()
	t.Cleanup(srv.Close)

	me := srv.AddUser("u1", "pw")
	bob := srv.AddUser("bob", "pw")
	sess, err := session.NewManager(session.NewMemoryStore(&session.Session{UserID: me.ID, Username: me.Username}))
	require.NoError(t, err)

	return &fixture{
		srv:  srv,
		api:  api.New(client.New(client.Options{BaseURL: srv.URL, Timeout: 5 * time.Second})),
		sess: sess,
		me:   me,
		bob:  bob,
	}
}

func (f *fixture) openBlog(t *testing.T, blogID string) *BlogDetail {
	t.Helper()
	d := NewBlogDetail(f.api, f.sess)
	require.NoError(t, d.Load(context.Background(), blogID))
	return d
}

func TestLikeToggle(t *testing.T) {
	f := newFixture(t)
	blog := f.srv.AddBlog(f.bob.ID, "Hello", "world")
	// Three earlier likes from other readers.
	for _, name := range []string{"r1", "r2", "r3"} {
		reader := f.srv.AddUser(name, "pw")
		_, err := f.api.LikeBlog(context.Background(), blog.ID, reader.ID)
		require.NoError(t, err)
	}

	d := f.openBlog(t, blog.ID)
	b, _ := d.Blog()
	require.Equal(t, 3, b.Likes)
	assert.False(t, d.IsLiked())

	require.NoError(t, d.Like(context.Background()))
	b, _ = d.Blog()
	assert.Equal(t, 4, b.Likes)
	assert.True(t, d.IsLiked())

	require.NoError(t, d.Like(context.Background()))
	b, _ = d.Blog()
	assert.Equal(t, 3, b.Likes)
	assert.False(t, d.IsLiked())
}

func TestLoadMissingBlog(t *testing.T) {
	f := newFixture(t)
	err := NewBlogDetail(f.api, f.sess).Load(context.Background(), "nope")
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeNotFound))
}

func TestAddCommentRejectsBlank(t *testing.T) {
	f := newFixture(t)
	blog := f.srv.AddBlog(f.bob.ID, "Hello", "world")
	d := f.openBlog(t, blog.ID)

	for _, content := range []string{"", "   ", "\n\t "} {
		err := d.AddComment(context.Background(), content)
		require.Error(t, err)
		assert.Equal(t, "Comment cannot be empty.", err.Error())
		assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeValidation))
	}
	assert.Zero(t, f.srv.Calls(commentRoute))
}

func TestAddComment(t *testing.T) {
	f := newFixture(t)
	blog := f.srv.AddBlog(f.bob.ID, "Hello", "world")
	d := f.openBlog(t, blog.ID)

	require.NoError(t, d.AddComment(context.Background(), "  great read  "))

	b, _ := d.Blog()
	require.Len(t, b.Comments, 1)
	assert.Equal(t, "great read", b.Comments[0].Content)
	assert.Equal(t, "u1", b.Comments[0].Author)
	assert.Equal(t, f.me.ID, b.Comments[0].AuthorID)
}

func TestLikeCommentSplicesInPlace(t *testing.T) {
	f := newFixture(t)
	blog := f.srv.AddBlog(f.bob.ID, "Hello", "world")
	ctx := context.Background()
	for _, text := range []string{"first", "second", "third"} {
		_, err := f.api.AddComment(ctx, blog.ID, api.NewComment{Content: text, Author: "bob", AuthorID: f.bob.ID})
		require.NoError(t, err)
	}
	d := f.openBlog(t, blog.ID)
	before, _ := d.Blog()
	target := before.Comments[1].ID

	require.NoError(t, d.LikeComment(ctx, target))

	after, _ := d.Blog()
	require.Len(t, after.Comments, 3)
	assert.Equal(t, target, after.Comments[1].ID)
	assert.Equal(t, 1, after.Comments[1].Likes)
	assert.Zero(t, after.Comments[0].Likes)
	assert.Zero(t, after.Comments[2].Likes)
}

func TestDeleteCommentPermissions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	carol := f.srv.AddUser("carol", "pw")

	bobsBlog := f.srv.AddBlog(f.bob.ID, "Bob's", "x")
	withCarol, err := f.api.AddComment(ctx, bobsBlog.ID, api.NewComment{Content: "hi", Author: "carol", AuthorID: carol.ID})
	require.NoError(t, err)
	withMine, err := f.api.AddComment(ctx, bobsBlog.ID, api.NewComment{Content: "mine", Author: "u1", AuthorID: f.me.ID})
	require.NoError(t, err)
	carolsComment := withCarol.Comments[0]
	myComment := withMine.Comments[1]

	d := f.openBlog(t, bobsBlog.ID)
	assert.False(t, d.CanDeleteComment(carolsComment))
	assert.True(t, d.CanDeleteComment(myComment))

	err = d.DeleteComment(ctx, carolsComment.ID)
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeForbidden))
	assert.Zero(t, f.srv.Calls(fakeapi.Route(http.MethodDelete, "/api/blogs/:id/comments/:commentId")))

	require.NoError(t, d.DeleteComment(ctx, myComment.ID))
	b, _ := d.Blog()
	require.Len(t, b.Comments, 1)
	assert.Equal(t, carolsComment.ID, b.Comments[0].ID)

	// On my own blog I may delete anyone's comment.
	myBlog := f.srv.AddBlog(f.me.ID, "Mine", "y")
	withBob, err := f.api.AddComment(ctx, myBlog.ID, api.NewComment{Content: "yo", Author: "bob", AuthorID: f.bob.ID})
	require.NoError(t, err)
	mine := f.openBlog(t, myBlog.ID)
	assert.True(t, mine.CanDeleteComment(withBob.Comments[0]))
	require.NoError(t, mine.DeleteComment(ctx, withBob.Comments[0].ID))
}

func TestBlogActionsRequireSession(t *testing.T) {
	f := newFixture(t)
	blog := f.srv.AddBlog(f.bob.ID, "Hello", "world")
	d := f.openBlog(t, blog.ID)
	require.NoError(t, f.sess.Logout())

	err := d.Like(context.Background())
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeNotLoggedIn))
	assert.False(t, d.IsLiked())
}

func TestFollowShowsOptimisticCountImmediately(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"f1", "f2", "f3", "f4", "f5"} {
		f.srv.Follow(f.srv.AddUser(name, "pw").ID, f.bob.ID)
	}

	v := NewProfileView(f.api, f.sess)
	require.NoError(t, v.Load(context.Background(), "bob"))
	require.Equal(t, 5, v.FollowersCount())
	require.False(t, v.IsFollowing())

	release := f.srv.Hold(followRoute)
	done := make(chan error, 1)
	go func() { done <- v.Follow(context.Background()) }()

	require.Eventually(t, func() bool { return v.Status() == optimistic.Pending }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 6, v.FollowersCount(), "count updates before the server answers")
	assert.True(t, v.IsFollowing())

	// Someone else follows while ours is in flight; the local count does
	// not pick that up.
	f.srv.Follow(f.srv.AddUser("f6", "pw").ID, f.bob.ID)
	release()

	require.NoError(t, <-done)
	assert.Equal(t, optimistic.Confirmed, v.Status())
	assert.Equal(t, 6, v.FollowersCount())

	server, err := f.api.GetProfile(context.Background(), "bob")
	require.NoError(t, err)
	assert.Len(t, server.Followers, 7)
}

func TestFollowCountFromPresetValue(t *testing.T) {
	f := newFixture(t)
	for _, name := range []string{"f1", "f2", "f3", "f4", "f5"} {
		f.srv.Follow(f.srv.AddUser(name, "pw").ID, f.bob.ID)
	}
	v := NewProfileView(f.api, f.sess)
	require.NoError(t, v.Load(context.Background(), "bob"))

	require.NoError(t, v.Follow(context.Background()))
	assert.Equal(t, 6, v.FollowersCount())
}

func TestFollowRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)
	v := NewProfileView(f.api, f.sess)
	require.NoError(t, v.Load(context.Background(), "bob"))

	f.srv.Fail(followRoute, http.StatusInternalServerError, "Error following user")
	err := v.Follow(context.Background())

	require.Error(t, err)
	assert.Equal(t, optimistic.RolledBack, v.Status())
	assert.Equal(t, 0, v.FollowersCount())
	assert.False(t, v.IsFollowing())
}

func TestUnfollow(t *testing.T) {
	f := newFixture(t)
	f.srv.Follow(f.me.ID, f.bob.ID)
	v := NewProfileView(f.api, f.sess)
	require.NoError(t, v.Load(context.Background(), "bob"))
	require.True(t, v.IsFollowing())
	require.Equal(t, 1, v.FollowersCount())

	require.NoError(t, v.Unfollow(context.Background()))
	assert.False(t, v.IsFollowing())
	assert.Equal(t, 0, v.FollowersCount())
}

func TestUnfollowWhenNotFollowing(t *testing.T) {
	f := newFixture(t)
	f.srv.Follow(f.srv.AddUser("f1", "pw").ID, f.bob.ID)
	v := NewProfileView(f.api, f.sess)
	require.NoError(t, v.Load(context.Background(), "bob"))
	require.False(t, v.IsFollowing())

	err := v.Unfollow(context.Background())
	require.Error(t, err)
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeValidation))
	assert.Equal(t, MsgNotFollowing, err.Error())
	assert.Equal(t, 1, v.FollowersCount())
	assert.Equal(t, optimistic.Idle, v.Status())
	assert.Zero(t, f.srv.Calls(unfollowRoute))
}

func TestDoubleUnfollowKeepsCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.srv.Follow(f.srv.AddUser("f1", "pw").ID, f.bob.ID)
	v := NewProfileView(f.api, f.sess)
	require.NoError(t, v.Load(ctx, "bob"))

	require.NoError(t, v.Follow(ctx))
	require.NoError(t, v.Unfollow(ctx))
	err := v.Unfollow(ctx)
	assert.True(t, clierrors.IsType(err, clierrors.ErrorTypeValidation))
	assert.Equal(t, 1, f.srv.Calls(unfollowRoute))

	server, err := f.api.GetProfile(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, len(server.Followers), v.FollowersCount())
	assert.Equal(t, 1, v.FollowersCount())
}

func TestFollowTwiceRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v := NewProfileView(f.api, f.sess)
	require.NoError(t, v.Load(ctx, "bob"))

	require.NoError(t, v.Follow(ctx))
	err := v.Follow(ctx)
	require.Error(t, err)
	assert.Equal(t, MsgAlreadyFollowing, err.Error())
	assert.Equal(t, 1, v.FollowersCount())
	assert.Equal(t, 1, f.srv.Calls(followRoute))
}

func TestCannotFollowSelf(t *testing.T) {
	f := newFixture(t)
	v := NewProfileView(f.api, f.sess)
	require.NoError(t, v.Load(context.Background(), "u1"))

	err := v.Follow(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Cannot follow yourself", err.Error())
	assert.Zero(t, f.srv.Calls(followRoute))
}
