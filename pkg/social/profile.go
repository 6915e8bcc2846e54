package social

import (
	"context"
	"sync"

	"github.com/penfolio/penfolio-cli/pkg/api"
	clierrors "github.com/penfolio/penfolio-cli/pkg/errors"
	"github.com/penfolio/penfolio-cli/pkg/logger"
	"github.com/penfolio/penfolio-cli/pkg/optimistic"
	"github.com/penfolio/penfolio-cli/pkg/session"
)

// Follow state messages. The first matches the server's own rejection.
const (
	MsgAlreadyFollowing = "Already following this user"
	MsgNotFollowing     = "Not following this user"
)

// ProfileSource is the part of the REST client the profile view needs.
type ProfileSource interface {
	GetProfile(ctx context.Context, username string) (*api.Profile, error)
	Follow(ctx context.Context, username, userID string) error
	Unfollow(ctx context.Context, username, userID string) error
}

// ProfileView is the state of one open profile.
//
// Follow and Unfollow adjust the follower count locally and never refetch,
// so the count can drift from the server when other users follow or
// unfollow in the meantime. Load again to resynchronise.
type ProfileView struct {
	src  ProfileSource
	sess *session.Manager

	mu        sync.Mutex
	profile   *api.Profile
	followers int
	following bool
	status    optimistic.Status
}

// NewProfileView creates an empty view; call Load before anything else.
func NewProfileView(src ProfileSource, sess *session.Manager) *ProfileView {
	return &ProfileView{src: src, sess: sess}
}

// Load fetches the profile and derives the follow state from it.
func (v *ProfileView) Load(ctx context.Context, username string) error {
	profile, err := v.src.GetProfile(ctx, username)
	if err != nil {
		if api.IsNotFound(err) {
			return clierrors.NotFoundError("User", username)
		}
		return err
	}

	s, _ := v.sess.Current()
	v.mu.Lock()
	defer v.mu.Unlock()
	v.profile = profile
	v.followers = len(profile.Followers)
	v.following = profile.FollowedBy(s.UserID)
	v.status = optimistic.Idle
	return nil
}

// Profile returns the profile as last loaded.
func (v *ProfileView) Profile() (api.Profile, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.profile == nil {
		return api.Profile{}, false
	}
	return *v.profile, true
}

// FollowersCount is the locally maintained follower count.
func (v *ProfileView) FollowersCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.followers
}

// IsFollowing reports the local follow flag.
func (v *ProfileView) IsFollowing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.following
}

// IsOwn reports whether the viewer is looking at their own profile.
func (v *ProfileView) IsOwn() bool {
	s, ok := v.sess.Current()
	if !ok {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.profile != nil && (v.profile.ID == s.UserID || v.profile.Username == s.Username)
}

// Status of the last follow mutation.
func (v *ProfileView) Status() optimistic.Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// Follow marks the viewer as a follower immediately and rolls back if the
// server refuses.
func (v *ProfileView) Follow(ctx context.Context) error {
	return v.toggle(ctx, true)
}

// Unfollow is the inverse of Follow.
func (v *ProfileView) Unfollow(ctx context.Context) error {
	return v.toggle(ctx, false)
}

func (v *ProfileView) toggle(ctx context.Context, follow bool) error {
	s, err := v.sess.RequireUser()
	if err != nil {
		return err
	}
	profile, ok := v.Profile()
	if !ok {
		return clierrors.ValidationError("No profile loaded")
	}
	if v.IsOwn() {
		return clierrors.ValidationError("Cannot follow yourself")
	}
	if v.IsFollowing() == follow {
		if follow {
			return clierrors.ValidationError(MsgAlreadyFollowing)
		}
		return clierrors.ValidationError(MsgNotFollowing)
	}

	delta, call := 1, v.src.Follow
	if !follow {
		delta, call = -1, v.src.Unfollow
	}

	var prevCount int
	var prevFollowing bool
	_, err = optimistic.Apply(
		func() {
			v.mu.Lock()
			prevCount, prevFollowing = v.followers, v.following
			v.followers += delta
			v.following = follow
			v.mu.Unlock()
		},
		func() error {
			return call(ctx, profile.Username, s.UserID)
		},
		func() {
			v.mu.Lock()
			v.followers, v.following = prevCount, prevFollowing
			v.mu.Unlock()
		},
		func(st optimistic.Status) {
			v.mu.Lock()
			v.status = st
			v.mu.Unlock()
		},
	)
	if err != nil {
		logger.Error("Follow toggle failed", "username", profile.Username, "follow", follow, "error", err)
	}
	return err
}
