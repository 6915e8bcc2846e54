// Package notify is the single notification controller shared by every view
// that shows notifications or the unread badge.
package notify

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/penfolio/penfolio-cli/pkg/api"
	"github.com/penfolio/penfolio-cli/pkg/logger"
	"github.com/penfolio/penfolio-cli/pkg/optimistic"
	"github.com/penfolio/penfolio-cli/pkg/session"
)

// Source is the part of the REST client the controller needs.
type Source interface {
	GetNotifications(ctx context.Context, userID string) ([]api.Notification, error)
	MarkAllNotificationsRead(ctx context.Context, userID string) error
	ClearNotifications(ctx context.Context, userID string) error
}

// Snapshot is the state published to subscribers after every change.
type Snapshot struct {
	Notifications []api.Notification
	Unread        int
	Status        optimistic.Status
	Err           error
}

// Controller owns the notification list for the logged-in user.
type Controller struct {
	src  Source
	sess *session.Manager

	mu      sync.Mutex
	list    []api.Notification
	listGen uint64
	status  optimistic.Status
	lastErr error
	subs    map[int]func(Snapshot)
	nextSub int
}

// New creates a controller. Local state is dropped when the session ends.
func New(src Source, sess *session.Manager) *Controller {
	c := &Controller{
		src:  src,
		sess: sess,
		list: []api.Notification{},
		subs: make(map[int]func(Snapshot)),
	}
	sess.OnInvalidate(c.reset)
	return c
}

// Subscribe registers fn for every state change and immediately sends the
// current state. The returned func unsubscribes.
func (c *Controller) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	snap := c.snapshotLocked()
	c.mu.Unlock()

	fn(snap)
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Notifications returns a copy of the list, newest first.
func (c *Controller) Notifications() []api.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]api.Notification(nil), c.list...)
}

// UnreadCount is the number of notifications with isRead false.
func (c *Controller) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return unread(c.list)
}

// Status of the last mark-read mutation.
func (c *Controller) Status() optimistic.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Refresh refetches the list. On failure the list is emptied and the error
// returned.
func (c *Controller) Refresh(ctx context.Context) error {
	s, err := c.sess.RequireUser()
	if err != nil {
		return err
	}

	list, err := c.src.GetNotifications(ctx, s.UserID)
	if err != nil {
		logger.Error("Failed to fetch notifications", "error", err)
		c.update(func() {
			c.setListLocked([]api.Notification{})
			c.lastErr = err
		})
		return err
	}

	SortNewestFirst(list)
	c.update(func() {
		c.setListLocked(list)
		c.lastErr = nil
	})
	return nil
}

// MarkAllRead flips every notification to read before the server confirms.
// If the server rejects the request the previous list is restored, unless
// the list was replaced while the request was in flight.
func (c *Controller) MarkAllRead(ctx context.Context) error {
	s, err := c.sess.RequireUser()
	if err != nil {
		return err
	}

	var (
		previous []api.Notification
		flipped  uint64
	)
	_, err = optimistic.Apply(
		func() {
			c.mu.Lock()
			previous = append([]api.Notification(nil), c.list...)
			next := make([]api.Notification, len(c.list))
			for i, n := range c.list {
				n.IsRead = true
				next[i] = n
			}
			c.setListLocked(next)
			flipped = c.listGen
			c.mu.Unlock()
		},
		func() error {
			return c.src.MarkAllNotificationsRead(ctx, s.UserID)
		},
		func() {
			c.mu.Lock()
			if c.listGen == flipped {
				c.setListLocked(previous)
			}
			c.mu.Unlock()
		},
		func(st optimistic.Status) {
			c.update(func() { c.status = st })
		},
	)
	if err != nil {
		logger.Error("Failed to mark notifications read", "error", err)
		c.update(func() { c.lastErr = err })
	}
	return err
}

// MarkReadOnFirstOpen is called when the notification dropdown opens. It
// marks everything read only when something is unread, so reopening an
// already-read list issues no request.
func (c *Controller) MarkReadOnFirstOpen(ctx context.Context) error {
	if c.UnreadCount() == 0 {
		return nil
	}
	return c.MarkAllRead(ctx)
}

// Clear deletes every notification on the server, then empties the list.
// The DELETE is sent even when the list is already empty.
func (c *Controller) Clear(ctx context.Context) error {
	s, err := c.sess.RequireUser()
	if err != nil {
		return err
	}

	if err := c.src.ClearNotifications(ctx, s.UserID); err != nil {
		logger.Error("Failed to clear notifications", "error", err)
		c.update(func() { c.lastErr = err })
		return err
	}

	c.update(func() {
		c.setListLocked([]api.Notification{})
		c.lastErr = nil
	})
	return nil
}

// Watch refreshes every interval until ctx ends, passing notifications not
// seen before to fn. The first refresh only records what already exists.
func (c *Controller) Watch(ctx context.Context, interval time.Duration, fn func([]api.Notification)) error {
	seen := make(map[string]bool)
	poll := func(report bool) {
		if err := c.Refresh(ctx); err != nil {
			if ctx.Err() == nil {
				logger.Warn("Notification poll failed", "error", err)
			}
			return
		}

		var fresh []api.Notification
		for _, n := range c.Notifications() {
			if !seen[n.ID] {
				seen[n.ID] = true
				fresh = append(fresh, n)
			}
		}
		if report && len(fresh) > 0 {
			fn(fresh)
		}
	}

	poll(false)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			poll(true)
		}
	}
}

func (c *Controller) reset() {
	c.update(func() {
		c.setListLocked([]api.Notification{})
		c.status = optimistic.Idle
		c.lastErr = nil
	})
}

func (c *Controller) setListLocked(list []api.Notification) {
	c.list = list
	c.listGen++
}

// update applies fn under the lock, then publishes outside it.
func (c *Controller) update(fn func()) {
	c.mu.Lock()
	fn()
	snap := c.snapshotLocked()
	subs := make([]func(Snapshot), 0, len(c.subs))
	for id := 0; id < c.nextSub; id++ {
		if s, ok := c.subs[id]; ok {
			subs = append(subs, s)
		}
	}
	c.mu.Unlock()

	for _, s := range subs {
		s(snap)
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		Notifications: append([]api.Notification(nil), c.list...),
		Unread:        unread(c.list),
		Status:        c.status,
		Err:           c.lastErr,
	}
}

func unread(list []api.Notification) int {
	n := 0
	for _, item := range list {
		if !item.IsRead {
			n++
		}
	}
	return n
}

// SortNewestFirst orders by createdAt descending.
func SortNewestFirst(list []api.Notification) {
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt.Time)
	})
}

// TargetKind says where opening a notification leads.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetBlog
	TargetProfile
)

// Target is the destination of a notification.
type Target struct {
	Kind     TargetKind
	BlogID   string
	Username string
}

const followSuffix = " followed you"

// TargetOf routes a notification: likes and comments open the blog, follows
// open the follower's profile.
func TargetOf(n api.Notification) Target {
	switch n.Type {
	case api.NotificationLike, api.NotificationComment, api.NotificationCommentLike:
		if n.BlogID != "" {
			return Target{Kind: TargetBlog, BlogID: n.BlogID}
		}
	case api.NotificationFollow:
		username := strings.SplitN(n.Message, followSuffix, 2)[0]
		if username != "" {
			return Target{Kind: TargetProfile, Username: username}
		}
	}
	return Target{Kind: TargetNone}
}
