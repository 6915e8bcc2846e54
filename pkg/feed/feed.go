// Package feed keeps the two blog lists of the home screen, the active tab
// and its pagination.
package feed

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/penfolio/penfolio-cli/pkg/api"
	"github.com/penfolio/penfolio-cli/pkg/logger"
	"github.com/penfolio/penfolio-cli/pkg/session"
	"golang.org/x/sync/errgroup"
)

// DefaultPageSize is the number of blogs on one page.
const DefaultPageSize = 9

// Tab selects which list is visible.
type Tab int

const (
	TabAll Tab = iota
	TabFollowing
)

func (t Tab) String() string {
	if t == TabFollowing {
		return "following"
	}
	return "all"
}

// Source is the part of the REST client the feed needs.
type Source interface {
	ListBlogs(ctx context.Context) ([]api.Blog, error)
	FollowingBlogs(ctx context.Context, userID string) ([]api.Blog, error)
	SearchUsers(ctx context.Context, query string) ([]api.UserSummary, error)
	LikeBlog(ctx context.Context, id, userID string) (*api.Blog, error)
}

// Refresher is refetched after a like so the unread badge stays current.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Controller holds the home screen state.
type Controller struct {
	src           Source
	sess          *session.Manager
	notifications Refresher
	pageSize      int

	mu        sync.Mutex
	all       []api.Blog
	following []api.Blog
	tab       Tab
	page      int
}

// New creates a feed controller. notifications may be nil.
func New(src Source, sess *session.Manager, notifications Refresher, pageSize int) *Controller {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	c := &Controller{
		src:           src,
		sess:          sess,
		notifications: notifications,
		pageSize:      pageSize,
		all:           []api.Blog{},
		following:     []api.Blog{},
		page:          1,
	}
	sess.OnInvalidate(func() {
		c.mu.Lock()
		c.all, c.following = []api.Blog{}, []api.Blog{}
		c.tab, c.page = TabAll, 1
		c.mu.Unlock()
	})
	return c
}

// LoadAll fetches every blog. On failure the list is emptied.
func (c *Controller) LoadAll(ctx context.Context) error {
	blogs, err := c.src.ListBlogs(ctx)
	if err != nil {
		logger.Error("Failed to fetch blogs", "error", err)
		blogs = []api.Blog{}
	}
	SortByIDDesc(blogs)

	c.mu.Lock()
	c.all = blogs
	c.clampLocked()
	c.mu.Unlock()
	return err
}

// LoadFollowing fetches blogs by followed authors. On failure the list is
// emptied.
func (c *Controller) LoadFollowing(ctx context.Context) error {
	s, err := c.sess.RequireUser()
	if err != nil {
		return err
	}

	blogs, err := c.src.FollowingBlogs(ctx, s.UserID)
	if err != nil {
		logger.Error("Failed to fetch following blogs", "error", err)
		blogs = []api.Blog{}
	}
	SortByIDDesc(blogs)

	c.mu.Lock()
	c.following = blogs
	c.clampLocked()
	c.mu.Unlock()
	return err
}

// Reload refreshes both lists and returns the first error.
func (c *Controller) Reload(ctx context.Context) error {
	errAll := c.LoadAll(ctx)
	errFollowing := c.LoadFollowing(ctx)
	if errAll != nil {
		return errAll
	}
	return errFollowing
}

// Search narrows both lists to blogs whose title or content contains query,
// or whose author is a user matching query. An empty query reloads the
// unfiltered lists. If the search fails the unfiltered lists are reloaded
// and the search error is returned.
func (c *Controller) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.Reload(ctx)
	}

	users, err := c.src.SearchUsers(ctx, query)
	if err != nil {
		logger.Error("User search failed", "query", query, "error", err)
		_ = c.Reload(ctx)
		return err
	}
	blogs, err := c.src.ListBlogs(ctx)
	if err != nil {
		logger.Error("Blog search failed", "query", query, "error", err)
		_ = c.Reload(ctx)
		return err
	}

	authors := make(map[string]bool, len(users))
	for _, u := range users {
		authors[u.Username] = true
	}
	needle := strings.ToLower(query)

	filtered := make([]api.Blog, 0, len(blogs))
	for _, b := range blogs {
		if strings.Contains(strings.ToLower(b.Title), needle) ||
			strings.Contains(strings.ToLower(b.Content), needle) ||
			authors[b.Author] {
			filtered = append(filtered, b)
		}
	}
	SortByIDDesc(filtered)

	c.mu.Lock()
	defer c.mu.Unlock()
	inFollowing := make(map[string]bool, len(c.following))
	for _, b := range c.following {
		inFollowing[b.ID] = true
	}
	following := make([]api.Blog, 0, len(filtered))
	for _, b := range filtered {
		if inFollowing[b.ID] {
			following = append(following, b)
		}
	}

	c.all = filtered
	c.following = following
	c.page = 1
	return nil
}

// Like toggles the viewer's like, then refetches both lists and the
// notifications concurrently.
func (c *Controller) Like(ctx context.Context, blogID string) error {
	s, err := c.sess.RequireUser()
	if err != nil {
		return err
	}

	if _, err := c.src.LikeBlog(ctx, blogID, s.UserID); err != nil {
		logger.Error("Failed to like blog", "blog_id", blogID, "error", err)
		return err
	}

	// The refetches are independent; one failing does not cancel the others.
	var g errgroup.Group
	g.Go(func() error { return c.LoadAll(ctx) })
	g.Go(func() error { return c.LoadFollowing(ctx) })
	if c.notifications != nil {
		g.Go(func() error { return c.notifications.Refresh(ctx) })
	}
	return g.Wait()
}

// All returns the full "all" list.
func (c *Controller) All() []api.Blog {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]api.Blog(nil), c.all...)
}

// Following returns the full "following" list.
func (c *Controller) Following() []api.Blog {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]api.Blog(nil), c.following...)
}

// Tab returns the active tab.
func (c *Controller) Tab() Tab {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tab
}

// SetTab switches tabs. The page always resets to 1.
func (c *Controller) SetTab(t Tab) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tab = t
	c.page = 1
}

// Page is the 1-based current page.
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// TotalPages of the active tab; at least 1.
func (c *Controller) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalPagesLocked()
}

// SetPage moves to page n, clamped to the valid range.
func (c *Controller) SetPage(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = n
	c.clampLocked()
}

// Visible returns the blogs on the current page of the active tab.
func (c *Controller) Visible() []api.Blog {
	c.mu.Lock()
	defer c.mu.Unlock()

	list := c.activeLocked()
	start := (c.page - 1) * c.pageSize
	if start >= len(list) {
		return []api.Blog{}
	}
	end := start + c.pageSize
	if end > len(list) {
		end = len(list)
	}
	return append([]api.Blog(nil), list[start:end]...)
}

func (c *Controller) activeLocked() []api.Blog {
	if c.tab == TabFollowing {
		return c.following
	}
	return c.all
}

func (c *Controller) totalPagesLocked() int {
	n := len(c.activeLocked())
	pages := (n + c.pageSize - 1) / c.pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

func (c *Controller) clampLocked() {
	if total := c.totalPagesLocked(); c.page > total {
		c.page = total
	}
	if c.page < 1 {
		c.page = 1
	}
}

// SortByIDDesc orders blogs by id, highest first. Server ids are
// time-prefixed, so this is newest first.
func SortByIDDesc(blogs []api.Blog) {
	sort.SliceStable(blogs, func(i, j int) bool {
		return blogs[i].ID > blogs[j].ID
	})
}
