package service

import (
	"context"
	"fmt"

	"github.com/penfolio/penfolio-cli/pkg/api"
	"github.com/penfolio/penfolio-cli/pkg/config"
	"github.com/penfolio/penfolio-cli/pkg/feed"
	"github.com/penfolio/penfolio-cli/pkg/formatter"
	"github.com/penfolio/penfolio-cli/pkg/logger"
	"github.com/penfolio/penfolio-cli/pkg/output"
)

// FeedOptions selects what List shows.
type FeedOptions struct {
	Tab   feed.Tab
	Page  int
	Query string
}

// FeedService provides feed-related operations
type FeedService struct {
	env  *Env
	feed *feed.Controller
}

// NewFeedService creates a new feed service
func NewFeedService(env *Env) *FeedService {
	return &FeedService{
		env:  env,
		feed: feed.New(env.API, env.Session, env.Notifications(), config.GetInt("feed.page_size")),
	}
}

// List loads the feed and prints one page of the selected tab.
func (s *FeedService) List(ctx context.Context, opts FeedOptions) error {
	if _, err := s.env.Session.RequireUser(); err != nil {
		return err
	}
	logger.Debug("Viewing feed", "tab", opts.Tab, "page", opts.Page, "query", opts.Query)

	if err := s.feed.Reload(ctx); err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}
	if opts.Query != "" {
		if err := s.feed.Search(ctx, opts.Query); err != nil {
			return fmt.Errorf("search failed: %w", err)
		}
	}

	s.feed.SetTab(opts.Tab)
	if opts.Page > 0 {
		s.feed.SetPage(opts.Page)
	}
	blogs := s.feed.Visible()

	if !output.Structured() && len(blogs) == 0 {
		if opts.Query != "" {
			output.Println(fmt.Sprintf("No blogs found for %q", opts.Query))
		} else if opts.Tab == feed.TabFollowing {
			output.Println("No blogs from people you follow yet.")
		} else {
			output.Println("No blogs yet.")
		}
		return nil
	}

	title := fmt.Sprintf("%s blogs (page %d/%d)", tabTitle(opts.Tab), s.feed.Page(), s.feed.TotalPages())
	if err := printBlogs(title, blogs); err != nil {
		return err
	}
	s.printUnread(ctx)
	return nil
}

// Like toggles the viewer's like on a blog from the feed.
func (s *FeedService) Like(ctx context.Context, blogID string) error {
	if err := s.feed.Like(ctx, blogID); err != nil {
		if api.IsNotFound(err) {
			return fmt.Errorf("blog %s not found: %w", blogID, err)
		}
		return err
	}

	sess, _ := s.env.Session.Current()
	for _, b := range s.feed.All() {
		if b.ID != blogID {
			continue
		}
		if output.Structured() {
			return output.Print("", b)
		}
		if b.LikedBy(sess.UserID) {
			output.PrintSuccess("♥ Liked %q (%d likes)", b.Title, b.Likes)
		} else {
			output.PrintInfo("Removed like from %q (%d likes)", b.Title, b.Likes)
		}
	}
	return nil
}

func (s *FeedService) printUnread(ctx context.Context) {
	if output.Structured() {
		return
	}
	n := s.env.Notifications()
	if err := n.Refresh(ctx); err != nil {
		logger.Warn("Could not refresh notifications", "error", err)
		return
	}
	if unread := n.UnreadCount(); unread > 0 {
		output.PrintInfo("\n🔔 %d unread notification(s). Run 'penfolio notifications list'.", unread)
	}
}

func tabTitle(t feed.Tab) string {
	if t == feed.TabFollowing {
		return "Following"
	}
	return "All"
}

func printBlogs(title string, blogs []api.Blog) error {
	rows := make([][]string, 0, len(blogs))
	for _, b := range blogs {
		rows = append(rows, formatter.BlogRow(b))
	}
	return output.PrintList(title, blogs, formatter.BlogColumns, rows)
}
