package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/penfolio/penfolio-cli/pkg/api"
	"github.com/penfolio/penfolio-cli/pkg/config"
	clierrors "github.com/penfolio/penfolio-cli/pkg/errors"
	"github.com/penfolio/penfolio-cli/pkg/formatter"
	"github.com/penfolio/penfolio-cli/pkg/logger"
	"github.com/penfolio/penfolio-cli/pkg/notify"
	"github.com/penfolio/penfolio-cli/pkg/output"
)

// NotificationService handles notification operations
type NotificationService struct {
	env *Env
}

// NewNotificationService creates a new notification service
func NewNotificationService(env *Env) *NotificationService {
	return &NotificationService{env: env}
}

// List prints the viewer's notifications, newest first. Unless keepUnread
// is set, listing counts as opening them and marks everything read.
func (s *NotificationService) List(ctx context.Context, unreadOnly, keepUnread bool) error {
	n := s.env.Notifications()
	if err := n.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to fetch notifications: %w", err)
	}

	list := n.Notifications()
	if unreadOnly {
		filtered := list[:0:0]
		for _, item := range list {
			if !item.IsRead {
				filtered = append(filtered, item)
			}
		}
		list = filtered
	}

	if !output.Structured() && len(list) == 0 {
		output.Println("No notifications.")
		return nil
	}

	now := s.env.now()
	rows := make([][]string, 0, len(list))
	for _, item := range list {
		rows = append(rows, formatter.NotificationRow(item, now))
	}
	title := fmt.Sprintf("Notifications (%d unread)", n.UnreadCount())
	if err := output.PrintList(title, list, formatter.NotificationColumns, rows); err != nil {
		return err
	}

	if keepUnread {
		return nil
	}
	return n.MarkReadOnFirstOpen(ctx)
}

// MarkRead marks every notification read.
func (s *NotificationService) MarkRead(ctx context.Context) error {
	n := s.env.Notifications()
	if err := n.Refresh(ctx); err != nil {
		return err
	}
	if err := n.MarkAllRead(ctx); err != nil {
		return err
	}
	output.PrintSuccess("✓ All notifications marked as read")
	return nil
}

// Clear deletes every notification after confirmation unless force is set.
func (s *NotificationService) Clear(ctx context.Context, force bool) error {
	if _, err := s.env.Session.RequireUser(); err != nil {
		return err
	}
	if !force {
		confirm, err := s.env.Prompt.Confirm("Clear all notifications?")
		if err != nil || !confirm {
			return err
		}
	}
	if err := s.env.Notifications().Clear(ctx); err != nil {
		return err
	}
	output.PrintSuccess("✓ Notifications cleared")
	return nil
}

// Open shows what a notification points at: the liked or commented blog,
// or the profile of a new follower.
func (s *NotificationService) Open(ctx context.Context, id string) error {
	n := s.env.Notifications()
	if err := n.Refresh(ctx); err != nil {
		return err
	}

	var found *api.Notification
	for _, item := range n.Notifications() {
		if item.ID == id {
			item := item
			found = &item
			break
		}
	}
	if found == nil {
		return clierrors.NotFoundError("Notification", id)
	}

	target := notify.TargetOf(*found)
	switch target.Kind {
	case notify.TargetBlog:
		return NewBlogService(s.env).Show(ctx, target.BlogID)
	case notify.TargetProfile:
		return NewProfileService(s.env).Show(ctx, target.Username)
	default:
		output.Println(found.Message)
		return nil
	}
}

// Watch polls for new notifications until ctx ends and prints each one as
// it arrives. A zero interval uses notifications.poll_interval.
func (s *NotificationService) Watch(ctx context.Context, interval time.Duration) error {
	sess, err := s.env.Session.RequireUser()
	if err != nil {
		return err
	}
	if interval <= 0 {
		interval = config.GetSeconds("notifications.poll_interval")
	}
	if interval <= 0 {
		interval = 15 * time.Second
	}

	if !output.Structured() {
		output.PrintInfo("🔔 Watching notifications for %s every %s. Press Ctrl+C to stop.", sess.Username, interval)
	}
	logger.Debug("Starting notification watcher", "interval", interval)

	err = s.env.Notifications().Watch(ctx, interval, func(fresh []api.Notification) {
		now := s.env.now()
		for i := len(fresh) - 1; i >= 0; i-- {
			item := fresh[i]
			if output.Structured() {
				_ = output.Print("", item)
				continue
			}
			output.Printf("[%s] %s  %s\n", formatter.RelativeTime(item.CreatedAt.Time, now), item.Type, item.Message)
		}
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
