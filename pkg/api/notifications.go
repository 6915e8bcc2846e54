package api

import (
	"context"

	"github.com/penfolio/penfolio-cli/pkg/logger"
)

// GetNotifications retrieves every notification for userID
func (c *Client) GetNotifications(ctx context.Context, userID string) ([]Notification, error) {
	logger.Debug("Fetching notifications", "user_id", userID)

	resp, err := c.r(ctx).Get("/api/notifications/" + seg(userID))
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var notifications []Notification
	if err := decode(resp, &notifications); err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []Notification{}
	}
	return notifications, nil
}

// MarkAllNotificationsRead marks all notifications as read
func (c *Client) MarkAllNotificationsRead(ctx context.Context, userID string) error {
	logger.Debug("Marking all notifications read", "user_id", userID)

	resp, err := c.r(ctx).Put("/api/notifications/" + seg(userID) + "/read")
	return CheckResponse(resp, err)
}

// ClearNotifications deletes all notifications
func (c *Client) ClearNotifications(ctx context.Context, userID string) error {
	logger.Debug("Clearing notifications", "user_id", userID)

	resp, err := c.r(ctx).Delete("/api/notifications/" + seg(userID))
	return CheckResponse(resp, err)
}
