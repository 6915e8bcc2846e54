package api

import (
	"context"

	"github.com/penfolio/penfolio-cli/pkg/logger"
)

// GetThread fetches the conversation between two users, oldest first.
func (c *Client) GetThread(ctx context.Context, fromID, toID string) ([]Message, error) {
	logger.Debug("Fetching thread", "from", fromID, "to", toID)

	resp, err := c.r(ctx).Get("/api/messages/" + seg(fromID) + "/" + seg(toID))
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var messages []Message
	if err := decode(resp, &messages); err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []Message{}
	}
	return messages, nil
}

// SendMessage posts a direct message and returns the stored copy.
func (c *Client) SendMessage(ctx context.Context, msg Message) (*Message, error) {
	logger.Debug("Sending message", "from", msg.From, "to", msg.To)

	resp, err := c.jsonRequest(ctx, msg).Post("/api/messages")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	saved := msg
	if err := decode(resp, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}
