package api

import (
	"context"

	"github.com/penfolio/penfolio-cli/pkg/logger"
)

// SearchUsers finds users whose username matches query. The backend answers
// 404 when nothing matches; that is returned as an empty list.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]UserSummary, error) {
	logger.Debug("Searching users", "query", query)

	users, err := c.userList(ctx, "/api/users/search", map[string]string{"query": query})
	if IsNotFound(err) {
		return []UserSummary{}, nil
	}
	return users, err
}
