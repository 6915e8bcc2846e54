package api

import (
	"context"
	"net/url"

	"github.com/go-resty/resty/v2"
	"github.com/penfolio/penfolio-cli/pkg/client"
)

// Client is the typed PenFolio REST client. Every call is bound to the
// caller's context; nothing is retried or cached.
type Client struct {
	http *resty.Client
}

// New wraps an existing resty client.
func New(http *resty.Client) *Client {
	return &Client{http: http}
}

// Default wraps the process-wide client from pkg/client.
func Default() *Client {
	return New(client.GetClient())
}

func (c *Client) r(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx)
}

func (c *Client) jsonRequest(ctx context.Context, body interface{}) *resty.Request {
	return c.r(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body)
}

// seg escapes a single path segment.
func seg(s string) string {
	return url.PathEscape(s)
}
