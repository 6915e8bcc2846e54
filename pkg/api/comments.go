package api

import (
	"context"

	"github.com/penfolio/penfolio-cli/pkg/logger"
)

// AddComment posts a comment and returns the blog with it included.
func (c *Client) AddComment(ctx context.Context, blogID string, comment NewComment) (*Blog, error) {
	logger.Debug("Adding comment", "blog_id", blogID, "author", comment.Author)

	resp, err := c.jsonRequest(ctx, comment).
		Post("/api/blogs/" + seg(blogID) + "/comment")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var blog Blog
	if err := decode(resp, &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

// DeleteComment removes a comment. The server allows the comment author and
// the blog author.
func (c *Client) DeleteComment(ctx context.Context, blogID, commentID, username string) error {
	logger.Debug("Deleting comment", "blog_id", blogID, "comment_id", commentID)

	resp, err := c.jsonRequest(ctx, usernameBody{Username: username}).
		Delete("/api/blogs/" + seg(blogID) + "/comments/" + seg(commentID))
	return CheckResponse(resp, err)
}

// LikeComment toggles the viewer's like on a comment and returns the comment.
func (c *Client) LikeComment(ctx context.Context, blogID, commentID, userID string) (*Comment, error) {
	logger.Debug("Toggling comment like", "blog_id", blogID, "comment_id", commentID)

	resp, err := c.r(ctx).
		SetQueryParam("userId", userID).
		Post("/api/blogs/" + seg(blogID) + "/comments/" + seg(commentID) + "/like")
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var comment Comment
	if err := decode(resp, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}
