package api

import (
	"context"

	"github.com/penfolio/penfolio-cli/pkg/logger"
)

// GetProfile gets a user's public profile
func (c *Client) GetProfile(ctx context.Context, username string) (*Profile, error) {
	logger.Debug("Fetching profile", "username", username)

	resp, err := c.r(ctx).Get("/api/profile/" + seg(username))
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var profile Profile
	if err := decode(resp, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile replaces the description and optionally the picture.
func (c *Client) UpdateProfile(ctx context.Context, username string, in ProfileInput) (*Profile, error) {
	logger.Debug("Updating profile", "username", username, "has_picture", in.PicturePath != "")

	req := c.r(ctx).SetMultipartFormData(map[string]string{
		"description": in.Description,
	})
	if in.PicturePath != "" {
		if err := checkImage(in.PicturePath); err != nil {
			return nil, err
		}
		req.SetFile("profilePicture", in.PicturePath)
	}

	resp, err := req.Put("/api/profile/" + seg(username))
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var profile Profile
	if err := decode(resp, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Follow makes userID a follower of username.
func (c *Client) Follow(ctx context.Context, username, userID string) error {
	logger.Debug("Following user", "username", username)

	resp, err := c.jsonRequest(ctx, userIDBody{UserID: userID}).
		Post("/api/profile/" + seg(username) + "/follow")
	return CheckResponse(resp, err)
}

// Unfollow removes userID from username's followers.
func (c *Client) Unfollow(ctx context.Context, username, userID string) error {
	logger.Debug("Unfollowing user", "username", username)

	resp, err := c.jsonRequest(ctx, userIDBody{UserID: userID}).
		Post("/api/profile/" + seg(username) + "/unfollow")
	return CheckResponse(resp, err)
}

// Following lists the users username follows.
func (c *Client) Following(ctx context.Context, username string) ([]UserSummary, error) {
	logger.Debug("Fetching following", "username", username)
	return c.userList(ctx, "/api/profile/"+seg(username)+"/following", nil)
}

// Followers lists the users following username.
func (c *Client) Followers(ctx context.Context, username string) ([]UserSummary, error) {
	logger.Debug("Fetching followers", "username", username)
	return c.userList(ctx, "/api/profile/"+seg(username)+"/followers", nil)
}

func (c *Client) userList(ctx context.Context, path string, query map[string]string) ([]UserSummary, error) {
	resp, err := c.r(ctx).SetQueryParams(query).Get(path)
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var users []UserSummary
	if err := decode(resp, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []UserSummary{}
	}
	return users, nil
}
