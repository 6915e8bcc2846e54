package service

import (
	"context"
	"fmt"

	"github.com/penfolio/penfolio-cli/pkg/api"
	"github.com/penfolio/penfolio-cli/pkg/formatter"
	"github.com/penfolio/penfolio-cli/pkg/logger"
	"github.com/penfolio/penfolio-cli/pkg/output"
	"github.com/penfolio/penfolio-cli/pkg/social"
)

// ProfileService handles profile and follow operations
type ProfileService struct {
	env *Env
}

// NewProfileService creates a new profile service
func NewProfileService(env *Env) *ProfileService {
	return &ProfileService{env: env}
}

type profileDocument struct {
	Profile     api.Profile `json:"profile" yaml:"profile"`
	Followers   int         `json:"followers" yaml:"followers"`
	Following   int         `json:"following" yaml:"following"`
	IsFollowing bool        `json:"isFollowing" yaml:"isFollowing"`
	Blogs       []api.Blog  `json:"blogs" yaml:"blogs"`
}

// Show prints a profile and the user's blogs. An empty username shows the
// viewer's own profile.
func (s *ProfileService) Show(ctx context.Context, username string) error {
	username, err := s.env.username(username)
	if err != nil {
		return err
	}

	v := social.NewProfileView(s.env.API, s.env.Session)
	if err := v.Load(ctx, username); err != nil {
		return err
	}
	profile, _ := v.Profile()

	blogs, err := s.env.API.BlogsByUsername(ctx, username)
	if err != nil {
		logger.Warn("Could not fetch user blogs", "username", username, "error", err)
		blogs = []api.Blog{}
	}

	if output.Structured() {
		return output.Print("", profileDocument{
			Profile:     profile,
			Followers:   v.FollowersCount(),
			Following:   len(profile.Following),
			IsFollowing: v.IsFollowing(),
			Blogs:       blogs,
		})
	}

	output.Println(formatter.Bold.Sprint("@" + profile.Username))
	if profile.Description != "" {
		output.Println(profile.Description)
	}
	output.Printf("%d followers · %d following\n", v.FollowersCount(), len(profile.Following))
	switch {
	case v.IsOwn():
		output.Println("(this is you)")
	case v.IsFollowing():
		output.Println("You follow this user.")
	}
	output.Println()

	if len(blogs) == 0 {
		output.Println("No blogs yet.")
		return nil
	}
	return printBlogs(fmt.Sprintf("Blogs by %s", profile.Username), blogs)
}

// Edit updates the viewer's description and, optionally, picture.
func (s *ProfileService) Edit(ctx context.Context, description, picture string) error {
	sess, err := s.env.Session.RequireUser()
	if err != nil {
		return err
	}

	if description == "" {
		current, err := s.env.API.GetProfile(ctx, sess.Username)
		if err != nil {
			return err
		}
		description = current.Description
	}

	profile, err := s.env.API.UpdateProfile(ctx, sess.Username, api.ProfileInput{
		Description: description,
		PicturePath: picture,
	})
	if err != nil {
		return err
	}
	if output.Structured() {
		return output.Print("", profile)
	}
	output.PrintSuccess("✓ Profile updated")
	return nil
}

// Follow follows username.
func (s *ProfileService) Follow(ctx context.Context, username string) error {
	v, err := s.view(ctx, username)
	if err != nil {
		return err
	}
	if err := v.Follow(ctx); err != nil {
		return err
	}
	output.PrintSuccess("✓ Following %s (%d followers)", username, v.FollowersCount())
	return nil
}

// Unfollow stops following username.
func (s *ProfileService) Unfollow(ctx context.Context, username string) error {
	v, err := s.view(ctx, username)
	if err != nil {
		return err
	}
	if err := v.Unfollow(ctx); err != nil {
		return err
	}
	output.PrintSuccess("✓ Unfollowed %s (%d followers)", username, v.FollowersCount())
	return nil
}

// Followers lists who follows username.
func (s *ProfileService) Followers(ctx context.Context, username string) error {
	username, err := s.env.username(username)
	if err != nil {
		return err
	}
	users, err := s.env.API.Followers(ctx, username)
	if err != nil {
		return err
	}
	return printUsers(fmt.Sprintf("Followers of %s", username), users)
}

// Following lists who username follows.
func (s *ProfileService) Following(ctx context.Context, username string) error {
	username, err := s.env.username(username)
	if err != nil {
		return err
	}
	users, err := s.env.API.Following(ctx, username)
	if err != nil {
		return err
	}
	return printUsers(fmt.Sprintf("%s follows", username), users)
}

func (s *ProfileService) view(ctx context.Context, username string) (*social.ProfileView, error) {
	if _, err := s.env.Session.RequireUser(); err != nil {
		return nil, err
	}
	v := social.NewProfileView(s.env.API, s.env.Session)
	if err := v.Load(ctx, username); err != nil {
		return nil, err
	}
	return v, nil
}

func printUsers(title string, users []api.UserSummary) error {
	if !output.Structured() && len(users) == 0 {
		output.Println("No users.")
		return nil
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, formatter.UserRow(u))
	}
	return output.PrintList(title, users, formatter.UserColumns, rows)
}
