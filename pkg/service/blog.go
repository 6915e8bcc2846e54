package service

import (
	"context"
	"fmt"

	"github.com/penfolio/penfolio-cli/pkg/api"
	clierrors "github.com/penfolio/penfolio-cli/pkg/errors"
	"github.com/penfolio/penfolio-cli/pkg/formatter"
	"github.com/penfolio/penfolio-cli/pkg/logger"
	"github.com/penfolio/penfolio-cli/pkg/output"
	"github.com/penfolio/penfolio-cli/pkg/social"
)

const maxContentLines = 500

// BlogService provides blog and comment operations
type BlogService struct {
	env *Env
}

// NewBlogService creates a new blog service
func NewBlogService(env *Env) *BlogService {
	return &BlogService{env: env}
}

// Create publishes a blog, prompting for an empty title or content.
func (s *BlogService) Create(ctx context.Context, title, content, image string) error {
	sess, err := s.env.Session.RequireUser()
	if err != nil {
		return err
	}

	if title == "" {
		if title, err = s.env.Prompt.String("Title: "); err != nil {
			return err
		}
	}
	if content == "" {
		if content, err = s.env.Prompt.Multiline("Content", maxContentLines); err != nil {
			return err
		}
	}

	blog, err := s.env.API.CreateBlog(ctx, api.BlogInput{
		Title:     title,
		Content:   content,
		Author:    sess.Username,
		UserID:    sess.UserID,
		ImagePath: image,
	})
	if err != nil {
		return err
	}

	logger.Info("Blog created", "blog_id", blog.ID)
	if output.Structured() {
		return output.Print("", blog)
	}
	output.PrintSuccess("✓ Published %q (%s)", blog.Title, blog.ID)
	return nil
}

// Edit updates a blog the viewer wrote. Empty title or content keep the
// current value.
func (s *BlogService) Edit(ctx context.Context, id, title, content, image string) error {
	sess, err := s.env.Session.RequireUser()
	if err != nil {
		return err
	}

	current, err := s.env.API.GetBlog(ctx, id)
	if err != nil {
		if api.IsNotFound(err) {
			return clierrors.NotFoundError("Blog", id)
		}
		return err
	}
	if current.UserID != sess.UserID && current.Author != sess.Username {
		return clierrors.ForbiddenError("You can only edit your own blogs")
	}

	if title == "" {
		title = current.Title
	}
	if content == "" {
		content = current.Content
	}

	blog, err := s.env.API.UpdateBlog(ctx, id, api.BlogInput{Title: title, Content: content, ImagePath: image})
	if err != nil {
		return err
	}
	if output.Structured() {
		return output.Print("", blog)
	}
	output.PrintSuccess("✓ Updated %q", blog.Title)
	return nil
}

// Delete removes a blog after confirmation unless force is set.
func (s *BlogService) Delete(ctx context.Context, id string, force bool) error {
	sess, err := s.env.Session.RequireUser()
	if err != nil {
		return err
	}

	if !force {
		confirm, err := s.env.Prompt.Confirm(fmt.Sprintf("Delete blog %s?", id))
		if err != nil || !confirm {
			return err
		}
	}

	if err := s.env.API.DeleteBlog(ctx, id, sess.UserID); err != nil {
		return err
	}
	output.PrintSuccess("✓ Blog deleted")
	return nil
}

// Show prints a blog with its comments.
func (s *BlogService) Show(ctx context.Context, id string) error {
	d := social.NewBlogDetail(s.env.API, s.env.Session)
	if err := d.Load(ctx, id); err != nil {
		return err
	}
	return s.print(d)
}

// Like toggles the viewer's like on a blog.
func (s *BlogService) Like(ctx context.Context, id string) error {
	d, err := s.open(ctx, id)
	if err != nil {
		return err
	}
	if err := d.Like(ctx); err != nil {
		return err
	}

	blog, _ := d.Blog()
	if output.Structured() {
		return output.Print("", blog)
	}
	if d.IsLiked() {
		output.PrintSuccess("♥ Liked %q (%d likes)", blog.Title, blog.Likes)
	} else {
		output.PrintInfo("Removed like from %q (%d likes)", blog.Title, blog.Likes)
	}
	return nil
}

// Comment adds a comment, prompting when text is empty.
func (s *BlogService) Comment(ctx context.Context, id, text string) error {
	d, err := s.open(ctx, id)
	if err != nil {
		return err
	}
	if text == "" {
		if text, err = s.env.Prompt.String("Comment: "); err != nil {
			return err
		}
	}
	if err := d.AddComment(ctx, text); err != nil {
		return err
	}
	output.PrintSuccess("✓ Comment added")
	return nil
}

// DeleteComment removes a comment the viewer may delete.
func (s *BlogService) DeleteComment(ctx context.Context, blogID, commentID string) error {
	d, err := s.open(ctx, blogID)
	if err != nil {
		return err
	}
	if err := d.DeleteComment(ctx, commentID); err != nil {
		return err
	}
	output.PrintSuccess("✓ Comment deleted")
	return nil
}

// LikeComment toggles the viewer's like on a comment.
func (s *BlogService) LikeComment(ctx context.Context, blogID, commentID string) error {
	d, err := s.open(ctx, blogID)
	if err != nil {
		return err
	}
	if err := d.LikeComment(ctx, commentID); err != nil {
		return err
	}

	blog, _ := d.Blog()
	for _, c := range blog.Comments {
		if c.ID == commentID {
			if output.Structured() {
				return output.Print("", c)
			}
			output.PrintSuccess("✓ %s", formatter.CommentLine(c))
		}
	}
	return nil
}

func (s *BlogService) open(ctx context.Context, id string) (*social.BlogDetail, error) {
	if _, err := s.env.Session.RequireUser(); err != nil {
		return nil, err
	}
	d := social.NewBlogDetail(s.env.API, s.env.Session)
	if err := d.Load(ctx, id); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *BlogService) print(d *social.BlogDetail) error {
	blog, _ := d.Blog()
	if output.Structured() {
		return output.Print("", blog)
	}

	output.Println(formatter.Bold.Sprint(blog.Title))
	when := ""
	if blog.CreatedAt != nil {
		when = " · " + formatter.RelativeTime(blog.CreatedAt.Time, s.env.now())
	}
	output.Printf("by %s%s\n\n", blog.Author, when)
	output.Println(blog.Content)
	if blog.ImagePath != "" {
		output.Printf("\n[image] %s\n", blog.ImagePath)
	}

	liked := ""
	if d.IsLiked() {
		liked = " (you liked this)"
	}
	output.Printf("\n♥ %d%s\n", blog.Likes, liked)

	output.Printf("\nComments (%d)\n", len(blog.Comments))
	for _, c := range blog.Comments {
		mark := " "
		if d.CanDeleteComment(c) {
			mark = "*"
		}
		output.Printf("%s [%s] %s\n", mark, c.ID, formatter.CommentLine(c))
	}
	return nil
}
