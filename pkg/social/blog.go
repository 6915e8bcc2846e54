package social

import (
	"context"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/penfolio/penfolio-cli/pkg/api"
	clierrors "github.com/penfolio/penfolio-cli/pkg/errors"
	"github.com/penfolio/penfolio-cli/pkg/logger"
	"github.com/penfolio/penfolio-cli/pkg/session"
)

// ErrEmptyComment is the message shown for a blank comment.
const ErrEmptyComment = "Comment cannot be empty."

var validate = validator.New()

type commentForm struct {
	Content string `validate:"required"`
}

// BlogSource is the part of the REST client the blog view needs.
type BlogSource interface {
	GetBlog(ctx context.Context, id string) (*api.Blog, error)
	LikeBlog(ctx context.Context, id, userID string) (*api.Blog, error)
	AddComment(ctx context.Context, blogID string, comment api.NewComment) (*api.Blog, error)
	DeleteComment(ctx context.Context, blogID, commentID, username string) error
	LikeComment(ctx context.Context, blogID, commentID, userID string) (*api.Comment, error)
}

// BlogDetail is the state of one open blog.
type BlogDetail struct {
	src  BlogSource
	sess *session.Manager

	mu   sync.Mutex
	blog *api.Blog
}

// NewBlogDetail creates an empty view; call Load before anything else.
func NewBlogDetail(src BlogSource, sess *session.Manager) *BlogDetail {
	return &BlogDetail{src: src, sess: sess}
}

// Load fetches the blog.
func (d *BlogDetail) Load(ctx context.Context, id string) error {
	blog, err := d.src.GetBlog(ctx, id)
	if err != nil {
		if api.IsNotFound(err) {
			return clierrors.NotFoundError("Blog", id)
		}
		return err
	}
	d.set(blog)
	return nil
}

// Blog returns a copy of the loaded blog.
func (d *BlogDetail) Blog() (api.Blog, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.blog == nil {
		return api.Blog{}, false
	}
	cp := *d.blog
	cp.Comments = append([]api.Comment(nil), d.blog.Comments...)
	cp.LikedUsers = append([]string(nil), d.blog.LikedUsers...)
	return cp, true
}

// IsLiked reports whether the viewer has liked the blog.
func (d *BlogDetail) IsLiked() bool {
	s, ok := d.sess.Current()
	if !ok {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.blog != nil && d.blog.LikedBy(s.UserID)
}

// Like toggles the viewer's like and adopts the blog the server returns.
func (d *BlogDetail) Like(ctx context.Context) error {
	s, id, err := d.viewer()
	if err != nil {
		return err
	}

	blog, err := d.src.LikeBlog(ctx, id, s.UserID)
	if err != nil {
		logger.Error("Failed to like blog", "blog_id", id, "error", err)
		return err
	}
	d.set(blog)
	return nil
}

// LikeComment toggles the viewer's like on a comment and splices the
// returned comment into place.
func (d *BlogDetail) LikeComment(ctx context.Context, commentID string) error {
	s, id, err := d.viewer()
	if err != nil {
		return err
	}

	comment, err := d.src.LikeComment(ctx, id, commentID, s.UserID)
	if err != nil {
		logger.Error("Failed to like comment", "comment_id", commentID, "error", err)
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.blog.Comments {
		if d.blog.Comments[i].ID == comment.ID {
			d.blog.Comments[i] = *comment
			break
		}
	}
	return nil
}

// AddComment posts content as the viewer. Blank content is rejected
// without a request.
func (d *BlogDetail) AddComment(ctx context.Context, content string) error {
	form := commentForm{Content: strings.TrimSpace(content)}
	if err := validate.Struct(form); err != nil {
		return clierrors.ValidationError(ErrEmptyComment)
	}

	s, id, err := d.viewer()
	if err != nil {
		return err
	}

	blog, err := d.src.AddComment(ctx, id, api.NewComment{
		Content:  form.Content,
		Author:   s.Username,
		AuthorID: s.UserID,
	})
	if err != nil {
		logger.Error("Failed to add comment", "blog_id", id, "error", err)
		return err
	}
	d.set(blog)
	return nil
}

// CanDeleteComment reports whether the viewer wrote the comment or the blog.
func (d *BlogDetail) CanDeleteComment(c api.Comment) bool {
	s, ok := d.sess.Current()
	if !ok {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return c.Author == s.Username || (d.blog != nil && d.blog.Author == s.Username)
}

// DeleteComment removes a comment the viewer is allowed to delete.
func (d *BlogDetail) DeleteComment(ctx context.Context, commentID string) error {
	s, id, err := d.viewer()
	if err != nil {
		return err
	}

	comment, ok := d.comment(commentID)
	if !ok {
		return clierrors.NotFoundError("Comment", commentID)
	}
	if !d.CanDeleteComment(comment) {
		return clierrors.ForbiddenError("You can only delete your own comments or comments on your posts")
	}

	if err := d.src.DeleteComment(ctx, id, commentID, s.Username); err != nil {
		logger.Error("Failed to delete comment", "comment_id", commentID, "error", err)
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	kept := d.blog.Comments[:0]
	for _, c := range d.blog.Comments {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	d.blog.Comments = kept
	return nil
}

func (d *BlogDetail) comment(id string) (api.Comment, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.blog == nil {
		return api.Comment{}, false
	}
	for _, c := range d.blog.Comments {
		if c.ID == id {
			return c, true
		}
	}
	return api.Comment{}, false
}

func (d *BlogDetail) viewer() (session.Session, string, error) {
	s, err := d.sess.RequireUser()
	if err != nil {
		return session.Session{}, "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.blog == nil {
		return session.Session{}, "", clierrors.ValidationError("No blog loaded")
	}
	return s, d.blog.ID, nil
}

func (d *BlogDetail) set(blog *api.Blog) {
	if blog.Comments == nil {
		blog.Comments = []api.Comment{}
	}
	if blog.LikedUsers == nil {
		blog.LikedUsers = []string{}
	}
	d.mu.Lock()
	d.blog = blog
	d.mu.Unlock()
}
