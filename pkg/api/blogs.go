package api

import (
	"context"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	clierrors "github.com/penfolio/penfolio-cli/pkg/errors"
	"github.com/penfolio/penfolio-cli/pkg/logger"
)

// MaxImageBytes is the largest image accepted for blogs and profile pictures.
const MaxImageBytes = 5 * 1024 * 1024

var validate = validator.New()

// ListBlogs fetches every blog.
func (c *Client) ListBlogs(ctx context.Context) ([]Blog, error) {
	logger.Debug("Fetching all blogs")
	return c.blogList(ctx, "/api/blogs")
}

// FollowingBlogs fetches blogs written by users that userID follows.
func (c *Client) FollowingBlogs(ctx context.Context, userID string) ([]Blog, error) {
	logger.Debug("Fetching following blogs", "user_id", userID)
	return c.blogList(ctx, "/api/blogs/following/"+seg(userID))
}

// BlogsByUsername fetches the blogs a user has written.
func (c *Client) BlogsByUsername(ctx context.Context, username string) ([]Blog, error) {
	logger.Debug("Fetching user blogs", "username", username)
	return c.blogList(ctx, "/api/blogs/user/username/"+seg(username))
}

func (c *Client) blogList(ctx context.Context, path string) ([]Blog, error) {
	var blogs []Blog
	resp, err := c.r(ctx).Get(path)
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	if err := decode(resp, &blogs); err != nil {
		return nil, err
	}
	if blogs == nil {
		blogs = []Blog{}
	}
	return blogs, nil
}

// GetBlog fetches a single blog with its comments.
func (c *Client) GetBlog(ctx context.Context, id string) (*Blog, error) {
	logger.Debug("Fetching blog", "blog_id", id)
	return c.blogCall(c.r(ctx), resty.MethodGet, "/api/blogs/"+seg(id))
}

// CreateBlog publishes a new blog as a multipart form.
func (c *Client) CreateBlog(ctx context.Context, in BlogInput) (*Blog, error) {
	if err := checkBlogInput(&in); err != nil {
		return nil, err
	}
	logger.Debug("Creating blog", "title", in.Title, "has_image", in.ImagePath != "")

	req := c.r(ctx).SetMultipartFormData(map[string]string{
		"title":   in.Title,
		"content": in.Content,
		"author":  in.Author,
		"userId":  in.UserID,
	})
	if in.ImagePath != "" {
		req.SetFile("file", in.ImagePath)
	}
	return c.blogCall(req, resty.MethodPost, "/api/blogs")
}

// UpdateBlog replaces a blog's title, content and optionally its image.
func (c *Client) UpdateBlog(ctx context.Context, id string, in BlogInput) (*Blog, error) {
	if err := checkBlogInput(&in); err != nil {
		return nil, err
	}
	logger.Debug("Updating blog", "blog_id", id)

	req := c.r(ctx).SetMultipartFormData(map[string]string{
		"title":   in.Title,
		"content": in.Content,
	})
	if in.ImagePath != "" {
		req.SetFile("image", in.ImagePath)
	}
	return c.blogCall(req, resty.MethodPut, "/api/blogs/"+seg(id))
}

// DeleteBlog removes a blog. The server only allows its author.
func (c *Client) DeleteBlog(ctx context.Context, id, userID string) error {
	logger.Debug("Deleting blog", "blog_id", id)

	resp, err := c.jsonRequest(ctx, userIDBody{UserID: userID}).
		Delete("/api/blogs/" + seg(id))
	return CheckResponse(resp, err)
}

// LikeBlog toggles the viewer's like and returns the updated blog.
func (c *Client) LikeBlog(ctx context.Context, id, userID string) (*Blog, error) {
	logger.Debug("Toggling blog like", "blog_id", id, "user_id", userID)

	req := c.r(ctx).SetQueryParam("userId", userID)
	return c.blogCall(req, resty.MethodPost, "/api/blogs/"+seg(id)+"/like")
}

func (c *Client) blogCall(req *resty.Request, method, path string) (*Blog, error) {
	resp, err := req.Execute(method, path)
	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}

	var blog Blog
	if err := decode(resp, &blog); err != nil {
		return nil, err
	}
	return &blog, nil
}

func checkBlogInput(in *BlogInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if err := validate.Struct(in); err != nil {
		return clierrors.ValidationError("Title and content are required")
	}
	if in.ImagePath != "" {
		return checkImage(in.ImagePath)
	}
	return nil
}

func checkImage(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return clierrors.FileNotFoundError(path)
	}
	if info.Size() > MaxImageBytes {
		return clierrors.FileSizeError("Image must be less than 5MB")
	}
	return nil
}
