package api

import (
	"strconv"
	"strings"
	"time"
)

// Timestamp decodes the backend's dates, which arrive either as epoch
// milliseconds or as ISO-8601 strings depending on the serializer config.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-07:00",
	"2006-01-02T15:04:05.000+0000",
	"2006-01-02T15:04:05",
}

// UnmarshalJSON accepts numbers, quoted strings and null.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` || s == "" {
		t.Time = time.Time{}
		return nil
	}

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	}

	unquoted, err := strconv.Unquote(s)
	if err != nil {
		return err
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, unquoted); err == nil {
			t.Time = parsed
			return nil
		}
	}
	// Unknown layouts are kept as zero rather than failing the whole payload.
	t.Time = time.Time{}
	return nil
}

// MarshalJSON writes RFC 3339, or null for the zero time.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(t.UTC().Format(time.RFC3339Nano))), nil
}

// RoleUser is the role assigned to accounts created by register.
const RoleUser = "USER"

// User is the account returned by login.
type User struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role"`
	Description string `json:"description,omitempty"`
}

// Auth request/response types
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role"`
}

type OTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp,omitempty"`
}

// OTPResponse is returned by both send-otp and verify-otp.
type OTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Blog is a post together with its likes and comments.
type Blog struct {
	ID         string     `json:"id" yaml:"id"`
	Title      string     `json:"title" yaml:"title"`
	Content    string     `json:"content" yaml:"content"`
	Author     string     `json:"author" yaml:"author"`
	UserID     string     `json:"userId" yaml:"userId"`
	ImagePath  string     `json:"imagePath,omitempty" yaml:"imagePath,omitempty"`
	CreatedAt  *Timestamp `json:"createdAt,omitempty" yaml:"-"`
	Likes      int        `json:"likes" yaml:"likes"`
	LikedUsers []string   `json:"likedUsers" yaml:"likedUsers"`
	Comments   []Comment  `json:"comments" yaml:"comments"`
}

// LikedBy reports whether userID is in LikedUsers.
func (b *Blog) LikedBy(userID string) bool {
	return contains(b.LikedUsers, userID)
}

// Comment on a blog.
type Comment struct {
	ID         string    `json:"id" yaml:"id"`
	Content    string    `json:"content" yaml:"content"`
	Author     string    `json:"author" yaml:"author"`
	AuthorID   string    `json:"authorId" yaml:"authorId"`
	CreatedAt  Timestamp `json:"createdAt" yaml:"-"`
	Likes      int       `json:"likes" yaml:"likes"`
	LikedUsers []string  `json:"likedUsers" yaml:"likedUsers"`
}

// LikedBy reports whether userID is in LikedUsers.
func (c *Comment) LikedBy(userID string) bool {
	return contains(c.LikedUsers, userID)
}

// NewComment is the body of POST /api/blogs/{id}/comment.
type NewComment struct {
	Content  string `json:"content"`
	Author   string `json:"author"`
	AuthorID string `json:"authorId"`
}

// BlogInput carries the fields of a blog create or update. ImagePath is a
// local file to upload and may be empty.
type BlogInput struct {
	Title     string `validate:"required"`
	Content   string `validate:"required"`
	Author    string
	UserID    string
	ImagePath string
}

// Notification types
const (
	NotificationLike        = "LIKE"
	NotificationComment     = "COMMENT"
	NotificationCommentLike = "COMMENT_LIKE"
	NotificationFollow      = "FOLLOW"
)

// Notification is a server-generated event about the viewer.
type Notification struct {
	ID         string    `json:"id" yaml:"id"`
	UserID     string    `json:"userId,omitempty" yaml:"userId,omitempty"`
	Type       string    `json:"type" yaml:"type"`
	Message    string    `json:"message" yaml:"message"`
	BlogID     string    `json:"blogId,omitempty" yaml:"blogId,omitempty"`
	FromUserID string    `json:"fromUserId,omitempty" yaml:"fromUserId,omitempty"`
	IsRead     bool      `json:"isRead" yaml:"isRead"`
	CreatedAt  Timestamp `json:"createdAt" yaml:"-"`
}

// Profile is a user's public page.
type Profile struct {
	ID             string   `json:"id" yaml:"id"`
	Username       string   `json:"username" yaml:"username"`
	Description    string   `json:"description" yaml:"description"`
	ProfilePicture string   `json:"profilePicture,omitempty" yaml:"profilePicture,omitempty"`
	Followers      []string `json:"followers" yaml:"followers"`
	Following      []string `json:"following" yaml:"following"`
}

// FollowedBy reports whether userID is among the followers.
func (p *Profile) FollowedBy(userID string) bool {
	return contains(p.Followers, userID)
}

// ProfileInput is the body of a profile update. PicturePath is optional.
type ProfileInput struct {
	Description string
	PicturePath string
}

// UserSummary is one row of a follow list or a user search.
type UserSummary struct {
	ID          string `json:"id" yaml:"id"`
	Username    string `json:"username" yaml:"username"`
	Description string `json:"description" yaml:"description"`
}

// Message is a direct message between two users.
type Message struct {
	From      string     `json:"from" yaml:"from"`
	To        string     `json:"to" yaml:"to"`
	Text      string     `json:"text" yaml:"text"`
	Timestamp *Timestamp `json:"timestamp,omitempty" yaml:"-"`
}

type userIDBody struct {
	UserID string `json:"userId"`
}

type usernameBody struct {
	Username string `json:"username"`
}

func contains(list []string, v string) bool {
	if v == "" {
		return false
	}
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
