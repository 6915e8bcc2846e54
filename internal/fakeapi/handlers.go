package fakeapi

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/penfolio/penfolio-cli/pkg/api"
)

func (s *Server) routes(r *gin.Engine) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", s.login)
		auth.POST("/register", s.register)
		auth.POST("/send-otp", s.sendOTP)
		auth.POST("/verify-otp", s.verifyOTP)
	}

	blogs := r.Group("/api/blogs")
	{
		blogs.GET("", s.listBlogs)
		blogs.POST("", s.createBlog)
		blogs.GET("/:id", s.getBlog)
		blogs.PUT("/:id", s.updateBlog)
		blogs.DELETE("/:id", s.deleteBlog)
		blogs.POST("/:id/like", s.likeBlog)
		blogs.POST("/:id/comment", s.addComment)
		blogs.DELETE("/:id/comments/:commentId", s.deleteComment)
		blogs.POST("/:id/comments/:commentId/like", s.likeComment)
		blogs.GET("/following/:userId", s.followingBlogs)
		blogs.GET("/user/username/:username", s.userBlogs)
	}

	profile := r.Group("/api/profile")
	{
		profile.GET("/:username", s.getProfile)
		profile.PUT("/:username", s.updateProfile)
		profile.POST("/:username/follow", s.follow)
		profile.POST("/:username/unfollow", s.unfollow)
		profile.GET("/:username/followers", s.followers)
		profile.GET("/:username/following", s.following)
	}

	r.GET("/api/users/search", s.searchUsers)

	notifications := r.Group("/api/notifications")
	{
		notifications.GET("/:userId", s.getNotifications)
		notifications.PUT("/:userId/read", s.markRead)
		notifications.DELETE("/:userId", s.clearNotifications)
	}

	messages := r.Group("/api/messages")
	{
		messages.GET("/:from/:to", s.getThread)
		messages.POST("", s.sendMessage)
	}
}

// POST /api/auth/login
func (s *Server) login(c *gin.Context) {
	var req api.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.byUsername(req.Username)
	if u == nil || u.Password != req.Password {
		c.String(http.StatusUnauthorized, "Invalid username or password")
		return
	}
	c.JSON(http.StatusOK, u.User)
}

// POST /api/auth/register
func (s *Server) register(c *gin.Context) {
	var req api.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.byUsername(req.Username) != nil {
		c.String(http.StatusBadRequest, "Username already taken")
		return
	}
	u := s.addUser(req.Username, req.Password, req.Email)
	if req.Role != "" {
		u.Role = req.Role
	}
	c.String(http.StatusOK, "User registered successfully: "+u.Username)
}

// POST /api/auth/send-otp
func (s *Server) sendOTP(c *gin.Context) {
	var req api.OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusInternalServerError, api.OTPResponse{Success: false, Message: "Error sending OTP."})
		return
	}

	s.mu.Lock()
	s.seq++
	s.otps[req.Email] = fmt.Sprintf("%06d", s.seq%1000000)
	s.mu.Unlock()

	c.JSON(http.StatusOK, api.OTPResponse{Success: true, Message: "OTP sent successfully!"})
}

// POST /api/auth/verify-otp
func (s *Server) verifyOTP(c *gin.Context) {
	var req api.OTPRequest
	_ = c.ShouldBindJSON(&req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if code, ok := s.otps[req.Email]; !ok || code != req.OTP {
		c.JSON(http.StatusBadRequest, api.OTPResponse{Success: false, Message: "Invalid OTP!"})
		return
	}
	s.verified[req.Email] = true
	c.JSON(http.StatusOK, api.OTPResponse{Success: true, Message: "OTP verified!"})
}

func (s *Server) blogList(filter func(*api.Blog) bool) []api.Blog {
	out := []api.Blog{}
	for _, b := range s.blogs {
		if filter == nil || filter(b) {
			out = append(out, *b)
		}
	}
	// Storage order is not id order on the real backend either.
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out
}

// GET /api/blogs
func (s *Server) listBlogs(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.blogList(nil))
}

// GET /api/blogs/following/:userId
func (s *Server) followingBlogs(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[c.Param("userId")]
	if !ok {
		c.JSON(http.StatusNotFound, nil)
		return
	}
	following := map[string]bool{}
	for _, id := range u.Following {
		following[id] = true
	}
	c.JSON(http.StatusOK, s.blogList(func(b *api.Blog) bool { return following[b.UserID] }))
}

// GET /api/blogs/user/username/:username
func (s *Server) userBlogs(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := c.Param("username")
	c.JSON(http.StatusOK, s.blogList(func(b *api.Blog) bool { return b.Author == name }))
}

// GET /api/blogs/:id
func (s *Server) getBlog(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blogs[c.Param("id")]
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	c.JSON(http.StatusOK, b)
}

// POST /api/blogs (multipart)
func (s *Server) createBlog(c *gin.Context) {
	title, content := c.PostForm("title"), c.PostForm("content")
	author, userID := c.PostForm("author"), c.PostForm("userId")
	if title == "" || content == "" || author == "" || userID == "" {
		c.String(http.StatusBadRequest, "Title, content, author, and userId cannot be empty.")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[userID]; !ok {
		c.String(http.StatusBadRequest, "User not found!")
		return
	}
	b := &api.Blog{
		ID:         s.nextID(),
		Title:      title,
		Content:    content,
		Author:     author,
		UserID:     userID,
		CreatedAt:  s.now(),
		LikedUsers: []string{},
		Comments:   []api.Comment{},
	}
	if fh, err := c.FormFile("file"); err == nil {
		b.ImagePath = "uploads/" + fh.Filename
	}
	s.blogs[b.ID] = b
	c.JSON(http.StatusOK, b)
}

// PUT /api/blogs/:id (multipart)
func (s *Server) updateBlog(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blogs[c.Param("id")]
	if !ok {
		notFound(c, "Blog not found")
		return
	}
	b.Title = c.PostForm("title")
	b.Content = c.PostForm("content")
	if fh, err := c.FormFile("image"); err == nil {
		b.ImagePath = "uploads/" + fh.Filename
	}
	c.JSON(http.StatusOK, b)
}

type userIDBody struct {
	UserID string `json:"userId"`
}

// DELETE /api/blogs/:id
func (s *Server) deleteBlog(c *gin.Context) {
	var body userIDBody
	_ = c.ShouldBindJSON(&body)

	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blogs[c.Param("id")]
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	if b.UserID != body.UserID {
		c.String(http.StatusForbidden, "You are not allowed to delete this blog.")
		return
	}
	delete(s.blogs, b.ID)
	c.String(http.StatusOK, "Blog deleted successfully")
}

// POST /api/blogs/:id/like?userId=
func (s *Server) likeBlog(c *gin.Context) {
	userID := c.Query("userId")

	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blogs[c.Param("id")]
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	u, ok := s.users[userID]
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	if b.LikedBy(userID) {
		b.Likes--
		b.LikedUsers = remove(b.LikedUsers, userID)
	} else {
		b.Likes++
		b.LikedUsers = append(b.LikedUsers, userID)
		if userID != b.UserID {
			s.notify(b.UserID, api.Notification{
				Type:       api.NotificationLike,
				Message:    u.Username + " liked " + b.Title,
				BlogID:     b.ID,
				FromUserID: userID,
			})
		}
	}
	c.JSON(http.StatusOK, b)
}

// POST /api/blogs/:id/comment
func (s *Server) addComment(c *gin.Context) {
	var in api.NewComment
	if err := c.ShouldBindJSON(&in); err != nil {
		c.String(http.StatusBadRequest, "Invalid comment")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blogs[c.Param("id")]
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	b.Comments = append(b.Comments, api.Comment{
		ID:         s.nextID(),
		Content:    in.Content,
		Author:     in.Author,
		AuthorID:   in.AuthorID,
		CreatedAt:  *s.now(),
		LikedUsers: []string{},
	})
	if commenter, ok := s.users[in.AuthorID]; ok && in.AuthorID != b.UserID {
		s.notify(b.UserID, api.Notification{
			Type:       api.NotificationComment,
			Message:    commenter.Username + " commented on " + b.Title,
			BlogID:     b.ID,
			FromUserID: in.AuthorID,
		})
	}
	c.JSON(http.StatusOK, b)
}

// DELETE /api/blogs/:id/comments/:commentId
func (s *Server) deleteComment(c *gin.Context) {
	var body struct {
		Username string `json:"username"`
	}
	_ = c.ShouldBindJSON(&body)

	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blogs[c.Param("id")]
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	idx := commentIndex(b, c.Param("commentId"))
	if idx < 0 {
		c.Status(http.StatusNotFound)
		return
	}
	if body.Username != b.Comments[idx].Author && body.Username != b.Author {
		c.String(http.StatusForbidden, "You can only delete your own comments or comments on your posts")
		return
	}
	b.Comments = append(b.Comments[:idx], b.Comments[idx+1:]...)
	c.String(http.StatusOK, "Comment deleted successfully")
}

// POST /api/blogs/:id/comments/:commentId/like?userId=
func (s *Server) likeComment(c *gin.Context) {
	userID := c.Query("userId")

	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blogs[c.Param("id")]
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	idx := commentIndex(b, c.Param("commentId"))
	u, userOK := s.users[userID]
	if idx < 0 || !userOK {
		c.Status(http.StatusNotFound)
		return
	}

	cm := &b.Comments[idx]
	if cm.LikedBy(userID) {
		cm.Likes--
		cm.LikedUsers = remove(cm.LikedUsers, userID)
	} else {
		cm.Likes++
		cm.LikedUsers = append(cm.LikedUsers, userID)
		if userID != cm.AuthorID {
			s.notify(cm.AuthorID, api.Notification{
				Type:       api.NotificationCommentLike,
				Message:    u.Username + " liked your comment on " + b.Title,
				BlogID:     b.ID,
				FromUserID: userID,
			})
		}
	}
	c.JSON(http.StatusOK, cm)
}

func commentIndex(b *api.Blog, id string) int {
	for i := range b.Comments {
		if b.Comments[i].ID == id {
			return i
		}
	}
	return -1
}

func (u *user) profile() api.Profile {
	return api.Profile{
		ID:             u.ID,
		Username:       u.Username,
		Description:    u.Description,
		ProfilePicture: u.ProfilePicture,
		Followers:      append([]string{}, u.Followers...),
		Following:      append([]string{}, u.Following...),
	}
}

func (u *user) summary() api.UserSummary {
	return api.UserSummary{ID: u.ID, Username: u.Username, Description: u.Description}
}

// GET /api/profile/:username
func (s *Server) getProfile(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.byUsername(c.Param("username"))
	if u == nil {
		notFound(c, "User not found")
		return
	}
	c.JSON(http.StatusOK, u.profile())
}

// PUT /api/profile/:username (multipart)
func (s *Server) updateProfile(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.byUsername(c.Param("username"))
	if u == nil {
		notFound(c, "User not found")
		return
	}
	u.Description = c.PostForm("description")
	if fh, err := c.FormFile("profilePicture"); err == nil {
		f, err := fh.Open()
		if err == nil {
			data, _ := io.ReadAll(f)
			f.Close()
			u.ProfilePicture = fmt.Sprintf("%s (%d bytes)", fh.Filename, len(data))
		}
	}
	c.JSON(http.StatusOK, u.profile())
}

// POST /api/profile/:username/follow
func (s *Server) follow(c *gin.Context) {
	var body userIDBody
	_ = c.ShouldBindJSON(&body)

	s.mu.Lock()
	defer s.mu.Unlock()
	target := s.byUsername(c.Param("username"))
	follower, ok := s.users[body.UserID]
	if target == nil || !ok {
		notFound(c, "User not found")
		return
	}
	if target.ID == follower.ID {
		c.String(http.StatusBadRequest, "Cannot follow yourself")
		return
	}
	for _, id := range target.Followers {
		if id == follower.ID {
			c.String(http.StatusBadRequest, "Already following this user")
			return
		}
	}

	target.Followers = append(target.Followers, follower.ID)
	follower.Following = append(follower.Following, target.ID)
	s.notify(target.ID, api.Notification{
		Type:       api.NotificationFollow,
		Message:    follower.Username + " followed you",
		FromUserID: follower.ID,
	})
	c.JSON(http.StatusOK, target.profile())
}

// POST /api/profile/:username/unfollow
func (s *Server) unfollow(c *gin.Context) {
	var body userIDBody
	_ = c.ShouldBindJSON(&body)

	s.mu.Lock()
	defer s.mu.Unlock()
	target := s.byUsername(c.Param("username"))
	follower, ok := s.users[body.UserID]
	if target == nil || !ok {
		notFound(c, "User not found")
		return
	}
	target.Followers = remove(target.Followers, follower.ID)
	follower.Following = remove(follower.Following, target.ID)
	c.JSON(http.StatusOK, target.profile())
}

func (s *Server) summaries(ids []string) []api.UserSummary {
	out := []api.UserSummary{}
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, u.summary())
		}
	}
	return out
}

// GET /api/profile/:username/followers
func (s *Server) followers(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.byUsername(c.Param("username"))
	if u == nil {
		notFound(c, "User not found")
		return
	}
	c.JSON(http.StatusOK, s.summaries(u.Followers))
}

// GET /api/profile/:username/following
func (s *Server) following(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.byUsername(c.Param("username"))
	if u == nil {
		notFound(c, "User not found")
		return
	}
	c.JSON(http.StatusOK, s.summaries(u.Following))
}

// GET /api/users/search?query=
func (s *Server) searchUsers(c *gin.Context) {
	q := strings.ToLower(c.Query("query"))

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.UserSummary{}
	for _, u := range s.users {
		if strings.Contains(strings.ToLower(u.Username), q) {
			out = append(out, u.summary())
		}
	}
	if len(out) == 0 {
		notFound(c, "No users found")
		return
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	c.JSON(http.StatusOK, out)
}

// GET /api/notifications/:userId
func (s *Server) getNotifications(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]api.Notification{}, s.notifications[c.Param("userId")]...)
	c.JSON(http.StatusOK, out)
}

// PUT /api/notifications/:userId/read
func (s *Server) markRead(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.notifications[c.Param("userId")]
	for i := range list {
		list[i].IsRead = true
	}
	c.Status(http.StatusOK)
}

// DELETE /api/notifications/:userId
func (s *Server) clearNotifications(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.notifications, c.Param("userId"))
	c.Status(http.StatusOK)
}

// GET /api/messages/:from/:to
func (s *Server) getThread(c *gin.Context) {
	a, b := c.Param("from"), c.Param("to")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.Message{}
	for _, m := range s.messages {
		if (m.From == a && m.To == b) || (m.From == b && m.To == a) {
			out = append(out, m)
		}
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/messages
func (s *Server) sendMessage(c *gin.Context) {
	var m api.Message
	if err := c.ShouldBindJSON(&m); err != nil || m.From == "" || m.To == "" {
		c.String(http.StatusBadRequest, "Invalid message")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	m.Timestamp = s.now()
	s.messages = append(s.messages, m)
	c.JSON(http.StatusOK, m)
}
