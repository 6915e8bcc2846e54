// Package fakeapi is an in-memory PenFolio backend for tests. It serves the
// same routes and status codes as the real server, and lets a test inject
// failures or hold requests in flight.
package fakeapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/penfolio/penfolio-cli/pkg/api"
)

type user struct {
	api.User
	Password       string
	Description    string
	ProfilePicture string
	Followers      []string
	Following      []string
}

type fault struct {
	status int
	body   string
}

// Server is a running fake backend.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	seq           int64
	epoch         int64
	users         map[string]*user
	blogs         map[string]*api.Blog
	notifications map[string][]api.Notification
	messages      []api.Message
	otps          map[string]string
	verified      map[string]bool
	faults        map[string]fault
	holds         map[string]chan struct{}
	calls         map[string]int
}

// New starts a fake backend. Call Close when done.
func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		epoch:         time.Now().Unix(),
		users:         make(map[string]*user),
		blogs:         make(map[string]*api.Blog),
		notifications: make(map[string][]api.Notification),
		otps:          make(map[string]string),
		verified:      make(map[string]bool),
		faults:        make(map[string]fault),
		holds:         make(map[string]chan struct{}),
		calls:         make(map[string]int),
	}

	router := gin.New()
	router.Use(s.intercept)
	s.routes(router)

	s.Server = httptest.NewServer(router)
	return s
}

// Route names a handler as "METHOD /path/:param", matching gin's FullPath.
func Route(method, path string) string {
	return method + " " + path
}

// Fail makes every call to route answer with status and a plain-text body
// until Recover is called.
func (s *Server) Fail(route string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[route] = fault{status: status, body: body}
}

// Recover removes an injected failure.
func (s *Server) Recover(route string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.faults, route)
}

// Hold parks requests to route until the returned release func is called or
// the client gives up.
func (s *Server) Hold(route string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.holds[route] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			if s.holds[route] == ch {
				delete(s.holds, route)
			}
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Calls reports how many requests reached route.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

func (s *Server) intercept(c *gin.Context) {
	route := Route(c.Request.Method, c.FullPath())

	s.mu.Lock()
	s.calls[route]++
	f, failing := s.faults[route]
	hold := s.holds[route]
	s.mu.Unlock()

	if hold != nil {
		select {
		case <-hold:
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
	}

	if failing {
		c.String(f.status, f.body)
		c.Abort()
		return
	}
	c.Next()
}

// nextID returns a 24-hex id whose string order follows creation order.
func (s *Server) nextID() string {
	s.seq++
	return fmt.Sprintf("%08x%016x", s.epoch, s.seq)
}

func (s *Server) now() *api.Timestamp {
	return &api.Timestamp{Time: time.Unix(s.epoch, 0).Add(time.Duration(s.seq) * time.Second).UTC()}
}

// AddUser registers an account and returns its public record.
func (s *Server) AddUser(username, password string) api.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUser(username, password, username+"@penfolio.test").User
}

func (s *Server) addUser(username, password, email string) *user {
	u := &user{
		User: api.User{
			ID:       s.nextID(),
			Username: username,
			Email:    email,
			Role:     api.RoleUser,
		},
		Password:  password,
		Followers: []string{},
		Following: []string{},
	}
	s.users[u.ID] = u
	return u
}

// Follow records that follower follows target without notifying anyone.
func (s *Server) Follow(followerID, targetID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[targetID].Followers = appendUnique(s.users[targetID].Followers, followerID)
	s.users[followerID].Following = appendUnique(s.users[followerID].Following, targetID)
}

// AddBlog stores a blog written by authorID.
func (s *Server) AddBlog(authorID, title, content string) api.Blog {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[authorID]
	b := &api.Blog{
		ID:         s.nextID(),
		Title:      title,
		Content:    content,
		Author:     u.Username,
		UserID:     u.ID,
		CreatedAt:  s.now(),
		LikedUsers: []string{},
		Comments:   []api.Comment{},
	}
	s.blogs[b.ID] = b
	return *b
}

// Blog returns the stored copy of a blog.
func (s *Server) Blog(id string) (api.Blog, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.blogs[id]
	if !ok {
		return api.Blog{}, false
	}
	return *b, true
}

// AddNotification stores n for userID, filling id and time when missing.
func (s *Server) AddNotification(userID string, n api.Notification) api.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notify(userID, n)
}

func (s *Server) notify(userID string, n api.Notification) api.Notification {
	if n.ID == "" {
		n.ID = s.nextID()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = *s.now()
	}
	n.UserID = userID
	s.notifications[userID] = append(s.notifications[userID], n)
	return n
}

// Notifications returns what is stored for userID.
func (s *Server) Notifications(userID string) []api.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]api.Notification(nil), s.notifications[userID]...)
}

// AddMessage stores a message as if it had been sent.
func (s *Server) AddMessage(from, to, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, api.Message{From: from, To: to, Text: text, Timestamp: s.now()})
}

// OTP returns the last code sent to email.
func (s *Server) OTP(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.otps[email]
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	return out
}

func (s *Server) byUsername(username string) *user {
	for _, u := range s.users {
		if u.Username == username {
			return u
		}
	}
	return nil
}

func notFound(c *gin.Context, msg string) {
	c.String(http.StatusNotFound, msg)
}
