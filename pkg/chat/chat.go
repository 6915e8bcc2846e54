// Package chat is the direct-message panel: a contact list drawn from the
// viewer's follows and one open thread at a time.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/penfolio/penfolio-cli/pkg/api"
	"github.com/penfolio/penfolio-cli/pkg/logger"
	"github.com/penfolio/penfolio-cli/pkg/session"
)

// State of the panel.
type State int

const (
	Idle State = iota
	FollowingLoaded
	LoadingThread
	ThreadLoaded
)

func (s State) String() string {
	switch s {
	case FollowingLoaded:
		return "following_loaded"
	case LoadingThread:
		return "loading_thread"
	case ThreadLoaded:
		return "thread_loaded"
	default:
		return "idle"
	}
}

// ErrSuperseded is returned by Select when another contact was selected
// before the thread arrived.
var ErrSuperseded = errors.New("thread load superseded by a newer selection")

// ErrThreadLoading is returned by Send while the selected thread is still
// being fetched.
var ErrThreadLoading = errors.New("conversation is still loading")

// Source is the part of the REST client the panel needs.
type Source interface {
	Following(ctx context.Context, username string) ([]api.UserSummary, error)
	GetThread(ctx context.Context, fromID, toID string) ([]api.Message, error)
	SendMessage(ctx context.Context, msg api.Message) (*api.Message, error)
}

// ThreadMessage is one line of the open thread. Local echoes of sent
// messages carry the sender's username and a client-side ID.
type ThreadMessage struct {
	api.Message
	ID     string
	User   string
	Local  bool
	Failed bool
}

// SendResult reports what happened to a sent message.
type SendResult struct {
	Message   ThreadMessage
	Delivered bool
	Err       error
}

// Panel holds the messaging state for one viewer.
type Panel struct {
	src  Source
	sess *session.Manager

	mu       sync.Mutex
	state    State
	contacts []api.UserSummary
	selected *api.UserSummary
	thread   []ThreadMessage
	gen      uint64
	cancel   context.CancelFunc
	onChange func([]ThreadMessage)
}

// New creates an idle panel. It closes itself when the session ends.
func New(src Source, sess *session.Manager) *Panel {
	p := &Panel{src: src, sess: sess, contacts: []api.UserSummary{}}
	sess.OnInvalidate(p.Close)
	return p
}

// OnChange registers fn to receive the thread every time it changes.
func (p *Panel) OnChange(fn func([]ThreadMessage)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = fn
}

// State returns the current state.
func (p *Panel) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Selected returns the open contact.
func (p *Panel) Selected() (api.UserSummary, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.selected == nil {
		return api.UserSummary{}, false
	}
	return *p.selected, true
}

// Thread returns a copy of the open thread.
func (p *Panel) Thread() []ThreadMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]ThreadMessage(nil), p.thread...)
}

// Open loads the viewer's follow list. On failure the list is empty.
func (p *Panel) Open(ctx context.Context) error {
	s, err := p.sess.RequireUser()
	if err != nil {
		return err
	}

	contacts, err := p.src.Following(ctx, s.Username)
	if err != nil {
		logger.Error("Failed to load contacts", "error", err)
		contacts = []api.UserSummary{}
	}

	p.mu.Lock()
	p.contacts = contacts
	if p.state == Idle {
		p.state = FollowingLoaded
	}
	p.mu.Unlock()
	return err
}

// Contacts filters the last loaded follow list by a case-insensitive
// username substring. It never refetches.
func (p *Panel) Contacts(filter string) []api.UserSummary {
	p.mu.Lock()
	defer p.mu.Unlock()

	needle := strings.ToLower(strings.TrimSpace(filter))
	out := make([]api.UserSummary, 0, len(p.contacts))
	for _, c := range p.contacts {
		if needle == "" || strings.Contains(strings.ToLower(c.Username), needle) {
			out = append(out, c)
		}
	}
	return out
}

// Select opens the thread with contact. Any earlier load still in flight is
// cancelled, and if this load is itself overtaken it returns ErrSuperseded
// without touching the thread.
func (p *Panel) Select(ctx context.Context, contact api.UserSummary) error {
	s, err := p.sess.RequireUser()
	if err != nil {
		return err
	}

	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.gen++
	gen := p.gen
	p.cancel = cancel
	p.selected = &contact
	p.state = LoadingThread
	p.thread = nil
	p.mu.Unlock()
	p.changed()

	msgs, err := p.src.GetThread(loadCtx, s.UserID, contact.ID)

	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return ErrSuperseded
	}
	p.cancel = nil
	p.state = ThreadLoaded
	p.thread = make([]ThreadMessage, 0, len(msgs))
	for _, m := range msgs {
		p.thread = append(p.thread, ThreadMessage{Message: m})
	}
	p.mu.Unlock()
	p.changed()

	if err != nil {
		logger.Error("Failed to load thread", "contact", contact.Username, "error", err)
	}
	return err
}

// Send appends a local echo of text to the thread at once, then posts it.
// Blank text or no open contact is ignored and reports nothing delivered.
// While the thread is loading nothing is sent and Err is ErrThreadLoading.
func (p *Panel) Send(ctx context.Context, text string) SendResult {
	text = strings.TrimSpace(text)
	s, ok := p.sess.Current()
	to, selected := p.Selected()
	if text == "" || !selected || !ok {
		return SendResult{}
	}

	echo := ThreadMessage{
		Message: api.Message{From: s.UserID, To: to.ID, Text: text},
		ID:      uuid.NewString(),
		User:    s.Username,
		Local:   true,
	}
	p.mu.Lock()
	if p.state == LoadingThread {
		p.mu.Unlock()
		return SendResult{Err: ErrThreadLoading}
	}
	p.thread = append(p.thread, echo)
	p.mu.Unlock()
	p.changed()

	if _, err := p.src.SendMessage(ctx, echo.Message); err != nil {
		logger.Error("Failed to send message", "to", to.Username, "error", err)
		echo.Failed = true
		p.mark(echo.ID, true)
		return SendResult{Message: echo, Err: err}
	}

	return SendResult{Message: echo, Delivered: true}
}

// Close cancels any in-flight load and returns to Idle.
func (p *Panel) Close() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.gen++
	p.state = Idle
	p.contacts = []api.UserSummary{}
	p.selected = nil
	p.thread = nil
	p.mu.Unlock()
	p.changed()
}

func (p *Panel) mark(id string, failed bool) {
	p.mu.Lock()
	for i := range p.thread {
		if p.thread[i].ID == id {
			p.thread[i].Failed = failed
		}
	}
	p.mu.Unlock()
	p.changed()
}

func (p *Panel) changed() {
	p.mu.Lock()
	fn := p.onChange
	thread := append([]ThreadMessage(nil), p.thread...)
	p.mu.Unlock()
	if fn != nil {
		fn(thread)
	}
}
