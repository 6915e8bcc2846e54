// Package service drives the controllers from the command line: it prompts
// for missing input, calls the controllers and prints the result in the
// configured output format.
package service

import (
	"time"

	"github.com/penfolio/penfolio-cli/pkg/api"
	"github.com/penfolio/penfolio-cli/pkg/notify"
	"github.com/penfolio/penfolio-cli/pkg/prompter"
	"github.com/penfolio/penfolio-cli/pkg/session"
)

// Env is shared by every service of one command invocation.
type Env struct {
	API     *api.Client
	Session *session.Manager
	Prompt  *prompter.Prompter
	Now     func() time.Time

	notifications *notify.Controller
}

// NewEnv builds an Env reading prompts from stdin.
func NewEnv(c *api.Client, sess *session.Manager) *Env {
	return &Env{API: c, Session: sess, Prompt: prompter.Std(), Now: time.Now}
}

// Notifications is the one notification controller of this Env. The feed
// and the notification commands share it.
func (e *Env) Notifications() *notify.Controller {
	if e.notifications == nil {
		e.notifications = notify.New(e.API, e.Session)
	}
	return e.notifications
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// username returns name, or the viewer's own username when name is empty.
func (e *Env) username(name string) (string, error) {
	if name != "" {
		return name, nil
	}
	s, err := e.Session.RequireUser()
	if err != nil {
		return "", err
	}
	return s.Username, nil
}
