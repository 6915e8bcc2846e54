package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/penfolio/penfolio-cli/pkg/api"
	"github.com/penfolio/penfolio-cli/pkg/chat"
	clierrors "github.com/penfolio/penfolio-cli/pkg/errors"
	"github.com/penfolio/penfolio-cli/pkg/formatter"
	"github.com/penfolio/penfolio-cli/pkg/logger"
	"github.com/penfolio/penfolio-cli/pkg/output"
)

const quitCommand = "/quit"

// MessageService handles direct messaging operations
type MessageService struct {
	env   *Env
	panel *chat.Panel
}

// NewMessageService creates a new message service
func NewMessageService(env *Env) *MessageService {
	return &MessageService{env: env, panel: chat.New(env.API, env.Session)}
}

// Contacts lists the users the viewer can message, filtered by username.
func (s *MessageService) Contacts(ctx context.Context, filter string) error {
	if err := s.panel.Open(ctx); err != nil {
		return err
	}
	return printUsers("Contacts", s.panel.Contacts(filter))
}

// Thread prints the conversation with username.
func (s *MessageService) Thread(ctx context.Context, username string) error {
	contact, err := s.selectContact(ctx, username)
	if err != nil {
		return err
	}
	return s.printThread(contact)
}

// Send posts one message to username.
func (s *MessageService) Send(ctx context.Context, username, text string) error {
	if strings.TrimSpace(text) == "" {
		return clierrors.ValidationError("Message cannot be empty")
	}
	contact, err := s.selectContact(ctx, username)
	if err != nil {
		return err
	}

	res := s.panel.Send(ctx, text)
	if res.Err != nil {
		return res.Err
	}
	if output.Structured() {
		return output.Print("", res.Message)
	}
	output.PrintSuccess("✓ Message sent to %s", contact.Username)
	return nil
}

// Chat opens the thread with username and sends every line typed until
// EOF or /quit.
func (s *MessageService) Chat(ctx context.Context, username string) error {
	contact, err := s.selectContact(ctx, username)
	if err != nil {
		return err
	}
	defer s.panel.Close()

	if err := s.printThread(contact); err != nil {
		return err
	}
	output.PrintInfo("Type a message and press Enter. %s to leave.", quitCommand)

	for {
		line, err := s.env.Prompt.String("> ")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if line == quitCommand {
			return nil
		}

		res := s.panel.Send(ctx, line)
		if res.Message.ID == "" {
			if res.Err != nil {
				output.PrintWarning("%v", res.Err)
			}
			continue
		}
		output.Println(formatter.MessageLine(res.Message.User, res.Message.Text, true, !res.Delivered))
		if res.Err != nil {
			logger.Warn("Message not delivered", "to", contact.Username, "error", res.Err)
		}
	}
}

func (s *MessageService) selectContact(ctx context.Context, username string) (api.UserSummary, error) {
	if err := s.panel.Open(ctx); err != nil {
		return api.UserSummary{}, err
	}

	for _, c := range s.panel.Contacts(username) {
		if strings.EqualFold(c.Username, strings.TrimSpace(username)) {
			if err := s.panel.Select(ctx, c); err != nil {
				return api.UserSummary{}, err
			}
			return c, nil
		}
	}
	return api.UserSummary{}, clierrors.NotFoundError("Contact", username).
		WithSuggestion("You can only message users you follow.")
}

func (s *MessageService) printThread(contact api.UserSummary) error {
	thread := s.panel.Thread()
	if output.Structured() {
		return output.Print("", thread)
	}

	sess, _ := s.env.Session.Current()
	output.Println(formatter.Bold.Sprint("Conversation with " + contact.Username))
	if len(thread) == 0 {
		output.Println("No messages yet.")
		return nil
	}
	for _, m := range thread {
		mine := m.From == sess.UserID
		output.Println(formatter.MessageLine(contact.Username, m.Text, mine, m.Failed))
	}
	return nil
}
