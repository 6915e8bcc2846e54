// Package auth runs the login and three-step signup flows and turns their
// failures into the messages shown to the user.
package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/penfolio/penfolio-cli/pkg/api"
	clierrors "github.com/penfolio/penfolio-cli/pkg/errors"
	"github.com/penfolio/penfolio-cli/pkg/logger"
	"github.com/penfolio/penfolio-cli/pkg/session"
)

// User-facing messages.
const (
	MsgInvalidCredentials = "Invalid credentials. Please try again."
	MsgLoginFailed        = "Login failed. Please try again."
	MsgSendOTPFailed      = "Failed to send OTP. Please try again."
	MsgInvalidOTP         = "Invalid OTP. Please try again."
	MsgVerifyFirst        = "Please verify OTP first."
	MsgRegisterFailed     = "Registration failed. Please try again."
)

var validate = validator.New()

// Backend is the part of the REST client used for authentication.
type Backend interface {
	Login(ctx context.Context, username, password string) (*api.User, error)
	Register(ctx context.Context, req api.RegisterRequest) error
	SendOTP(ctx context.Context, email string) (*api.OTPResponse, error)
	VerifyOTP(ctx context.Context, email, otp string) (*api.OTPResponse, error)
}

// Login authenticates and starts a session on success.
func Login(ctx context.Context, b Backend, sess *session.Manager, username, password string) (session.Session, error) {
	user, err := b.Login(ctx, strings.TrimSpace(username), password)
	if err != nil {
		logger.Debug("Login failed", "username", username, "error", err)
		return session.Session{}, failure(err, MsgLoginFailed)
	}
	if user.ID == "" {
		return session.Session{}, clierrors.UnauthorizedError(MsgInvalidCredentials)
	}

	s := session.Session{UserID: user.ID, Username: user.Username, Role: user.Role}
	if err := sess.Start(s); err != nil {
		return session.Session{}, err
	}
	return s, nil
}

// Signup walks through send-otp, verify-otp and register. Register refuses
// to run until the email has been verified.
type Signup struct {
	backend Backend

	mu       sync.Mutex
	email    string
	sent     bool
	verified bool
}

// NewSignup starts a fresh signup.
func NewSignup(b Backend) *Signup {
	return &Signup{backend: b}
}

type emailForm struct {
	Email string `validate:"required,email"`
}

// SendOTP mails a one-time password to email. Changing the email resets
// verification.
func (s *Signup) SendOTP(ctx context.Context, email string) (string, error) {
	form := emailForm{Email: strings.TrimSpace(email)}
	if err := validate.Struct(form); err != nil {
		return "", clierrors.FieldError("email", "must be a valid email address")
	}

	resp, err := s.backend.SendOTP(ctx, form.Email)
	if err != nil {
		return "", failure(err, MsgSendOTPFailed)
	}
	if !resp.Success {
		return "", clierrors.ValidationError(orDefault(resp.Message, MsgSendOTPFailed))
	}

	s.mu.Lock()
	s.email, s.sent, s.verified = form.Email, true, false
	s.mu.Unlock()
	return resp.Message, nil
}

// VerifyOTP checks the code sent by SendOTP.
func (s *Signup) VerifyOTP(ctx context.Context, otp string) (string, error) {
	s.mu.Lock()
	email, sent := s.email, s.sent
	s.mu.Unlock()
	if !sent {
		return "", clierrors.ValidationError(MsgSendOTPFailed)
	}

	resp, err := s.backend.VerifyOTP(ctx, email, strings.TrimSpace(otp))
	if err != nil {
		return "", failure(err, MsgInvalidOTP)
	}
	if !resp.Success {
		return "", clierrors.ValidationError(orDefault(resp.Message, MsgInvalidOTP))
	}

	s.mu.Lock()
	s.verified = true
	s.mu.Unlock()
	return resp.Message, nil
}

// Verified reports whether the email has been confirmed.
func (s *Signup) Verified() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.verified
}

// Register creates the account for the verified email.
func (s *Signup) Register(ctx context.Context, username, password string) error {
	s.mu.Lock()
	email, verified := s.email, s.verified
	s.mu.Unlock()
	if !verified {
		return clierrors.ValidationError(MsgVerifyFirst)
	}

	req := api.RegisterRequest{
		Username: strings.TrimSpace(username),
		Password: password,
		Email:    email,
		Role:     api.RoleUser,
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return clierrors.FieldError(strings.ToLower(verrs[0].Field()), verrs[0].Tag())
		}
		return clierrors.ValidationError(MsgRegisterFailed)
	}

	if err := s.backend.Register(ctx, req); err != nil {
		return failure(err, MsgRegisterFailed)
	}
	logger.Info("Account registered", "username", req.Username)
	return nil
}

// failure keeps a server-supplied message and otherwise falls back.
func failure(err error, fallback string) error {
	cliErr := clierrors.CategorizeError(err)
	var apiErr *api.APIError
	if errors.As(err, &apiErr) && apiErr.Message == "" {
		cliErr.Message = fallback
	}
	return cliErr
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
