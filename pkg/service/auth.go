package service

import (
	"context"

	"github.com/penfolio/penfolio-cli/pkg/auth"
	clierrors "github.com/penfolio/penfolio-cli/pkg/errors"
	"github.com/penfolio/penfolio-cli/pkg/formatter"
	"github.com/penfolio/penfolio-cli/pkg/logger"
	"github.com/penfolio/penfolio-cli/pkg/output"
)

// AuthService handles login, signup and logout.
type AuthService struct {
	env *Env
}

// NewAuthService creates a new auth service
func NewAuthService(env *Env) *AuthService {
	return &AuthService{env: env}
}

// Login prompts for whatever credentials were not given and starts a
// session.
func (s *AuthService) Login(ctx context.Context, username, password string) error {
	if cur, ok := s.env.Session.Current(); ok {
		output.PrintWarning("Already logged in as %s", cur.Username)
		confirm, err := s.env.Prompt.Confirm("Continue with new login?")
		if err != nil || !confirm {
			return err
		}
	}

	var err error
	if username == "" {
		if username, err = s.env.Prompt.String("Username: "); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = s.env.Prompt.Password("Password: "); err != nil {
			return err
		}
	}
	if username == "" || password == "" {
		return clierrors.ValidationError("Username and password are required")
	}

	sess, err := auth.Login(ctx, s.env.API, s.env.Session, username, password)
	if err != nil {
		return err
	}

	logger.Info("Logged in", "username", sess.Username)
	if output.Structured() {
		return output.Print("", sess)
	}
	output.PrintSuccess("✓ Logged in as %s", formatter.Bold.Sprint(sess.Username))
	return nil
}

// Signup runs the OTP flow for email, then registers the account.
func (s *AuthService) Signup(ctx context.Context, email, username string) error {
	var err error
	if email == "" {
		if email, err = s.env.Prompt.String("Email: "); err != nil {
			return err
		}
	}

	signup := auth.NewSignup(s.env.API)
	msg, err := signup.SendOTP(ctx, email)
	if err != nil {
		return err
	}
	output.PrintInfo("%s", msg)

	otp, err := s.env.Prompt.String("OTP: ")
	if err != nil {
		return err
	}
	if msg, err = signup.VerifyOTP(ctx, otp); err != nil {
		return err
	}
	output.PrintInfo("%s", msg)

	if username == "" {
		if username, err = s.env.Prompt.String("Username: "); err != nil {
			return err
		}
	}
	password, err := s.env.Prompt.Password("Password: ")
	if err != nil {
		return err
	}

	if err := signup.Register(ctx, username, password); err != nil {
		return err
	}
	output.PrintSuccess("✓ Account created. Run 'penfolio auth login' to sign in.")
	return nil
}

// Logout ends the session after confirmation unless force is set.
func (s *AuthService) Logout(force bool) error {
	if _, ok := s.env.Session.Current(); !ok {
		output.PrintWarning("Not logged in")
		return nil
	}

	if !force {
		confirm, err := s.env.Prompt.Confirm("Logout?")
		if err != nil || !confirm {
			return err
		}
	}

	if err := s.env.Session.Logout(); err != nil {
		return err
	}
	output.PrintSuccess("✓ Logged out successfully")
	return nil
}

// WhoAmI prints the stored session.
func (s *AuthService) WhoAmI() error {
	sess, err := s.env.Session.RequireUser()
	if err != nil {
		return err
	}
	return output.PrintRecord("Session", map[string]interface{}{
		"User ID":  sess.UserID,
		"Username": sess.Username,
		"Role":     sess.Role,
	})
}
