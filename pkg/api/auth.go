package api

import (
	"context"

	"github.com/penfolio/penfolio-cli/pkg/logger"
)

// Login authenticates with username and password. The backend answers with
// the user record; an empty ID means the credentials were rejected.
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	logger.Debug("Attempting login", "username", username)

	var user User
	resp, err := c.jsonRequest(ctx, LoginRequest{Username: username, Password: password}).
		Post("/api/auth/login")

	if err := CheckResponse(resp, err); err != nil {
		return nil, err
	}
	if err := decode(resp, &user); err != nil {
		return nil, err
	}

	logger.Debug("Login response", "username", user.Username, "has_id", user.ID != "")
	return &user, nil
}

// Register creates an account. Callers must have verified the email first.
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	logger.Debug("Registering user", "username", req.Username)

	if req.Role == "" {
		req.Role = RoleUser
	}
	resp, err := c.jsonRequest(ctx, req).Post("/api/auth/register")
	return CheckResponse(resp, err)
}

// SendOTP asks the server to email a one-time password.
func (c *Client) SendOTP(ctx context.Context, email string) (*OTPResponse, error) {
	logger.Debug("Requesting OTP", "email", email)
	return c.otp(ctx, "/api/auth/send-otp", OTPRequest{Email: email})
}

// VerifyOTP checks a one-time password.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*OTPResponse, error) {
	logger.Debug("Verifying OTP", "email", email)
	return c.otp(ctx, "/api/auth/verify-otp", OTPRequest{Email: email, OTP: otp})
}

// otp posts to an OTP endpoint. Those endpoints report failure as a
// {success:false} document with a 4xx/5xx status; that document is returned
// as-is and only bodies without a message become errors.
func (c *Client) otp(ctx context.Context, path string, body OTPRequest) (*OTPResponse, error) {
	resp, err := c.jsonRequest(ctx, body).Post(path)
	if err != nil {
		return nil, err
	}

	var out OTPResponse
	if derr := decode(resp, &out); derr != nil || out.Message == "" {
		if !resp.IsSuccess() {
			return nil, ParseError(resp)
		}
		if derr != nil {
			return nil, derr
		}
	}
	if !resp.IsSuccess() {
		out.Success = false
	}
	return &out, nil
}
