package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"
)

// APIError represents a non-2xx response
type APIError struct {
	Code       string
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("[%d] %s", e.StatusCode, e.Code)
	}
	return e.Message
}

// HTTPStatus exposes the status code to pkg/errors.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// ParseError parses an error response from the API. The backend answers
// with plain-text bodies for most failures and with Spring's JSON error
// document for unhandled ones.
func ParseError(resp *resty.Response) error {
	statusCode := resp.StatusCode()
	body := strings.TrimSpace(string(resp.Body()))

	apiErr := &APIError{
		Code:       codeFor(statusCode),
		StatusCode: statusCode,
	}

	var eb errorBody
	if strings.HasPrefix(body, "{") && json.Unmarshal(resp.Body(), &eb) == nil {
		switch {
		case eb.Message != "":
			apiErr.Message = eb.Message
		case eb.Error != "":
			apiErr.Message = eb.Error
		}
		return apiErr
	}

	apiErr.Message = body
	return apiErr
}

func codeFor(status int) string {
	switch {
	case status == 400:
		return "bad_request"
	case status == 401:
		return "unauthorized"
	case status == 403:
		return "forbidden"
	case status == 404:
		return "not_found"
	case status >= 500:
		return "server_error"
	default:
		return "unknown_error"
	}
}

func statusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsUnauthorized checks if error is due to bad credentials
func IsUnauthorized(err error) bool {
	return statusOf(err) == 401
}

// IsForbidden checks if error is due to insufficient permissions
func IsForbidden(err error) bool {
	return statusOf(err) == 403
}

// IsNotFound checks if error is due to resource not found
func IsNotFound(err error) bool {
	return statusOf(err) == 404
}

// IsBadRequest checks if the server rejected the input
func IsBadRequest(err error) bool {
	return statusOf(err) == 400
}

// CheckResponse checks if response is successful and returns error if not
func CheckResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}

	if !resp.IsSuccess() {
		return ParseError(resp)
	}

	return nil
}

// decode parses a successful body into target. Empty bodies leave target
// untouched.
func decode(resp *resty.Response, target interface{}) error {
	body := resp.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	return json.Unmarshal(body, target)
}
