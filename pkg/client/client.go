package client

import (
	"time"

	"github.com/go-resty/resty/v2"
	json "github.com/json-iterator/go"
	"github.com/penfolio/penfolio-cli/pkg/config"
	"github.com/penfolio/penfolio-cli/pkg/logger"
)

// UserAgent is sent with every request.
const UserAgent = "PenFolio-CLI/0.1.0"

// Options configures a new HTTP client.
type Options struct {
	BaseURL string
	// Timeout of zero leaves requests bounded only by their context.
	Timeout time.Duration
}

var httpClient *resty.Client

// OptionsFromConfig reads api.base_url and api.timeout.
func OptionsFromConfig() Options {
	return Options{
		BaseURL: config.GetString("api.base_url"),
		Timeout: config.GetSeconds("api.timeout"),
	}
}

// New builds a resty client. It never retries; failures surface to the
// caller as-is.
func New(opts Options) *resty.Client {
	c := resty.New()

	c.SetBaseURL(opts.BaseURL)
	if opts.Timeout > 0 {
		c.SetTimeout(opts.Timeout)
	}
	c.SetRetryCount(0)
	c.SetHeader("User-Agent", UserAgent)
	c.SetHeader("Accept", "application/json")
	c.SetJSONMarshaler(json.Marshal)
	c.SetJSONUnmarshaler(json.Unmarshal)

	c.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		logger.Debug("HTTP Request", "method", req.Method, "url", req.URL)
		return nil
	})

	c.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		logger.Debug("HTTP Response",
			"method", resp.Request.Method,
			"url", resp.Request.URL,
			"status", resp.StatusCode(),
			"elapsed", resp.Time())
		return nil
	})

	return c
}

// Init initializes the process-wide HTTP client from config
func Init() {
	httpClient = New(OptionsFromConfig())
}

// GetClient returns the process-wide HTTP client
func GetClient() *resty.Client {
	if httpClient == nil {
		Init()
	}
	return httpClient
}

// Reset drops the process-wide client so the next GetClient rereads config.
func Reset() {
	httpClient = nil
}
