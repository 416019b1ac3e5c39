package utils

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-user-keeper/internal/logger"
)

// HTTPClient is a resty client bound to the base URL of a user-keeper
// server. It embeds *resty.Client so callers can still build requests
// directly.
type HTTPClient struct {
	*resty.Client
}

// NewHTTPClient returns a client for the server at baseURL. Every request
// asks for JSON and is abandoned after timeout; a zero timeout disables the
// limit. Completed calls are logged at debug level without their bodies.
func NewHTTPClient(baseURL string, timeout time.Duration, log *logger.Logger) *HTTPClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			log.Debug().
				Str("func", "HTTPClient").
				Str("method", resp.Request.Method).
				Str("url", resp.Request.URL).
				Int("status", resp.StatusCode()).
				Dur("duration", resp.Time()).
				Msg("api call")
			return nil
		})

	return &HTTPClient{Client: client}
}

// Request starts a request bound to ctx. A non-empty token is sent as a
// Bearer credential.
func (c *HTTPClient) Request(ctx context.Context, token string) *resty.Request {
	req := c.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}
