package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// APIError is the decoded error body of a non-2xx response. It unwraps to
// the sentinel matching the status code.
type APIError struct {
	StatusCode int
	Name       string `json:"name"`
	Param      string `json:"param"`
	Message    string `json:"message"`

	// Fields holds per-field validation failures keyed by field name.
	Fields map[string]struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"errors"`

	sentinel error
	body     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.sentinel, e.body)
}

func (e *APIError) Unwrap() error {
	return e.sentinel
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))

	var sentinel error
	switch resp.StatusCode() {
	case http.StatusBadRequest:
		sentinel = ErrBadRequest
	case http.StatusUnauthorized:
		sentinel = ErrUnauthorized
	case http.StatusNotFound:
		sentinel = ErrNotFound
	case http.StatusConflict:
		sentinel = ErrConflict
	case http.StatusBadGateway:
		sentinel = ErrBadGateway
	case http.StatusInternalServerError:
		sentinel = ErrInternalServerError
	default:
		if body == "" {
			body = http.StatusText(resp.StatusCode())
		}
		return fmt.Errorf("http %d: %s", resp.StatusCode(), body)
	}

	apiErr := &APIError{StatusCode: resp.StatusCode(), sentinel: sentinel, body: body}
	// non-JSON bodies keep only the raw text
	_ = json.Unmarshal(resp.Body(), apiErr)

	return apiErr
}
