package client

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// ErrUnexpectedStatus is the cause of an APIError raised for a non-2xx
// response.
var ErrUnexpectedStatus = errors.New("unexpected status")

// APIError is the single error type returned by Client operations.
// Error() yields only the human-readable message; the original failure is
// kept as the wrapped cause.
type APIError struct {
	Message    string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

type errorBody struct {
	Error string `json:"error"`
}

// mapError picks the message in order: the server's "error" field, the
// underlying failure, the configured fallback.
func (c *Client) mapError(method, path string, resp *resty.Response, err error) *APIError {
	status := 0
	if resp != nil && resp.RawResponse != nil {
		status = resp.StatusCode()
	}
	failed := status != 0 && (status < 200 || status > 299)
	if err == nil && !failed {
		return nil
	}

	cause := err
	if cause == nil {
		cause = fmt.Errorf("%s %s: %w %d", method, path, ErrUnexpectedStatus, status)
	}

	apiErr := &APIError{StatusCode: status, Err: cause}
	switch msg := serverMessage(resp); {
	case failed && msg != "":
		apiErr.Message = msg
	case err != nil && err.Error() != "":
		apiErr.Message = err.Error()
	case failed:
		apiErr.Message = fmt.Sprintf("request failed with status code %d", status)
	default:
		apiErr.Message = c.fallback
	}
	return apiErr
}

func serverMessage(resp *resty.Response) string {
	if resp == nil || resp.RawResponse == nil {
		return ""
	}
	if body, ok := resp.Error().(*errorBody); ok && body != nil && body.Error != "" {
		return body.Error
	}
	// Error bodies sent without a JSON content type are not decoded by
	// resty; try the raw bytes.
	var body errorBody
	if json.Unmarshal(resp.Body(), &body) == nil {
		return body.Error
	}
	return ""
}
