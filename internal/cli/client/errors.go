package client

import (
	"errors"
	"strings"

	"github.com/bytedance/sonic"
)

// APIError is a non-2xx response from the backend
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// RequestError is a transport or decode failure: the backend never produced a
// usable answer
type RequestError struct {
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return "failed to " + e.Op + ": " + e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// UserMessage returns the text shown to the user for err. Transport failures
// collapse to a generic "failed to <op>"; backend errors keep their message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return "failed to " + reqErr.Op
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// IsStatus reports whether err is an APIError with the given status code
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

func newAPIError(status int, body []byte, mode errorMode, fallback string) *APIError {
	msg := ""
	switch mode {
	case detailOrDefault:
		msg = extractDetail(body)
	case bodyText:
		msg = string(body)
	}
	if strings.TrimSpace(msg) == "" {
		msg = fallback
	}
	return &APIError{StatusCode: status, Message: msg}
}

// extractDetail reads the backend's conventional error field. A validation
// error array is joined over each element's msg.
func extractDetail(body []byte) string {
	var envelope struct {
		Detail any `json:"detail"`
	}
	if err := sonic.Unmarshal(body, &envelope); err != nil {
		return ""
	}

	switch d := envelope.Detail.(type) {
	case string:
		return d
	case []any:
		msgs := make([]string, 0, len(d))
		for _, item := range d {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if m, ok := obj["msg"].(string); ok {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, ", ")
	}
	return ""
}

var (
	errMissingID       = errors.New("id is required")
	errMissingIDOrName = errors.New("both id and name are required")
)
