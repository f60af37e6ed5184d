package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/url"
	"strings"

	"github.com/go-resty/resty/v2"
)

const (
	msgServerError = "Server error"
	msgNetwork     = "Network error. Please check your connection."
	msgUnexpected  = "An unexpected error occurred"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrNetwork      = errors.New("network error")
)

// Error is the normalized failure of any API call.
//
// Status is the HTTP status code, or 0 when no response was received.
// Data is the decoded error payload, if any.
type Error struct {
	Message string
	Status  int
	Data    map[string]any

	network bool
	cause   error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == 401
	case ErrNotFound:
		return e.Status == 404
	case ErrNetwork:
		return e.network
	}
	return false
}

// Message returns the user-facing text of err, or "" for nil.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return msgUnexpected
}

// fromResponse builds the error for a response with status >= 400.
func fromResponse(resp *resty.Response) *Error {
	e := &Error{Status: resp.StatusCode(), Message: msgServerError}

	var payload map[string]any
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return e
	}
	e.Data = payload

	if msg := detailMessage(payload["detail"]); msg != "" {
		e.Message = msg
	} else if msg, ok := payload["error"].(string); ok && strings.TrimSpace(msg) != "" {
		e.Message = msg
	}
	return e
}

// detailMessage accepts both a plain string and the validation list
// [{"loc": [...], "msg": "...", "type": "..."}].
func detailMessage(v any) string {
	switch d := v.(type) {
	case string:
		return strings.TrimSpace(d)
	case []any:
		if len(d) == 0 {
			return ""
		}
		item, ok := d[0].(map[string]any)
		if !ok {
			return ""
		}
		msg, _ := item["msg"].(string)
		return strings.TrimSpace(msg)
	}
	return ""
}

// fromFailure classifies an error returned before a usable response
// existed.
func fromFailure(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if isNetwork(err) {
		return &Error{Message: msgNetwork, network: true, cause: err}
	}

	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = msgUnexpected
	}
	return &Error{Message: msg, cause: err}
}

// isNetwork reports whether err means the API could not be reached: a
// dial, DNS or connection failure, or a timeout. *url.Error alone is not
// enough since request construction errors (a bad scheme) come wrapped
// in it too.
func isNetwork(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if errors.Is(urlErr.Err, io.EOF) || errors.Is(urlErr.Err, io.ErrUnexpectedEOF) {
			return true
		}
		err = urlErr.Err
	}

	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
