package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failed request.
type Kind int

const (
	KindNetwork    Kind = iota + 1 // transport failure, timeout, cancelled context
	KindAuth                       // 401
	KindValidation                 // any other 4xx
	KindServer                     // 5xx
	KindDecode                     // 2xx with an unreadable body
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindServer:
		return "server"
	case KindDecode:
		return "decode"
	}
	return "unknown"
}

// ErrUnauthorized matches any 401 response via errors.Is.
var ErrUnauthorized = errors.New("apiclient: unauthorized")

// Error is returned for every failed request.
type Error struct {
	Kind       Kind
	Method     string
	Path       string
	StatusCode int    // 0 for network failures
	Message    string // server-supplied message, may be empty
	Err        error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %s failure", e.Method, e.Path, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	return target == ErrUnauthorized && e.Kind == KindAuth
}

func kindForStatus(code int) Kind {
	switch {
	case code == http.StatusUnauthorized:
		return KindAuth
	case code >= 500:
		return KindServer
	default:
		return KindValidation
	}
}

// MessageOf returns the server-supplied message carried by err, if any.
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
