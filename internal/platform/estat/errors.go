package estat

import (
	"errors"
	"fmt"
)

// Kind tells configuration failures apart from failures reported by the API.
type Kind int

const (
	// KindConfig means the client is missing setup (credential, conflicting filter keys).
	KindConfig Kind = iota + 1
	// KindAPI means the API or the transport rejected the request.
	KindAPI
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindAPI:
		return "api"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is dispatch on Kind.
var (
	ErrConfig = errors.New("estat: configuration error")
	ErrAPI    = errors.New("estat: api error")
)

// Error is returned by every client operation. Status holds the envelope
// STATUS or the HTTP status code; 0 means no status was available.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("estat %s error (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("estat %s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrConfig:
		return e.Kind == KindConfig
	case ErrAPI:
		return e.Kind == KindAPI
	}
	return false
}

func configError(msg string) *Error {
	return &Error{Kind: KindConfig, Message: msg}
}

func apiError(msg string, status int, cause error) *Error {
	return &Error{Kind: KindAPI, Message: msg, Status: status, Err: cause}
}
