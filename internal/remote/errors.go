package remote

import (
	"errors"
	"fmt"
)

// Kind classifies a failed fetch.
type Kind int

const (
	KindServer Kind = iota + 1
	KindDecode
	KindNotConfigured
)

// Sentinels for errors.Is. Messages are the user-facing text.
var (
	ErrServer        = errors.New("Unable to reach the server. Please try again.")
	ErrDecode        = errors.New("Unexpected response from server.")
	ErrNotConfigured = errors.New("Menu is being set up. Check back soon!")
)

func (k Kind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindDecode:
		return "decode"
	case KindNotConfigured:
		return "not_configured"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindServer:
		return ErrServer
	case KindDecode:
		return ErrDecode
	case KindNotConfigured:
		return ErrNotConfigured
	default:
		return nil
	}
}

// FetchError is returned by every remote call.
type FetchError struct {
	Kind     Kind
	Resource string
	Status   int // HTTP status, 0 when no response was received
	Err      error
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("%s %s error", e.Resource, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *FetchError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// UserMessage is the text shown to the customer.
func (e *FetchError) UserMessage() string {
	if s := e.Kind.sentinel(); s != nil {
		return s.Error()
	}
	return ErrServer.Error()
}

// KindOf returns the kind of a wrapped FetchError, or 0.
func KindOf(err error) Kind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return 0
}
