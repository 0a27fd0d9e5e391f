package ptouch

import (
	"errors"
	"fmt"
)

// Kind classifies driver errors into a small closed set, so that callers
// can match on the kind without inspecting the underlying cause.
type Kind int

const (
	// KindNotFound means the target device is absent, or a model/tape
	// combination is missing from the descriptor tables.
	KindNotFound Kind = iota
	// KindPermission means the transport denied access (typically USB
	// device permissions).
	KindPermission
	// KindNetwork is a network failure distinct from a timeout.
	KindNetwork
	// KindTimeout means no response arrived within the connection deadline.
	KindTimeout
	// KindWrite is a partial or failed transmission on an established
	// connection.
	KindWrite
	// KindUnsupportedFeature means the selected model cannot do what the
	// configuration asks for; raised before any byte is transmitted.
	KindUnsupportedFeature
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindPermission:
		return "permission denied"
	case KindNetwork:
		return "network error"
	case KindTimeout:
		return "timeout"
	case KindWrite:
		return "write error"
	case KindUnsupportedFeature:
		return "unsupported feature"
	}
	return fmt.Sprintf("kind %d", int(k))
}

// Error is the error type returned by this package. Cause may be nil.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// IsKind reports whether err or anything it wraps is an *Error of kind k.
func IsKind(err error, k Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == k
}

func errf(k Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: k, Message: fmt.Sprintf(format, args...), Cause: cause}
}
