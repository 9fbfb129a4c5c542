package rag

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures so callers can tell a bad request from a
// misconfigured deployment or an upstream outage.
type Kind int

const (
	// KindService covers failures of the embedder, the vector store or the
	// LLM: network errors, quota errors, timeouts.
	KindService Kind = iota
	// KindValidation marks input rejected before it reaches the pipeline,
	// such as an empty question.
	KindValidation
	// KindConfig marks setup problems: a missing credential or an embedding
	// dimension that does not match the store.
	KindConfig
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfig:
		return "configuration"
	default:
		return "service"
	}
}

// Error is the typed error returned across pipeline boundaries. Op names the
// failing operation, Err holds the underlying cause (may be nil when the
// message alone is enough).
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.Msg != "":
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Msg, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %s", e.Op, e.Msg)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// E wraps err with a kind and operation name. A nil err yields nil.
func E(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	var inner *Error
	if errors.As(err, &inner) {
		// Already classified closer to the failure; keep the original kind.
		return &Error{Kind: inner.Kind, Op: op, Err: err}
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds a classified error from a format string.
func Errorf(kind Kind, op, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// KindOf reports the kind of err. Unclassified errors count as service
// failures, the conservative default.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindService
}
