package ledger

import (
	"errors"
	"fmt"
)

// Kind classifies an operation failure. Every rejection falls into exactly
// one class, and no state is mutated for any of them.
type Kind int

const (
	// KindUnknown covers infrastructure failures (database errors etc).
	KindUnknown Kind = iota
	// KindValidation: empty/zero/malformed input.
	KindValidation
	// KindAuthorization: caller lacks the required role or identity.
	KindAuthorization
	// KindStateConflict: missing entity, terminal state, or the ledger is paused.
	KindStateConflict
	// KindInvariant: amount exceeds an available bound.
	KindInvariant
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindStateConflict:
		return "state_conflict"
	case KindInvariant:
		return "invariant"
	default:
		return "unknown"
	}
}

// Error is a classified ledger rejection.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// KindOf returns the classification of err, or KindUnknown for
// infrastructure errors.
func KindOf(err error) Kind {
	var le *Error
	if errors.As(err, &le) {
		return le.Kind
	}
	return KindUnknown
}

func validationf(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func authorizationf(format string, args ...interface{}) error {
	return &Error{Kind: KindAuthorization, Message: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...interface{}) error {
	return &Error{Kind: KindStateConflict, Message: fmt.Sprintf(format, args...)}
}

func invariantf(format string, args ...interface{}) error {
	return &Error{Kind: KindInvariant, Message: fmt.Sprintf(format, args...)}
}
