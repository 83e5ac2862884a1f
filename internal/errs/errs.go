// Package errs defines the error taxonomy shared by the ledger core and the RPC layer.
//
// Every recoverable failure is an *Error carrying a Kind (which drives the transport
// status) and a machine-readable Code that clients branch on. Messages are for humans
// and always say what blocked the action.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindState
	KindAmbiguous
	KindAuthorization
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindState:
		return "state"
	case KindAmbiguous:
		return "ambiguous"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Machine-readable codes.
const (
	CodeInvalidArgument     = "INVALID_ARGUMENT"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeReasonRequired      = "REASON_REQUIRED"
	CodeReasonTooShort      = "REASON_TOO_SHORT"
	CodeAmountMismatch      = "AMOUNT_MISMATCH"
	CodeNotACredit          = "NOT_A_CREDIT"
	CodeTxnAlreadyBound     = "TXN_ALREADY_BOUND"
	CodePayInAlreadyBound   = "PAYIN_ALREADY_BOUND"
	CodePayInNotBindable    = "PAYIN_NOT_BINDABLE"
	CodePayInNotPostable    = "PAYIN_NOT_POSTABLE"
	CodePayInBound          = "PAYIN_BOUND"
	CodeInvalidTransition   = "INVALID_TRANSITION"
	CodeNotBound            = "NOT_BOUND"
	CodeNotMatched          = "NOT_MATCHED"
	CodeAlreadyPosted       = "ALREADY_POSTED"
	CodeNotPosted           = "NOT_POSTED"
	CodeRebindRequired      = "REBIND_REQUIRED"
	CodeAmbiguous           = "AMBIGUOUS"
	CodePeriodLocked        = "PERIOD_LOCKED"
	CodePeriodAlreadyLocked = "PERIOD_ALREADY_LOCKED"
	CodePeriodNotLocked     = "PERIOD_NOT_LOCKED"
	CodeDuplicate           = "DUPLICATE"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeInternal            = "INTERNAL"
)

// Error is a classified, coded error.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	// Fields holds kind-specific details (excess amount, period, bound id...).
	Fields map[string]string
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// With returns a copy of e with an extra detail field.
func (e *Error) With(key, value string) *Error {
	fields := make(map[string]string, len(e.Fields)+1)
	for k, v := range e.Fields {
		fields[k] = v
	}
	fields[key] = value
	cp := *e
	cp.Fields = fields
	return &cp
}

func newf(kind Kind, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Validation reports malformed or out-of-range input.
func Validation(code, format string, args ...any) *Error {
	return newf(KindValidation, code, format, args...)
}

// Conflict reports a write that lost to existing state, such as a duplicate or a taken binding.
func Conflict(code, format string, args ...any) *Error {
	return newf(KindConflict, code, format, args...)
}

// State reports an operation not allowed in the current lifecycle state.
func State(code, format string, args ...any) *Error {
	return newf(KindState, code, format, args...)
}

// Unauthorized reports a caller lacking the capability for an operation.
func Unauthorized(format string, args ...any) *Error {
	return newf(KindAuthorization, CodeForbidden, format, args...)
}

// NotFound reports a missing entity.
func NotFound(format string, args ...any) *Error {
	return newf(KindNotFound, CodeNotFound, format, args...)
}

// Ambiguous reports an amount that cannot be fully allocated.
func Ambiguous(format string, args ...any) *Error {
	return newf(KindAmbiguous, CodeAmbiguous, format, args...)
}

// Internal wraps an unexpected failure. The cause is kept for logs only.
func Internal(err error, format string, args ...any) *Error {
	e := newf(KindInternal, CodeInternal, format, args...)
	e.cause = err
	return e
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, KindInternal for unclassified errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

// CodeOf returns the code of err, CodeInternal for unclassified errors.
func CodeOf(err error) string {
	if e, ok := As(err); ok {
		return e.Code
	}
	return CodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code string) bool {
	return err != nil && CodeOf(err) == code
}
