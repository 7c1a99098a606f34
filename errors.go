package ajimu

import "fmt"

// ErrorKind classifies an EvalError per §7.
type ErrorKind int

const (
	ErrLex ErrorKind = iota
	ErrSyntax
	ErrUnbound
	ErrType
	ErrArithmetic
	ErrIO
	ErrUser
)

func (k ErrorKind) String() string {
	switch k {
	case ErrLex:
		return "lex"
	case ErrSyntax:
		return "syntax"
	case ErrUnbound:
		return "unbound"
	case ErrType:
		return "type"
	case ErrArithmetic:
		return "arithmetic"
	case ErrIO:
		return "io"
	case ErrUser:
		return "user"
	default:
		return "unknown"
	}
}

// EvalError is the single error type produced by the core (§7). Sender
// identifies the primitive, special form, or subsystem that raised it, for
// the observer list (§6).
type EvalError struct {
	Kind    ErrorKind
	Message string
	Sender  string
}

func (e *EvalError) Error() string {
	if e.Sender != "" {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Sender, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, sender, format string, args ...interface{}) *EvalError {
	return &EvalError{Kind: kind, Sender: sender, Message: fmt.Sprintf(format, args...)}
}
