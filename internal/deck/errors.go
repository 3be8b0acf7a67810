package deck

import (
	"errors"
	"fmt"
)

// Kind classifies a failed operation.
type Kind int

const (
	KindUnknownHandle Kind = iota + 1
	KindNotFound
	KindInvalidFormat
	KindOutOfRange
	KindUnsupported
	KindHostFault
)

var kindNames = map[Kind]string{
	KindUnknownHandle: "unknown_handle",
	KindNotFound:      "not_found",
	KindInvalidFormat: "invalid_format",
	KindOutOfRange:    "out_of_range",
	KindUnsupported:   "unsupported",
	KindHostFault:     "host_fault",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the only error type deck returns from its exported functions.
// Min and Max are set for KindOutOfRange.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
	Min  int
	Max  int
}

// Sentinels for errors.Is.
var (
	ErrUnknownHandle = &Error{Kind: KindUnknownHandle}
	ErrNotFound      = &Error{Kind: KindNotFound}
	ErrInvalidFormat = &Error{Kind: KindInvalidFormat}
	ErrOutOfRange    = &Error{Kind: KindOutOfRange}
	ErrUnsupported   = &Error{Kind: KindUnsupported}
	ErrHostFault     = &Error{Kind: KindHostFault}
)

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Err != nil && e.Kind != KindHostFault {
		msg += ": " + e.Err.Error()
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Retryable reports whether repeating the call may succeed. Only host
// faults qualify: everything else is decided before the host is touched.
func (e *Error) Retryable() bool { return e.Kind == KindHostFault }

// KindOf returns the kind of err, treating foreign errors as host faults.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindHostFault
}

func errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func outOfRange(what string, pos, lo, hi int) *Error {
	e := errorf(KindOutOfRange, "invalid %s %d: valid range is %d-%d", what, pos, lo, hi)
	if hi < lo {
		e.Msg = fmt.Sprintf("invalid %s %d: there are no %ss", what, pos, what)
	}
	e.Min, e.Max = lo, hi
	return e
}

// hostFault wraps an error raised by the host, keeping its message. Errors
// that are already classified pass through.
func hostFault(err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: KindHostFault, Msg: err.Error(), Err: err}
}

// WithOp stamps op on a classified error that has none yet.
func WithOp(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if !errors.As(err, &de) {
		return &Error{Kind: KindHostFault, Op: op, Msg: err.Error(), Err: err}
	}
	if de.Op != "" {
		return err
	}
	cp := *de
	cp.Op = op
	return &cp
}
