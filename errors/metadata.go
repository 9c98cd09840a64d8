package errors

import (
	"fmt"
	"io"
)

// Fault records which side of an API boundary caused an error.
type Fault uint8

const (
	FaultUnknown Fault = iota
	FaultCaller
	FaultInternal
)

type Retryability uint8

const (
	UnknownRetryability Retryability = iota
	Retryable
	NonRetryable
)

// StatusCode is the HTTP status an error should be reported with.
type StatusCode int

// Fields are key/value pairs attached to an error. They are rendered as logfmt
// by %v and %s (e.g. "set is full value=5 capacity=9"); %q renders only the message.
type Fields []any

// Add appends key/value pairs.
func (f *Fields) Add(fields ...any) {
	*f = append(*f, fields...)
}

func (f Fields) List() []any {
	return f
}

type withMetadata struct {
	parent       error
	fault        Fault
	statusCode   StatusCode
	retryability Retryability
	fields       Fields
}

// WithMetadata wraps err with any combination of Fault, StatusCode, Retryability,
// Fields and bare key/value items. A nil err yields nil.
func WithMetadata(err error, items ...any) error {
	if err == nil {
		return nil
	}

	wm := &withMetadata{parent: err}
	for _, item := range items {
		switch v := item.(type) {
		case Fault:
			wm.fault = v
		case StatusCode:
			wm.statusCode = v
		case Retryability:
			wm.retryability = v
		case Fields:
			wm.fields = append(wm.fields, v...)
		default:
			wm.fields = append(wm.fields, v)
		}
	}
	return wm
}

func (wm *withMetadata) Error() string { return wm.parent.Error() }

func (wm *withMetadata) Unwrap() error { return wm.parent }

func (wm *withMetadata) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%+v", wm.parent)
		} else {
			io.WriteString(s, wm.Error())
		}
		wm.writeFields(s)
	case 's':
		io.WriteString(s, wm.Error())
		wm.writeFields(s)
	case 'q':
		fmt.Fprintf(s, "%q", wm.Error())
	}
}

func (wm *withMetadata) writeFields(w io.Writer) {
	fields := GetFields(wm)
	if len(fields) == 0 {
		return
	}
	io.WriteString(w, " ")
	formatLogfmt(w, fields)
}

// walk visits every withMetadata in err's chain, outermost first, until fn
// returns false. Joined errors are visited depth first.
func walk(err error, fn func(wm *withMetadata) bool) bool {
	for err != nil {
		switch e := err.(type) {
		case *withMetadata:
			if !fn(e) {
				return false
			}
			err = e.parent
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				if !walk(inner, fn) {
					return false
				}
			}
			return true
		case interface{ Unwrap() error }:
			err = e.Unwrap()
		case interface{ Cause() error }:
			err = e.Cause()
		default:
			return true
		}
	}
	return true
}

// GetStatusCode returns the outermost non-zero status code in err's chain, or 0.
func GetStatusCode(err error) int {
	var code StatusCode
	walk(err, func(wm *withMetadata) bool {
		code = wm.statusCode
		return code == 0
	})
	return int(code)
}

// GetFault returns the outermost known fault in err's chain.
func GetFault(err error) Fault {
	fault := FaultUnknown
	walk(err, func(wm *withMetadata) bool {
		fault = wm.fault
		return fault == FaultUnknown
	})
	return fault
}

// IsRetryable reports whether the outermost retryability marker in err's chain is Retryable.
func IsRetryable(err error) bool {
	r := UnknownRetryability
	walk(err, func(wm *withMetadata) bool {
		r = wm.retryability
		return r == UnknownRetryability
	})
	return r == Retryable
}

// GetFields collects fields from every layer of err's chain, outermost first.
func GetFields(err error) Fields {
	var fields Fields
	walk(err, func(wm *withMetadata) bool {
		fields = append(fields, wm.fields...)
		return true
	})
	return fields
}

func formatLogfmt(w io.Writer, fields []any) {
	for i := 0; i < len(fields); i += 2 {
		if i > 0 {
			io.WriteString(w, " ")
		}
		fmt.Fprint(w, fields[i])
		io.WriteString(w, "=")
		if i+1 >= len(fields) {
			continue
		}
		if s, ok := fields[i+1].(string); ok && needsQuoting(s) {
			fmt.Fprintf(w, "%q", s)
		} else {
			fmt.Fprint(w, fields[i+1])
		}
	}
}

func needsQuoting(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '=', '"', '\n', '\t', '\r':
			return true
		}
	}
	return false
}
