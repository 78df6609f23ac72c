// util/apperr/apperr.go
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error so controllers can map it to a status code
// without matching on message text.
type Kind string

const (
	KindNotFound  Kind = "NOT_FOUND"
	KindDuplicate Kind = "DUPLICATE"
	KindInvalid   Kind = "INVALID_DATA"
)

type Error struct {
	kind Kind
	msg  string
}

func (e *Error) Error() string { return e.msg }
func (e *Error) Code() Kind    { return e.kind }

func NotFound(format string, args ...any) error {
	return &Error{kind: KindNotFound, msg: fmt.Sprintf(format, args...)}
}

func Duplicate(format string, args ...any) error {
	return &Error{kind: KindDuplicate, msg: fmt.Sprintf(format, args...)}
}

func Invalid(format string, args ...any) error {
	return &Error{kind: KindInvalid, msg: fmt.Sprintf(format, args...)}
}

// Code extracts the kind from an error chain. It returns "" for plain errors,
// which controllers treat as an internal failure.
func Code(err error) Kind {
	var ce interface{ Code() Kind }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}
