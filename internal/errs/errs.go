//    PaperScopeServer
//    Copyright: E Gunderson 2022-24
//    License: GNU GENERAL PUBLIC LICENSE 3
//        (see LICENSE in the top level directory of the distribution)

package errs

import (
	"context"
	"errors"
	"fmt"
)

type Kind int

const (
	Internal Kind = iota
	Validation
	InsufficientData
	NotFound
	ModelFit
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case InsufficientData:
		return "insufficient_data"
	case NotFound:
		return "not_found"
	case ModelFit:
		return "model_fit"
	case Cancelled:
		return "cancelled"
	default:
		return "internal"
	}
}

// Error - a classified error; Op names the operation that failed
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

func (e *Error) Unwrap() error {
	return e.Err
}

// Is - errors.Is(err, &Error{Kind: NotFound}) matches on kind alone
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Msg == ""
}

func E(k Kind, op string, msg string, err error) *Error {
	return &Error{Kind: k, Op: op, Msg: msg, Err: err}
}

func NewValidation(op string, format string, a ...any) error {
	return E(Validation, op, fmt.Sprintf(format, a...), nil)
}

func NewInsufficientData(op string, format string, a ...any) error {
	return E(InsufficientData, op, fmt.Sprintf(format, a...), nil)
}

func NewNotFound(op string, format string, a ...any) error {
	return E(NotFound, op, fmt.Sprintf(format, a...), nil)
}

func NewModelFit(op string, err error) error {
	return E(ModelFit, op, "", err)
}

func NewInternal(op string, err error) error {
	return E(Internal, op, "", err)
}

// KindOf - classify any error; context cancellation is reported as Cancelled
func KindOf(err error) Kind {
	if err == nil {
		return Internal
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Cancelled
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Message - the text that is safe to show to a caller
func Message(err error) string {
	const (
		GENERIC = "internal server error"
		CANCEL  = "request cancelled"
	)
	var e *Error
	switch KindOf(err) {
	case Internal, ModelFit:
		return GENERIC
	case Cancelled:
		return CANCEL
	}
	if errors.As(err, &e) {
		if e.Msg != "" {
			return e.Msg
		}
		if e.Err != nil {
			return e.Err.Error()
		}
	}
	return err.Error()
}

func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}
