package apperr

import (
	"errors"
	"fmt"

	goerrors "github.com/go-errors/errors"
)

// Kind classifies a domain error so the HTTP layer can pick a status code
// without string matching.
type Kind string

const (
	KindValidation           Kind = "VALIDATION"
	KindNotFound             Kind = "NOT_FOUND"
	KindForbidden            Kind = "FORBIDDEN"
	KindUnauthenticated      Kind = "UNAUTHENTICATED"
	KindDuplicateEmail       Kind = "DUPLICATE_EMAIL"
	KindDuplicateApplication Kind = "DUPLICATE_APPLICATION"
	KindInvalidCredentials   Kind = "INVALID_CREDENTIALS"
	KindInternal             Kind = "INTERNAL"
)

// Error is a classified domain error carrying an optional wrapped cause and
// the stack captured at construction time.
type Error struct {
	Kind    Kind
	Message string
	Err     error
	Stack   []byte
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string, err error) *Error {
	var stack []byte
	if err != nil {
		var stackErr *goerrors.Error
		if errors.As(err, &stackErr) {
			stack = stackErr.Stack()
		} else {
			stack = goerrors.Wrap(err, 2).Stack()
		}
	} else {
		stack = goerrors.New(message).Stack()
	}

	return &Error{Kind: kind, Message: message, Err: err, Stack: stack}
}

func Validation(message string) *Error {
	return New(KindValidation, message, nil)
}

func NotFound(message string) *Error {
	return New(KindNotFound, message, nil)
}

func Forbidden(message string) *Error {
	return New(KindForbidden, message, nil)
}

func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, message, nil)
}

func DuplicateEmail(message string) *Error {
	return New(KindDuplicateEmail, message, nil)
}

func DuplicateApplication(message string) *Error {
	return New(KindDuplicateApplication, message, nil)
}

func InvalidCredentials(message string) *Error {
	return New(KindInvalidCredentials, message, nil)
}

func Internal(message string, err error) *Error {
	return New(KindInternal, message, err)
}

// KindOf extracts the Kind from err, or KindInternal when err is not a
// classified domain error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
