package errs

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/withstack"
)

// PublicError is an error whose message is safe to return to API clients. The
// underlying error is kept for logs and error kind classification.
type PublicError struct {
	err     error
	message string
	code    string
}

func (p PublicError) Error() string {
	return p.err.Error()
}

func (p PublicError) Message() string {
	return p.message
}

// Code identifies the kind of the error for API clients, e.g. `not_found`. It's
// empty when the error has no kind.
func (p PublicError) Code() string {
	return p.code
}

func (p PublicError) Unwrap() error {
	return p.err
}

// NewPublicError creates a public error of kind InvalidArgument.
func NewPublicError(message string) error {
	err := errors.Mark(errors.New(message), InvalidArgument)
	return withstack.WithStackDepth(&PublicError{err: err, message: message, code: InvalidArgument.Code()}, 1)
}

// WithPublicMessage exposes err to API clients as `prefix: err`.
func WithPublicMessage(err error, prefix string) error {
	if err == nil {
		return nil
	}
	message := err.Error()
	if prefix != "" {
		message = prefix + ": " + message
	}
	var code string
	if kind, ok := KindOf(err); ok {
		code = kind.Code()
	}
	return withstack.WithStackDepth(&PublicError{err: err, message: message, code: code}, 1)
}

// Code returns the snake case form of the kind.
func (e ErrorKind) Code() string {
	return strings.ReplaceAll(strings.ToLower(string(e)), " ", "_")
}
