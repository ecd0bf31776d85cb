package errs

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

// kinds is ordered by precedence, an error marked with several kinds is classified by the first match.
var kinds = []ErrorKind{
	NotFound,
	Unauthorized,
	InvalidState,
	InvalidAmount,
	TransferFailure,
	InvalidArgument,
	Unsupported,
	Timeout,
	OverflowUint64,
	OverflowUint128,
}

// KindOf returns the error kind of err.
func KindOf(err error) (ErrorKind, bool) {
	if err == nil {
		return "", false
	}
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return kind, true
		}
	}
	return "", false
}

// HTTPStatus returns the http status code that represents the error kind.
func (e ErrorKind) HTTPStatus() int {
	switch e {
	case NotFound:
		return http.StatusNotFound
	case Unauthorized:
		return http.StatusForbidden
	case InvalidState:
		return http.StatusConflict
	case InvalidAmount, TransferFailure, OverflowUint64, OverflowUint128:
		return http.StatusUnprocessableEntity
	case InvalidArgument:
		return http.StatusBadRequest
	case Unsupported:
		return http.StatusNotImplemented
	case Timeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
