package errs

// ErrorKind identifies a kind of internal error.
// fully support for errors.Is and errors.As.
type ErrorKind string

const (
	// NotFound is returned when a requested item is not found.
	NotFound = ErrorKind("Not Found")

	// Unauthorized is returned when the caller doesn't hold the role required by an operation.
	Unauthorized = ErrorKind("Unauthorized")

	// InvalidState is returned when an operation is not allowed in the current lifecycle state.
	InvalidState = ErrorKind("Invalid State")

	// InvalidAmount is returned when a value doesn't satisfy the amount rules of an operation.
	InvalidAmount = ErrorKind("Invalid Amount")

	// TransferFailure is returned when a collaborator refuses or fails a transfer.
	TransferFailure = ErrorKind("Transfer Failure")

	// InvalidArgument is returned when an argument is malformed or out of range.
	InvalidArgument = ErrorKind("Invalid Argument")

	// Unsupported is returned when a feature or a collaborator capability is not supported.
	Unsupported = ErrorKind("Unsupported")

	// Timeout is returned when an operation didn't finish in time.
	Timeout = ErrorKind("Timeout")

	OverflowUint64  = ErrorKind("overflow uint64")
	OverflowUint128 = ErrorKind("overflow uint128")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}
