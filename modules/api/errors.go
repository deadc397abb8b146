package api

import (
	"errors"

	"github.com/example/file-storage-api/domain/file"
)

// Error codes reported in the extensions of a GraphQL error.
const (
	CodeBadInput           = "BAD_INPUT"
	CodeNotFound           = "NOT_FOUND"
	CodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	CodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	CodeInternal           = "INTERNAL"
)

// codedError attaches a machine-readable code to a resolver error.
// graphql-go copies Extensions into the "extensions" member of the response error.
type codedError struct {
	code string
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

// Extensions implements gqlerrors.ExtendedError.
func (e *codedError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

// errorCode classifies err by kind.
func errorCode(err error) string {
	switch {
	case errors.Is(err, file.ErrEncoding):
		return CodeBadInput
	case errors.Is(err, file.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, file.ErrPayloadTooLarge):
		return CodePayloadTooLarge
	case errors.Is(err, file.ErrStorageUnavailable), errors.Is(err, file.ErrSchema):
		return CodeStorageUnavailable
	default:
		return CodeInternal
	}
}

func withCode(err error) error {
	if err == nil {
		return nil
	}
	return &codedError{code: errorCode(err), err: err}
}
