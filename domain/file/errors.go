package file

import (
	"errors"
	"fmt"
)

// Sentinel errors for file storage operations.
var (
	// ErrEncoding is returned when a payload is not valid base64.
	ErrEncoding = errors.New("invalid base64 payload")

	// ErrNotFound is returned when no record matches the requested id.
	ErrNotFound = errors.New("file not found")

	// ErrStorageUnavailable is returned when the backend cannot be opened or a statement fails.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrSchema is returned when the storage table cannot be created.
	ErrSchema = errors.New("schema initialization failed")

	// ErrPayloadTooLarge is returned when contents exceed what the module transport can carry.
	ErrPayloadTooLarge = errors.New("payload too large")
)

// NotFoundError reports the id that had no matching record.
// It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: id = %s", ErrNotFound, e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
