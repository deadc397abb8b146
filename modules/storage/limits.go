package storage

import (
	"fmt"

	"github.com/example/file-storage-api/domain/file"
)

const (
	// MaxTransportPayload is the largest message mono's embedded NATS can be configured to carry.
	MaxTransportPayload = 8 * 1024 * 1024

	// MinTransportPayload is the smallest message size mono accepts.
	MinTransportPayload = 1024

	// envelopeBytes is reserved in every message for the JSON framing around
	// the base64 contents of a put-file request or get-file reply.
	envelopeBytes = 512
)

// MaxContentsLen returns the longest base64 contents string that fits in a
// single transport message of maxPayload bytes.
func MaxContentsLen(maxPayload int) int {
	if maxPayload <= envelopeBytes {
		return 0
	}
	// Whole base64 quanta only.
	return (maxPayload - envelopeBytes) / 4 * 4
}

// MaxFileBytes returns the largest decoded file that fits in a transport
// message of maxPayload bytes.
func MaxFileBytes(maxPayload int) int {
	return MaxContentsLen(maxPayload) / 4 * 3
}

// checkContentsLen rejects base64 contents that could not travel back in a get-file reply.
func checkContentsLen(contents string, limit int) error {
	if limit > 0 && len(contents) > limit {
		return fmt.Errorf("%w: %d base64 bytes, limit is %d", file.ErrPayloadTooLarge, len(contents), limit)
	}
	return nil
}
