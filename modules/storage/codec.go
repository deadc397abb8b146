package storage

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/example/file-storage-api/domain/file"
)

// payloadEncoding is standard base64 with padding. Strict decoding rejects
// non-zero trailing bits so that every accepted string re-encodes to itself.
var payloadEncoding = base64.StdEncoding.Strict()

// DecodePayload converts the transport form of file content into raw bytes.
func DecodePayload(text string) ([]byte, error) {
	// The decoder silently skips CR and LF; reject them so decoding stays lossless.
	if strings.ContainsAny(text, "\r\n") {
		return nil, fmt.Errorf("%w: line breaks are not allowed", file.ErrEncoding)
	}

	data, err := payloadEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", file.ErrEncoding, err)
	}
	return data, nil
}

// EncodePayload converts raw bytes into the transport form of file content.
func EncodePayload(data []byte) string {
	return payloadEncoding.EncodeToString(data)
}
