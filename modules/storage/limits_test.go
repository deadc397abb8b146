package storage

import (
	"errors"
	"strings"
	"testing"

	"github.com/example/file-storage-api/domain/file"
)

func TestMaxContentsLen(t *testing.T) {
	tests := []struct {
		maxPayload int
		wantLen    int
		wantBytes  int
	}{
		{MaxTransportPayload, 8388096, 6291072},
		{1024 * 1024, 1048064, 786048},
		{MinTransportPayload, 512, 384},
		{1027, 512, 384},
		{envelopeBytes, 0, 0},
	}

	for _, tt := range tests {
		if got := MaxContentsLen(tt.maxPayload); got != tt.wantLen {
			t.Errorf("MaxContentsLen(%d) = %d, want %d", tt.maxPayload, got, tt.wantLen)
		}
		if got := MaxFileBytes(tt.maxPayload); got != tt.wantBytes {
			t.Errorf("MaxFileBytes(%d) = %d, want %d", tt.maxPayload, got, tt.wantBytes)
		}
	}
}

func TestCheckContentsLen(t *testing.T) {
	if err := checkContentsLen(strings.Repeat("A", 8), 8); err != nil {
		t.Errorf("contents at the limit rejected: %v", err)
	}
	if err := checkContentsLen(strings.Repeat("A", 12), 8); !errors.Is(err, file.ErrPayloadTooLarge) {
		t.Errorf("checkContentsLen() = %v, want ErrPayloadTooLarge", err)
	}
	if err := checkContentsLen(strings.Repeat("A", 12), 0); err != nil {
		t.Errorf("zero limit should not reject: %v", err)
	}
}
