package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// FileStoredEvent is emitted after a new file record has been persisted.
type FileStoredEvent struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FileSize  int64     `json:"file_size"`
	CreatedAt time.Time `json:"created_at"`
}

// FileStoredV1 is the typed event definition for stored files.
// Subject: events.storage.v1.file-stored
var FileStoredV1 = helper.EventDefinition[FileStoredEvent](
	"storage", "FileStored", "v1",
)
