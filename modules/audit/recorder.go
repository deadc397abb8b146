package audit

import (
	"sync"
	"time"

	"github.com/example/file-storage-api/events"
)

// DefaultMaxEntries is the default number of recent uploads retained.
const DefaultMaxEntries = 1000

// Entry is one recorded upload.
type Entry struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	FileSize   int64     `json:"file_size"`
	CreatedAt  time.Time `json:"created_at"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Summary aggregates the recorded uploads.
type Summary struct {
	Uploads    int64     `json:"uploads"`
	TotalBytes int64     `json:"total_bytes"`
	LastUpload time.Time `json:"last_upload,omitempty"`
}

// Recorder keeps upload counters and a bounded list of recent uploads.
type Recorder struct {
	mu         sync.RWMutex
	entries    []Entry
	uploads    int64
	totalBytes int64
	lastUpload time.Time
	maxEntries int
}

// NewRecorder creates a recorder retaining at most maxEntries recent uploads.
func NewRecorder(maxEntries int) *Recorder {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Recorder{
		entries:    make([]Entry, 0),
		maxEntries: maxEntries,
	}
}

// Record adds a stored-file event.
func (r *Recorder) Record(event events.FileStoredEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.uploads++
	r.totalBytes += event.FileSize
	if event.CreatedAt.After(r.lastUpload) {
		r.lastUpload = event.CreatedAt
	}

	r.entries = append(r.entries, Entry{
		ID:         event.ID,
		Name:       event.Name,
		FileSize:   event.FileSize,
		CreatedAt:  event.CreatedAt,
		RecordedAt: time.Now(),
	})
	if len(r.entries) > r.maxEntries {
		excess := len(r.entries) - r.maxEntries
		r.entries = r.entries[excess:]
	}
}

// Summary returns the current counters.
func (r *Recorder) Summary() Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return Summary{
		Uploads:    r.uploads,
		TotalBytes: r.totalBytes,
		LastUpload: r.lastUpload,
	}
}

// Recent returns up to limit of the most recent uploads, oldest first.
func (r *Recorder) Recent(limit int) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	start := 0
	if limit > 0 && len(r.entries) > limit {
		start = len(r.entries) - limit
	}

	result := make([]Entry, len(r.entries)-start)
	copy(result, r.entries[start:])
	return result
}
