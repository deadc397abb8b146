package audit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/example/file-storage-api/events"
	"github.com/go-monolith/mono/pkg/types"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)          {}
func (m *mockLogger) Info(msg string, args ...any)           {}
func (m *mockLogger) Warn(msg string, args ...any)           {}
func (m *mockLogger) Error(msg string, args ...any)          {}
func (m *mockLogger) With(args ...any) types.Logger          { return m }
func (m *mockLogger) WithError(err error) types.Logger       { return m }
func (m *mockLogger) WithModule(module string) types.Logger { return m }

func TestRecorder_Record(t *testing.T) {
	r := NewRecorder(10)
	now := time.Now()

	r.Record(events.FileStoredEvent{ID: "a", Name: "a.txt", FileSize: 5, CreatedAt: now})
	r.Record(events.FileStoredEvent{ID: "b", Name: "b.txt", FileSize: 7, CreatedAt: now.Add(time.Second)})

	summary := r.Summary()
	if summary.Uploads != 2 {
		t.Errorf("Uploads = %d, want 2", summary.Uploads)
	}
	if summary.TotalBytes != 12 {
		t.Errorf("TotalBytes = %d, want 12", summary.TotalBytes)
	}
	if !summary.LastUpload.Equal(now.Add(time.Second)) {
		t.Errorf("LastUpload = %v, want %v", summary.LastUpload, now.Add(time.Second))
	}
}

func TestRecorder_RecentIsBounded(t *testing.T) {
	r := NewRecorder(3)

	for i := 0; i < 5; i++ {
		r.Record(events.FileStoredEvent{ID: fmt.Sprintf("id-%d", i), FileSize: 1})
	}

	recent := r.Recent(0)
	if len(recent) != 3 {
		t.Fatalf("len(Recent) = %d, want 3", len(recent))
	}
	if recent[0].ID != "id-2" || recent[2].ID != "id-4" {
		t.Errorf("Recent = %v, want id-2..id-4", recent)
	}

	if got := r.Recent(2); len(got) != 2 || got[1].ID != "id-4" {
		t.Errorf("Recent(2) = %v", got)
	}

	// Counters are not bounded by the retained entries.
	if got := r.Summary().Uploads; got != 5 {
		t.Errorf("Uploads = %d, want 5", got)
	}
}

func TestRecorder_Concurrent(t *testing.T) {
	r := NewRecorder(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Record(events.FileStoredEvent{ID: fmt.Sprintf("id-%d", i), FileSize: 2})
		}(i)
	}
	wg.Wait()

	summary := r.Summary()
	if summary.Uploads != 50 || summary.TotalBytes != 100 {
		t.Errorf("Summary = %+v, want 50 uploads and 100 bytes", summary)
	}
}

func TestModule_HandleFileStored(t *testing.T) {
	m := NewModule(&mockLogger{})
	ctx := context.Background()

	tests := []struct {
		name        string
		event       events.FileStoredEvent
		wantUploads int64
	}{
		{"valid event", events.FileStoredEvent{ID: "x", Name: "x.bin", FileSize: 3}, 1},
		{"missing id is dropped", events.FileStoredEvent{Name: "ghost"}, 1},
		{"second valid event", events.FileStoredEvent{ID: "y", FileSize: 4}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := m.handleFileStored(ctx, tt.event, nil); err != nil {
				t.Fatalf("handleFileStored() error = %v", err)
			}
			if got := m.Recorder().Summary().Uploads; got != tt.wantUploads {
				t.Errorf("Uploads = %d, want %d", got, tt.wantUploads)
			}
		})
	}

	status := m.Health(ctx)
	if !status.Healthy {
		t.Error("expected healthy status")
	}
	if status.Details["total_bytes"] != int64(7) {
		t.Errorf("total_bytes = %v, want 7", status.Details["total_bytes"])
	}
	recent, ok := status.Details["recent"].([]Entry)
	if !ok || len(recent) != 2 {
		t.Fatalf("recent = %v, want 2 entries", status.Details["recent"])
	}
	if recent[0].ID != "x" || recent[1].ID != "y" {
		t.Errorf("recent ids = %s, %s, want x, y", recent[0].ID, recent[1].ID)
	}
}

func TestModule_HealthRecentIsLimited(t *testing.T) {
	m := NewModule(&mockLogger{})
	for i := 0; i < healthRecentLimit+5; i++ {
		_ = m.handleFileStored(context.Background(), events.FileStoredEvent{ID: fmt.Sprintf("id-%d", i)}, nil)
	}

	recent := m.Health(context.Background()).Details["recent"].([]Entry)
	if len(recent) != healthRecentLimit {
		t.Fatalf("len(recent) = %d, want %d", len(recent), healthRecentLimit)
	}
	if last := recent[len(recent)-1].ID; last != fmt.Sprintf("id-%d", healthRecentLimit+4) {
		t.Errorf("last recent id = %q", last)
	}
}

func TestModule_Name(t *testing.T) {
	m := NewModule(&mockLogger{})
	if m.Name() != "audit" {
		t.Errorf("Name() = %q, want %q", m.Name(), "audit")
	}
}
