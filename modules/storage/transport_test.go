package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/file-storage-api/domain/file"
	"github.com/go-monolith/mono"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxPayload = 64 * 1024

// filesClient is a dependent module that reaches storage over the service container.
type filesClient struct {
	files FilesPort
}

func (c *filesClient) Name() string                  { return "files-client" }
func (c *filesClient) Start(_ context.Context) error { return nil }
func (c *filesClient) Stop(_ context.Context) error  { return nil }
func (c *filesClient) Dependencies() []string        { return []string{"storage"} }

func (c *filesClient) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "storage" {
		c.files = NewFilesAdapter(container)
	}
}

// startTransportApp runs the storage module behind mono's embedded NATS and
// returns a FilesPort that crosses it.
func startTransportApp(t *testing.T) FilesPort {
	t.Helper()

	app, err := mono.NewMonoApplication(
		mono.WithLogLevel(mono.LogLevelError), // Suppress logs in tests
		mono.WithNATSDontListen(),
		mono.WithNATSInProcessConn(),
		mono.WithNATSMaxPayload(testMaxPayload),
	)
	require.NoError(t, err)

	storageModule := NewModule(Config{
		Store: StoreConfig{
			Driver: DriverSQLite,
			Path:   filepath.Join(t.TempDir(), "storage.db"),
		},
		Cache:           CacheConfig{Backend: CacheLRU, Size: 8, TTL: time.Minute},
		MaxPayloadBytes: testMaxPayload,
	}, newMockLogger())
	client := &filesClient{}

	require.NoError(t, app.Register(storageModule))
	require.NoError(t, app.Register(client))
	require.NoError(t, app.Start(context.Background()))
	t.Cleanup(func() {
		_ = app.Stop(context.Background())
	})

	require.NotNil(t, client.files)
	return client.files
}

func TestTransport_FileOperations(t *testing.T) {
	files := startTransportApp(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t.Run("insert then get", func(t *testing.T) {
		id, err := files.PutFile(ctx, "hello.txt", "aGVsbG8=")
		require.NoError(t, err)
		require.NotEmpty(t, id)

		contents, err := files.GetFile(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "aGVsbG8=", contents)

		infos, err := files.ListFiles(ctx)
		require.NoError(t, err)
		var found bool
		for _, info := range infos {
			if info.ID == id {
				found = true
				assert.Equal(t, "hello.txt", info.Name)
				assert.Equal(t, int64(5), info.FileSize)
			}
		}
		assert.True(t, found, "stored file should be listed")
	})

	t.Run("not found returns exact id", func(t *testing.T) {
		_, err := files.GetFile(ctx, "nonexistent-id")
		require.Error(t, err)

		var nf *file.NotFoundError
		require.True(t, errors.As(err, &nf), "got %T: %v", err, err)
		assert.Equal(t, "nonexistent-id", nf.ID)
		assert.Equal(t, "file not found: id = nonexistent-id", err.Error())
	})

	t.Run("invalid base64", func(t *testing.T) {
		before, err := files.ListFiles(ctx)
		require.NoError(t, err)

		_, err = files.PutFile(ctx, "bad.bin", "not-valid-base64!!")
		assert.True(t, errors.Is(err, file.ErrEncoding), "got %v", err)

		after, err := files.ListFiles(ctx)
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})
}

func TestTransport_PayloadLimits(t *testing.T) {
	files := startTransportApp(t)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	t.Run("largest file round trips", func(t *testing.T) {
		data := make([]byte, MaxFileBytes(testMaxPayload))
		for i := range data {
			data[i] = byte(i % 251)
		}
		contents := EncodePayload(data)
		require.Len(t, contents, MaxContentsLen(testMaxPayload))

		id, err := files.PutFile(ctx, "near-limit.bin", contents)
		require.NoError(t, err)

		got, err := files.GetFile(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, contents, got)
	})

	t.Run("over the file limit", func(t *testing.T) {
		contents := strings.Repeat("QUJD", MaxContentsLen(testMaxPayload)/4+1)

		_, err := files.PutFile(ctx, "too-big.bin", contents)
		assert.True(t, errors.Is(err, file.ErrPayloadTooLarge), "got %v", err)
	})

	t.Run("over the transport limit", func(t *testing.T) {
		contents := strings.Repeat("QUJD", testMaxPayload/2)

		_, err := files.PutFile(ctx, "huge.bin", contents)
		assert.True(t, errors.Is(err, file.ErrPayloadTooLarge), "got %v", err)
		assert.False(t, errors.Is(err, file.ErrStorageUnavailable))
	})
}
