package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/example/file-storage-api/domain/file"
	"github.com/go-monolith/mono"
	monoerrors "github.com/go-monolith/mono/pkg/errors"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/nats-io/nats.go"
)

// FilesPort defines the file operations available to other modules.
type FilesPort interface {
	ListFiles(ctx context.Context) ([]file.Info, error)
	GetFile(ctx context.Context, id string) (string, error)
	PutFile(ctx context.Context, name, contents string) (string, error)
}

// filesAdapter wraps ServiceContainer for type-safe cross-module communication.
type filesAdapter struct {
	container mono.ServiceContainer
}

// NewFilesAdapter creates a new adapter for storage services.
func NewFilesAdapter(container mono.ServiceContainer) FilesPort {
	if container == nil {
		panic("files adapter requires non-nil ServiceContainer")
	}
	return &filesAdapter{container: container}
}

// ListFiles lists file metadata via the list-files service.
func (a *filesAdapter) ListFiles(ctx context.Context) ([]file.Info, error) {
	req := ListFilesRequest{}
	var resp ListFilesResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list-files",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, mapServiceError(err)
	}

	infos := make([]file.Info, 0, len(resp.Files))
	for _, f := range resp.Files {
		infos = append(infos, file.Info{
			ID:        f.ID,
			Name:      f.Name,
			CreatedAt: f.CreatedAt,
			FileSize:  f.FileSize,
		})
	}
	return infos, nil
}

// GetFile returns the base64 contents of a file via the get-file service.
func (a *filesAdapter) GetFile(ctx context.Context, id string) (string, error) {
	req := GetFileRequest{ID: id}
	var resp GetFileResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-file",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return "", mapServiceError(err)
	}
	return resp.Contents, nil
}

// PutFile stores a file via the put-file service and returns its id.
func (a *filesAdapter) PutFile(ctx context.Context, name, contents string) (string, error) {
	req := PutFileRequest{Name: name, Contents: contents}
	var resp PutFileResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"put-file",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return "", mapServiceError(err)
	}
	return resp.ID, nil
}

// remoteError keeps the message of an error received over NATS while
// restoring the sentinel it was built from.
type remoteError struct {
	msg  string
	kind error
}

func (e *remoteError) Error() string { return e.msg }
func (e *remoteError) Unwrap() error { return e.kind }

var notFoundPrefix = file.ErrNotFound.Error() + ": id = "

// mapServiceError converts service errors back to sentinel errors
// by checking the error message content. This is necessary because
// errors lose their type information when sent over NATS.
func mapServiceError(err error) error {
	if err == nil {
		return nil
	}

	// The request itself did not fit in a transport message.
	if errors.Is(err, nats.ErrMaxPayload) {
		return &remoteError{
			msg:  fmt.Sprintf("%s: request exceeds the transport message limit", file.ErrPayloadTooLarge),
			kind: file.ErrPayloadTooLarge,
		}
	}

	// Handler errors arrive as RemoteError; its Message is the handler's
	// err.Error() without the framework's service prefix and type suffix.
	msg := err.Error()
	var remote *monoerrors.RemoteError
	if errors.As(err, &remote) {
		msg = remote.Message
	}

	switch {
	case strings.Contains(msg, file.ErrNotFound.Error()):
		if i := strings.Index(msg, notFoundPrefix); i >= 0 {
			return &file.NotFoundError{ID: msg[i+len(notFoundPrefix):]}
		}
		return &remoteError{msg: msg, kind: file.ErrNotFound}
	case strings.Contains(msg, file.ErrEncoding.Error()):
		return &remoteError{msg: msg, kind: file.ErrEncoding}
	case strings.Contains(msg, file.ErrPayloadTooLarge.Error()):
		return &remoteError{msg: msg, kind: file.ErrPayloadTooLarge}
	case strings.Contains(msg, file.ErrSchema.Error()):
		return &remoteError{msg: msg, kind: file.ErrSchema}
	case strings.Contains(msg, file.ErrStorageUnavailable.Error()):
		return &remoteError{msg: msg, kind: file.ErrStorageUnavailable}
	}

	return err
}
