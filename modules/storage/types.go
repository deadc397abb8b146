package storage

import (
	"time"
)

// ListFilesRequest represents a list files request.
type ListFilesRequest struct{}

// ListFilesResponse represents a list files response.
type ListFilesResponse struct {
	Files []FileMetaResponse `json:"files"`
	Total int                `json:"total"`
}

// FileMetaResponse represents file metadata in list responses.
type FileMetaResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	FileSize  int64     `json:"file_size"`
}

// GetFileRequest represents a get file request.
type GetFileRequest struct {
	ID string `json:"id"`
}

// GetFileResponse carries the base64 contents of a file.
type GetFileResponse struct {
	ID       string `json:"id"`
	Contents string `json:"contents"`
}

// PutFileRequest represents a file upload; Contents is base64.
type PutFileRequest struct {
	Name     string `json:"name"`
	Contents string `json:"contents"`
}

// PutFileResponse returns the id assigned to the new file.
type PutFileResponse struct {
	ID string `json:"id"`
}
