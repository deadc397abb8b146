package file

import (
	"time"
)

// Record is a stored file: metadata plus the raw payload.
type Record struct {
	ID        string
	Name      string
	CreatedAt time.Time
	FileSize  int64
	Contents  []byte
}

// Info is the metadata of a stored file. It never carries the payload.
type Info struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	FileSize  int64     `json:"file_size"`
}

// Info returns the metadata part of the record.
func (r *Record) Info() Info {
	return Info{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		FileSize:  r.FileSize,
	}
}

// FileType classifies a file by format. Reserved: nothing populates or returns it yet.
type FileType string

const (
	FileTypePDF     FileType = "PDF"
	FileTypeDOCX    FileType = "DOCX"
	FileTypeTXT     FileType = "TXT"
	FileTypeUnknown FileType = "UNKNOWN"
)
