// Package storage stores binary file objects in S3-compatible object
// storage. Object lifecycle metadata lives elsewhere; this package only
// moves bytes and produces public URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

// Object represents a stored object.
type Object struct {
	Key      string
	Size     int64
	MIMEType string
}

// Storage is the blob backend interface.
type Storage interface {
	// Save streams the uploaded file to the backend under key.
	Save(ctx context.Context, fh *multipart.FileHeader, key string) (*Object, error)
	// Delete removes a single object.
	Delete(ctx context.Context, key string) error
	// Exists checks if an object exists.
	Exists(ctx context.Context, key string) bool
	// URL returns the public URL for an object.
	URL(key string) string
}

// GetMIMEType detects the MIME type by reading the first 512 bytes of the
// file. The file position is reset after detection if the file supports
// seeking.
func GetMIMEType(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrNilFileHeader
	}

	file, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToOpenFile, err)
	}
	defer func() { _ = file.Close() }()

	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}

	if seeker, ok := file.(io.Seeker); ok {
		_, _ = seeker.Seek(0, io.SeekStart)
	}

	return http.DetectContentType(buffer[:n]), nil
}

// ValidateSize checks if the file size is within the allowed limit.
func ValidateSize(fh *multipart.FileHeader, maxBytes int64) error {
	if fh == nil {
		return ErrNilFileHeader
	}
	if fh.Size > maxBytes {
		return fmt.Errorf("file size %d bytes exceeds %d bytes limit: %w", fh.Size, maxBytes, ErrFileTooLarge)
	}
	return nil
}

// SanitizeFilename removes any path components and dangerous characters from
// a filename to prevent path traversal. Returns "unnamed" for empty or
// special directory references.
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "\x00", "")

	if filename == "." || filename == ".." || filename == "" || filename == "/" {
		filename = "unnamed"
	}

	return filename
}
