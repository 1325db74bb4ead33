package storage

import "errors"

var (
	ErrNilFileHeader    = errors.New("nil file header")
	ErrFailedToOpenFile = errors.New("failed to open file")
	ErrFailedToReadFile = errors.New("failed to read file")
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidKey       = errors.New("invalid object key")
	ErrObjectNotFound   = errors.New("object not found")
)
