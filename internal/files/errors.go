package files

import "errors"

var (
	ErrNotFound        = errors.New("file not found")
	ErrNotOwner        = errors.New("only the file owner can modify it")
	ErrInvalidName     = errors.New("invalid file name")
	ErrInvalidCategory = errors.New("invalid file category")
	ErrUploadFailed    = errors.New("failed to upload file")
	ErrQuotaExceeded   = errors.New("storage quota exceeded")
)
