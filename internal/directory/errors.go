package directory

import (
	"errors"
	"fmt"
)

// Error is a typed directory API error. Type carries the directory's own
// error classification (e.g. "user_invalid_token") so callers can
// distinguish rejected credentials from infrastructure failures.
type Error struct {
	Status  int    `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("directory error (status %d)", e.Status)
}

// InvalidToken reports whether the error indicates a rejected or expired
// credential rather than a transport or server failure.
func (e *Error) InvalidToken() bool {
	switch e.Type {
	case "user_invalid_token", "user_token_expired", "user_invalid_credentials":
		return true
	}
	return e.Status == 401
}

// IsInvalidToken reports whether err is a directory error for a rejected or
// expired credential.
func IsInvalidToken(err error) bool {
	var dirErr *Error
	if errors.As(err, &dirErr) {
		return dirErr.InvalidToken()
	}
	return false
}
