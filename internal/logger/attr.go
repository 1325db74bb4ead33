package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// AccountID records the directory account identifier under the key "account_id".
// If id is empty, it returns an empty Attr.
func AccountID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("account_id", id)
}

// Email records an email address under the key "email".
func Email(email string) slog.Attr {
	if email == "" {
		return slog.Attr{}
	}
	return slog.String("email", email)
}

// FileID records the file document identifier under the key "file_id".
func FileID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("file_id", id)
}

// Operation records the external call being performed under the key "operation".
func Operation(name string) slog.Attr {
	return slog.String("operation", name)
}

// Component records the component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
