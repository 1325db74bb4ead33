// Package directory is a client for the external account directory service:
// the system that owns account identifiers, delivers one-time passcodes and
// issues session secrets. The directory is authoritative for the mapping
// between emails and account identifiers; callers must treat any identifier
// they pass in as a hint only.
package directory

import "time"

// Session is a directory-issued session credential.
type Session struct {
	ID        string `json:"id"`
	AccountID string `json:"userId"`
	Secret    string `json:"secret"`
}

// Identity is the directory's view of the account behind a session.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Config holds the directory endpoint settings.
type Config struct {
	Endpoint  string        `env:"DIRECTORY_ENDPOINT,required"`
	ProjectID string        `env:"DIRECTORY_PROJECT_ID,required"`
	APIKey    string        `env:"DIRECTORY_API_KEY,required"`
	Timeout   time.Duration `env:"DIRECTORY_TIMEOUT" envDefault:"15s"`
}
