package internal

import (
	"errors"
	"fmt"
)

// Operation names used in errors and logs.
const (
	OpGreeting = "greeting"
	OpInitiate = "initiate consent"
	OpStatus   = "consent status"
)

// ErrConsentNotStarted is returned when a status check is attempted
// before any consent has been initiated.
var ErrConsentNotStarted = errors.New("no consent started yet")

// ErrRecordNotFound is returned by the journal for unknown consent ids.
var ErrRecordNotFound = errors.New("consent record not found")

// NetworkError represents a request that could not be completed
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// MalformedResponseError represents a completed request whose body could not
// be decoded (Err set) or lacked an expected field (Field set).
type MalformedResponseError struct {
	Op    string
	Field string
	Err   error
}

func (e *MalformedResponseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("malformed response [%s]: missing field %q", e.Op, e.Field)
	}
	return fmt.Sprintf("malformed response [%s]: %v", e.Op, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// StoreError represents errors accessing the consent journal
type StoreError struct {
	Op   string // "open", "migrate", "write", "read"
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ConfigError represents an invalid configuration value
type ConfigError struct {
	Key string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error [%s]: %v", e.Key, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

// IsMissingField reports whether err is a MalformedResponseError for an
// absent field rather than an undecodable body.
func IsMissingField(err error) bool {
	var mErr *MalformedResponseError
	return errors.As(err, &mErr) && mErr.Field != ""
}
