// Package secrets keeps API credentials out of the config file.
package secrets

import "errors"

// Well-known keys.
const (
	KeyZenHub = "zenhub" // ZenHub API key
	KeyGitHub = "github" // GitHub personal access token
)

// Manager stores and retrieves credentials.
type Manager interface {
	// Get returns the value for key, or ErrNotFound.
	Get(key string) (string, error)
	// Set stores value under key, overwriting any previous value.
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

var (
	// ErrNotFound is returned when a key has no stored value.
	ErrNotFound = errors.New("secret not found")
	// ErrUnreadable is returned when the store exists but cannot be decrypted
	// with the current key. Writes refuse to clobber such a store.
	ErrUnreadable = errors.New("secrets store cannot be decrypted with the current key")
)
