// Package session caches the bearer token between CLI runs so the user does
// not have to log in before every invocation.
package session

import (
	"errors"
	"io/fs"
	"os"
	"strings"
)

// Store persists the session token in a single file, readable only by the
// owner.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns the cached token, or an empty string when no session exists.
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *Store) Save(token string) error {
	return os.WriteFile(s.path, []byte(token), 0o600)
}

// Clear removes the cached token. A missing file is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
