// Package file provides a session store persisted to a single local file,
// for running the storefront without Redis.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/utafrali/storefront/pkg/errors"
)

// Store persists the session id in one file.
type Store struct {
	path string
}

// NewStore creates a file-backed session store at the given path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Get reads the session id from the file.
func (s *Store) Get(ctx context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", apperrors.NotFound("cart session", s.path)
		}
		return "", fmt.Errorf("read session file: %w", err)
	}

	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", apperrors.NotFound("cart session", s.path)
	}
	return id, nil
}

// Set writes the session id to the file, creating parent directories as
// needed.
func (s *Store) Set(ctx context.Context, id string) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create session dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, []byte(id+"\n"), 0o600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}
