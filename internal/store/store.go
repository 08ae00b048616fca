// Package store persists accounts to a single JSON file. The on-disk shape
// is a versioned snapshot decoded by a dedicated codec, so the entity types
// never learn about serialization.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tdorado/ligabot/internal/account"
)

const snapshotVersion = 1

// ErrUnsupportedVersion indicates a snapshot written by an incompatible
// schema version.
var ErrUnsupportedVersion = errors.New("unsupported snapshot version")

// FileStore implements the account store contract over one JSON file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Load reads every persisted account. A missing file is an empty league, not
// an error.
func (s *FileStore) Load() ([]account.Account, error) {
	body, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading account store: %w", err)
	}

	var snap snapshotV1
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("decoding account store: %w", err)
	}
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, snap.Version)
	}
	return decodeSnapshot(snap)
}

// Save writes every account. The write goes through a temp file and a rename
// so a crash mid-save never truncates the previous snapshot.
func (s *FileStore) Save(accounts []account.Account) error {
	snap, err := encodeSnapshot(accounts)
	if err != nil {
		return err
	}
	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding account store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return fmt.Errorf("writing account store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing account store: %w", err)
	}
	return nil
}
