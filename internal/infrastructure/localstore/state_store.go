package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/palletwise/backend/internal/domain"
)

// StateStore persists the watcher state as a single JSON file with whole-file
// atomic rewrite. The watcher loop is the only writer.
type StateStore struct {
	path string
}

// NewStateStore creates the parent directory if needed.
func NewStateStore(path string) (*StateStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir: %w", err)
	}
	return &StateStore{path: path}, nil
}

// Load reads the state file. A missing file yields fresh empty state.
func (s *StateStore) Load() (*domain.WatcherState, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return &domain.WatcherState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading watcher state: %w", err)
	}
	var state domain.WatcherState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decoding watcher state: %w", err)
	}
	return &state, nil
}

// Save rewrites the state file atomically.
func (s *StateStore) Save(state *domain.WatcherState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding watcher state: %w", err)
	}
	return writeAtomic(s.path, data)
}
