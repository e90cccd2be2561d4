package portfolio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"CapitalSentinel/internal/model"
)

// Store persists the portfolio snapshot.
type Store interface {
	// Load returns the stored state. found is false when nothing has been saved yet.
	Load() (state model.PortfolioState, found bool, err error)
	Save(state model.PortfolioState) error
	Close() error
}

// JSONStore keeps the snapshot in a single JSON file.
type JSONStore struct {
	mu       sync.Mutex
	filePath string
}

func NewJSONStore(filePath string) *JSONStore {
	return &JSONStore{filePath: filePath}
}

// Load reads the snapshot. A missing file is not an error.
func (s *JSONStore) Load() (model.PortfolioState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return model.PortfolioState{}, false, nil
		}
		return model.PortfolioState{}, false, fmt.Errorf("read portfolio state: %w", err)
	}
	var state model.PortfolioState
	if err := json.Unmarshal(data, &state); err != nil {
		return model.PortfolioState{}, false, fmt.Errorf("decode portfolio state %s: %w", s.filePath, err)
	}
	return state, true, nil
}

// Save writes the snapshot via a temp file rename.
func (s *JSONStore) Save(state model.PortfolioState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = time.Now()
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.filePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write portfolio state: %w", err)
	}
	return os.Rename(tmp, s.filePath)
}

func (s *JSONStore) Close() error { return nil }

// MemoryStore is a process-local store used when persistence is disabled.
type MemoryStore struct {
	mu    sync.Mutex
	state *model.PortfolioState
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load() (model.PortfolioState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return model.PortfolioState{}, false, nil
	}
	return s.state.Clone(), true, nil
}

func (s *MemoryStore) Save(state model.PortfolioState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := state.Clone()
	s.state = &c
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// Open returns the store for kind: "json", "sqlite" or "memory".
func Open(kind, stateFile, sqlitePath string) (Store, error) {
	switch kind {
	case "", "json":
		return NewJSONStore(stateFile), nil
	case "sqlite":
		return NewSQLiteStore(sqlitePath)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown portfolio store %q", kind)
	}
}
