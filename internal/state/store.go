// Package state persists the sensor_id → SensorState mapping across
// restarts. The file is the single source of truth for "was this sensor
// already alerting", which is what prevents duplicate emails after a crash.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jlorelli/airalert/internal/domain"
)

// ErrCorrupt marks a state file that exists but cannot be parsed. The
// daemon refuses to start on it: silently resetting alert state risks
// duplicate or missed notifications, which is worse than a loud failure.
var ErrCorrupt = errors.New("corrupt state file")

// FileStore reads and writes the full mapping as a single JSON document.
// Access is single-threaded by design (one polling loop), so the only
// discipline needed is the atomic write in Save.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load returns the persisted mapping. A missing file is the legitimate
// first-run case and yields an empty map, not an error.
func (s *FileStore) Load() (map[domain.SensorID]*domain.SensorState, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return map[domain.SensorID]*domain.SensorState{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file %s: %w", s.Path, err)
	}

	states := map[domain.SensorID]*domain.SensorState{}
	if err := json.Unmarshal(b, &states); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, s.Path, err)
	}
	for id, st := range states {
		if st == nil || (st.Status != domain.StatusNormal && st.Status != domain.StatusAlerting) {
			return nil, fmt.Errorf("%w: %s: entry %q has invalid status", ErrCorrupt, s.Path, id)
		}
	}
	return states, nil
}

// Save writes the full mapping atomically: marshal to a temp file in the
// same directory, fsync, then rename over the target. A crash at any point
// leaves either the old file or the new one, never a partial write.
func (s *FileStore) Save(states map[domain.SensorID]*domain.SensorState) error {
	b, err := json.MarshalIndent(states, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, ".airalert-state-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod temp state file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("rename state file: %w", err)
	}
	return nil
}
