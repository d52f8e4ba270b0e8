// Package lowonganstore persists the latest listing snapshot to a
// single JSON file. There is no history, every save replaces the
// previous capture.
package lowonganstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/absolutepraya/siasisten-bot/lib/lowongan"
	"github.com/absolutepraya/siasisten-bot/lib/timezone"
)

// TimeLayout round-trips the timestamp format the data file has
// always used, microsecond precision and no zone designator.
const TimeLayout = "2006-01-02 15:04:05.000000"

type persistedState struct {
	Time string              `json:"time"`
	Data []lowongan.Lowongan `json:"data"`
}

type Store struct {
	path string
	// advisory lock against a second bot process writing the same file
	flock *flock.Flock

	mu       sync.Mutex
	snapshot lowongan.Snapshot
}

func NewStore(path string) *Store {
	return &Store{
		path:  path,
		flock: flock.New(path + ".lock"),
	}
}

// Load reads the backing file into memory and returns the result. A
// missing, unreadable or malformed file yields an empty snapshot,
// bad prior data is never a reason to refuse startup.
func (s *Store) Load() lowongan.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = lowongan.Snapshot{}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("read data file", "path", s.path, "err", err)
		}
		return s.snapshot
	}

	var state persistedState
	if err := json.Unmarshal(raw, &state); err != nil {
		slog.Warn("parse data file, treating as empty", "path", s.path, "err", err)
		return s.snapshot
	}
	captured, err := time.ParseInLocation(TimeLayout, state.Time, timezone.Location)
	if err != nil {
		slog.Warn("parse data file timestamp, treating as empty", "path", s.path, "err", err)
		return s.snapshot
	}

	s.snapshot = lowongan.Snapshot{Time: captured, Entries: state.Data}
	slog.Info("loaded snapshot", "path", s.path, "entries", len(state.Data))
	return s.snapshot
}

// Current returns the in-memory snapshot without touching the file.
func (s *Store) Current() lowongan.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}

// Save replaces the in-memory snapshot and rewrites the backing file.
func (s *Store) Save(snap lowongan.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := persistedState{
		Time: snap.Time.In(timezone.Location).Format(TimeLayout),
		Data: snap.Entries,
	}
	raw, err := json.MarshalIndent(state, "", "    ")
	if err != nil {
		return err
	}

	if err := s.flock.Lock(); err != nil {
		return fmt.Errorf("lock data file: %w", err)
	}
	defer s.flock.Unlock()

	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	s.snapshot = snap
	return nil
}

// Clear drops the in-memory snapshot and deletes the backing file.
// Clearing an already-empty store is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = lowongan.Snapshot{}

	if err := s.flock.Lock(); err != nil {
		return fmt.Errorf("lock data file: %w", err)
	}
	defer s.flock.Unlock()

	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove data file: %w", err)
	}
	return nil
}
