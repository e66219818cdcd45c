package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ErrNotFound is returned when a profile name matches nothing in the store.
var ErrNotFound = errors.New("profile not found")

// savedData is the persisted file shape: a single object holding the
// ordered profile list.
type savedData struct {
	Profiles []Profile `json:"profiles"`
}

// Store owns the persisted profile collection. All access is serialized;
// readers clone out snapshots and never hold the lock across a blocking OS
// call. Launches borrow immutable copies, so concurrent edits cannot affect
// an in-flight launch.
type Store struct {
	path string

	mu       sync.Mutex
	profiles []Profile
}

// DefaultPath places the profile file under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "displaywarp", "profiles.json"), nil
}

// NewStore creates a store persisting to path. A missing file is not an
// error; the store starts empty.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the file, replacing the in-memory collection.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read profiles: %w", err)
	}

	var decoded savedData
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("parse profiles: %w", err)
	}

	s.mu.Lock()
	s.profiles = decoded.Profiles
	s.mu.Unlock()
	return nil
}

// Snapshot returns an independent copy of the ordered profile list.
func (s *Store) Snapshot() []Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p.Clone())
	}
	return out
}

// Get returns a copy of the named profile.
func (s *Store) Get(name string) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.profiles {
		if p.Name == name {
			return p.Clone(), nil
		}
	}
	return Profile{}, fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Add appends a profile and persists.
func (s *Store) Add(p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = append(s.profiles, p.Clone())
	return s.save()
}

// Update replaces the named profile in place and persists.
func (s *Store) Update(name string, p Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.profiles {
		if s.profiles[i].Name == name {
			s.profiles[i] = p.Clone()
			return s.save()
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Remove deletes the named profile and persists.
func (s *Store) Remove(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.profiles {
		if s.profiles[i].Name == name {
			s.profiles = append(s.profiles[:i], s.profiles[i+1:]...)
			return s.save()
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}

// save writes the collection; the caller holds the lock.
func (s *Store) save() error {
	data, err := json.MarshalIndent(savedData{Profiles: s.profiles}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write profiles: %w", err)
	}
	return nil
}

// Watch reloads the store whenever the file changes on disk, so edits made
// by another instance (or by hand) reach long-running daemons. onChange, if
// non-nil, runs after each successful reload. Blocks until ctx is done.
func (s *Store) Watch(ctx context.Context, logger *slog.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors and atomic writers replace the file,
	// which drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.path), err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != s.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := s.Reload(); err != nil {
				logger.Warn("profile reload failed", "error", err)
				continue
			}
			logger.Info("profiles reloaded", "path", s.path)
			if onChange != nil {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("profile watcher error", "error", err)
		}
	}
}
