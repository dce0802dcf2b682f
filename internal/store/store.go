package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/mitchellh/hashstructure/v2"
)

const (
	// DefaultFileName is the default name for the state file.
	DefaultFileName = "state.json"
)

// Store is a string key-value store persisted as a JSON file.
type Store struct {
	path string

	mu       sync.Mutex
	values   map[string]string
	dirty    map[string]bool // keys this process changed since the last save
	lastHash uint64
}

// New opens the store at path, loading any existing values.
// If path is empty, uses the default location (~/.config/jukebar/state.json).
func New(path string) (*Store, error) {
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get config directory: %w", err)
		}
		path = filepath.Join(configDir, "jukebar", DefaultFileName)
	}

	s := &Store{path: path, values: map[string]string{}, dirty: map[string]bool{}}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key and persists the store. Writes that would
// not change the file contents are skipped.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.dirty[key] = true
	return s.saveLocked()
}

// Delete removes key from the store.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	s.dirty[key] = true
	return s.saveLocked()
}

// All returns a copy of every stored value.
func (s *Store) All() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Path returns the path to the state file.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the state file. It reports whether the values changed.
func (s *Store) Reload() error {
	_, err := s.reload()
	return err
}

func (s *Store) reload() (bool, error) {
	values, ok, err := s.readFile()
	if err != nil || !ok {
		return false, err
	}

	hash, err := hashstructure.Hash(values, hashstructure.FormatV2, nil)
	if err != nil {
		return false, fmt.Errorf("failed to hash state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if hash == s.lastHash {
		return false, nil
	}
	s.values = values
	s.lastHash = hash
	return true, nil
}

// readFile returns the values on disk. ok is false when there is nothing
// stored yet.
func (s *Store) readFile() (values map[string]string, ok bool, err error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil // Nothing stored yet
		}
		return nil, false, fmt.Errorf("failed to read state file: %w", err)
	}

	if len(data) == 0 {
		return nil, false, nil // truncated mid-write
	}

	values = map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, false, fmt.Errorf("failed to parse state file: %w", err)
	}
	return values, true, nil
}

// saveLocked merges the keys this process changed into the file as it is
// on disk now, so keys written by other processes since our last read
// survive.
func (s *Store) saveLocked() error {
	disk, ok, err := s.readFile()
	if err != nil {
		return err
	}
	if !ok {
		disk = map[string]string{}
	}
	diskHash, err := hashstructure.Hash(disk, hashstructure.FormatV2, nil)
	if err != nil {
		return fmt.Errorf("failed to hash state: %w", err)
	}

	merged := disk
	for key := range s.dirty {
		if v, ok := s.values[key]; ok {
			merged[key] = v
		} else {
			delete(merged, key)
		}
	}
	hash, err := hashstructure.Hash(merged, hashstructure.FormatV2, nil)
	if err != nil {
		return fmt.Errorf("failed to hash state: %w", err)
	}

	// Another process wrote since we last looked. Keep lastHash stale so
	// the next reload reports the change to Watch.
	external := ok && diskHash != s.lastHash
	s.values = merged
	clear(s.dirty)

	if hash == diskHash && ok {
		if !external {
			s.lastHash = hash
		}
		return nil
	}

	if err := writeAtomic(s.path, merged); err != nil {
		return err
	}
	if !external {
		s.lastHash = hash
	}
	return nil
}

// writeAtomic replaces the file at path through a temp file and rename, so
// readers never observe a partial write.
func writeAtomic(path string, values map[string]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	// CreateTemp opens with owner-only permissions.
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}

// Watch reloads the store whenever another process rewrites the state
// file, calling onChange after each reload that changed a value. It
// blocks until ctx is cancelled.
func (s *Store) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	// Watch the directory: editors and atomic writers replace the file.
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(s.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			changed, err := s.reload()
			if err != nil {
				continue // partial write; the next event will carry the rest
			}
			if changed && onChange != nil {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch error: %w", err)
		}
	}
}
