// Package prefs provides named key-value preference stores, the local
// persistence slot for the cached person list.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/filippoints/filippoints-cli/internal/logger"
)

const (
	fileExtension = ".json"
	lockExtension = ".lock"

	lockRetryDelay = 50 * time.Millisecond
)

var (
	// ErrInvalidName is returned when a store name would escape the base directory
	ErrInvalidName = errors.New("invalid preferences name")

	// ErrCorruptFile is returned by reads when the preferences file is not a JSON object
	ErrCorruptFile = errors.New("failed to parse preferences file")
)

// Store is a string key-value store
type Store interface {
	// GetString returns the value for key, or ("", false) when absent
	GetString(ctx context.Context, key string) (string, bool, error)

	// PutString sets key to value
	PutString(ctx context.Context, key, value string) error

	// Remove deletes key; removing an absent key is not an error
	Remove(ctx context.Context, key string) error
}

// fileStore persists one named preferences file as a JSON object.
type fileStore struct {
	// mu serializes callers sharing this instance; flock only excludes other descriptors
	mu   sync.Mutex
	path string
	lock *flock.Flock
}

// NewFileStore returns a store backed by <dir>/<name>.json. Writers serialize
// through an advisory lock file so separate processes do not interleave.
func NewFileStore(dir, name string) (Store, error) {
	if name == "" || filepath.Base(name) != name || name == "." || name == ".." {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if dir == "" {
		return nil, fmt.Errorf("preferences directory is required")
	}
	path := filepath.Join(dir, name+fileExtension)
	return &fileStore{
		path: path,
		lock: flock.New(path + lockExtension),
	}, nil
}

func (f *fileStore) GetString(ctx context.Context, key string) (string, bool, error) {
	values, err := f.withLock(ctx, false, func(map[string]string) (bool, error) {
		return false, nil
	})
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

func (f *fileStore) PutString(ctx context.Context, key, value string) error {
	_, err := f.withLock(ctx, true, func(values map[string]string) (bool, error) {
		values[key] = value
		return true, nil
	})
	return err
}

func (f *fileStore) Remove(ctx context.Context, key string) error {
	_, err := f.withLock(ctx, true, func(values map[string]string) (bool, error) {
		if _, ok := values[key]; !ok {
			return false, nil
		}
		delete(values, key)
		return true, nil
	})
	return err
}

// withLock reads the file under the advisory lock, applies fn and writes the
// result back when fn reports a change.
func (f *fileStore) withLock(
	ctx context.Context,
	exclusive bool,
	fn func(values map[string]string) (bool, error),
) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = f.lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = f.lock.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock preferences file: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("failed to lock preferences file %s", f.path)
	}
	defer func() {
		_ = f.lock.Unlock()
	}()

	values, err := f.read()
	if err != nil {
		// a write replaces whatever could not be parsed
		if !exclusive || !errors.Is(err, ErrCorruptFile) {
			return nil, err
		}
		logger.Warnw("Discarding unparsable preferences file", "path", f.path, "error", err)
		values = make(map[string]string)
	}

	changed, err := fn(values)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := f.write(values); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func (f *fileStore) read() (map[string]string, error) {
	values := make(map[string]string)

	// #nosec G304 -- path is built from the configured cache dir and a validated name
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return values, nil
		}
		return nil, fmt.Errorf("failed to read preferences file: %w", err)
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptFile, err)
	}
	return values, nil
}

func (f *fileStore) write(values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	// Write to temporary file first for atomic operation
	tempPath := f.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write temporary preferences file: %w", err)
	}

	if err := os.Rename(tempPath, f.path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename preferences file: %w", err)
	}
	return nil
}

// memoryStore keeps values in process memory.
type memoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an in-memory store. Nothing is persisted.
func NewMemoryStore() Store {
	return &memoryStore{values: make(map[string]string)}
}

func (m *memoryStore) GetString(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.values[key]
	return value, ok, nil
}

func (m *memoryStore) PutString(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
