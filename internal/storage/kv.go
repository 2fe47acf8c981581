package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is a flat string-keyed store of opaque values. Every Set is
// a whole-value overwrite.
type KeyValueStore interface {
	Get(key string) ([]byte, error)
	Set(key string, val []byte) error
	Remove(key string) error
}

// FileKV keeps one file per key under a directory.
type FileKV struct {
	dir string
}

func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir %q: %w", dir, err)
	}
	return &FileKV{dir: dir}, nil
}

func (kv *FileKV) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(kv.filePath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", key, err)
	}
	return data, nil
}

func (kv *FileKV) Set(key string, val []byte) error {
	return atomicWrite(kv.filePath(key), val, 0644)
}

func (kv *FileKV) Remove(key string) error {
	err := os.Remove(kv.filePath(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %q: %w", key, err)
	}
	return nil
}

func (kv *FileKV) filePath(key string) string {
	return filepath.Join(kv.dir, key)
}

// atomicWrite writes data to a temp file then renames it to the target path.
// This prevents partial or empty files if the process is interrupted.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil {
			slog.Warn("failed to remove temp file after rename failure", "path", tmp, "error", removeErr)
		}
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// MemoryKV is an in-process KeyValueStore.
type MemoryKV struct {
	mu   sync.RWMutex
	vals map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{vals: map[string][]byte{}}
}

func (kv *MemoryKV) Get(key string) ([]byte, error) {
	kv.mu.RLock()
	defer kv.mu.RUnlock()

	v, ok := kv.vals[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (kv *MemoryKV) Set(key string, val []byte) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	kv.vals[key] = append([]byte(nil), val...)
	return nil
}

func (kv *MemoryKV) Remove(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	delete(kv.vals, key)
	return nil
}
