package serialize

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"fortasr/internal/project"
)

// diskCacheSchemaVersion is bumped whenever DiskPayload's shape changes.
const diskCacheSchemaVersion uint16 = 1

// DiskCache stores one compiled module's serialized ASR payload per
// project.Digest, keyed on disk by the module's final ModuleHash so a
// change to any dependency invalidates it automatically. Thread-safe for
// concurrent access, mirroring the teacher's DiskCache.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cache envelope msgpack-encodes: module identity and
// hashes for fast invalidation, plus the §4.5 tagged-stream ASR blob
// itself (always Binary-encoded on disk; Text is for interactive dumping
// only).
type DiskPayload struct {
	Schema uint16

	Name string

	Uses []string

	ContentHash project.Digest
	ModuleHash  project.Digest

	Broken bool

	// ASR is the WriteUnit output for this module's Module symbol table,
	// ready to feed to ReadUnit on a cache hit.
	ASR []byte
}

// OpenDiskCache initializes and returns a disk cache at the standard
// XDG-respecting location for app.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "mods", hexKey+".mp")
}

// Put serializes and atomically writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *DiskPayload) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	defer func() { _ = os.Remove(tmpName) }()

	payload.Schema = diskCacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, p)
}

// Get reads and deserializes a payload from the disk cache. ok is false
// (with a nil error) on a plain cache miss.
func (c *DiskCache) Get(key project.Digest) (payload *DiskPayload, ok bool, err error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer func() { _ = f.Close() }()

	var out DiskPayload
	if err := msgpack.NewDecoder(f).Decode(&out); err != nil {
		return nil, false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return nil, false, nil
	}
	return &out, true, nil
}

// DropAll invalidates the entire cache, used after a format change.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("serialize: drop cache: %w", err)
	}
	return os.RemoveAll(old)
}
