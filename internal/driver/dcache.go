package driver

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"markcheck/internal/diag"
	"markcheck/internal/engine"
	"markcheck/internal/score"
	"markcheck/internal/source"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// Digest is a SHA-256 cache key.
type Digest [32]byte

// DiskCache хранит результаты проверки страниц на диске, по ключу
// "содержимое + опции". Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// DiskPayload is the cached outcome of analyzing one page.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path        string
	Diagnostics []diag.Diagnostic
	Metrics     score.Metrics
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it if needed.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог по первому байту, чтобы не держать тысячи файлов в одном месте
	return filepath.Join(c.dir, "pages", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) (err error) {
	if c == nil || payload == nil {
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
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads and deserializes a payload from the disk cache. Entries written
// with another schema are reported as misses.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("decode cache entry: %w", err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// OptionsDigest hashes the engine options that influence analysis results.
// Map keys are sorted so equal options always hash the same.
func OptionsDigest(opts engine.Options) (Digest, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(opts); err != nil {
		return Digest{}, fmt.Errorf("hash options: %w", err)
	}
	return sha256.Sum256(buf.Bytes()), nil
}

// CacheKey combines the page content hash with the options digest:
// H(content || options).
func CacheKey(content [32]byte, options Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	_, _ = h.Write(options[:])
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// payloadFor captures what a cached result needs. Spans are stored with
// their offsets only; file ids are rebound on load.
func payloadFor(path string, diags []diag.Diagnostic, m score.Metrics) *DiskPayload {
	return &DiskPayload{
		Path:        path,
		Diagnostics: diags,
		Metrics:     m,
	}
}

// restore rebinds cached diagnostics to the file they are reported against.
func (p *DiskPayload) restore(id source.FileID) []diag.Diagnostic {
	out := make([]diag.Diagnostic, len(p.Diagnostics))
	for i, d := range p.Diagnostics {
		d.Primary.File = id
		if len(d.Fixes) > 0 {
			fixes := make([]diag.Fix, len(d.Fixes))
			for j, fx := range d.Fixes {
				edits := make([]diag.FixEdit, len(fx.Edits))
				for k, e := range fx.Edits {
					e.Span.File = id
					edits[k] = e
				}
				fx.Edits = edits
				fixes[j] = fx
			}
			d.Fixes = fixes
		}
		out[i] = d
	}
	return out
}
