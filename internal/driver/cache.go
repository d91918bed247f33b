package driver

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	bolt "go.etcd.io/bbolt"

	"lowerjs/internal/modules"
	"lowerjs/internal/project"
)

// cacheSchema is bumped whenever Entry or the lowering output changes shape;
// entries of older schemas live in other buckets and are never read.
const cacheSchema uint16 = 1

var bucketName = []byte(fmt.Sprintf("lowered-v%d", cacheSchema))

// Entry is the cached outcome of lowering one file.
type Entry struct {
	Schema  uint16 `msgpack:"schema"`
	Path    string `msgpack:"path"`
	Code    string `msgpack:"code"`
	Created int64  `msgpack:"created"` // unix seconds
}

// Cache stores lowered output in a bbolt database keyed by CacheKey. A nil
// *Cache is valid and never hits.
type Cache struct {
	db *bolt.DB
}

// OpenCache opens or creates the cache database at path.
func OpenCache(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o644, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Cache{db: db}, nil
}

// DefaultCachePath is $XDG_CACHE_HOME/lowerjs/cache.db, falling back to
// ~/.cache.
func DefaultCachePath() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "lowerjs", "cache.db"), nil
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.db.Close()
}

// CacheKey digests everything the output depends on: the output format,
// the module config, the file name (the resolver sees it) and the source.
func CacheKey(format Format, cfg modules.Config, name string, src []byte) (project.Digest, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return project.Digest{}, err
	}
	return project.Combine(
		project.HashBytes([]byte(format)),
		project.HashBytes(cfgJSON),
		project.HashBytes([]byte(name)),
		project.HashBytes(src),
	), nil
}

// Get looks key up. A decoded entry with a foreign schema counts as a miss.
func (c *Cache) Get(key project.Digest) (Entry, bool, error) {
	var out Entry
	if c == nil {
		return out, false, nil
	}
	var found bool
	err := c.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		if b == nil {
			return nil
		}
		v := b.Get(key[:])
		if v == nil {
			return nil
		}
		if err := msgpack.Unmarshal(v, &out); err != nil {
			return fmt.Errorf("decode cache entry: %w", err)
		}
		found = out.Schema == cacheSchema
		return nil
	})
	if err != nil {
		return Entry{}, false, err
	}
	return out, found, nil
}

func (c *Cache) Put(key project.Digest, e Entry) error {
	if c == nil {
		return nil
	}
	e.Schema = cacheSchema
	if e.Created == 0 {
		e.Created = time.Now().Unix()
	}
	data, err := msgpack.Marshal(&e)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put(key[:], data)
	})
}

// Len counts the stored entries.
func (c *Cache) Len() (int, error) {
	if c == nil {
		return 0, nil
	}
	n := 0
	err := c.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(bucketName).Stats().KeyN
		return nil
	})
	return n, err
}

// Clear drops every entry.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketName); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(bucketName)
		return err
	})
}
