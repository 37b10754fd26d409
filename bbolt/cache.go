// Package bbolt provides a bbolt-backed cache of fetched pages.
package bbolt

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Cache defaults.
const (
	DefaultTTL             = 24 * time.Hour
	DefaultCleanupInterval = time.Hour
)

const (
	pageBucket  = "pages"
	expiryBytes = 8
)

// Cache stores page HTML keyed by URL with a fixed time to live.
// Expired entries are dropped on read and swept periodically.
type Cache struct {
	db              *bolt.DB
	ttl             time.Duration
	cleanupInterval time.Duration

	cleanupMu   sync.Mutex
	lastCleanup atomic.Int64

	now func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets how long a cached page stays fresh.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) {
		c.ttl = d
	}
}

// WithCleanupInterval sets how often expired entries are swept.
func WithCleanupInterval(d time.Duration) Option {
	return func(c *Cache) {
		c.cleanupInterval = d
	}
}

// WithClock replaces time.Now as the cache's time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// Open opens or creates the cache file at path.
func Open(path string, opts ...Option) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(pageBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}

	c := &Cache{
		db:              db,
		ttl:             DefaultTTL,
		cleanupInterval: DefaultCleanupInterval,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.lastCleanup.Store(c.now().Unix())
	return c, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Get returns the cached HTML for url. ok is false on a miss or when the
// entry has expired.
func (c *Cache) Get(url string) (html string, ok bool, err error) {
	now := c.now()
	if err := c.maybeCleanup(now); err != nil {
		return "", false, err
	}

	err = c.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(pageBucket))
		if bucket == nil {
			return fmt.Errorf("page bucket missing")
		}
		key := []byte(url)
		value := bucket.Get(key)
		if value == nil {
			return nil
		}
		expiry, body, valid := decode(value)
		if !valid || !expiry.After(now) {
			return bucket.Delete(key)
		}
		html, ok = string(body), true
		return nil
	})
	return html, ok, err
}

// Put stores html for url.
func (c *Cache) Put(url, html string) error {
	now := c.now()
	if err := c.maybeCleanup(now); err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(pageBucket))
		if bucket == nil {
			return fmt.Errorf("page bucket missing")
		}
		return bucket.Put([]byte(url), encode(now.Add(c.ttl), html))
	})
}

// Len returns the number of stored entries, including expired ones not yet
// swept.
func (c *Cache) Len() (int, error) {
	var n int
	err := c.db.View(func(tx *bolt.Tx) error {
		if bucket := tx.Bucket([]byte(pageBucket)); bucket != nil {
			n = bucket.Stats().KeyN
		}
		return nil
	})
	return n, err
}

func (c *Cache) maybeCleanup(now time.Time) error {
	last := time.Unix(c.lastCleanup.Load(), 0)
	if now.Sub(last) < c.cleanupInterval {
		return nil
	}

	c.cleanupMu.Lock()
	defer c.cleanupMu.Unlock()

	last = time.Unix(c.lastCleanup.Load(), 0)
	if now.Sub(last) < c.cleanupInterval {
		return nil
	}

	err := c.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(pageBucket))
		if bucket == nil {
			return fmt.Errorf("page bucket missing")
		}
		cursor := bucket.Cursor()
		for k, v := cursor.First(); k != nil; k, v = cursor.Next() {
			expiry, _, ok := decode(v)
			if !ok || !expiry.After(now) {
				if err := cursor.Delete(); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err == nil {
		c.lastCleanup.Store(now.Unix())
	}
	return err
}

// encode prefixes html with its big-endian unix expiry.
func encode(expiry time.Time, html string) []byte {
	buf := make([]byte, expiryBytes+len(html))
	binary.BigEndian.PutUint64(buf, uint64(expiry.Unix()))
	copy(buf[expiryBytes:], html)
	return buf
}

func decode(value []byte) (time.Time, []byte, bool) {
	if len(value) < expiryBytes {
		return time.Time{}, nil, false
	}
	unix := int64(binary.BigEndian.Uint64(value[:expiryBytes]))
	if unix <= 0 {
		return time.Time{}, nil, false
	}
	return time.Unix(unix, 0), value[expiryBytes:], true
}
