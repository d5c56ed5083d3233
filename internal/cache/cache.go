package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/peterbourgon/diskv"
	"github.com/ygelfand/vidctl/internal/config"
)

var (
	ErrDisabled = errors.New("caching is disabled")
	ErrExpired  = errors.New("cache entry expired")
)

type CacheEntry struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt int64           `json:"expires_at"` // Unix timestamp, 0 for infinite
}

type Manager struct {
	dv       *diskv.Diskv
	disabled bool
}

var (
	globalManager *Manager
	globalErr     error
	globalOnce    sync.Once
)

// Default returns the process-wide cache rooted at the configured cache dir
func Default() (*Manager, error) {
	globalOnce.Do(func() {
		cfg := config.Get()
		globalManager, globalErr = New(cfg.CacheDir, cfg.NoCache)
	})
	return globalManager, globalErr
}

// New opens a flat diskv store at path. A disabled manager accepts writes
// and discards them.
func New(path string, disabled bool) (*Manager, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, err
	}

	flatTransform := func(s string) []string {
		return []string{}
	}

	dv := diskv.New(diskv.Options{
		BasePath:     path,
		Transform:    flatTransform,
		CacheSizeMax: 1024 * 1024, // 1MB
	})

	return &Manager{dv: dv, disabled: disabled}, nil
}

// HashKey converts a potentially unsafe string into a safe MD5 hash for disk storage
func (m *Manager) HashKey(key string) string {
	h := md5.New()
	h.Write([]byte(key))
	return hex.EncodeToString(h.Sum(nil))
}

// Set stores data in the cache under the given key with a TTL.
func (m *Manager) Set(key string, val any, ttl time.Duration) error {
	if m.disabled {
		return nil
	}
	safeKey := m.HashKey(key)
	slog.Log(context.Background(), config.LevelTrace, "Cache: SET", "key", key, "safeKey", safeKey, "ttl", ttl)
	var data []byte
	var err error

	if b, ok := val.([]byte); ok {
		data, err = json.Marshal(string(b))
	} else {
		data, err = json.Marshal(val)
	}
	if err != nil {
		return err
	}

	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).Unix()
	}

	entryData, err := json.Marshal(CacheEntry{Value: data, ExpiresAt: expiresAt})
	if err != nil {
		return err
	}

	return m.dv.Write(safeKey, entryData)
}

// Get retrieves cached data into val
func (m *Manager) Get(key string, val any) error {
	if m.disabled {
		return ErrDisabled
	}
	safeKey := m.HashKey(key)
	slog.Log(context.Background(), config.LevelTrace, "Cache: GET", "key", key, "safeKey", safeKey)
	entryData, err := m.dv.Read(safeKey)
	if err != nil {
		return err
	}

	var entry CacheEntry
	if err := json.Unmarshal(entryData, &entry); err != nil {
		return fmt.Errorf("corrupt cache entry %q: %w", key, err)
	}

	if entry.ExpiresAt > 0 && time.Now().Unix() > entry.ExpiresAt {
		slog.Log(context.Background(), config.LevelTrace, "Cache: EXPIRED", "key", key, "safeKey", safeKey)
		_ = m.dv.Erase(safeKey)
		return ErrExpired
	}

	if b, ok := val.(*[]byte); ok {
		var s string
		if err := json.Unmarshal(entry.Value, &s); err != nil {
			return err
		}
		*b = []byte(s)
		return nil
	}

	return json.Unmarshal(entry.Value, val)
}

// Has reports whether key is stored, expired or not
func (m *Manager) Has(key string) bool {
	return !m.disabled && m.dv.Has(m.HashKey(key))
}

// WithCache is a helper that tries to get data from cache first, otherwise calls the fetcher
func WithCache[T any](m *Manager, key string, ttl time.Duration, val *T, fetcher func() (*T, error)) error {
	if err := m.Get(key, val); err == nil {
		return nil
	}
	fetched, err := fetcher()
	if err != nil {
		return err
	}

	if fetched != nil {
		*val = *fetched
		return m.Set(key, fetched, ttl)
	}

	return nil
}

// Delete removes a key from the cache
func (m *Manager) Delete(key string) error {
	if m.disabled {
		return nil
	}
	safeKey := m.HashKey(key)
	if !m.dv.Has(safeKey) {
		return nil
	}
	return m.dv.Erase(safeKey)
}
