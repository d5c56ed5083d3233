// Package history keeps the list of recently played sources. Playback
// positions are never recorded.
package history

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/ygelfand/vidctl/internal/cache"
	"github.com/ygelfand/vidctl/internal/player"
)

const (
	MaxEntries = 50
	storeKey   = "history/recent"
)

type Entry struct {
	URL      string    `json:"url" yaml:"url"`
	Title    string    `json:"title" yaml:"title"`
	Poster   string    `json:"poster,omitempty" yaml:"poster,omitempty"`
	PlayedAt time.Time `json:"played_at" yaml:"played_at"`
}

// Source converts the entry back into something a controller can mount
func (e Entry) Source() player.Source {
	return player.Source{URL: e.URL, Title: e.Title, Poster: e.Poster}
}

type Store struct {
	mu    sync.Mutex
	cache *cache.Manager
}

func New(m *cache.Manager) *Store {
	return &Store{cache: m}
}

// List returns entries newest first
func (s *Store) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) load() ([]Entry, error) {
	var entries []Entry
	err := s.cache.Get(storeKey, &entries)
	switch {
	case err == nil:
		return entries, nil
	case errors.Is(err, cache.ErrDisabled), errors.Is(err, fs.ErrNotExist):
		return nil, nil
	default:
		return nil, err
	}
}

// Record moves src to the front of the list, dropping the oldest entries
// beyond MaxEntries
func (s *Store) Record(src player.Source, at time.Time) error {
	src = src.Normalized()

	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.load()
	if err != nil {
		slog.Debug("History: discarding unreadable history", "error", err)
		entries = nil
	}

	next := make([]Entry, 0, len(entries)+1)
	next = append(next, Entry{URL: src.URL, Title: src.Title, Poster: src.Poster, PlayedAt: at})
	for _, e := range entries {
		if e.URL == src.URL {
			continue
		}
		next = append(next, e)
	}
	if len(next) > MaxEntries {
		next = next[:MaxEntries]
	}
	return s.cache.Set(storeKey, next, 0)
}

func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Delete(storeKey)
}

type entrySource []Entry

func (s entrySource) String(i int) string { return s[i].Title + " " + s[i].URL }
func (s entrySource) Len() int            { return len(s) }

// Filter returns the entries fuzzily matching query, best match first. An
// empty query returns entries unchanged.
func Filter(entries []Entry, query string) []Entry {
	query = strings.TrimSpace(query)
	if query == "" {
		return entries
	}
	matches := fuzzy.FindFrom(query, entrySource(entries))
	out := make([]Entry, 0, len(matches))
	for _, m := range matches {
		out = append(out, entries[m.Index])
	}
	return out
}
