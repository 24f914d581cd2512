// Package cache keeps exchange rates per ordered currency pair and decides
// whether a stored rate is still fresh.
package cache

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/amirasaad/quickcurrency/pkg/domain"
)

// Storage is the persistence primitive the Store is layered over.
// Save replaces the whole entry for its key.
type Storage interface {
	Load(ctx context.Context, key string) (domain.CacheEntry, bool, error)
	Save(ctx context.Context, entry domain.CacheEntry) error
	Clear(ctx context.Context) error
	Keys(ctx context.Context) ([]string, error)
}

// Stats describes what the store currently holds, stale entries included.
type Stats struct {
	Entries int      `json:"entries"`
	Pairs   []string `json:"pairs"`
}

// Store applies TTL semantics on top of a Storage.
type Store struct {
	storage Storage
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for storage failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// New creates a Store backed by storage.
func New(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		now:     time.Now,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the rate for from:to when it is younger than ttlMinutes.
// An entry exactly ttlMinutes old is expired. Storage errors count as misses.
func (s *Store) Get(ctx context.Context, from, to string, ttlMinutes int) (float64, bool) {
	key := domain.PairKey(from, to)
	entry, ok, err := s.storage.Load(ctx, key)
	if err != nil {
		s.logger.Warn("Cache read failed, treating as miss", "key", key, "error", err)
		return 0, false
	}
	if !ok {
		return 0, false
	}
	age := s.now().Sub(entry.Timestamp)
	if age >= time.Duration(ttlMinutes)*time.Minute {
		s.logger.Debug("Cache entry expired", "key", key, "age", age)
		return 0, false
	}
	return entry.Rate, true
}

// Put stores rate for from:to stamped with the current time, replacing any
// previous entry.
func (s *Store) Put(ctx context.Context, from, to string, rate float64) error {
	return s.storage.Save(ctx, domain.CacheEntry{
		Key:       domain.PairKey(from, to),
		Rate:      rate,
		Timestamp: s.now(),
	})
}

// ClearAll drops every entry.
func (s *Store) ClearAll(ctx context.Context) error {
	return s.storage.Clear(ctx)
}

// Stats lists the stored pairs in key order.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	keys, err := s.storage.Keys(ctx)
	if err != nil {
		return Stats{}, err
	}
	sort.Strings(keys)
	if keys == nil {
		keys = []string{}
	}
	return Stats{Entries: len(keys), Pairs: keys}, nil
}
