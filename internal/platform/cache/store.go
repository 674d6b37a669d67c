// Package cache persists the last good payload per key and answers freshness
// questions about it. Write failures never reach callers.
package cache

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/riskibarqy/matchday/internal/platform/logging"
)

const (
	OpLoad = "load"
	OpSave = "save"
)

// Entry is the last successful payload stored under Key.
type Entry struct {
	Key      string
	StoredAt time.Time
	Payload  []byte
}

// Age is measured against now; a StoredAt in the future counts as zero age.
func (e Entry) Age(now time.Time) time.Duration {
	age := now.Sub(e.StoredAt)
	if age < 0 {
		return 0
	}
	return age
}

type Backend interface {
	Load(ctx context.Context, key string) (Entry, error)
	Save(ctx context.Context, entry Entry) error
}

// PersistenceObserver is notified for every swallowed backend failure.
type PersistenceObserver interface {
	ObservePersistenceError(op string)
}

type StoreOptions struct {
	Logger   *logging.Logger
	Now      func() time.Time
	Observer PersistenceObserver
}

type Store struct {
	backend  Backend
	logger   *logging.Logger
	now      func() time.Time
	observer PersistenceObserver
}

func NewStore(backend Backend, opts StoreOptions) *Store {
	if backend == nil {
		backend = NewMemoryBackend()
	}
	if opts.Logger == nil {
		opts.Logger = logging.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Store{
		backend:  backend,
		logger:   opts.Logger,
		now:      opts.Now,
		observer: opts.Observer,
	}
}

// Get returns the entry only when now-StoredAt <= maxAge. Older entries stay
// in the backend for GetStale.
func (s *Store) Get(ctx context.Context, key string, maxAge time.Duration) (Entry, bool) {
	entry, ok := s.load(ctx, key)
	if !ok {
		return Entry{}, false
	}
	if entry.Age(s.now()) > maxAge {
		return Entry{}, false
	}
	return entry, true
}

// Lookup reads the backend once and reports whether the entry, if any, is
// still within maxAge. It is Get and GetStale in a single read.
func (s *Store) Lookup(ctx context.Context, key string, maxAge time.Duration) (entry Entry, fresh bool, ok bool) {
	entry, ok = s.load(ctx, key)
	if !ok {
		return Entry{}, false, false
	}
	return entry, entry.Age(s.now()) <= maxAge, true
}

// GetStale returns the latest entry regardless of age.
func (s *Store) GetStale(ctx context.Context, key string) (Entry, bool) {
	return s.load(ctx, key)
}

// Put overwrites the entry for key, stamped with the store clock.
func (s *Store) Put(ctx context.Context, key string, payload []byte) {
	if key == "" {
		return
	}

	entry := Entry{
		Key:      key,
		StoredAt: s.now(),
		Payload:  slices.Clone(payload),
	}
	if err := s.backend.Save(ctx, entry); err != nil {
		s.report(ctx, &PersistenceError{Op: OpSave, Key: key, Err: err})
	}
}

func (s *Store) load(ctx context.Context, key string) (Entry, bool) {
	if key == "" {
		return Entry{}, false
	}

	entry, err := s.backend.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrEntryNotFound) {
			s.report(ctx, &PersistenceError{Op: OpLoad, Key: key, Err: err})
		}
		return Entry{}, false
	}
	return entry, true
}

func (s *Store) report(ctx context.Context, err *PersistenceError) {
	s.logger.WarnContext(ctx, "cache persistence failed",
		"op", err.Op,
		"key", err.Key,
		"error", err,
	)
	if s.observer != nil {
		s.observer.ObservePersistenceError(err.Op)
	}
}
