// Package history records processed uploads and reads them back from the
// History Service.
package history

import (
	"time"

	"github.com/alkime/recap/internal/domain"
	"github.com/alkime/recap/pkg/collections"
	"github.com/alkime/recap/pkg/ring"
	"github.com/google/uuid"
)

// Path is the History Service endpoint.
const Path = "/api/history"

// DefaultLimit is used when NewStore is given a non-positive limit.
const DefaultLimit = 100

// Entry is one processed upload.
type Entry struct {
	ID            string    `json:"id,omitempty"`
	Filename      string    `json:"filename"`
	Timestamp     time.Time `json:"timestamp"`
	Summary       string    `json:"summary"`
	Transcription string    `json:"transcription"`
}

// Store is an in-memory history that keeps the most recent entries.
type Store struct {
	entries *ring.Buffer[Entry]
	now     func() time.Time
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store holding at most limit entries. Older entries
// are dropped as new ones arrive.
func NewStore(limit int, opts ...StoreOption) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}

	s := &Store{
		entries: ring.New[Entry](limit),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Add records a completed result and returns the stored entry.
func (s *Store) Add(filename string, result domain.Result) Entry {
	entry := Entry{
		ID:            uuid.NewString(),
		Filename:      filename,
		Timestamp:     s.now().UTC(),
		Summary:       result.Summary,
		Transcription: result.Transcription,
	}

	s.entries.Write(entry)

	return entry
}

// List returns entries newest first.
func (s *Store) List() []Entry {
	return collections.NewestFirst(s.entries.All(), 0)
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	return s.entries.Count()
}
