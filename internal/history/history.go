package history

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/sant0-9/coldpitch/internal/logging"
	"github.com/sant0-9/coldpitch/internal/model"
	"github.com/sant0-9/coldpitch/internal/storage"
)

const (
	// Key is the storage key holding the JSON array of entries
	Key = "cold-email-history"

	// MaxEntries caps the stored list
	MaxEntries = 10
)

var ErrEntryNotFound = goerr.New("history entry not found")

// Store is a bounded, most-recent-first list of generations.
// Read-modify-write operations are serialized so concurrent appends in one
// process cannot lose each other's entries.
type Store struct {
	kv storage.Store
	mu sync.Mutex
}

func New(kv storage.Store) *Store {
	return &Store{kv: kv}
}

// Append prepends entry and truncates the list to MaxEntries
func (s *Store) Append(ctx context.Context, entry *model.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to save email to history", goerr.V("id", entry.ID))
	}
	updated := make([]*model.HistoryEntry, 0, len(entries)+1)
	updated = append(updated, entry)
	updated = append(updated, entries...)
	if len(updated) > MaxEntries {
		updated = updated[:MaxEntries]
	}

	if err := s.save(ctx, updated); err != nil {
		return goerr.Wrap(err, "failed to save email to history", goerr.V("id", entry.ID))
	}
	return nil
}

// List returns the stored entries. Missing or corrupt data reads as empty.
func (s *Store) List(ctx context.Context) []*model.HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// Get returns the entry with id
func (s *Store) Get(ctx context.Context, id model.EntryID) (*model.HistoryEntry, error) {
	for _, e := range s.List(ctx) {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, goerr.Wrap(ErrEntryNotFound, "history get", goerr.V("id", id))
}

// Remove drops the entry with id. Unknown ids leave the list unchanged.
func (s *Store) Remove(ctx context.Context, id model.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to delete email from history", goerr.V("id", id))
	}
	kept := make([]*model.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}

	if err := s.save(ctx, kept); err != nil {
		return goerr.Wrap(err, "failed to delete email from history", goerr.V("id", id))
	}
	return nil
}

// Clear removes the whole list
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.kv.Remove(ctx, Key); err != nil {
		return goerr.Wrap(err, "failed to clear email history")
	}
	return nil
}

// Watch reports changes made to the list by other processes. It returns a
// nil channel when the backend cannot watch.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	w, ok := s.kv.(storage.Watcher)
	if !ok {
		return nil, nil
	}
	ch, err := w.Watch(ctx, Key)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to watch email history")
	}
	return ch, nil
}

// load is the lenient read used by List
func (s *Store) load(ctx context.Context) []*model.HistoryEntry {
	entries, err := s.read(ctx)
	if err != nil {
		logging.From(ctx).Error("failed to get email history", "error", err)
		return []*model.HistoryEntry{}
	}
	return entries
}

// read returns the stored list. Missing or corrupt data reads as empty; any
// other storage error is returned so callers never write over entries they
// could not read.
func (s *Store) read(ctx context.Context) ([]*model.HistoryEntry, error) {
	data, err := s.kv.Get(ctx, Key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return []*model.HistoryEntry{}, nil
		}
		return nil, goerr.Wrap(err, "failed to read email history")
	}

	var entries []*model.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		logging.From(ctx).Warn("email history is corrupt, treating as empty", "error", err)
		return []*model.HistoryEntry{}, nil
	}

	// a JSON null or null elements are not entries
	kept := make([]*model.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		if e != nil {
			kept = append(kept, e)
		}
	}
	return kept, nil
}

func (s *Store) save(ctx context.Context, entries []*model.HistoryEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal history")
	}
	return s.kv.Set(ctx, Key, data)
}
