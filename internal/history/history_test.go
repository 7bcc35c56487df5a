package history_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/sant0-9/coldpitch/internal/history"
	"github.com/sant0-9/coldpitch/internal/model"
	"github.com/sant0-9/coldpitch/internal/storage"
)

func newEntry(i int) *model.HistoryEntry {
	req := &model.Request{
		Bio:      "bio",
		Offer:    "offer",
		Target:   fmt.Sprintf("target-%d", i),
		Company:  "Acme",
		Industry: "SaaS",
	}
	email := &model.Email{Subject: fmt.Sprintf("subject-%d", i), Body: "body"}
	return model.NewHistoryEntry(req, email, time.UnixMilli(int64(1700000000000+i)))
}

// failingStore fails every write
type failingStore struct {
	*storage.MemoryStore
}

func (f *failingStore) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("quota exceeded")
}

// unreadableStore fails reads while broken is set
type unreadableStore struct {
	*storage.MemoryStore
	broken bool
}

func (u *unreadableStore) Get(ctx context.Context, key string) ([]byte, error) {
	if u.broken {
		return nil, errors.New("permission denied")
	}
	return u.MemoryStore.Get(ctx, key)
}

func TestAppendBoundsAndOrders(t *testing.T) {
	ctx := context.Background()
	store := history.New(storage.NewMemoryStore())

	var appended []*model.HistoryEntry
	for i := 0; i < 15; i++ {
		e := newEntry(i)
		appended = append(appended, e)
		gt.NoError(t, store.Append(ctx, e))
	}

	entries := store.List(ctx)
	gt.A(t, entries).Length(history.MaxEntries)

	// the last 10 appended, newest first
	for i, e := range entries {
		gt.Equal(t, e.ID, appended[14-i].ID)
	}
}

func TestListEmptyAndCorrupt(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	store := history.New(kv)

	gt.A(t, store.List(ctx)).Length(0)

	gt.NoError(t, kv.Set(ctx, history.Key, []byte(`{not json`)))
	gt.A(t, store.List(ctx)).Length(0)

	gt.NoError(t, kv.Set(ctx, history.Key, []byte(`null`)))
	gt.A(t, store.List(ctx)).Length(0)

	// appending over corrupt data starts a fresh list
	gt.NoError(t, kv.Set(ctx, history.Key, []byte(`[{"id":true}]`)))
	gt.NoError(t, store.Append(ctx, newEntry(1)))
	gt.A(t, store.List(ctx)).Length(1)
}

func TestReadsLegacyLayout(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	legacy := `[{"id":1700000000999,"inputs":{"bio":"b","offer":"o","target":"t","useCase":"Agencies","company":"Acme"},"subject":"Hi","body":"Body","timestamp":1700000000999}]`
	gt.NoError(t, kv.Set(ctx, history.Key, []byte(legacy)))

	store := history.New(kv)
	entries := store.List(ctx)
	gt.A(t, entries).Length(1)
	gt.Equal(t, entries[0].Inputs.UseCase, "Agencies")

	e, err := store.Get(ctx, "1700000000999")
	gt.NoError(t, err)
	gt.Equal(t, e.Subject, "Hi")
}

func TestRemove(t *testing.T) {
	ctx := context.Background()
	store := history.New(storage.NewMemoryStore())

	var ids []model.EntryID
	for i := 0; i < 4; i++ {
		e := newEntry(i)
		ids = append(ids, e.ID)
		gt.NoError(t, store.Append(ctx, e))
	}

	// unknown id is a no-op
	before := store.List(ctx)
	gt.NoError(t, store.Remove(ctx, "does-not-exist"))
	gt.Equal(t, store.List(ctx), before)

	gt.NoError(t, store.Remove(ctx, ids[2]))
	after := store.List(ctx)
	gt.A(t, after).Length(3)
	for _, e := range after {
		gt.NotEqual(t, e.ID, ids[2])
	}

	_, err := store.Get(ctx, ids[2])
	gt.True(t, errors.Is(err, history.ErrEntryNotFound))
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	store := history.New(kv)

	gt.NoError(t, store.Append(ctx, newEntry(1)))
	gt.NoError(t, store.Clear(ctx))
	gt.A(t, store.List(ctx)).Length(0)

	_, err := kv.Get(ctx, history.Key)
	gt.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestAppendReportsStorageFailure(t *testing.T) {
	ctx := context.Background()
	store := history.New(&failingStore{storage.NewMemoryStore()})

	err := store.Append(ctx, newEntry(1))
	gt.Error(t, err)
	gt.S(t, err.Error()).Contains("failed to save email to history")
	gt.A(t, store.List(ctx)).Length(0)
}

func TestReadFailureKeepsStoredEntries(t *testing.T) {
	ctx := context.Background()
	kv := &unreadableStore{MemoryStore: storage.NewMemoryStore()}
	store := history.New(kv)

	for i := 0; i < 5; i++ {
		gt.NoError(t, store.Append(ctx, newEntry(i)))
	}
	before := store.List(ctx)

	kv.broken = true
	err := store.Append(ctx, newEntry(5))
	gt.Error(t, err)
	gt.S(t, err.Error()).Contains("failed to save email to history")

	err = store.Remove(ctx, before[0].ID)
	gt.Error(t, err)
	gt.S(t, err.Error()).Contains("failed to delete email from history")

	// List stays lenient
	gt.A(t, store.List(ctx)).Length(0)

	kv.broken = false
	gt.Equal(t, store.List(ctx), before)
}

func TestConcurrentAppendsKeepEveryEntry(t *testing.T) {
	ctx := context.Background()
	store := history.New(storage.NewMemoryStore())

	var wg sync.WaitGroup
	for i := 0; i < history.MaxEntries; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			gt.NoError(t, store.Append(ctx, newEntry(i)))
		}(i)
	}
	wg.Wait()

	gt.A(t, store.List(ctx)).Length(history.MaxEntries)
}
