package jsonstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/bakhasuleiman/wesavefood-backend/pkg/errors"
)

type testRecord struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (r testRecord) EntityID() string { return r.ID }

// memBackend keeps documents in memory with a counter as version token.
type memBackend struct {
	mu        sync.Mutex
	docs      map[string][]byte
	versions  map[string]int
	writes    int
	conflicts int // number of upcoming writes to reject with ErrConflict
}

func newMemBackend() *memBackend {
	return &memBackend{docs: map[string][]byte{}, versions: map[string]int{}}
}

func (b *memBackend) Read(_ context.Context, name string) ([]byte, string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.docs[name]
	if !ok {
		return nil, "", ErrNotFound
	}
	return data, fmt.Sprint(b.versions[name]), nil
}

func (b *memBackend) Write(_ context.Context, name string, data []byte, version string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writes++
	if b.conflicts > 0 {
		b.conflicts--
		return "", ErrConflict
	}
	if _, exists := b.docs[name]; exists && version != fmt.Sprint(b.versions[name]) {
		return "", ErrConflict
	}
	b.docs[name] = data
	b.versions[name]++
	return fmt.Sprint(b.versions[name]), nil
}

func seed(t *testing.T, b *memBackend, name string, records []testRecord) {
	t.Helper()
	data, err := json.Marshal(records)
	require.NoError(t, err)
	b.mu.Lock()
	b.docs[name] = data
	b.versions[name] = 1
	b.mu.Unlock()
}

func TestCollectionLoadsLazilyAndServesFromCache(t *testing.T) {
	backend := newMemBackend()
	seed(t, backend, "users.json", []testRecord{{ID: "1", Name: "bob"}})
	col := NewCollection[testRecord]("users.json", backend, Options{WriteThrough: true})

	got, err := col.Get(context.Background(), "1")
	require.NoError(t, err)
	require.Equal(t, "bob", got.Name)

	// Mutating the backend after load must not be visible: cache is truth.
	seed(t, backend, "users.json", nil)
	all, err := col.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestCollectionMissingDocumentStartsEmpty(t *testing.T) {
	backend := newMemBackend()
	col := NewCollection[testRecord]("users.json", backend, Options{WriteThrough: true})

	all, err := col.All(context.Background())
	require.NoError(t, err)
	require.Empty(t, all)

	// First flush creates the document.
	require.NoError(t, col.Flush(context.Background()))
	_, _, err = backend.Read(context.Background(), "users.json")
	require.NoError(t, err)
}

func TestCollectionCreateGetUpdateDelete(t *testing.T) {
	backend := newMemBackend()
	col := NewCollection[testRecord]("users.json", backend, Options{WriteThrough: true})
	ctx := context.Background()

	require.NoError(t, col.Create(ctx, testRecord{ID: "1", Name: "alice"}))
	require.Error(t, col.Create(ctx, testRecord{ID: "1", Name: "imposter"}))

	updated, err := col.Update(ctx, "1", func(r testRecord) testRecord {
		r.Name = "alice b"
		return r
	})
	require.NoError(t, err)
	require.Equal(t, "alice b", updated.Name)

	_, err = col.Update(ctx, "missing", func(r testRecord) testRecord { return r })
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	require.NoError(t, col.Delete(ctx, "1"))
	_, err = col.Get(ctx, "1")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCollectionWriteThroughPersistsEachMutation(t *testing.T) {
	backend := newMemBackend()
	col := NewCollection[testRecord]("users.json", backend, Options{WriteThrough: true})
	ctx := context.Background()

	require.NoError(t, col.Create(ctx, testRecord{ID: "1"}))
	require.False(t, col.Dirty())

	data, _, err := backend.Read(ctx, "users.json")
	require.NoError(t, err)
	var persisted []testRecord
	require.NoError(t, json.Unmarshal(data, &persisted))
	require.Len(t, persisted, 1)
}

func TestCollectionIntervalModeDefersFlush(t *testing.T) {
	backend := newMemBackend()
	col := NewCollection[testRecord]("users.json", backend, Options{})
	ctx := context.Background()

	require.NoError(t, col.Create(ctx, testRecord{ID: "1"}))
	require.True(t, col.Dirty())
	_, _, err := backend.Read(ctx, "users.json")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, col.Flush(ctx))
	require.False(t, col.Dirty())
	_, _, err = backend.Read(ctx, "users.json")
	require.NoError(t, err)

	// A clean cache flushes to nothing.
	writes := backend.writes
	require.NoError(t, col.Flush(ctx))
	require.Equal(t, writes, backend.writes)
}

func TestCollectionRetriesOnVersionConflict(t *testing.T) {
	backend := newMemBackend()
	seed(t, backend, "users.json", []testRecord{{ID: "1", Name: "bob"}})
	col := NewCollection[testRecord]("users.json", backend, Options{WriteThrough: true, WriteRetries: 3})
	ctx := context.Background()

	require.NoError(t, col.Warm(ctx))
	backend.conflicts = 1

	_, err := col.Update(ctx, "1", func(r testRecord) testRecord {
		r.Name = "bob m"
		return r
	})
	require.NoError(t, err)

	data, _, err := backend.Read(ctx, "users.json")
	require.NoError(t, err)
	var persisted []testRecord
	require.NoError(t, json.Unmarshal(data, &persisted))
	require.Equal(t, "bob m", persisted[0].Name)
}

func TestCollectionGivesUpAfterRetryBudget(t *testing.T) {
	backend := newMemBackend()
	seed(t, backend, "users.json", []testRecord{{ID: "1", Name: "bob"}})
	col := NewCollection[testRecord]("users.json", backend, Options{WriteThrough: true, WriteRetries: 2})
	ctx := context.Background()

	require.NoError(t, col.Warm(ctx))
	backend.conflicts = 5

	_, err := col.Update(ctx, "1", func(r testRecord) testRecord {
		r.Name = "bob m"
		return r
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	// The cache keeps the update even though the flush failed.
	got, err := col.Get(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "bob m", got.Name)
	require.True(t, col.Dirty())
}
