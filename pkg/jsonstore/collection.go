package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	pkgerrors "github.com/bakhasuleiman/wesavefood-backend/pkg/errors"
	"github.com/bakhasuleiman/wesavefood-backend/pkg/metrics"
)

const defaultWriteRetries = 3

// Options configure a collection's flush behavior.
type Options struct {
	// WriteThrough flushes after every mutation. When false, mutations only
	// mark the cache dirty and a flush job (or Close) persists them.
	WriteThrough bool
	// WriteRetries bounds re-read-and-retry attempts on version conflicts.
	WriteRetries int
	Metrics      *metrics.StoreMetrics
}

// Collection is a typed table over a single backing document. All reads are
// served from the cache, populated lazily on first access.
type Collection[T Record] struct {
	name    string
	backend Backend
	opts    Options

	mu      sync.RWMutex
	records []T
	version string
	loaded  bool
	dirty   bool
}

// NewCollection builds a collection bound to the named backing document.
func NewCollection[T Record](name string, backend Backend, opts Options) *Collection[T] {
	if opts.WriteRetries <= 0 {
		opts.WriteRetries = defaultWriteRetries
	}
	return &Collection[T]{
		name:    name,
		backend: backend,
		opts:    opts,
	}
}

// Name returns the backing document name.
func (c *Collection[T]) Name() string {
	return c.name
}

// Warm loads the cache eagerly so the first request pays no read latency.
func (c *Collection[T]) Warm(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensureLoaded(ctx)
}

// All returns a snapshot of every record in the collection.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	c.mu.Lock()
	if err := c.ensureLoaded(ctx); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	snapshot := make([]T, len(c.records))
	copy(snapshot, c.records)
	c.mu.Unlock()
	return snapshot, nil
}

// Get returns the record with the given id.
func (c *Collection[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoaded(ctx); err != nil {
		return zero, err
	}
	for _, rec := range c.records {
		if rec.EntityID() == id {
			return rec, nil
		}
	}
	return zero, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s record not found", c.name))
}

// Create appends a new record. A duplicate id is a conflict.
func (c *Collection[T]) Create(ctx context.Context, rec T) error {
	if rec.EntityID() == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "record id is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}
	for _, existing := range c.records {
		if existing.EntityID() == rec.EntityID() {
			return pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("%s record already exists", c.name))
		}
	}
	c.records = append(c.records, rec)
	return c.afterMutation(ctx)
}

// Update applies patch to the record with the given id and stores the result.
func (c *Collection[T]) Update(ctx context.Context, id string, patch func(T) T) (T, error) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoaded(ctx); err != nil {
		return zero, err
	}
	for i, rec := range c.records {
		if rec.EntityID() != id {
			continue
		}
		updated := patch(rec)
		if updated.EntityID() != id {
			return zero, pkgerrors.New(pkgerrors.CodeValidation, "record id is immutable")
		}
		c.records[i] = updated
		if err := c.afterMutation(ctx); err != nil {
			return zero, err
		}
		return updated, nil
	}
	return zero, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s record not found", c.name))
}

// Delete removes the record with the given id.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ensureLoaded(ctx); err != nil {
		return err
	}
	for i, rec := range c.records {
		if rec.EntityID() != id {
			continue
		}
		c.records = append(c.records[:i], c.records[i+1:]...)
		return c.afterMutation(ctx)
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s record not found", c.name))
}

// Flush persists the cache when it holds unflushed writes.
func (c *Collection[T]) Flush(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	return c.flushLocked(ctx)
}

// Dirty reports whether the cache holds writes not yet persisted.
func (c *Collection[T]) Dirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dirty
}

func (c *Collection[T]) ensureLoaded(ctx context.Context) error {
	if c.loaded {
		return nil
	}
	data, version, err := c.backend.Read(ctx, c.name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.records = nil
			c.version = ""
			c.loaded = true
			// The document is created on the next flush.
			c.dirty = true
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("load %s", c.name))
	}
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("decode %s", c.name))
	}
	c.records = records
	c.version = version
	c.loaded = true
	c.dirty = false
	return nil
}

func (c *Collection[T]) afterMutation(ctx context.Context) error {
	c.dirty = true
	if !c.opts.WriteThrough {
		return nil
	}
	return c.flushLocked(ctx)
}

// flushLocked writes the cache to the backend, re-reading the version token
// and retrying when another writer committed in between. The cache remains
// the source of truth: a conflict refreshes the token, not the records.
func (c *Collection[T]) flushLocked(ctx context.Context) error {
	data, err := json.MarshalIndent(c.records, "", "  ")
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("encode %s", c.name))
	}

	var lastErr error
	for attempt := 0; attempt < c.opts.WriteRetries; attempt++ {
		version, writeErr := c.backend.Write(ctx, c.name, data, c.version)
		if writeErr == nil {
			c.version = version
			c.dirty = false
			c.opts.Metrics.IncFlush(c.name, true)
			return nil
		}
		lastErr = writeErr
		if !errors.Is(writeErr, ErrConflict) {
			break
		}
		c.opts.Metrics.IncConflictRetry(c.name)
		_, freshVersion, readErr := c.backend.Read(ctx, c.name)
		if readErr != nil && !errors.Is(readErr, ErrNotFound) {
			lastErr = readErr
			break
		}
		c.version = freshVersion
	}

	c.opts.Metrics.IncFlush(c.name, false)
	if errors.Is(lastErr, ErrConflict) {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, lastErr, fmt.Sprintf("flush %s", c.name))
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, lastErr, fmt.Sprintf("flush %s", c.name))
}
