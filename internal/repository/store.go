package repository

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/pesio-ai/be-contracts/internal/errors"
)

// Namespaces holding the two collections.
const (
	NamespaceBlueprints = "blueprints"
	NamespaceContracts  = "contracts"
)

// DefaultKeyPrefix is prepended to namespaces to form storage keys.
const DefaultKeyPrefix = "contractflow"

// Store is the key-value persistence contract. Each key holds one serialized
// collection.
type Store interface {
	// Get returns the value stored under key, or nil and no error when the
	// key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// StorageKey forms the backend key for a namespace.
func StorageKey(prefix, namespace string) string {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return prefix + "_" + namespace
}

// Collection is an ordered sequence of records stored as one JSON array under
// a single key. Every mutation is a full read/modify/write cycle.
//
// The mutex serializes read/modify/write cycles within one process. Separate
// processes sharing a backend still race: the last writer wins and nothing
// detects the lost update.
type Collection[T any] struct {
	store Store
	key   string
	idOf  func(*T) string
	mu    sync.Mutex
}

// NewCollection creates a collection over store under key; idOf extracts a
// record's identity.
func NewCollection[T any](store Store, key string, idOf func(*T) string) *Collection[T] {
	return &Collection[T]{store: store, key: key, idOf: idOf}
}

// Key returns the storage key of the collection.
func (c *Collection[T]) Key() string {
	return c.key
}

// ReadAll returns every record in stored order. A missing key is an empty
// collection.
func (c *Collection[T]) ReadAll(ctx context.Context) ([]*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readAll(ctx)
}

// WriteAll replaces the stored collection.
func (c *Collection[T]) WriteAll(ctx context.Context, records []*T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeAll(ctx, records)
}

// FindByID returns the record with the given id, or nil when absent.
func (c *Collection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	records, err := c.ReadAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if c.idOf(r) == id {
			return r, nil
		}
	}
	return nil, nil
}

// Upsert replaces the record with the same id in place or appends it.
func (c *Collection[T]) Upsert(ctx context.Context, record *T) error {
	return c.Update(ctx, func(records []*T) ([]*T, error) {
		id := c.idOf(record)
		for i, r := range records {
			if c.idOf(r) == id {
				records[i] = record
				return records, nil
			}
		}
		return append(records, record), nil
	})
}

// RemoveByID deletes the record with the given id and reports whether it
// existed.
func (c *Collection[T]) RemoveByID(ctx context.Context, id string) (bool, error) {
	removed := false
	err := c.Update(ctx, func(records []*T) ([]*T, error) {
		kept := records[:0]
		for _, r := range records {
			if c.idOf(r) == id {
				removed = true
				continue
			}
			kept = append(kept, r)
		}
		return kept, nil
	})
	return removed, err
}

// Update runs fn over the current records and writes back its result, all
// under the collection lock. fn returning an error aborts without writing.
func (c *Collection[T]) Update(ctx context.Context, fn func([]*T) ([]*T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.readAll(ctx)
	if err != nil {
		return err
	}
	records, err = fn(records)
	if err != nil {
		return err
	}
	return c.writeAll(ctx, records)
}

// Clear removes the whole collection from the store.
func (c *Collection[T]) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Delete(ctx, c.key); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to clear "+c.key)
	}
	return nil
}

func (c *Collection[T]) readAll(ctx context.Context) ([]*T, error) {
	data, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to read "+c.key)
	}
	if len(data) == 0 {
		return []*T{}, nil
	}

	var records []*T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to decode "+c.key)
	}
	if records == nil {
		records = []*T{}
	}
	return records, nil
}

func (c *Collection[T]) writeAll(ctx context.Context, records []*T) error {
	if records == nil {
		records = []*T{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to encode "+c.key)
	}
	if err := c.store.Set(ctx, c.key, data); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to write "+c.key)
	}
	return nil
}
