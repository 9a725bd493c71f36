package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/morgaesis/wishapp/wishlist"
)

// Memory is an in-process Store for tests and local runs.
//
// Records are kept in their encoded attribute form so the same codec runs as
// against DynamoDB. Every method holds mu for its whole body: the full record
// set is one critical section, and operations never interleave.
type Memory struct {
	mu      sync.Mutex
	records map[string]map[string]types.AttributeValue
	order   []string
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		records: make(map[string]map[string]types.AttributeValue),
	}
}

// Get returns the stored wishlist or ErrNotFound.
func (m *Memory) Get(_ context.Context, id string) (wishlist.Wishlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.records[id]
	if !ok {
		return wishlist.Wishlist{}, ErrNotFound
	}
	w, err := wishlist.FromAttributes(item)
	if err != nil {
		return wishlist.Wishlist{}, fmt.Errorf("decode wishlist %s: %w", id, err)
	}
	return w, nil
}

// Put stores w, replacing any record with the same id.
func (m *Memory) Put(_ context.Context, w wishlist.Wishlist) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.putLocked(w)
	return nil
}

// Replace stores w only if its id is already present.
func (m *Memory) Replace(_ context.Context, w wishlist.Wishlist) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[w.ID]; !ok {
		return ErrNotFound
	}
	m.putLocked(w)
	return nil
}

// Delete removes the record with the given id.
func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return ErrNotFound
	}
	delete(m.records, id)
	m.order = slices.DeleteFunc(m.order, func(existing string) bool { return existing == id })
	return nil
}

// Scan returns all records in insertion order.
func (m *Memory) Scan(_ context.Context) ([]wishlist.Wishlist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wishlists := make([]wishlist.Wishlist, 0, len(m.order))
	for _, id := range m.order {
		w, err := wishlist.FromAttributes(m.records[id])
		if err != nil {
			return nil, fmt.Errorf("decode wishlist %s: %w", id, err)
		}
		wishlists = append(wishlists, w)
	}
	return wishlists, nil
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.records)
}

// putLocked encodes and stores w. Callers must hold mu.
func (m *Memory) putLocked(w wishlist.Wishlist) {
	if _, exists := m.records[w.ID]; !exists {
		m.order = append(m.order, w.ID)
	}
	m.records[w.ID] = wishlist.ToAttributes(w)
}
