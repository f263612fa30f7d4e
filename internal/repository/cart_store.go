package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/vse-rental/storefront/internal/models"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrCorruptCart  = errors.New("stored cart is corrupt")
)

// CartStore persists the serialized item list of each cart
type CartStore interface {
	Load(ctx context.Context, cartID string) ([]models.CartItem, error)
	Save(ctx context.Context, cartID string, items []models.CartItem) error
	Delete(ctx context.Context, cartID string) error
}

// MemoryCartStore keeps carts as encoded JSON in process memory.
// Storing bytes rather than structs keeps callers from sharing slices.
type MemoryCartStore struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

// NewMemoryCartStore creates an empty in-memory cart store
func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{
		carts: make(map[string][]byte),
	}
}

// Load returns the items stored for cartID
func (s *MemoryCartStore) Load(ctx context.Context, cartID string) ([]models.CartItem, error) {
	s.mu.RLock()
	data, exists := s.carts[cartID]
	s.mu.RUnlock()

	if !exists {
		return nil, ErrCartNotFound
	}
	return decodeItems(data)
}

// Save replaces the items stored for cartID
func (s *MemoryCartStore) Save(ctx context.Context, cartID string, items []models.CartItem) error {
	data, err := encodeItems(items)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.carts[cartID] = data
	s.mu.Unlock()
	return nil
}

// Delete removes cartID; deleting an absent cart is not an error
func (s *MemoryCartStore) Delete(ctx context.Context, cartID string) error {
	s.mu.Lock()
	delete(s.carts, cartID)
	s.mu.Unlock()
	return nil
}

func encodeItems(items []models.CartItem) ([]byte, error) {
	if items == nil {
		items = []models.CartItem{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cart: %w", err)
	}
	return data, nil
}

func decodeItems(data []byte) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCart, err)
	}
	return items, nil
}
