package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/vse-rental/storefront/internal/models"
	"github.com/vse-rental/storefront/internal/repository"
)

var (
	ErrInvalidProduct = errors.New("invalid product")
	ErrMissingCartID  = errors.New("cart id is required")
)

// CartService handles cart business logic. Items keep the name, price and
// image the product had when it was added.
type CartService struct {
	products repository.ProductRepository
	store    repository.CartStore
	locks    *keyedMutex
	logger   *slog.Logger
}

// NewCartService creates a new cart service
func NewCartService(products repository.ProductRepository, store repository.CartStore, logger *slog.Logger) *CartService {
	return &CartService{
		products: products,
		store:    store,
		locks:    newKeyedMutex(),
		logger:   logger,
	}
}

// LoadCart returns the cart for cartID. A missing or unreadable stored cart
// yields an empty cart.
func (s *CartService) LoadCart(ctx context.Context, cartID string) (*models.Cart, error) {
	if cartID == "" {
		return nil, ErrMissingCartID
	}

	items, err := s.store.Load(ctx, cartID)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrCartNotFound):
		items = nil
	case errors.Is(err, repository.ErrCorruptCart):
		s.logger.Warn("Discarding unreadable cart",
			slog.String("cart_id", cartID),
			slog.String("error", err.Error()),
		)
		items = nil
	default:
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	if items == nil {
		items = []models.CartItem{}
	}
	return &models.Cart{ID: cartID, Items: items}, nil
}

// AddToCart adds one unit of productID, naming it in lang
func (s *CartService) AddToCart(ctx context.Context, cartID, productID string, lang models.Language) (*models.Cart, error) {
	if cartID == "" {
		return nil, ErrMissingCartID
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, ErrInvalidProduct
		}
		return nil, err
	}

	unlock := s.locks.Lock(cartID)
	defer unlock()

	cart, err := s.LoadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range cart.Items {
		if cart.Items[i].ID == product.ID {
			cart.Items[i].Quantity++
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{
			ID:       product.ID,
			Name:     product.DisplayName(lang),
			Price:    product.UnitPrice(),
			Image:    product.ImageURL,
			Quantity: 1,
		})
	}

	if err := s.store.Save(ctx, cartID, cart.Items); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return cart, nil
}

// RemoveFromCart takes one unit of productID out of the cart. The item
// disappears when its quantity reaches zero; an absent id changes nothing.
func (s *CartService) RemoveFromCart(ctx context.Context, cartID, productID string) (*models.Cart, error) {
	if cartID == "" {
		return nil, ErrMissingCartID
	}

	unlock := s.locks.Lock(cartID)
	defer unlock()

	cart, err := s.LoadCart(ctx, cartID)
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range cart.Items {
		if cart.Items[i].ID == productID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return cart, nil
	}

	if cart.Items[idx].Quantity > 1 {
		cart.Items[idx].Quantity--
	} else {
		cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	}

	if err := s.store.Save(ctx, cartID, cart.Items); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return cart, nil
}

// Clear empties the cart
func (s *CartService) Clear(ctx context.Context, cartID string) error {
	if cartID == "" {
		return ErrMissingCartID
	}

	unlock := s.locks.Lock(cartID)
	defer unlock()

	if err := s.store.Delete(ctx, cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// ClearSubmitted takes the submitted quantities out of the cart and keeps
// anything added after the snapshot was taken. The cart is deleted once
// nothing remains.
func (s *CartService) ClearSubmitted(ctx context.Context, cartID string, submitted []models.CartItem) error {
	if cartID == "" {
		return ErrMissingCartID
	}

	unlock := s.locks.Lock(cartID)
	defer unlock()

	cart, err := s.LoadCart(ctx, cartID)
	if err != nil {
		return err
	}

	taken := make(map[string]int, len(submitted))
	for _, item := range submitted {
		taken[item.ID] += item.Quantity
	}

	remaining := make([]models.CartItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		item.Quantity -= taken[item.ID]
		if item.Quantity > 0 {
			remaining = append(remaining, item)
		}
	}

	if len(remaining) == 0 {
		if err := s.store.Delete(ctx, cartID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	}

	if err := s.store.Save(ctx, cartID, remaining); err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// keyedMutex serializes work per key and forgets keys nobody holds
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu      sync.Mutex
	waiters int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock blocks until key is free and returns the matching unlock
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.waiters++
	k.mu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		k.mu.Lock()
		l.waiters--
		if l.waiters == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
