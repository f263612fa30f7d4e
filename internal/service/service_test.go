package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vse-rental/storefront/internal/catalog"
	"github.com/vse-rental/storefront/internal/models"
	"github.com/vse-rental/storefront/internal/repository"
)

var fixedNow = time.Date(2025, 6, 14, 9, 30, 15, 0, time.UTC)

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func testProducts() []models.Product {
	return []models.Product{
		{
			ID:       "spk-1",
			Category: "sound",
			ImageURL: "https://img/spk.png",
			Name:     models.LocalizedText{models.LangUA: "Колонка", models.LangEN: "Speaker"},
			Price:    price("100"),
		},
		{
			ID:       "prj-1",
			Category: "video",
			ImageURL: "https://img/prj.png",
			Name:     models.LocalizedText{models.LangUA: "Проектор", models.LangEN: "Projector"},
			Price:    price("50.50"),
		},
		{
			ID:       "mic-1",
			Category: "sound",
			Name:     models.LocalizedText{models.LangEN: "Microphone"},
			Price:    decimal.NullDecimal{},
		},
	}
}

func testRepository() repository.ProductRepository {
	c := catalog.New()
	c.Replace(testProducts(), "test")
	return repository.NewCatalogProductRepository(c)
}

// corruptStore fails every Load with ErrCorruptCart until something is saved
type corruptStore struct {
	*repository.MemoryCartStore
	corrupt map[string]bool
}

func newCorruptStore(ids ...string) *corruptStore {
	s := &corruptStore{MemoryCartStore: repository.NewMemoryCartStore(), corrupt: map[string]bool{}}
	for _, id := range ids {
		s.corrupt[id] = true
	}
	return s
}

func (s *corruptStore) Load(ctx context.Context, cartID string) ([]models.CartItem, error) {
	if s.corrupt[cartID] {
		return nil, fmt.Errorf("decode: %w", repository.ErrCorruptCart)
	}
	return s.MemoryCartStore.Load(ctx, cartID)
}

func (s *corruptStore) Save(ctx context.Context, cartID string, items []models.CartItem) error {
	delete(s.corrupt, cartID)
	return s.MemoryCartStore.Save(ctx, cartID, items)
}

// failingStore simulates an unreachable backend
type failingStore struct{}

var errBackendDown = errors.New("backend down")

func (failingStore) Load(context.Context, string) ([]models.CartItem, error) {
	return nil, errBackendDown
}

func (failingStore) Save(context.Context, string, []models.CartItem) error {
	return errBackendDown
}

func (failingStore) Delete(context.Context, string) error {
	return errBackendDown
}
