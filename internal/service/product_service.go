package service

import (
	"context"
	"strings"

	"github.com/vse-rental/storefront/internal/models"
	"github.com/vse-rental/storefront/internal/repository"
)

// ProductFilter narrows a product listing. Empty fields match everything.
type ProductFilter struct {
	Category string
	Query    string
}

// ProductService handles business logic for products
type ProductService struct {
	repo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ListProducts returns the products matching filter in sheet order
func (s *ProductService) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	query := strings.TrimSpace(filter.Query)

	var (
		products []models.Product
		err      error
	)
	switch {
	case query != "":
		products, err = s.repo.Search(ctx, query)
	case filter.Category != "":
		return s.repo.GetByCategory(ctx, filter.Category)
	default:
		return s.repo.GetAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	if filter.Category == "" {
		return products, nil
	}
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Category == filter.Category {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Categories returns the distinct categories in first-seen order
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.repo.Categories(ctx)
}
