package repository

import (
	"context"
	"errors"

	"github.com/vse-rental/storefront/internal/catalog"
	"github.com/vse-rental/storefront/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByCategory(ctx context.Context, category string) ([]models.Product, error)
	Search(ctx context.Context, query string) ([]models.Product, error)
	Categories(ctx context.Context) ([]string, error)
}

// CatalogProductRepository implements ProductRepository on top of the
// in-memory catalog snapshot
type CatalogProductRepository struct {
	catalog *catalog.Catalog
}

// NewCatalogProductRepository creates a repository reading from c
func NewCatalogProductRepository(c *catalog.Catalog) *CatalogProductRepository {
	return &CatalogProductRepository{
		catalog: c,
	}
}

// GetAll returns all products in sheet order
func (r *CatalogProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return r.catalog.Products(), nil
}

// GetByID returns a product by its ID
func (r *CatalogProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := r.catalog.Product(id)
	if err != nil {
		if errors.Is(err, catalog.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// GetByCategory returns the products of one category
func (r *CatalogProductRepository) GetByCategory(ctx context.Context, category string) ([]models.Product, error) {
	return r.catalog.ByCategory(category), nil
}

// Search returns products whose name contains query in any language
func (r *CatalogProductRepository) Search(ctx context.Context, query string) ([]models.Product, error) {
	return r.catalog.Search(query), nil
}

// Categories returns the distinct categories in first-seen order
func (r *CatalogProductRepository) Categories(ctx context.Context) ([]string, error) {
	return r.catalog.Categories(), nil
}
