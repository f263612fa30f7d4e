package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/go-faster/errors"

	"github.com/vse-rental/storefront/internal/models"
)

// Catalog holds the most recently loaded product list.
// A failed reload keeps the previous snapshot.
type Catalog struct {
	mu         sync.RWMutex
	products   []models.Product
	byID       map[string]int
	categories []string
	loadedAt   time.Time
	source     string
}

// Stats summarizes the current snapshot
type Stats struct {
	Products   int       `json:"products"`
	Categories int       `json:"categories"`
	Source     string    `json:"source"`
	LoadedAt   time.Time `json:"loadedAt"`
}

// New creates an empty catalog
func New() *Catalog {
	return &Catalog{byID: make(map[string]int)}
}

// Reload fetches a fresh product list through loader and swaps it in
func (c *Catalog) Reload(ctx context.Context, loader Loader) error {
	products, err := loader.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "load catalog")
	}

	c.Replace(products, loader.Source())
	return nil
}

// Replace installs products as the current snapshot
func (c *Catalog) Replace(products []models.Product, source string) {
	byID := make(map[string]int, len(products))
	for i, p := range products {
		// first row wins when the sheet repeats an id
		if _, exists := byID[p.ID]; !exists {
			byID[p.ID] = i
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.products = products
	c.byID = byID
	c.categories = distinctCategories(products)
	c.loadedAt = time.Now().UTC()
	c.source = source
}

// Products returns every product in sheet order
func (c *Catalog) Products() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// Product returns the product with id
func (c *Catalog) Product(id string) (models.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.byID[id]
	if !ok {
		return models.Product{}, ErrProductNotFound
	}
	return c.products[i], nil
}

// Categories returns the distinct categories in first-seen order
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// ByCategory returns the products of one category in sheet order
func (c *Catalog) ByCategory(category string) []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Product, 0)
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Search returns products whose name in any language contains query,
// ignoring case. An empty query matches nothing.
func (c *Catalog) Search(query string) []models.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []models.Product{}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Product, 0)
	for _, p := range c.products {
		for _, lang := range models.Languages {
			if strings.Contains(strings.ToLower(p.Name[lang]), query) {
				out = append(out, p)
				break
			}
		}
	}
	return out
}

// Stats returns statistics about the loaded snapshot
func (c *Catalog) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return Stats{
		Products:   len(c.products),
		Categories: len(c.categories),
		Source:     c.source,
		LoadedAt:   c.loadedAt,
	}
}

func distinctCategories(products []models.Product) []string {
	seen := make(map[string]bool)
	categories := make([]string, 0)
	for _, p := range products {
		if seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		categories = append(categories, p.Category)
	}
	return categories
}
