package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vse-rental/storefront/internal/models"
)

type stubLoader struct {
	products []models.Product
	err      error
}

func (s stubLoader) Load(context.Context) ([]models.Product, error) { return s.products, s.err }
func (s stubLoader) Source() string                                { return "stub" }

func loadedCatalog(t *testing.T) *Catalog {
	t.Helper()
	products, err := Parse(strings.NewReader(sheetCSV))
	require.NoError(t, err)

	c := New()
	c.Replace(products, "test")
	return c
}

func TestCatalog_Categories(t *testing.T) {
	c := loadedCatalog(t)

	assert.Equal(t, []string{"sound", "video", "light"}, c.Categories())
}

func TestCatalog_Product(t *testing.T) {
	c := loadedCatalog(t)

	p, err := c.Product("prj-1")
	require.NoError(t, err)
	assert.Equal(t, "Projector", p.Name[models.LangEN])

	_, err = c.Product("nope")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalog_ByCategory(t *testing.T) {
	c := loadedCatalog(t)

	sound := c.ByCategory("sound")
	require.Len(t, sound, 2)
	assert.Equal(t, "spk-1", sound[0].ID)
	assert.Equal(t, "mic-1", sound[1].ID)

	assert.Empty(t, c.ByCategory("drones"))
}

func TestCatalog_Search(t *testing.T) {
	c := loadedCatalog(t)

	tests := []struct {
		query string
		want  []string
	}{
		{"speak", []string{"spk-1"}},
		{"ПРОЕКТОР", []string{"prj-1"}},
		{"e", []string{"spk-1", "prj-1", "mic-1"}},
		{"", nil},
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			var ids []string
			for _, p := range c.Search(tt.query) {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestCatalog_Reload(t *testing.T) {
	c := New()

	err := c.Reload(context.Background(), stubLoader{products: []models.Product{
		{ID: "a", Category: "x"},
		{ID: "a", Category: "y"},
	}})
	require.NoError(t, err)

	p, err := c.Product("a")
	require.NoError(t, err)
	assert.Equal(t, "x", p.Category, "first duplicate wins")
	assert.Equal(t, 2, c.Stats().Products)
	assert.Equal(t, "stub", c.Stats().Source)

	// a failing reload keeps the old snapshot
	err = c.Reload(context.Background(), stubLoader{err: &FetchError{Source: "stub", StatusCode: 500}})
	require.Error(t, err)

	var fetchErr *FetchError
	assert.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, 2, c.Stats().Products)
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c := loadedCatalog(t)

	products := c.Products()
	products[0].ID = "mutated"
	cats := c.Categories()
	cats[0] = "mutated"

	_, err := c.Product("spk-1")
	assert.NoError(t, err)
	assert.Equal(t, "sound", c.Categories()[0])
}
