package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/vse-rental/storefront/internal/catalog"
	"github.com/vse-rental/storefront/internal/models"
	"github.com/vse-rental/storefront/internal/repository"
)

func testCatalog() *catalog.Catalog {
	c := catalog.New()
	c.Replace([]models.Product{
		{
			ID:          "spk-1",
			Category:    "sound",
			ImageURL:    "https://img/spk.png",
			Name:        models.LocalizedText{models.LangUA: "Колонка", models.LangRU: "Колонка", models.LangEN: "Speaker"},
			Description: models.LocalizedText{models.LangEN: "Loud"},
			Price:       decimal.NewNullDecimal(decimal.NewFromInt(100)),
		},
		{
			ID:       "prj-1",
			Category: "video",
			Name:     models.LocalizedText{models.LangEN: "Projector"},
			Price:    decimal.NewNullDecimal(decimal.RequireFromString("50.5")),
		},
		{
			ID:       "mic-1",
			Category: "sound",
			Name:     models.LocalizedText{models.LangEN: "Microphone"},
		},
	}, "test")
	return c
}

func testProductRepo() repository.ProductRepository {
	return repository.NewCatalogProductRepository(testCatalog())
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(w.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode response: %v (%s)", err, w.Body.String())
	}
	return v
}
