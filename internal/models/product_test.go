package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseLanguage(t *testing.T) {
	assert.Equal(t, LangEN, ParseLanguage("EN"))
	assert.Equal(t, LangRU, ParseLanguage(" ru "))
	assert.Equal(t, LangUA, ParseLanguage("ua"))
	assert.Equal(t, DefaultLanguage, ParseLanguage(""))
	assert.Equal(t, DefaultLanguage, ParseLanguage("de"))
}

func TestProduct_DisplayNameFallsBackToID(t *testing.T) {
	p := Product{ID: "cam-1", Name: LocalizedText{LangEN: "Camera"}}

	assert.Equal(t, "Camera", p.DisplayName(LangEN))
	assert.Equal(t, "cam-1", p.DisplayName(LangUA))
}

func TestProduct_UnitPrice(t *testing.T) {
	valid := Product{Price: decimal.NewNullDecimal(decimal.RequireFromString("12.50"))}
	invalid := Product{}

	assert.True(t, valid.UnitPrice().Equal(decimal.RequireFromString("12.5")))
	assert.True(t, invalid.UnitPrice().IsZero())
}

func TestCart_Totals(t *testing.T) {
	c := &Cart{Items: []CartItem{
		{ID: "a", Price: decimal.NewFromInt(100), Quantity: 2},
		{ID: "b", Price: decimal.NewFromInt(50), Quantity: 1},
	}}

	assert.Equal(t, 3, c.TotalQuantity())
	assert.Equal(t, "250.00", c.Total().StringFixed(2))

	resp := NewCartResponse(&Cart{ID: "empty"})
	assert.NotNil(t, resp.Items)
	assert.Equal(t, "0.00", resp.Total)
}
