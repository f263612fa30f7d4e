package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Language is one of the storefront display languages
type Language string

const (
	LangUA Language = "ua"
	LangRU Language = "ru"
	LangEN Language = "en"
)

// DefaultLanguage is used when a request names no language or an unknown one
const DefaultLanguage = LangUA

// Languages lists every supported language in display order
var Languages = []Language{LangUA, LangRU, LangEN}

// ParseLanguage maps a request value to a supported language
func ParseLanguage(s string) Language {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LangUA:
		return LangUA
	case LangRU:
		return LangRU
	case LangEN:
		return LangEN
	default:
		return DefaultLanguage
	}
}

// LocalizedText holds one display string per language
type LocalizedText map[Language]string

// In returns the text for lang, or fallback when that translation is missing
func (t LocalizedText) In(lang Language, fallback string) string {
	if v := t[lang]; v != "" {
		return v
	}
	return fallback
}

// Product represents a rentable item from the published catalog sheet.
// Rows with missing cells are kept; an unparseable price leaves Price invalid.
type Product struct {
	ID          string              `json:"id"`
	Category    string              `json:"category"`
	ImageURL    string              `json:"imageUrl"`
	VideoURL    string              `json:"videoUrl,omitempty"`
	Name        LocalizedText       `json:"name"`
	Description LocalizedText       `json:"description"`
	Price       decimal.NullDecimal `json:"price"`
}

// DisplayName returns the product name in lang, degrading to the id
func (p Product) DisplayName(lang Language) string {
	return p.Name.In(lang, p.ID)
}

// UnitPrice returns the price, or zero when the sheet held no usable value
func (p Product) UnitPrice() decimal.Decimal {
	if !p.Price.Valid {
		return decimal.Zero
	}
	return p.Price.Decimal
}
