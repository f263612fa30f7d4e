package catalog

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/vse-rental/storefront/internal/models"
)

// Loader produces the full product list from some source
type Loader interface {
	Load(ctx context.Context) ([]models.Product, error)
	Source() string
}

// Columns the header row must name. Everything else is optional.
var requiredColumns = []string{"id", "category", "price"}

// HTTPLoader fetches the catalog from a published spreadsheet export
type HTTPLoader struct {
	url    string
	client *http.Client
}

// NewHTTPLoader creates a loader for url. A nil client uses http.DefaultClient.
func NewHTTPLoader(url string, client *http.Client) *HTTPLoader {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPLoader{url: url, client: client}
}

func (l *HTTPLoader) Source() string { return l.url }

// Load downloads and parses the sheet
func (l *HTTPLoader) Load(ctx context.Context) ([]models.Product, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, &FetchError{Source: l.url, Err: errors.Wrap(err, "create request")}
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: l.url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Source: l.url, StatusCode: resp.StatusCode}
	}

	return Parse(resp.Body)
}

// FileLoader reads the catalog from a local CSV file.
// Files ending in .gz are decompressed first.
type FileLoader struct {
	path string
}

// NewFileLoader creates a loader for path
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{path: path}
}

func (l *FileLoader) Source() string { return l.path }

// Load opens and parses the file
func (l *FileLoader) Load(ctx context.Context) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, &FetchError{Source: l.path, Err: err}
	}

	f, err := os.Open(l.path)
	if err != nil {
		return nil, &FetchError{Source: l.path, Err: err}
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(l.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, &FetchError{Source: l.path, Err: errors.Wrap(err, "open gzip")}
		}
		defer gz.Close()
		r = gz
	}

	return Parse(r)
}

// Parse decodes delimited catalog text. The first row names the columns;
// every following row becomes a product, even when cells are missing.
func Parse(r io.Reader) ([]models.Product, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ParseError{Err: errors.New("missing header row")}
	}
	if err != nil {
		return nil, &ParseError{Line: 1, Err: err}
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if _, seen := columns[name]; !seen {
			columns[name] = i
		}
	}
	for _, required := range requiredColumns {
		if _, ok := columns[required]; !ok {
			return nil, &ParseError{Line: 1, Err: errors.Errorf("header is missing column %q", required)}
		}
	}

	products := make([]models.Product, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			line, _ := reader.FieldPos(0)
			return nil, &ParseError{Line: line, Err: err}
		}
		if isBlank(record) {
			continue
		}
		products = append(products, productFromRecord(columns, record))
	}

	return products, nil
}

func productFromRecord(columns map[string]int, record []string) models.Product {
	cell := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	name := models.LocalizedText{}
	description := models.LocalizedText{}
	for _, lang := range models.Languages {
		name[lang] = cell("name_" + string(lang))
		description[lang] = cell("description_" + string(lang))
	}

	return models.Product{
		ID:          cell("id"),
		Category:    cell("category"),
		ImageURL:    cell("imageUrl"),
		VideoURL:    cell("videoUrl"),
		Name:        name,
		Description: description,
		Price:       parsePrice(cell("price")),
	}
}

var leadingNumber = regexp.MustCompile(`^[+-]?(\d+(\.\d+)?|\.\d+)([eE][+-]?\d+)?`)

// parsePrice reads the leading number of s, ignoring trailing text such as a
// currency. Anything without a leading number yields an invalid price.
func parsePrice(s string) decimal.NullDecimal {
	match := leadingNumber.FindString(strings.TrimSpace(s))
	if match == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(match)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
