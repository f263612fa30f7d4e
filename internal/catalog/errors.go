package catalog

import (
	"fmt"

	"github.com/go-faster/errors"
)

// ErrProductNotFound is returned when a requested product does not exist
var ErrProductNotFound = errors.New("product not found")

// FetchError reports that the catalog source could not be retrieved
type FetchError struct {
	Source     string
	StatusCode int // zero when no response arrived
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch catalog %s: unexpected status code %d", e.Source, e.StatusCode)
	}
	return fmt.Sprintf("fetch catalog %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports that the catalog text could not be decoded into rows
type ParseError struct {
	Line int // 1-based, zero when not tied to a line
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse catalog line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("parse catalog: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
