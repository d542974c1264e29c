// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

// Package catalog loads the static book catalog that recommendations are drawn from.
//
// A catalog is read once at startup from a JSON, JSON Lines, YAML, CSV,
// Parquet, SQLite or DuckDB source. Source order is preserved and is the
// canonical tie-break order for ranking.
package catalog

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/tomtom215/bookshelf/internal/validation"
)

// Book is a single catalog entry. Books are immutable once loaded.
type Book struct {
	// ID uniquely identifies the book within the catalog.
	// Records without one get their one-based source position, suffixed when
	// another record already uses that as its id.
	ID string `json:"id" yaml:"id"`

	// Title is required.
	Title string `json:"title" yaml:"title" validate:"notblank"`

	Author string `json:"author,omitempty" yaml:"author,omitempty"`

	// Description is the text blurb that gets embedded. Required.
	Description string `json:"description" yaml:"description" validate:"notblank"`

	Genre string `json:"genre,omitempty" yaml:"genre,omitempty"`
	Year  int    `json:"year,omitempty" yaml:"year,omitempty" validate:"gte=0,lte=9999"`
}

// Catalog is an ordered, read-only collection of books.
type Catalog struct {
	source string
	books  []Book
	byID   map[string]int
}

// Options controls how a source is turned into a catalog.
type Options struct {
	// Format overrides extension-based format detection
	// (json, jsonl, yaml, csv, parquet, sqlite, duckdb).
	Format string

	// Table is the table read from SQLite and DuckDB databases.
	// Default: books
	Table string

	// SkipInvalid drops records that fail validation instead of failing the load.
	SkipInvalid bool

	// Logger receives a warning per skipped record.
	Logger zerolog.Logger
}

// Load opens path with the detected (or configured) format and loads it.
//
//nolint:gocritic // hugeParam: Options is passed once at startup
func Load(ctx context.Context, path string, opts Options) (*Catalog, error) {
	src, err := Open(path, opts.Format, opts.Table)
	if err != nil {
		return nil, err
	}
	return LoadFrom(ctx, src, opts)
}

// LoadFrom reads every record from src, validates it and builds a catalog.
//
// A malformed source or, unless opts.SkipInvalid is set, any invalid or
// duplicate record yields a *DataSourceError. Zero valid records yield an
// *EmptyCatalogError.
//
//nolint:gocritic // hugeParam: Options is passed once at startup
func LoadFrom(ctx context.Context, src Source, opts Options) (*Catalog, error) {
	records, err := src.Read(ctx)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger.With().Str("component", "catalog").Str("source", src.Name()).Logger()

	cat := &Catalog{
		source: src.Name(),
		books:  make([]Book, 0, len(records)),
		byID:   make(map[string]int, len(records)),
	}

	// Explicit ids are known up front so a positional id never takes one.
	explicit := make(map[string]struct{}, len(records))
	for i := range records {
		if records[i].ID != "" {
			explicit[records[i].ID] = struct{}{}
		}
	}

	skipped := 0
	for i := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		book := records[i]
		if book.ID == "" {
			book.ID = positionalID(i, explicit)
		}

		reason := validateBook(&book)
		if reason == "" {
			if prev, dup := cat.byID[book.ID]; dup {
				reason = fmt.Sprintf("duplicate id %q (first seen at catalog position %d)", book.ID, prev)
			}
		}

		if reason != "" {
			if !opts.SkipInvalid {
				return nil, &DataSourceError{Source: src.Name(), Record: i, Reason: reason}
			}
			skipped++
			logger.Warn().Int("record", i).Str("reason", reason).Msg("Skipping invalid catalog record")
			continue
		}

		cat.byID[book.ID] = len(cat.books)
		cat.books = append(cat.books, book)
	}

	if len(cat.books) == 0 {
		return nil, &EmptyCatalogError{Source: src.Name(), Skipped: skipped}
	}

	logger.Info().
		Int("books", len(cat.books)).
		Int("skipped", skipped).
		Msg("Catalog loaded")

	return cat, nil
}

// positionalID names a record without an id after its one-based position,
// suffixed "-2", "-3", ... while that name is already an explicit id.
func positionalID(i int, explicit map[string]struct{}) string {
	base := strconv.Itoa(i + 1)
	id := base
	for n := 2; ; n++ {
		if _, taken := explicit[id]; !taken {
			return id
		}
		id = base + "-" + strconv.Itoa(n)
	}
}

func validateBook(b *Book) string {
	if verr := validation.ValidateStruct(b); verr != nil {
		return verr.Error()
	}
	return ""
}

// Source returns the name of the source the catalog was loaded from.
func (c *Catalog) Source() string { return c.source }

// Len returns the number of books.
func (c *Catalog) Len() int { return len(c.books) }

// At returns the book at catalog position i. It panics if i is out of range.
func (c *Catalog) At(i int) Book { return c.books[i] }

// Books returns a copy of all books in catalog order.
func (c *Catalog) Books() []Book {
	out := make([]Book, len(c.books))
	copy(out, c.books)
	return out
}

// Lookup returns the book with the given ID and its catalog position.
func (c *Catalog) Lookup(id string) (Book, int, bool) {
	pos, ok := c.byID[id]
	if !ok {
		return Book{}, -1, false
	}
	return c.books[pos], pos, true
}

// Descriptions returns the embeddable text of every book, index-aligned with the catalog.
func (c *Catalog) Descriptions() []string {
	out := make([]string, len(c.books))
	for i := range c.books {
		out[i] = c.books[i].Description
	}
	return out
}
