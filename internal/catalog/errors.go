// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

package catalog

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks.
var (
	ErrDataSource   = errors.New("catalog data source error")
	ErrEmptyCatalog = errors.New("catalog is empty")
)

// DataSourceError reports a catalog source that is missing, unreadable or malformed.
type DataSourceError struct {
	// Source is the path or DSN that was being read.
	Source string
	// Record is the zero-based record position, or -1 when the failure is not tied to a record.
	Record int
	// Reason is a short description of what went wrong.
	Reason string
	// Err is the underlying cause, if any.
	Err error
}

func (e *DataSourceError) Error() string {
	msg := fmt.Sprintf("catalog %s", e.Source)
	if e.Record >= 0 {
		msg = fmt.Sprintf("%s: record %d", msg, e.Record)
	}
	if e.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Reason)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *DataSourceError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrDataSource) match any *DataSourceError.
func (e *DataSourceError) Is(target error) bool { return target == ErrDataSource }

// EmptyCatalogError reports a source that yielded zero valid records.
type EmptyCatalogError struct {
	Source string
	// Skipped counts records dropped as invalid when skipping is enabled.
	Skipped int
}

func (e *EmptyCatalogError) Error() string {
	if e.Skipped > 0 {
		return fmt.Sprintf("catalog %s: no valid records (%d skipped as invalid)", e.Source, e.Skipped)
	}
	return fmt.Sprintf("catalog %s: no records", e.Source)
}

// Is makes errors.Is(err, ErrEmptyCatalog) match any *EmptyCatalogError.
func (e *EmptyCatalogError) Is(target error) bool { return target == ErrEmptyCatalog }

func sourceError(source string, err error, reason string) *DataSourceError {
	return &DataSourceError{Source: source, Record: -1, Reason: reason, Err: err}
}
