// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

// Package services adapts Bookshelf components to suture.Service.
//
//   - HTTPServerService: runs an *http.Server and shuts it down gracefully
//   - BuildService: builds a value once, installs it and never restarts
package services
