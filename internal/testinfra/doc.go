// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

//go:build integration

/*
Package testinfra starts real embedding backends in Docker for integration tests.

Everything here is behind the integration build tag:

	go test -tags integration ./...

# Ollama

NewOllamaContainer starts ollama/ollama, pulls the requested model and
returns the OpenAI-compatible base URL:

	ollama, err := testinfra.NewOllamaContainer(ctx, testinfra.WithModel("all-minilm"))
	if err != nil {
	    t.Fatal(err)
	}
	defer testinfra.CleanupContainer(t, ctx, ollama)

	provider, err := embedding.New(ctx, embedding.Config{
	    ModelName: "ollama:all-minilm",
	    BaseURL:   ollama.BaseURL,
	}, zerolog.Nop())

Tests call SkipIfNoDocker first so they skip cleanly without a daemon.
*/
package testinfra
