// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

/*
Package main is the entry point for the Bookshelf HTTP server.

Bookshelf recommends books for a free-text description. At startup it
loads the catalog, embeds every description with the configured model and
keeps the vectors in memory. Queries are embedded with the same model and
ranked by cosine similarity.

# Application Architecture

	RootSupervisor ("bookshelf")
	├── EngineSupervisor ("engine-layer")
	│   └── recommender build (one-shot)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

The HTTP server starts immediately. Until the recommender is built,
GET /health answers 503 {"status":"starting"} and recommendation routes
answer 503. If the build fails the process exits non-zero.

# Configuration

Koanf v2 layers, highest priority last:
  - built-in defaults
  - config.yaml (or CONFIG_PATH)
  - .env (or DOTENV_PATH)
  - environment variables

The most common variables:

	MODEL_NAME       embedding model, e.g. all-MiniLM-L6-v2, openai:text-embedding-3-small, local
	BOOKS_DATA_PATH  catalog file (.json, .yaml, .db, .duckdb)
	HTTP_PORT        listen port (default 8000)
	LOG_LEVEL        trace, debug, info, warn, error

# Example Usage

Offline with the built-in hashing model:

	export MODEL_NAME=local
	export BOOKS_DATA_PATH=data/books.json
	./bookshelf-server

	curl -s localhost:8000/recommend -d '{"text":"hunting whales","k":1}'

With Ollama:

	ollama pull all-minilm
	export MODEL_NAME=all-MiniLM-L6-v2
	export EMBEDDING_BASE_URL=http://localhost:11434/v1
	./bookshelf-server

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for up to the shutdown timeout, then the embedding
provider is closed.
*/
package main
