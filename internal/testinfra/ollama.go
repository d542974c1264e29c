// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultOllamaImage is the official Ollama Docker image.
	DefaultOllamaImage = "ollama/ollama:latest"

	// DefaultOllamaPort is the Ollama API port.
	DefaultOllamaPort = "11434"

	// DefaultOllamaModel is the smallest sentence-transformers model Ollama ships.
	DefaultOllamaModel = "all-minilm"
)

// OllamaContainer is a running Ollama server with a model pulled.
type OllamaContainer struct {
	testcontainers.Container

	// BaseURL is the OpenAI-compatible endpoint, ending in /v1.
	BaseURL string

	// Model is the pulled model tag.
	Model string
}

// OllamaOption configures the Ollama container.
type OllamaOption func(*ollamaConfig)

type ollamaConfig struct {
	image        string
	model        string
	startTimeout time.Duration
	pullTimeout  time.Duration
}

// WithOllamaImage sets a custom Ollama Docker image.
func WithOllamaImage(image string) OllamaOption {
	return func(c *ollamaConfig) {
		c.image = image
	}
}

// WithModel sets the model pulled after startup.
func WithModel(model string) OllamaOption {
	return func(c *ollamaConfig) {
		c.model = model
	}
}

// WithStartTimeout sets the timeout for waiting for Ollama to start.
func WithStartTimeout(timeout time.Duration) OllamaOption {
	return func(c *ollamaConfig) {
		c.startTimeout = timeout
	}
}

// WithPullTimeout bounds the model download.
func WithPullTimeout(timeout time.Duration) OllamaOption {
	return func(c *ollamaConfig) {
		c.pullTimeout = timeout
	}
}

// NewOllamaContainer starts Ollama and pulls the configured model.
func NewOllamaContainer(ctx context.Context, opts ...OllamaOption) (*OllamaContainer, error) {
	cfg := &ollamaConfig{
		image:        DefaultOllamaImage,
		model:        DefaultOllamaModel,
		startTimeout: 2 * time.Minute,
		pullTimeout:  5 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultOllamaPort + "/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(DefaultOllamaPort+"/tcp"),
			wait.ForHTTP("/api/version").WithPort(DefaultOllamaPort+"/tcp"),
		).WithStartupTimeout(cfg.startTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create ollama container: %w", err)
	}

	if err := pullModel(ctx, container, cfg.model, cfg.pullTimeout); err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, err
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}
	port, err := container.MappedPort(ctx, DefaultOllamaPort+"/tcp")
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &OllamaContainer{
		Container: container,
		BaseURL:   fmt.Sprintf("http://%s:%s/v1", host, port.Port()),
		Model:     cfg.model,
	}, nil
}

func pullModel(ctx context.Context, container testcontainers.Container, model string, timeout time.Duration) error {
	pullCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	code, output, err := container.Exec(pullCtx, []string{"ollama", "pull", model})
	if err != nil {
		return fmt.Errorf("pull %s: %w", model, err)
	}
	if code != 0 {
		var msg []byte
		if output != nil {
			msg, _ = io.ReadAll(output)
		}
		return fmt.Errorf("pull %s: exit code %d: %s", model, code, msg)
	}
	return nil
}
