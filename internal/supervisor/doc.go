// Bookshelf - Semantic Book Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bookshelf

/*
Package supervisor runs Bookshelf's long-lived services under suture v4.

# Overview

The tree has two layers so the HTTP server can answer liveness probes
while the recommender is still embedding the catalog:

	RootSupervisor ("bookshelf")
	├── EngineSupervisor ("engine-layer")
	│   └── BuildService (one-shot: load, embed, index, install)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

The build service never restarts. A successful build installs the
recommender and exits with suture.ErrDoNotRestart. A failed build stops
the whole tree with suture.ErrTerminateSupervisorTree, since a service
without an index has nothing useful to serve.

The HTTP server is restarted with backoff if it crashes.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}

	build := services.NewBuildService(buildFn, handler.SetRecommender, services.BuildServiceConfig{}, logger)
	tree.AddEngineService(build)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    return build.Err()
	}

# Logging

Supervisor events go through sutureslog into the slog adapter of the
logging package, so they end up in the same zerolog stream as
everything else.
*/
package supervisor
