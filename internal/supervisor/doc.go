// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

/*
Package supervisor provides process supervision for Reelpick using suture v4.

# Overview

	RootSupervisor ("reelpick")
	├── MessagingSupervisor ("messaging-layer")
	│   └── HubService
	├── MaintenanceSupervisor ("maintenance-layer")
	│   ├── SweeperService
	│   └── ConfigWatcherService (only with a config file)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's backoff. Each layer counts its own
failures, so a sweeper that keeps failing cannot push the API layer into
backoff.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddMessagingService(services.NewHubService(hub))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, 10*time.Second, logger))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	err = tree.Serve(ctx)

Supervisor events (restarts, backoff, stop timeouts) are logged through
sutureslog into the zerolog pipeline.
*/
package supervisor
