// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

/*
Package services adapts Reelpick's long-running components to suture's
Serve(ctx) error contract.

# Available Services

  - HTTPServerService: ListenAndServe plus graceful Shutdown on cancel
  - HubService: the session state websocket hub
  - SweeperService: idle session eviction and verification cache cleanup
  - ConfigWatcherService: applies config file edits at runtime

Each wrapper returns ctx.Err() on a normal stop and a wrapped error on
failure, which suture answers with a restart. Names come from String() and
show up in the supervisor event log.
*/
package services
