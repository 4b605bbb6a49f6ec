// Reelpick - Verified Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelpick

/*
Package config loads Reelpick's configuration with koanf.

# Configuration Sources

Sources are layered, later ones overriding earlier ones:
  - Built-in defaults
  - An optional YAML file: $CONFIG_PATH, ./config.yaml, ./config.yml or /etc/reelpick/config.yaml
  - Environment variables

# Environment Variables

Upstream clients:
  - GROQ_API_KEY, GROQ_BASE_URL, GROQ_MODEL
  - SUGGEST_TEMPERATURE (default: 0.7), SUGGEST_MAX_TOKENS (default: 500)
  - SUGGEST_TIMEOUT (default: 30s), SUGGEST_JSON_MODE (default: true)
  - OMDB_API_KEY, OMDB_BASE_URL, OMDB_POSTER_URL, OMDB_POSTER_HEIGHT (default: 600)
  - OMDB_POSTER_API_ENABLED (default: false), OMDB_TIMEOUT (default: 10s), OMDB_CACHE_TTL (default: 1h)

Recommendation loop and sessions:
  - RECOMMEND_MAX_RETRIES (default: 10), RECOMMEND_HISTORY_SIZE (default: 5)
  - RECOMMEND_GENERATE_TIMEOUT (default: 5m)
  - SESSION_MAX_SESSIONS (default: 1000), SESSION_IDLE_TIMEOUT (default: 30m)
  - SESSION_SWEEP_INTERVAL (default: 1m)

HTTP server:
  - HTTP_HOST (default: 0.0.0.0), HTTP_PORT (default: 8080), HTTP_TIMEOUT (default: 30s)
  - RATE_LIMIT_REQUESTS (default: 60), RATE_LIMIT_WINDOW (default: 1m), DISABLE_RATE_LIMIT
  - CORS_ORIGINS: comma-separated list (default: *)

Logging:
  - LOG_LEVEL (default: info), LOG_FORMAT json|console (default: json), LOG_CALLER
  - LOG_FILE, LOG_MAX_SIZE_MB (default: 100), LOG_MAX_BACKUPS (default: 3)

# Hot Reload

WatchConfigFile invokes a callback when the YAML file changes. Only the log
level is re-applied at runtime; other settings need a restart.

# Usage Example

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    log.Fatalf("Failed to load configuration: %v", err)
	}
	fmt.Println(cfg.Server.Addr())
*/
package config
