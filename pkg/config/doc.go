// Package config provides configuration management for the portal.
//
// Settings are read from mcod.yml in $MCOD_CONFIG_PATH (default /etc/mcod)
// and then overridden by environment variables. Every attribute remembers
// where its value came from so `mcodctl configuration show` can report it.
//
// # Key Configuration Options
//
//   - MCOD_BASE_URL: Public API URL used in JSON:API links
//   - MCOD_API_PAGE_SIZE_DEFAULT / MCOD_API_PAGE_SIZE_MAX: List paging
//   - MCOD_HARVESTER_ENABLED: Run the harvest scheduler with the server
//   - MCOD_LOG_LEVEL: Logging verbosity
//
// Secrets are only taken from the environment:
//
//   - MCOD_JWT_SECRET: HMAC key for user tokens
//   - DATABASE_URL: Database connection
package config
