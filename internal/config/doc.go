// Package config handles configuration loading for the nexus client.
//
// # Overview
//
// Configuration starts from Default, is optionally read from a YAML or TOML
// file, and is then overlaid with NEXUS_* environment variables.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from NEXUS_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/nexus/client.yaml
//  3. ~/.config/nexus/client.yaml
//
// A missing file at location 2 or 3 is not an error.
//
// # Environment Variable Expansion
//
// File values can reference environment variables:
//
//	api:
//	  base_url: "${NEXUS_BACKEND}"
//
// # Environment Overlay
//
//	NEXUS_API_URL             api.base_url (default http://localhost:8000)
//	NEXUS_AUTH_PATH           api.auth_path (default /api/forge)
//	NEXUS_LOGIN_PATH          api.login_path (default /forge/login)
//	NEXUS_STRICT_STATUS       api.strict_status
//	NEXUS_VALIDATE_RESPONSES  api.validate_responses
//	NEXUS_STATE_PATH          state.path
//	NEXUS_LOG_LEVEL           logging.level
//	NEXUS_LOG_FORMAT          logging.format
//	NEXUS_OTEL_ENDPOINT       telemetry.endpoint
//
// # TOML
//
// Files with a .toml extension use the same keys:
//
//	[api]
//	base_url = "https://nexus.example.com"
//
//	[logging]
//	level = "debug"
package config
