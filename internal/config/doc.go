// Package config loads claimdeck's TOML settings file.
//
// # Overview
//
// Settings live in ~/.config/claimdeck/config.toml. Every field is optional;
// a missing file is not an error and yields the built-in defaults, so the
// dashboard works against a local claims API with no setup.
//
// # Fields
//
//	api_url = "http://localhost:8001"   # claims API root
//	poll_seconds = 60                   # background refresh cadence
//	cache_seconds = 30                  # response cache freshness
//	search_delay_ms = 300               # search debounce
//	log_level = "info"                  # debug, info, warn, error
//	log_file = "~/.local/state/claimdeck/claimdeck.log"
//
// Blank strings and zero numbers fall back to the defaults. Negative numbers
// and unknown log levels are rejected by Validate. Tilde paths are expanded.
//
// # Precedence
//
// Load only reads the file. The command line layers CLAIMDECK_* environment
// variables and flags on top of the loaded Config (see internal/cli), giving
// flags > environment > file > defaults.
//
// # Errors
//
// Load returns wrapped errors for path expansion, read, parse and validation
// failures. os.ErrNotExist is swallowed.
package config
