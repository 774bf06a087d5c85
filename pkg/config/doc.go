// Package config provides configuration management for the local authority tools.
//
// # Configuration Sources
//
// Configuration is loaded from, in increasing precedence:
//
//   - Built-in defaults
//   - $LOCALAUTH_CONFIG_PATH/localauth.yml (default /etc/localauth)
//   - LOCALAUTH_* environment variables
//
// # Key Configuration Options
//
//   - LOCALAUTH_LOG_LEVEL: Logging verbosity (debug, info, warn, error)
//   - LOCALAUTH_BULK_INSERT: Write harvested entries in multi-row batches
//   - LOCALAUTH_HARVEST_BATCH_SIZE: Rows per batch insert
//   - LOCALAUTH_SUBJECT_TERM: Field served from the subject fast-path table
//   - DATABASE_URL: Database connection
package config
