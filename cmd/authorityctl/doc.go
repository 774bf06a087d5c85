// Command authorityctl harvests local authorities, binds them to metadata
// fields, and serves typeahead lookups.
//
// # Quick Start
//
//	# Create the schema
//	authorityctl db migrate
//
//	# Harvest vocabularies
//	authorityctl harvest rdf lcsh ./subjects.nt
//	authorityctl harvest tsv languages ./languages.tsv --prefix http://id.loc.gov/vocabulary/languages/
//
//	# Bind them to fields
//	authorityctl vocabulary register language languages --model books
//
//	# Query
//	authorityctl lookup language eng --model books
//	authorityctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - LOCALAUTH_CONFIG_PATH: directory holding localauth.yml (default: /etc/localauth)
//   - LOCALAUTH_LOG_LEVEL: Log level (debug, info, warn, error)
//   - LOCALAUTH_MIGRATIONS_PATH: migrations directory for non-embedded builds
//   - PORT: Server port (default: 8000)
//   - BIND_ADDRESS: Server bind address (default: 0.0.0.0)
package main
