// Package server provides the HTTP server for authority lookups.
//
// It uses gorilla/mux for routing and gorilla/handlers for access logs.
// Handlers are registered by the endpoints subpackage:
//
//	srv := server.NewServer(resolver, health, logger, os.Stdout, "0.0.0.0", "8000")
//	endpoints.RegisterAll(srv)
//	log.Fatal(srv.Start())
//
// # Endpoints
//
//   - GET /authorities/search/{term}?q=&model= - typeahead lookup, JSON array of {uri, label}
//   - GET /status - database connectivity
//   - GET /metrics - Prometheus metrics, when MetricsHandler is set
package server
