package server

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/localauth/pkg/server/store"
)

type Server struct {
	Router      *mux.Router
	LookupStore store.LookupStore
	HealthStore store.HealthStore
	// MetricsHandler serves /metrics when set
	MetricsHandler http.Handler
	Logger         *slog.Logger
	srv            *http.Server
}

func NewServer(
	lookup store.LookupStore,
	health store.HealthStore,
	logger *slog.Logger,
	accessLog io.Writer,
	host string,
	port string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler:      handlers.LoggingHandler(accessLog, router),
		Addr:         host + ":" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:      router,
		LookupStore: lookup,
		HealthStore: health,
		Logger:      logger,
		srv:         srv,
	}
}

func (s *Server) Addr() string {
	return s.srv.Addr
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx is done
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
