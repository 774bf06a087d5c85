package endpoints

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/localauth/pkg/authority"
	"github.com/doodlesbykumbi/localauth/pkg/server"
	"github.com/doodlesbykumbi/localauth/pkg/server/store"
)

// RegisterSearchEndpoints registers the typeahead lookup endpoint
func RegisterSearchEndpoints(s *server.Server) {
	// GET /authorities/search/{term}?q=<prefix>&model=<model>
	s.Router.HandleFunc("/authorities/search/{term}", handleSearch(s.LookupStore, s.Logger)).Methods("GET")
}

func handleSearch(lookup store.LookupStore, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		term, err := unescapeVar(mux.Vars(r)["term"])
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid term")
			return
		}
		query := r.URL.Query().Get("q")
		scope := authority.ScopeOf(r.URL.Query().Get("model"))

		hits, err := lookup.EntriesByTerm(r.Context(), term, query, scope)
		if err != nil {
			logger.ErrorContext(r.Context(), "Lookup failed", "term", term, "scope", scope.String(), "error", err)
			if errors.Is(err, authority.ErrUnavailable) {
				respondWithError(w, http.StatusServiceUnavailable, "authority store unavailable")
				return
			}
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		// An empty query returns no hits; clients always get an array
		if hits == nil {
			hits = []authority.Hit{}
		}
		respondWithJSON(w, http.StatusOK, hits)
	}
}
