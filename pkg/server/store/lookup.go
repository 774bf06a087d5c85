package store

import (
	"context"

	"github.com/doodlesbykumbi/localauth/pkg/authority"
)

// LookupStore answers typeahead lookups
type LookupStore interface {
	// EntriesByTerm returns at most authority.MaxResults hits whose label starts with query
	EntriesByTerm(ctx context.Context, term, query string, scope authority.Scope) ([]authority.Hit, error)
}

var _ LookupStore = (*authority.Resolver)(nil)
