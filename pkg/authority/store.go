package authority

import (
	"context"
	"time"

	"github.com/doodlesbykumbi/localauth/pkg/model"
)

// Hit is a lookup candidate. Both the subject and the generic path return it.
type Hit struct {
	URI   string `json:"uri"`
	Label string `json:"label"`
}

// AuthoritySummary describes a harvested authority
type AuthoritySummary struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Entries   int64     `json:"entries"`
}

// Store abstracts the storage operations for authorities, entries and bindings.
// This allows the harvester, registry and resolver to work with different
// backends (e.g., database, in-memory fake for testing).
type Store interface {
	// Transaction wraps operations in a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Transaction(ctx context.Context, fn func(Store) error) error

	// FindAuthorityByName returns ErrAuthorityNotFound when the name is unknown.
	FindAuthorityByName(ctx context.Context, name string) (*model.Authority, error)

	// CreateAuthority inserts a new authority row.
	CreateAuthority(ctx context.Context, name string) (*model.Authority, error)

	// DeleteAuthority removes an authority with its entries and bindings.
	DeleteAuthority(ctx context.Context, name string) error

	// ListAuthorities returns every authority with its entry count, by name.
	ListAuthorities(ctx context.Context) ([]AuthoritySummary, error)

	// FindDomainTerm returns the declaration matching scope exactly; AnyModel
	// matches only the model-agnostic declaration.
	FindDomainTerm(ctx context.Context, scope Scope, term string) (*model.DomainTerm, error)

	// FindAnyDomainTerm returns a declaration for term under any model,
	// preferring the model-agnostic one.
	FindAnyDomainTerm(ctx context.Context, term string) (*model.DomainTerm, error)

	// FindOrCreateDomainTerm returns the declaration for scope, creating it if needed.
	FindOrCreateDomainTerm(ctx context.Context, scope Scope, term string) (*model.DomainTerm, error)

	// AttachAuthority binds an authority to a declaration. It reports false if
	// the binding already existed.
	AttachAuthority(ctx context.Context, domainTermID, authorityID int64) (bool, error)

	// AuthorityIDs returns the ids of authorities bound to a declaration.
	AuthorityIDs(ctx context.Context, domainTermID int64) ([]int64, error)

	// SearchEntries returns up to limit entries of the given authorities whose
	// lowercased label starts with lowPrefix.
	SearchEntries(ctx context.Context, authorityIDs []int64, lowPrefix string, limit int) ([]Hit, error)

	// SearchSubjects returns up to limit subject entries whose precomputed
	// lowercase label starts with lowPrefix.
	SearchSubjects(ctx context.Context, lowPrefix string, limit int) ([]Hit, error)

	// Writer returns the entry writer chosen when the store was built.
	Writer() BulkWriter

	// Ping verifies connectivity.
	Ping(ctx context.Context) error
}
