package authority

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Registry binds harvested authorities to (model, term) declarations
type Registry struct {
	store  Store
	logger *slog.Logger
}

// NewRegistry creates a Registry. A nil logger uses slog.Default().
func NewRegistry(store Store, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{store: store, logger: logger}
}

// RegisterVocabulary makes authority name eligible for lookups of term under
// scope. An unknown authority is logged and ignored. Registering the same
// binding twice keeps a single binding.
func (r *Registry) RegisterVocabulary(ctx context.Context, scope Scope, term, name string) error {
	authority, err := r.store.FindAuthorityByName(ctx, name)
	if errors.Is(err, ErrAuthorityNotFound) {
		r.logger.WarnContext(ctx,
			"Unable to find a local authority in the database. You may want to "+
				"`authorityctl harvest rdf "+name+" path/to/rdf.nt` or "+
				"`authorityctl harvest tsv "+name+" path/to/data.tsv`",
			"authority", name, "term", term, "scope", scope.String())
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to look up authority %q: %w", name, err)
	}

	domainTerm, err := r.store.FindOrCreateDomainTerm(ctx, scope, term)
	if err != nil {
		return fmt.Errorf("failed to find or create domain term %s/%s: %w", scope, term, err)
	}

	attached, err := r.store.AttachAuthority(ctx, domainTerm.ID, authority.ID)
	if err != nil {
		return err
	}
	if attached {
		r.logger.InfoContext(ctx, "Registered vocabulary", "authority", name, "term", term, "scope", scope.String())
	}
	return nil
}
