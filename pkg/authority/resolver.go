package authority

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doodlesbykumbi/localauth/pkg/model"
)

// MaxResults caps every lookup
const MaxResults = 25

// DefaultSubjectTerm is the term served from the subject fast-path table
const DefaultSubjectTerm = "subject"

const (
	lookupPathSubject = "subject"
	lookupPathGeneric = "generic"
)

// Resolver answers typeahead lookups against bound authorities
type Resolver struct {
	store       Store
	subjectTerm string
	metrics     *Metrics
}

// ResolverOption configures a Resolver
type ResolverOption func(*Resolver)

// WithSubjectTerm changes which term uses the subject fast path
func WithSubjectTerm(term string) ResolverOption {
	return func(r *Resolver) {
		if term != "" {
			r.subjectTerm = term
		}
	}
}

// WithLookupMetrics records lookup metrics
func WithLookupMetrics(m *Metrics) ResolverOption {
	return func(r *Resolver) { r.metrics = m }
}

// NewResolver creates a Resolver reading from store
func NewResolver(store Store, opts ...ResolverOption) *Resolver {
	r := &Resolver{store: store, subjectTerm: DefaultSubjectTerm}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EntriesByTerm returns at most MaxResults entries whose label starts with
// query, case-insensitively. An empty query returns nil ("no input yet");
// a query with no matches, or a term with no bound authorities, returns an
// empty non-nil slice. Order is whatever the store returns.
//
// Lowercasing uses strings.ToLower; locale-specific case rules are not applied.
func (r *Resolver) EntriesByTerm(ctx context.Context, term, query string, scope Scope) ([]Hit, error) {
	if query == "" {
		return nil, nil
	}
	lowQuery := strings.ToLower(query)

	if term == r.subjectTerm {
		defer r.metrics.observeLookup(lookupPathSubject, time.Now())
		hits, err := r.store.SearchSubjects(ctx, lowQuery, MaxResults)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if hits == nil {
			hits = []Hit{}
		}
		return hits, nil
	}

	defer r.metrics.observeLookup(lookupPathGeneric, time.Now())

	domainTerm, err := r.domainTerm(ctx, scope, term)
	if errors.Is(err, ErrDomainTermNotFound) {
		return []Hit{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	ids, err := r.store.AuthorityIDs(ctx, domainTerm.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(ids) == 0 {
		return []Hit{}, nil
	}

	hits, err := r.store.SearchEntries(ctx, ids, lowQuery, MaxResults)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if hits == nil {
		hits = []Hit{}
	}
	return hits, nil
}

// domainTerm prefers the model-scoped declaration and falls back to the
// model-agnostic one. Without a model any declaration for term will do.
func (r *Resolver) domainTerm(ctx context.Context, scope Scope, term string) (*model.DomainTerm, error) {
	if scope.IsAny() {
		return r.store.FindAnyDomainTerm(ctx, term)
	}

	dt, err := r.store.FindDomainTerm(ctx, scope, term)
	if errors.Is(err, ErrDomainTermNotFound) {
		return r.store.FindDomainTerm(ctx, AnyModel(), term)
	}
	return dt, err
}
