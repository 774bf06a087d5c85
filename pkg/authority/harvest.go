package authority

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/doodlesbykumbi/localauth/pkg/model"
)

const (
	harvestOutcomeCreated = "created"
	harvestOutcomeExists  = "exists"
	harvestOutcomeFailed  = "failed"
)

type emitFunc func(uri, label string)

// extractFunc reads one source and emits its entries in source order.
// It returns the number of skipped records.
type extractFunc func(ctx context.Context, source string, r io.Reader, emit emitFunc) (int, error)

// HarvestResult describes the outcome of a harvest call
type HarvestResult struct {
	// Authority is the new authority, or the existing one when Created is false
	Authority *model.Authority
	// Created is false when the name was already harvested and nothing was done
	Created bool
	// Entries is the number of entries written
	Entries int
	// Skipped counts malformed TSV lines skipped under TSVOptions.SkipMalformed
	Skipped int
}

// Harvester ingests entries from external sources into new authorities
type Harvester struct {
	store   Store
	opener  Opener
	logger  *slog.Logger
	metrics *Metrics
	atomic  bool
}

// HarvesterOption configures a Harvester
type HarvesterOption func(*Harvester)

// WithOpener sets how source locations are opened
func WithOpener(o Opener) HarvesterOption {
	return func(h *Harvester) { h.opener = o }
}

// WithLogger sets the harvester logger
func WithLogger(l *slog.Logger) HarvesterOption {
	return func(h *Harvester) { h.logger = l }
}

// WithMetrics records harvest metrics
func WithMetrics(m *Metrics) HarvesterOption {
	return func(h *Harvester) { h.metrics = m }
}

// WithAtomic runs authority creation and entry writes in one transaction, so
// a failed harvest leaves no authority behind.
func WithAtomic(atomic bool) HarvesterOption {
	return func(h *Harvester) { h.atomic = atomic }
}

// NewHarvester creates a Harvester writing to store
func NewHarvester(store Store, opts ...HarvesterOption) *Harvester {
	h := &Harvester{
		store:  store,
		opener: NewSourceOpener(5 * time.Minute),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HarvestRDF creates authority name from the statements of sources whose
// predicate matches opts.Predicate. It is a no-op if name already exists.
func (h *Harvester) HarvestRDF(ctx context.Context, name string, sources []string, opts RDFOptions) (*HarvestResult, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}
	return h.harvest(ctx, name, sources, "rdf:"+string(opts.Format), rdfExtractor(opts))
}

// HarvestTSV creates authority name from tab-separated sources. It is a no-op
// if name already exists.
func (h *Harvester) HarvestTSV(ctx context.Context, name string, sources []string, opts TSVOptions) (*HarvestResult, error) {
	onSkip := func(e *MalformedLineError) {
		h.logger.WarnContext(ctx, "Skipping malformed TSV line",
			"authority", name, "source", e.Source, "line", e.Line, "fields", e.Fields)
	}
	return h.harvest(ctx, name, sources, "tsv", tsvExtractor(opts, onSkip))
}

func (h *Harvester) harvest(ctx context.Context, name string, sources []string, format string, extract extractFunc) (*HarvestResult, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	existing, err := h.store.FindAuthorityByName(ctx, name)
	if err == nil {
		h.logger.InfoContext(ctx, "Authority already harvested, skipping", "authority", name)
		h.metrics.observeHarvest(format, harvestOutcomeExists, 0)
		return &HarvestResult{Authority: existing}, nil
	}
	if !errors.Is(err, ErrAuthorityNotFound) {
		return nil, fmt.Errorf("failed to look up authority %q: %w", name, err)
	}

	var result *HarvestResult
	fill := func(store Store) error {
		var err error
		result, err = h.fill(ctx, store, name, sources, extract)
		return err
	}

	if h.atomic {
		err = h.store.Transaction(ctx, fill)
		var partial *PartialHarvestError
		if errors.As(err, &partial) {
			result = nil
			err = fmt.Errorf("harvest of %q rolled back: %w", name, partial.Err)
		}
	} else {
		err = fill(h.store)
	}

	if err != nil {
		written := 0
		if result != nil {
			written = result.Entries
		}
		h.metrics.observeHarvest(format, harvestOutcomeFailed, written)
		h.logger.ErrorContext(ctx, "Harvest failed", "authority", name, "format", format, "error", err)
		return result, err
	}

	h.metrics.observeHarvest(format, harvestOutcomeCreated, result.Entries)
	h.logger.InfoContext(ctx, "Harvested authority",
		"authority", name, "format", format, "sources", len(sources),
		"entries", result.Entries, "skipped", result.Skipped)
	return result, nil
}

// fill creates the authority, reads every source in order, then writes all
// entries in one batch.
func (h *Harvester) fill(ctx context.Context, store Store, name string, sources []string, extract extractFunc) (*HarvestResult, error) {
	authority, err := store.CreateAuthority(ctx, name)
	if err != nil {
		return nil, err
	}
	result := &HarvestResult{Authority: authority, Created: true}

	var entries []model.Entry
	emit := func(uri, label string) {
		entries = append(entries, model.Entry{AuthorityID: authority.ID, URI: uri, Label: label})
	}

	for _, source := range sources {
		skipped, err := h.readSource(ctx, source, extract, emit)
		result.Skipped += skipped
		if err != nil {
			return result, &PartialHarvestError{Authority: name, Err: err}
		}
	}

	written, err := store.Writer().WriteEntries(ctx, entries)
	result.Entries = written
	if err != nil {
		return result, &PartialHarvestError{Authority: name, Written: written, Err: err}
	}
	return result, nil
}

func (h *Harvester) readSource(ctx context.Context, source string, extract extractFunc, emit emitFunc) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	rc, err := h.opener.Open(ctx, source)
	if err != nil {
		return 0, fmt.Errorf("failed to open source %s: %w", source, err)
	}
	defer func() { _ = rc.Close() }()

	h.logger.DebugContext(ctx, "Reading source", "source", source)
	return extract(ctx, source, rc, emit)
}
