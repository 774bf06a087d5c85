package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/doodlesbykumbi/localauth/pkg/authority"
)

// Harvester is the part of authority.Harvester a plan needs
type Harvester interface {
	HarvestRDF(ctx context.Context, name string, sources []string, opts authority.RDFOptions) (*authority.HarvestResult, error)
	HarvestTSV(ctx context.Context, name string, sources []string, opts authority.TSVOptions) (*authority.HarvestResult, error)
}

// Registrar is the part of authority.Registry a plan needs
type Registrar interface {
	RegisterVocabulary(ctx context.Context, scope authority.Scope, term, name string) error
}

var (
	_ Harvester = (*authority.Harvester)(nil)
	_ Registrar = (*authority.Registry)(nil)
)

// Report summarizes an Apply run
type Report struct {
	Created    []string
	Existing   []string
	Registered int
}

// Apply harvests the plan's authorities then registers its vocabularies, in
// file order. It stops at the first error.
func Apply(ctx context.Context, plan *Plan, h Harvester, r Registrar, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	report := &Report{}

	for _, a := range plan.Authorities {
		result, err := harvest(ctx, h, a)
		if err != nil {
			return report, fmt.Errorf("failed to harvest %q: %w", a.Name, err)
		}
		if result.Created {
			report.Created = append(report.Created, a.Name)
		} else {
			report.Existing = append(report.Existing, a.Name)
		}
	}

	for _, v := range plan.Vocabularies {
		if err := r.RegisterVocabulary(ctx, v.Scope(), v.Term, v.Authority); err != nil {
			return report, fmt.Errorf("failed to register %s/%s: %w", v.Scope(), v.Term, err)
		}
		report.Registered++
	}

	logger.InfoContext(ctx, "Applied bootstrap plan",
		"created", len(report.Created), "existing", len(report.Existing), "vocabularies", report.Registered)
	return report, nil
}

func harvest(ctx context.Context, h Harvester, a AuthoritySpec) (*authority.HarvestResult, error) {
	switch a.Format {
	case FormatRDF:
		return h.HarvestRDF(ctx, a.Name, a.Sources, authority.RDFOptions{
			Format:    authority.Format(a.RDFFormat),
			Predicate: a.Predicate,
		})
	case FormatTSV:
		return h.HarvestTSV(ctx, a.Name, a.Sources, authority.TSVOptions{
			Prefix:        a.Prefix,
			SkipMalformed: a.SkipMalformed,
		})
	default:
		return nil, fmt.Errorf("unknown format %q", a.Format)
	}
}
