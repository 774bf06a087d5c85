package bootstrap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/localauth/pkg/authority"
)

const (
	FormatRDF = "rdf"
	FormatTSV = "tsv"
)

// Plan is a bootstrap file
type Plan struct {
	Authorities  []AuthoritySpec  `yaml:"authorities"`
	Vocabularies []VocabularySpec `yaml:"vocabularies"`
}

// AuthoritySpec describes one harvest
type AuthoritySpec struct {
	Name    string   `yaml:"name"`
	Format  string   `yaml:"format"`
	Sources []string `yaml:"sources"`

	// RDF only
	RDFFormat string `yaml:"rdf_format,omitempty"`
	Predicate string `yaml:"predicate,omitempty"`

	// TSV only
	Prefix        string `yaml:"prefix,omitempty"`
	SkipMalformed bool   `yaml:"skip_malformed,omitempty"`
}

// VocabularySpec binds an authority to a term. An empty Model applies to any model.
type VocabularySpec struct {
	Model     string `yaml:"model,omitempty"`
	Term      string `yaml:"term"`
	Authority string `yaml:"authority"`
}

// Scope returns the binding scope of the vocabulary
func (v VocabularySpec) Scope() authority.Scope {
	return authority.ScopeOf(v.Model)
}

// Load decodes and validates a plan. Unknown keys are rejected.
func Load(r io.Reader) (*Plan, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var plan Plan
	if err := dec.Decode(&plan); err != nil {
		if errors.Is(err, io.EOF) {
			return &plan, nil
		}
		return nil, fmt.Errorf("failed to parse bootstrap plan: %w", err)
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	return &plan, nil
}

// LoadFile reads a plan from path
func LoadFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bootstrap plan: %w", err)
	}
	return Load(bytes.NewReader(data))
}

// Validate checks every entry of the plan and reports all problems at once
func (p *Plan) Validate() error {
	var errs []error
	seen := make(map[string]bool)

	for i, a := range p.Authorities {
		at := fmt.Sprintf("authorities[%d]", i)
		if a.Name == "" {
			errs = append(errs, fmt.Errorf("%s: name is required", at))
		} else if seen[a.Name] {
			errs = append(errs, fmt.Errorf("%s: duplicate authority %q", at, a.Name))
		}
		seen[a.Name] = true

		switch a.Format {
		case FormatRDF:
			if _, err := authority.ParseFormat(a.RDFFormat); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", at, err))
			}
		case FormatTSV:
		default:
			errs = append(errs, fmt.Errorf("%s: format must be %q or %q, got %q", at, FormatRDF, FormatTSV, a.Format))
		}

		if len(a.Sources) == 0 {
			errs = append(errs, fmt.Errorf("%s: %w", at, authority.ErrNoSources))
		}
	}

	for i, v := range p.Vocabularies {
		at := fmt.Sprintf("vocabularies[%d]", i)
		if v.Term == "" {
			errs = append(errs, fmt.Errorf("%s: term is required", at))
		}
		if v.Authority == "" {
			errs = append(errs, fmt.Errorf("%s: authority is required", at))
		}
	}

	return errors.Join(errs...)
}
