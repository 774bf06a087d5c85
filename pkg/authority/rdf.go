package authority

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/knakk/rdf"
)

// SKOSPrefLabel is the default predicate selected during RDF harvests
const SKOSPrefLabel = "http://www.w3.org/2004/02/skos/core#prefLabel"

// Format is an RDF serialization tag
type Format string

const (
	FormatNTriples Format = "ntriples"
	FormatTurtle   Format = "turtle"
	FormatRDFXML   Format = "rdfxml"
)

// ParseFormat normalizes a serialization tag. An empty tag is N-Triples.
func ParseFormat(tag string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "", "ntriples", "nt", "n-triples":
		return FormatNTriples, nil
	case "turtle", "ttl":
		return FormatTurtle, nil
	case "rdfxml", "rdf/xml", "xml", "rdf":
		return FormatRDFXML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, tag)
	}
}

func (f Format) decoderFormat() rdf.Format {
	switch f {
	case FormatTurtle:
		return rdf.Turtle
	case FormatRDFXML:
		return rdf.RDFXML
	default:
		return rdf.NTriples
	}
}

// RDFOptions configures an RDF harvest
type RDFOptions struct {
	// Format is the serialization of every source (default N-Triples)
	Format Format
	// Predicate is the IRI whose statements become entries (default skos:prefLabel)
	Predicate string
}

func (o RDFOptions) withDefaults() (RDFOptions, error) {
	format, err := ParseFormat(string(o.Format))
	if err != nil {
		return o, err
	}
	o.Format = format
	if o.Predicate == "" {
		o.Predicate = SKOSPrefLabel
	}
	return o, nil
}

// rdfExtractor emits one entry per statement whose predicate is opts.Predicate,
// with the subject as uri and the object text as label.
func rdfExtractor(opts RDFOptions) extractFunc {
	return func(ctx context.Context, source string, r io.Reader, emit emitFunc) (int, error) {
		dec := rdf.NewTripleDecoder(r, opts.Format.decoderFormat())
		for n := 0; ; n++ {
			if n%1000 == 0 {
				if err := ctx.Err(); err != nil {
					return 0, err
				}
			}

			triple, err := dec.Decode()
			if errors.Is(err, io.EOF) {
				return 0, nil
			}
			if err != nil {
				return 0, fmt.Errorf("failed to parse %s: %w", source, err)
			}
			if triple.Pred.String() != opts.Predicate {
				continue
			}
			emit(subjectURI(triple.Subj), triple.Obj.String())
		}
	}
}

// subjectURI renders an IRI as is and a blank node in its "_:label" form
func subjectURI(subj rdf.Subject) string {
	if subj.Type() == rdf.TermBlank {
		return "_:" + subj.String()
	}
	return subj.String()
}
