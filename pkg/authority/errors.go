package authority

import (
	"errors"
	"fmt"
)

// ErrAuthorityNotFound is returned when no authority has the requested name
var ErrAuthorityNotFound = errors.New("local authority not found")

// ErrDomainTermNotFound is returned when no (model, term) declaration matches
var ErrDomainTermNotFound = errors.New("domain term not found")

// ErrNoSources is returned when a harvest is requested without any source
var ErrNoSources = errors.New("at least one source is required")

// ErrMalformedLine matches every *MalformedLineError
var ErrMalformedLine = errors.New("malformed TSV line")

// ErrUnsupportedFormat is returned for an unknown RDF serialization tag
var ErrUnsupportedFormat = errors.New("unsupported RDF format")

// ErrUnavailable wraps store failures during lookup
var ErrUnavailable = errors.New("authority store unavailable")

// MalformedLineError reports a TSV line with fewer than three fields
type MalformedLineError struct {
	Source string
	Line   int
	Fields int
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("%s:%d: expected at least 3 tab-separated fields, got %d", e.Source, e.Line, e.Fields)
}

func (e *MalformedLineError) Is(target error) bool {
	return target == ErrMalformedLine
}

// PartialHarvestError is returned when a harvest fails after its authority row
// was created. The authority stays behind with Written entries and blocks any
// later harvest under the same name until it is deleted.
type PartialHarvestError struct {
	Authority string
	Written   int
	Err       error
}

func (e *PartialHarvestError) Error() string {
	return fmt.Sprintf("harvest of %q left a partial authority (%d entries written), delete it before retrying: %v",
		e.Authority, e.Written, e.Err)
}

func (e *PartialHarvestError) Unwrap() error {
	return e.Err
}
