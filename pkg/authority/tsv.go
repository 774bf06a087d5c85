package authority

import (
	"bufio"
	"context"
	"errors"
	"io"
	"strings"
)

// TSVOptions configures a TSV harvest
type TSVOptions struct {
	// Prefix is prepended to the identifier column to build each uri
	Prefix string
	// SkipMalformed skips lines with fewer than three fields instead of failing
	SkipMalformed bool
}

// tsvExtractor reads "id<TAB>code<TAB>label" lines. The code column is ignored;
// uri is Prefix + id + "/".
func tsvExtractor(opts TSVOptions, onSkip func(*MalformedLineError)) extractFunc {
	return func(ctx context.Context, source string, r io.Reader, emit emitFunc) (int, error) {
		reader := bufio.NewReader(r)
		skipped := 0
		for lineNo := 1; ; lineNo++ {
			if err := ctx.Err(); err != nil {
				return skipped, err
			}

			line, err := reader.ReadString('\n')
			if err != nil && !errors.Is(err, io.EOF) {
				return skipped, err
			}
			if line == "" && errors.Is(err, io.EOF) {
				return skipped, nil
			}

			// Blank lines have one field and are malformed like any other short line
			fields := splitTSV(strings.TrimRight(line, "\r\n"))
			if len(fields) < 3 {
				malformed := &MalformedLineError{Source: source, Line: lineNo, Fields: len(fields)}
				if !opts.SkipMalformed {
					return skipped, malformed
				}
				skipped++
				if onSkip != nil {
					onSkip(malformed)
				}
			} else {
				emit(opts.Prefix+fields[0]+"/", fields[2])
			}

			if errors.Is(err, io.EOF) {
				return skipped, nil
			}
		}
	}
}

// splitTSV splits on tabs. Empty fields count, so "a\tb\t" has three fields
// and "" has one.
func splitTSV(line string) []string {
	return strings.Split(line, "\t")
}
