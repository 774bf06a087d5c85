// Package bootstrap loads and applies declarative authority plans.
//
// A plan lists authorities to harvest and vocabularies to register, in order:
//
//	authorities:
//	  - name: lcsh
//	    format: rdf
//	    rdf_format: ntriples
//	    sources:
//	      - https://example.org/lcsh.nt
//	  - name: languages
//	    format: tsv
//	    prefix: http://id.loc.gov/vocabulary/languages/
//	    sources:
//	      - /data/languages.tsv
//	vocabularies:
//	  - model: books
//	    term: language
//	    authority: languages
//	  - term: subject
//	    authority: lcsh
//
// Apply harvests every authority, then registers every vocabulary. Harvests
// are no-ops for names that already exist, so a plan can be re-applied.
package bootstrap
