// Package authority harvests controlled vocabularies ("local authorities") and
// resolves typed prefixes against them.
//
// An Authority is a named set of (uri, label) entries harvested once from RDF
// or TSV sources. Authorities are bound to (model, term) declarations, and a
// lookup for a term only considers the authorities bound to it. The subject
// term is served from a separate pre-lowercased table because the join path
// does not scale to its size.
//
// # Usage
//
//	store := authority.NewGormStore(db, authority.StoreOptions{BulkInsert: true, BatchSize: 1000})
//	harvester := authority.NewHarvester(store, authority.WithLogger(logger))
//	_, err := harvester.HarvestTSV(ctx, "languages", []string{"iso639.tsv"},
//	    authority.TSVOptions{Prefix: "http://id.loc.gov/vocabulary/iso639-2/"})
//
//	registry := authority.NewRegistry(store, logger)
//	err = registry.RegisterVocabulary(ctx, authority.ForModel("images"), "language", "languages")
//
//	resolver := authority.NewResolver(store)
//	hits, err := resolver.EntriesByTerm(ctx, "language", "eng", authority.ForModel("images"))
//
// Harvesting an existing name is a no-op. A harvest that fails after its
// authority row was created returns a *PartialHarvestError; the authority must
// be deleted before the name can be harvested again.
package authority
