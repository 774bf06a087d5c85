// Package model defines the database models for local authorities.
//
// # Core Models
//
//   - Authority: a named controlled vocabulary
//   - Entry: one (uri, label) pair owned by an Authority
//   - SubjectEntry: denormalized subject vocabulary row with a precomputed lowercase label
//   - DomainTerm: a (model, term) declaration that authorities are bound to
//   - DomainTermAuthority: the join row between DomainTerm and Authority
//
// # Database Schema
//
//   - local_authorities: vocabularies, unique by name
//   - local_authority_entries: harvested entries, cascade-deleted with their authority
//   - subject_local_authority_entries: fast-path subject entries (read-only here)
//   - domain_terms: (model, term) declarations; a NULL model means any model
//   - domain_terms_local_authorities: binding join, primary key on both ids
package model
