// Package store defines the storage interfaces the HTTP endpoints depend on,
// so handlers can be tested with mocks.
//
//   - LookupStore: typeahead lookups, implemented by authority.Resolver
//   - HealthStore: connectivity checks, implemented by store/gorm.HealthStore
package store
