package authority

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/doodlesbykumbi/localauth/pkg/model"
)

// Ensure GormStore implements Store
var _ Store = (*GormStore)(nil)

// StoreOptions configures a GormStore
type StoreOptions struct {
	// BulkInsert selects BatchInsert; otherwise SequentialInsert is used
	BulkInsert bool
	// BatchSize is the number of rows per INSERT in bulk mode
	BatchSize int
}

// GormStore implements Store using GORM for database operations.
type GormStore struct {
	db     *gorm.DB
	opts   StoreOptions
	writer BulkWriter
}

// NewGormStore creates a new GormStore. The entry writer strategy is fixed here.
func NewGormStore(db *gorm.DB, opts StoreOptions) *GormStore {
	return newGormStore(db, opts)
}

func newGormStore(db *gorm.DB, opts StoreOptions) *GormStore {
	s := &GormStore{db: db, opts: opts}
	if opts.BulkInsert {
		s.writer = NewBatchInsert(db, opts.BatchSize)
	} else {
		s.writer = NewSequentialInsert(db)
	}
	return s
}

// Transaction wraps operations in a database transaction.
func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newGormStore(tx, s.opts))
	})
}

// Writer returns the entry writer bound to this store's connection
func (s *GormStore) Writer() BulkWriter {
	return s.writer
}

// FindAuthorityByName looks up an authority by its unique name
func (s *GormStore) FindAuthorityByName(ctx context.Context, name string) (*model.Authority, error) {
	var authority model.Authority
	err := s.db.WithContext(ctx).Where("name = ?", name).Take(&authority).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorityNotFound
		}
		return nil, err
	}
	return &authority, nil
}

// CreateAuthority inserts a new authority row
func (s *GormStore) CreateAuthority(ctx context.Context, name string) (*model.Authority, error) {
	authority := model.Authority{Name: name}
	if err := s.db.WithContext(ctx).Create(&authority).Error; err != nil {
		return nil, fmt.Errorf("failed to create authority: %w", err)
	}
	return &authority, nil
}

// DeleteAuthority removes an authority. Entries and bindings cascade in the schema.
func (s *GormStore) DeleteAuthority(ctx context.Context, name string) error {
	result := s.db.WithContext(ctx).Where("name = ?", name).Delete(&model.Authority{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAuthorityNotFound
	}
	return nil
}

// ListAuthorities returns every authority with its entry count
func (s *GormStore) ListAuthorities(ctx context.Context) ([]AuthoritySummary, error) {
	var rows []AuthoritySummary
	err := s.db.WithContext(ctx).Raw(`
		SELECT a.name AS name, a.created_at AS created_at, count(e.id) AS entries
		FROM local_authorities a
		LEFT JOIN local_authority_entries e ON e.local_authority_id = a.id
		GROUP BY a.id, a.name, a.created_at
		ORDER BY a.name
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindDomainTerm returns the declaration for exactly this scope and term
func (s *GormStore) FindDomainTerm(ctx context.Context, scope Scope, term string) (*model.DomainTerm, error) {
	query := s.db.WithContext(ctx).Where("term = ?", term)
	if name, ok := scope.Model(); ok {
		query = query.Where("model = ?", name)
	} else {
		query = query.Where("model IS NULL")
	}

	var dt model.DomainTerm
	if err := query.Take(&dt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDomainTermNotFound
		}
		return nil, err
	}
	return &dt, nil
}

// FindAnyDomainTerm returns a declaration for term, model-agnostic first
func (s *GormStore) FindAnyDomainTerm(ctx context.Context, term string) (*model.DomainTerm, error) {
	var dt model.DomainTerm
	err := s.db.WithContext(ctx).
		Where("term = ?", term).
		Order("model IS NOT NULL").
		Order("id").
		Take(&dt).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDomainTermNotFound
		}
		return nil, err
	}
	return &dt, nil
}

// FindOrCreateDomainTerm returns the declaration for scope and term, creating it if needed
func (s *GormStore) FindOrCreateDomainTerm(ctx context.Context, scope Scope, term string) (*model.DomainTerm, error) {
	dt, err := s.FindDomainTerm(ctx, scope, term)
	if err == nil {
		return dt, nil
	}
	if !errors.Is(err, ErrDomainTermNotFound) {
		return nil, err
	}

	created := model.DomainTerm{Term: term}
	if name, ok := scope.Model(); ok {
		created.Model = &name
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&created)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to create domain term: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Lost a race with a concurrent registration
		return s.FindDomainTerm(ctx, scope, term)
	}
	return &created, nil
}

// AttachAuthority binds an authority to a declaration if it is not bound yet
func (s *GormStore) AttachAuthority(ctx context.Context, domainTermID, authorityID int64) (bool, error) {
	binding := model.DomainTermAuthority{DomainTermID: domainTermID, AuthorityID: authorityID}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&binding)
	if result.Error != nil {
		return false, fmt.Errorf("failed to attach authority: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// AuthorityIDs returns the ids of authorities bound to a declaration
func (s *GormStore) AuthorityIDs(ctx context.Context, domainTermID int64) ([]int64, error) {
	var ids []int64
	err := s.db.WithContext(ctx).
		Model(&model.DomainTermAuthority{}).
		Where("domain_term_id = ?", domainTermID).
		Pluck("local_authority_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// SearchEntries prefix-matches lower(label) within the given authorities
func (s *GormStore) SearchEntries(ctx context.Context, authorityIDs []int64, lowPrefix string, limit int) ([]Hit, error) {
	if len(authorityIDs) == 0 {
		return nil, nil
	}

	var entries []model.Entry
	err := s.db.WithContext(ctx).
		Select("uri", "label").
		Where("local_authority_id IN ? AND lower(label) LIKE ?", authorityIDs, likePrefix(lowPrefix)).
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(entries))
	for _, e := range entries {
		hits = append(hits, Hit{URI: e.URI, Label: e.Label})
	}
	return hits, nil
}

// SearchSubjects prefix-matches the precomputed lower_label of the subject table
func (s *GormStore) SearchSubjects(ctx context.Context, lowPrefix string, limit int) ([]Hit, error) {
	var subjects []model.SubjectEntry
	err := s.db.WithContext(ctx).
		Where("lower_label LIKE ?", likePrefix(lowPrefix)).
		Limit(limit).
		Find(&subjects).Error
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(subjects))
	for _, e := range subjects {
		hits = append(hits, Hit{URI: e.URL, Label: e.Label})
	}
	return hits, nil
}

// Ping verifies database connectivity
func (s *GormStore) Ping(ctx context.Context) error {
	return s.db.WithContext(ctx).Exec("SELECT 1").Error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePrefix builds a LIKE pattern matching values that start with prefix.
// Wildcards typed by the user are matched literally.
func likePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}
