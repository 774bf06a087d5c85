package authority

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/localauth/pkg/model"
)

// DefaultBatchSize is the number of rows per INSERT used by BatchInsert
const DefaultBatchSize = 1000

// BulkWriter persists harvested entries. It returns the number of entries
// written before any error.
type BulkWriter interface {
	WriteEntries(ctx context.Context, entries []model.Entry) (int, error)
}

// Ensure both strategies implement BulkWriter
var (
	_ BulkWriter = (*BatchInsert)(nil)
	_ BulkWriter = (*SequentialInsert)(nil)
)

// BatchInsert writes entries with multi-row INSERT statements
type BatchInsert struct {
	db        *gorm.DB
	batchSize int
}

// NewBatchInsert creates a BatchInsert. A non-positive size uses DefaultBatchSize.
func NewBatchInsert(db *gorm.DB, batchSize int) *BatchInsert {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &BatchInsert{db: db, batchSize: batchSize}
}

// WriteEntries inserts entries in chunks of batchSize rows
func (b *BatchInsert) WriteEntries(ctx context.Context, entries []model.Entry) (int, error) {
	written := 0
	for start := 0; start < len(entries); start += b.batchSize {
		end := start + b.batchSize
		if end > len(entries) {
			end = len(entries)
		}
		chunk := entries[start:end]
		if err := b.db.WithContext(ctx).Create(&chunk).Error; err != nil {
			return written, fmt.Errorf("failed to insert entries %d-%d: %w", start, end-1, err)
		}
		written += len(chunk)
	}
	return written, nil
}

// SequentialInsert saves entries one at a time and stops at the first failure
type SequentialInsert struct {
	db *gorm.DB
}

// NewSequentialInsert creates a SequentialInsert
func NewSequentialInsert(db *gorm.DB) *SequentialInsert {
	return &SequentialInsert{db: db}
}

// WriteEntries saves each entry with its own INSERT
func (s *SequentialInsert) WriteEntries(ctx context.Context, entries []model.Entry) (int, error) {
	for i := range entries {
		if err := s.db.WithContext(ctx).Create(&entries[i]).Error; err != nil {
			return i, fmt.Errorf("failed to save entry %d (%s): %w", i, entries[i].URI, err)
		}
	}
	return len(entries), nil
}
