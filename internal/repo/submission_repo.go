// Package repo implements the data persistence layer for the metrics store,
// backed by GORM. This file provides repository functions for the Submission
// model.
//
// The metrics table is an append-only log. The repository follows the "thin"
// approach: it performs persistence only, leaving validation, normalization,
// and the service-area gate to the services package.
//
// Error semantics:
//   - On DB errors (connectivity, constraints, etc.), the raw gorm error is
//     propagated; the service layer treats any repo error as a storage
//     failure that must surface to the caller rather than drop data.
//
// Functions:
//
//   - InsertSubmission(ctx, db, sub) -> *domain.Submission, error
//     Appends one row, assigning SubmittedAt server-side.
//
//   - ListSubmissions(ctx, db) -> []domain.Submission, error
//     Returns every row; ordering is left to the aggregator.
//
//   - CountSubmissions(ctx, db) -> (int64, error)
//     Total row count.
//
//   - ClearSubmissions(ctx, db) -> error
//     Administrative full reset. Irreversible.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/e20residents/campaign-backend/internal/domain"
)

// InsertSubmission appends a new participation record. SubmittedAt is always
// assigned here, server-side in UTC, regardless of any value on sub; the ID
// comes from the auto-increment key, so both are monotonic with insertion
// order. On success the persisted row is returned.
func InsertSubmission(ctx context.Context, db *gorm.DB, sub *domain.Submission) (*domain.Submission, error) {
	sub.ID = 0
	sub.SubmittedAt = time.Now().UTC()
	if err := db.WithContext(ctx).Create(sub).Error; err != nil {
		return nil, err
	}
	return sub, nil
}

// ListSubmissions returns every stored record. No ordering is imposed; the
// aggregator sorts as each statistic requires. Returns an empty slice when
// the table is empty.
func ListSubmissions(ctx context.Context, db *gorm.DB) ([]domain.Submission, error) {
	var out []domain.Submission
	err := db.WithContext(ctx).Find(&out).Error
	return out, err
}

// CountSubmissions returns the total number of stored records.
func CountSubmissions(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Submission{}).Count(&total).Error
	return total, err
}

// ClearSubmissions deletes every record. It runs as a single DELETE, so
// SQLite's write serialization guarantees it never interleaves with an
// in-flight insert. Only reachable through the admin surface.
func ClearSubmissions(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&domain.Submission{}).Error
}
