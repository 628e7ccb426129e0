// Package repo implements the data persistence layer for the metrics store,
// backed by GORM. This file provides the small aggregate query used for
// conditional responses (ETag generation) on the dashboard endpoint, so a
// polling dashboard that is already up to date gets a cheap 304 instead of a
// full recompute.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/e20residents/campaign-backend/internal/domain"
)

// SubmissionStats returns aggregate metadata for the metrics table: the total
// number of rows and the maximum SubmittedAt timestamp among them.
//
// When the table is empty, count is 0 and maxSubmittedAt is nil. Because the
// table is append-only (plus full reset), the (count, maxSubmittedAt) pair
// changes iff the dashboard payload would change, which makes it a sound
// ETag source.
func SubmissionStats(ctx context.Context, db *gorm.DB) (count int64, maxSubmittedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Submission{})

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest submitted_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		SubmittedAt time.Time
	}
	if err = q.Select("submitted_at").Order("submitted_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.SubmittedAt, nil
}
