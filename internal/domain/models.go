// Package domain defines the persistence model for campaign participation
// metrics. The table is an append-only log: one row per email-preparation
// event, mapped with GORM.
package domain

import "time"

// Submission is a single participation record: a resident prepared (and
// presumably sent) a campaign email. Rows are immutable once created; the
// only write operations are insert and the administrative full reset.
//
// Fields:
//   - ID: auto-increment primary key; monotonic with insertion order, used
//     as the tie-breaker for "most recent" queries.
//   - FullName: the resident's name as entered. Only ever shown redacted.
//   - Postcode: uppercase, already validated against the service-area filter
//     before any insert. Never surfaced per-row on the dashboard.
//   - Email: the resident's address; stored for campaign correspondence only.
//   - SubmittedAt: set server-side at insertion, never caller-supplied.
//   - UserAgent: optional diagnostic string from the submitting client.
//   - CustomizedTemplate: whether the message text deviated from the
//     canonical template (derived before insertion).
//   - Anonymous: display preference; when true the dashboard shows the
//     literal "Anonymous" instead of a redacted name.
type Submission struct {
	ID                 uint      `json:"id"                  gorm:"primaryKey;autoIncrement"`
	FullName           string    `json:"full_name"           gorm:"type:varchar(255);not null"`
	Postcode           string    `json:"postcode"            gorm:"type:varchar(16);not null;index"`
	Email              string    `json:"email"               gorm:"type:varchar(255);not null"`
	SubmittedAt        time.Time `json:"submitted_at"        gorm:"not null;index"`
	UserAgent          string    `json:"user_agent,omitempty" gorm:"type:varchar(512)"`
	CustomizedTemplate bool      `json:"customized_template" gorm:"not null;default:false"`
	Anonymous          bool      `json:"anonymous"           gorm:"not null;default:false"`
}

// TableName returns the database table name for Submission.
func (Submission) TableName() string { return "email_metrics" }
