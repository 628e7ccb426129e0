// Package services – MetricsService
//
// This file implements the MetricsService, the single write path into the
// metrics store. It re-validates the submission shape even though the form
// validates first, applies the shared service-area filter so no
// out-of-area record is ever persisted, normalizes the postcode, derives the
// customized-template flag, and appends the record.
//
// Service-level errors (ErrNameRequired, ErrOutsideServiceArea, ...) are
// returned for predictable cases so handlers can map them to HTTP results
// consistently; anything else is a storage failure.
package services

import (
	"context"
	"fmt"
	"math/rand"
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/e20residents/campaign-backend/internal/campaign"
	"github.com/e20residents/campaign-backend/internal/domain"
	"github.com/e20residents/campaign-backend/internal/postcode"
	"github.com/e20residents/campaign-backend/internal/repo"
)

// emailRE is a deliberately loose syntactic check: something before an "@",
// something after, and a dot in the domain part.
var emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateSubmitter checks the resident identity fields shared by every
// endpoint that accepts a submission: required fields, email syntax, then the
// campaign area filter. Returns the first matching validation sentinel.
func ValidateSubmitter(fullName, pc, email, areaPrefix string) error {
	switch {
	case strings.TrimSpace(fullName) == "":
		return ErrNameRequired
	case postcode.Normalize(pc) == "":
		return ErrPostcodeRequired
	case strings.TrimSpace(email) == "":
		return ErrEmailRequired
	case !emailRE.MatchString(strings.TrimSpace(email)):
		return ErrEmailInvalid
	case !postcode.IsInServiceArea(areaPrefix, pc):
		return ErrOutsideServiceArea
	}
	return nil
}

// SubmissionInput is the validated-upstream payload the write path accepts.
// SubmittedAt and ID are never accepted from the caller.
type SubmissionInput struct {
	FullName  string
	Postcode  string
	Email     string
	Content   string // the message text the resident is sending
	Anonymous bool
	UserAgent string
}

// MetricsService owns the append-only write path of the metrics store.
type MetricsService struct {
	// DB is the database handle used for all metric writes.
	DB *gorm.DB
	// AreaPrefix is the campaign's postcode area (e.g. "E20").
	AreaPrefix string
}

// Record validates in, derives the customized-template flag, and appends one
// participation record.
//
// Validation order: required fields, then email syntax, then the area
// filter. The postcode is persisted normalized (uppercase). The returned
// record carries the server-assigned ID and SubmittedAt.
//
// Errors: one of the validation sentinels for client-fixable input, or the
// raw DB error when persistence fails (the caller must surface that as a
// retryable failure, not drop the record silently).
func (s *MetricsService) Record(ctx context.Context, in SubmissionInput) (*domain.Submission, error) {
	name := strings.TrimSpace(in.FullName)
	pc := postcode.Normalize(in.Postcode)
	email := strings.TrimSpace(in.Email)

	if err := ValidateSubmitter(name, pc, email, s.AreaPrefix); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, ErrContentRequired
	}

	sub := &domain.Submission{
		FullName:           name,
		Postcode:           pc,
		Email:              email,
		UserAgent:          in.UserAgent,
		CustomizedTemplate: campaign.IsCustomized(in.Content, name, pc, email),
		Anonymous:          in.Anonymous,
	}
	return repo.InsertSubmission(ctx, s.DB, sub)
}

// ClearAll removes every record from the metrics store. Administrative and
// irreversible; only the admin surface may reach it.
func (s *MetricsService) ClearAll(ctx context.Context) error {
	return repo.ClearSubmissions(ctx, s.DB)
}

// seedNames mirrors the demo fixtures the dashboard was originally
// exercised with.
var seedNames = []string{
	"John Smith", "Sarah Johnson", "Alex Williams",
	"Emma Brown", "Michael Davis", "Olivia Wilson",
	"Thomas Martin", "Sophie Taylor", "James Anderson",
}

// Seed inserts n synthetic records for development dashboards. Every seeded
// row goes through Record, so the area filter and normalization apply to
// fixtures exactly as they do to real submissions.
func (s *MetricsService) Seed(ctx context.Context, n int) ([]domain.Submission, error) {
	inwards := []string{"1AA", "2BB", "3CC", "4DD", "5EE"}
	out := make([]domain.Submission, 0, n)
	for i := 0; i < n; i++ {
		name := seedNames[rand.Intn(len(seedNames))]
		pc := fmt.Sprintf("%s %s", s.AreaPrefix, inwards[rand.Intn(len(inwards))])
		email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"
		content := campaign.Personalize(name, pc, email)
		if rand.Intn(2) == 0 {
			content += "\n\nP.S. My own phone was snatched last month."
		}
		sub, err := s.Record(ctx, SubmissionInput{
			FullName:  name,
			Postcode:  pc,
			Email:     email,
			Content:   content,
			Anonymous: rand.Intn(2) == 0,
			UserAgent: "seed",
		})
		if err != nil {
			return out, err
		}
		out = append(out, *sub)
	}
	return out, nil
}
