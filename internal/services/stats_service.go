// Package services – StatsService
//
// This file implements the dashboard aggregator: a pure computation over the
// full metrics record set producing the public statistics payload. All
// privacy rules live here (the k-anonymity gate on the postcode breakdown,
// the display-name redaction of the recent-activity feed) so nothing
// personally identifying can leak out of the read model.
//
// The snapshot is recomputed from scratch on every request. The dataset is a
// small append-only table polled at a fixed interval, so there is no cache
// and no staleness to manage: a read either fully succeeds or fully fails.
package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/e20residents/campaign-backend/internal/domain"
	"github.com/e20residents/campaign-backend/internal/postcode"
	"github.com/e20residents/campaign-backend/internal/repo"
)

// topPostcodeEntries caps the postcode breakdown once the k-anonymity gate
// opens.
const topPostcodeEntries = 5

// AnonymousDisplayName is shown for records whose owner opted out of name
// display.
const AnonymousDisplayName = "Anonymous"

// sentAtLayout renders feed timestamps as a human date, never a precise
// timestamp ("June 3, 2025"). Exact times stay internal.
const sentAtLayout = "January 2, 2006"

// PostcodeCount is one entry of the aggregate per-postcode breakdown.
type PostcodeCount struct {
	Postcode string `json:"postcode"`
	Count    int    `json:"count"`
}

// RecentEmail is one redacted entry of the recent-activity feed. It carries
// no postcode and no raw timestamp.
type RecentEmail struct {
	FullName string `json:"fullName"` // redacted display name, or "Anonymous"
	SentAt   string `json:"sentAt"`   // locale date string, not ISO
}

// DayCount is one entry of the emails-per-day series.
type DayCount struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}

// DashboardStats is the full public dashboard payload.
type DashboardStats struct {
	TotalEmailsSent      int             `json:"totalEmailsSent"`
	EmailsToday          int             `json:"emailsToday"`
	UniquePostcodesCount int             `json:"uniquePostcodesCount"`
	EmailsByPostcode     []PostcodeCount `json:"emailsByPostcode"`
	RecentEmails         []RecentEmail   `json:"recentEmails"`
	EmailsSentByDay      []DayCount      `json:"emailsSentByDay"`
}

// StatsService computes the dashboard snapshot.
type StatsService struct {
	// DB is the read handle for Snapshot; Compute itself never touches it.
	DB *gorm.DB

	// MinUniquePostcodes is the k-anonymity gate (see config.StatsConfig).
	MinUniquePostcodes int
	// RecentFeedSize caps the recent-activity feed (default 10).
	RecentFeedSize int
	// DailyWindowDays is the emails-per-day span, today inclusive (default 7).
	DailyWindowDays int
	// BackfillDays emits zero-count entries for empty days when set.
	BackfillDays bool
	// Location fixes the calendar-day boundary. Defaults to server local time.
	Location *time.Location
}

// Snapshot loads the full record set and computes the dashboard payload for
// the current moment. If the read fails, the whole computation fails; the
// dashboard shows a failure state rather than mixed stale/fresh data.
func (s *StatsService) Snapshot(ctx context.Context) (*DashboardStats, error) {
	records, err := repo.ListSubmissions(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	stats := s.Compute(records, time.Now())
	return &stats, nil
}

// Compute derives the dashboard payload from records as of now. It is a pure
// function of its inputs, which keeps every privacy rule testable without a
// database.
func (s *StatsService) Compute(records []domain.Submission, now time.Time) DashboardStats {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	stats := DashboardStats{
		TotalEmailsSent:  len(records),
		EmailsByPostcode: []PostcodeCount{},
		RecentEmails:     []RecentEmail{},
		EmailsSentByDay:  []DayCount{},
	}

	byPostcode := map[string]int{}
	byDay := map[string]int{}
	today := now.Format("2006-01-02")
	windowStart := now.AddDate(0, 0, -(s.DailyWindowDays - 1)).Format("2006-01-02")

	for _, r := range records {
		byPostcode[postcode.Normalize(r.Postcode)]++

		day := r.SubmittedAt.In(loc).Format("2006-01-02")
		if day == today {
			stats.EmailsToday++
		}
		if day >= windowStart && day <= today {
			byDay[day]++
		}
	}

	stats.UniquePostcodesCount = len(byPostcode)
	stats.EmailsByPostcode = s.postcodeBreakdown(byPostcode)
	stats.RecentEmails = s.recentFeed(records, loc)
	stats.EmailsSentByDay = s.dailySeries(byDay, now, loc)
	return stats
}

// postcodeBreakdown applies the k-anonymity gate: with fewer than
// MinUniquePostcodes distinct postcodes the breakdown is suppressed entirely,
// no matter how many total records exist. Past the gate it returns the top
// entries by count descending, postcode ascending on ties.
func (s *StatsService) postcodeBreakdown(byPostcode map[string]int) []PostcodeCount {
	if len(byPostcode) < s.MinUniquePostcodes {
		return []PostcodeCount{}
	}
	out := make([]PostcodeCount, 0, len(byPostcode))
	for pc, n := range byPostcode {
		out = append(out, PostcodeCount{Postcode: pc, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Postcode < out[j].Postcode
	})
	if len(out) > topPostcodeEntries {
		out = out[:topPostcodeEntries]
	}
	return out
}

// recentFeed returns the newest records (SubmittedAt descending, insertion ID
// breaking ties), each projected through the display-name redaction rule.
func (s *StatsService) recentFeed(records []domain.Submission, loc *time.Location) []RecentEmail {
	sorted := make([]domain.Submission, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].SubmittedAt.Equal(sorted[j].SubmittedAt) {
			return sorted[i].SubmittedAt.After(sorted[j].SubmittedAt)
		}
		return sorted[i].ID > sorted[j].ID
	})
	if len(sorted) > s.RecentFeedSize {
		sorted = sorted[:s.RecentFeedSize]
	}

	out := make([]RecentEmail, 0, len(sorted))
	for _, r := range sorted {
		name := AnonymousDisplayName
		if !r.Anonymous {
			name = DisplayName(r.FullName)
		}
		out = append(out, RecentEmail{
			FullName: name,
			SentAt:   r.SubmittedAt.In(loc).Format(sentAtLayout),
		})
	}
	return out
}

// dailySeries converts the per-day counts to a date-ascending slice. Days
// with no submissions are omitted unless BackfillDays is set, in which case
// the full window is emitted with explicit zeros.
func (s *StatsService) dailySeries(byDay map[string]int, now time.Time, loc *time.Location) []DayCount {
	out := make([]DayCount, 0, s.DailyWindowDays)
	if s.BackfillDays {
		for i := s.DailyWindowDays - 1; i >= 0; i-- {
			day := now.AddDate(0, 0, -i).Format("2006-01-02")
			out = append(out, DayCount{Date: day, Count: byDay[day]})
		}
		return out
	}
	for day, n := range byDay {
		out = append(out, DayCount{Date: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// upperCaser uppercases surname initials with British English rules.
var upperCaser = cases.Upper(language.BritishEnglish)

// DisplayName redacts a full name for public display: the first token plus
// the initial of the last token ("John Smith" -> "John S."). A single-token
// name is shown as-is ("Madonna" -> "Madonna").
func DisplayName(fullName string) string {
	tokens := strings.Fields(fullName)
	switch len(tokens) {
	case 0:
		return AnonymousDisplayName
	case 1:
		return tokens[0]
	}
	last := []rune(tokens[len(tokens)-1])
	initial := upperCaser.String(string(last[0]))
	return tokens[0] + " " + initial + "."
}
