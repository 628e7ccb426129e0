package services

import (
	"context"
	"errors"
	"testing"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/e20residents/campaign-backend/internal/campaign"
	"github.com/e20residents/campaign-backend/internal/domain"
)

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Submission{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func validInput() SubmissionInput {
	return SubmissionInput{
		FullName: "John Smith",
		Postcode: "e20 1aa",
		Email:    "john@example.com",
		Content:  campaign.Personalize("John Smith", "E20 1AA", "john@example.com"),
	}
}

func TestRecord_Success(t *testing.T) {
	svc := &MetricsService{DB: newServiceDB(t), AreaPrefix: "E20"}

	got, err := svc.Record(context.Background(), validInput())
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got.ID == 0 {
		t.Errorf("ID not assigned")
	}
	if got.Postcode != "E20 1AA" {
		t.Errorf("Postcode = %q, want normalized E20 1AA", got.Postcode)
	}
	if got.SubmittedAt.IsZero() {
		t.Errorf("SubmittedAt not assigned")
	}
}

func TestRecord_ValidationSentinels(t *testing.T) {
	svc := &MetricsService{DB: newServiceDB(t), AreaPrefix: "E20"}
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*SubmissionInput)
		want   error
	}{
		{"blank name", func(in *SubmissionInput) { in.FullName = "   " }, ErrNameRequired},
		{"blank postcode", func(in *SubmissionInput) { in.Postcode = "" }, ErrPostcodeRequired},
		{"blank email", func(in *SubmissionInput) { in.Email = " " }, ErrEmailRequired},
		{"bad email", func(in *SubmissionInput) { in.Email = "not-an-email" }, ErrEmailInvalid},
		{"no at-domain dot", func(in *SubmissionInput) { in.Email = "a@b" }, ErrEmailInvalid},
		{"blank content", func(in *SubmissionInput) { in.Content = "\n " }, ErrContentRequired},
		{"outside area", func(in *SubmissionInput) { in.Postcode = "SW1A 1AA" }, ErrOutsideServiceArea},
		{"area prefix only", func(in *SubmissionInput) { in.Postcode = "E20" }, ErrOutsideServiceArea},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			_, err := svc.Record(ctx, in)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if !IsValidation(err) {
				t.Errorf("IsValidation(%v) = false", err)
			}
		})
	}

	// No partial writes from rejected submissions.
	var n int64
	svc.DB.Model(&domain.Submission{}).Count(&n)
	if n != 0 {
		t.Fatalf("rejected submissions were persisted: %d rows", n)
	}
}

func TestRecord_CustomizedFlag(t *testing.T) {
	svc := &MetricsService{DB: newServiceDB(t), AreaPrefix: "E20"}
	ctx := context.Background()

	unedited, err := svc.Record(ctx, validInput())
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if unedited.CustomizedTemplate {
		t.Errorf("unedited template flagged as customized")
	}

	in := validInput()
	in.Content += "\n\nI saw three thefts this week alone."
	edited, err := svc.Record(ctx, in)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !edited.CustomizedTemplate {
		t.Errorf("edited content not flagged as customized")
	}
}

func TestRecord_StorageError(t *testing.T) {
	// DB without the table: a storage failure, not a validation error.
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	svc := &MetricsService{DB: db, AreaPrefix: "E20"}

	_, err = svc.Record(context.Background(), validInput())
	if err == nil {
		t.Fatalf("expected storage error")
	}
	if IsValidation(err) {
		t.Fatalf("storage error misclassified as validation: %v", err)
	}
}

func TestClearAll(t *testing.T) {
	svc := &MetricsService{DB: newServiceDB(t), AreaPrefix: "E20"}
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := svc.Record(ctx, validInput()); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if err := svc.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}

	var n int64
	svc.DB.Model(&domain.Submission{}).Count(&n)
	if n != 0 {
		t.Fatalf("store not empty after ClearAll: %d rows", n)
	}
}

func TestSeed_InsertsInAreaRecords(t *testing.T) {
	svc := &MetricsService{DB: newServiceDB(t), AreaPrefix: "E20"}

	rows, err := svc.Seed(context.Background(), 12)
	if err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if len(rows) != 12 {
		t.Fatalf("Seed inserted %d rows, want 12", len(rows))
	}
	for _, r := range rows {
		if got := r.Postcode[:3]; got != "E20" {
			t.Errorf("seeded postcode %q outside area", r.Postcode)
		}
		if r.ID == 0 || r.SubmittedAt.IsZero() {
			t.Errorf("seeded row missing server fields: %+v", r)
		}
	}
}

func TestValidateSubmitter(t *testing.T) {
	if err := ValidateSubmitter("John Smith", "E20 1AA", "john@example.com", "E20"); err != nil {
		t.Fatalf("valid submitter rejected: %v", err)
	}
	if err := ValidateSubmitter("John Smith", "SW1A 1AA", "john@example.com", "E20"); !errors.Is(err, ErrOutsideServiceArea) {
		t.Fatalf("err = %v, want ErrOutsideServiceArea", err)
	}
}
