package repo

import (
	"context"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/e20residents/campaign-backend/internal/domain"
)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func sampleSubmission(name, pc string) *domain.Submission {
	return &domain.Submission{
		FullName: name,
		Postcode: pc,
		Email:    "someone@example.com",
	}
}

func TestInsertSubmission_AssignsServerFields(t *testing.T) {
	db := newTestDB(t, &domain.Submission{})
	start := time.Now().UTC()

	// Client-supplied ID and timestamp must be ignored.
	sub := sampleSubmission("John Smith", "E20 1AA")
	sub.ID = 999
	sub.SubmittedAt = time.Unix(0, 0)
	got, err := InsertSubmission(context.Background(), db, sub)
	if err != nil {
		t.Fatalf("InsertSubmission: %v", err)
	}

	if got.ID == 0 || got.ID == 999 {
		t.Errorf("ID = %d, want fresh auto-increment value", got.ID)
	}
	if got.SubmittedAt.Before(start) || got.SubmittedAt.After(time.Now().UTC().Add(time.Second)) {
		t.Errorf("SubmittedAt = %v, want server-assigned now", got.SubmittedAt)
	}
	if got.SubmittedAt.Location() != time.UTC {
		t.Errorf("SubmittedAt location = %v, want UTC", got.SubmittedAt.Location())
	}
}

func TestInsertSubmission_IDsAreMonotonic(t *testing.T) {
	db := newTestDB(t, &domain.Submission{})
	ctx := context.Background()

	var prev uint
	for i := 0; i < 5; i++ {
		got, err := InsertSubmission(ctx, db, sampleSubmission("A B", "E20 1AA"))
		if err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
		if got.ID <= prev {
			t.Fatalf("ID %d not greater than previous %d", got.ID, prev)
		}
		prev = got.ID
	}
}

func TestInsertSubmission_Error_NoTable(t *testing.T) {
	db := newTestDB(t /* no migrations */)
	if _, err := InsertSubmission(context.Background(), db, sampleSubmission("A", "E20 1AA")); err == nil {
		t.Fatalf("expected error when table is missing")
	}
}

func TestListCountClear(t *testing.T) {
	db := newTestDB(t, &domain.Submission{})
	ctx := context.Background()

	// Empty store
	rows, err := ListSubmissions(ctx, db)
	if err != nil {
		t.Fatalf("ListSubmissions: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty store, got %d rows", len(rows))
	}

	for i := 0; i < 3; i++ {
		if _, err := InsertSubmission(ctx, db, sampleSubmission("A B", "E20 1AA")); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	if n, err := CountSubmissions(ctx, db); err != nil || n != 3 {
		t.Fatalf("CountSubmissions = %d, %v; want 3", n, err)
	}
	if rows, err = ListSubmissions(ctx, db); err != nil || len(rows) != 3 {
		t.Fatalf("ListSubmissions = %d rows, %v; want 3", len(rows), err)
	}

	if err := ClearSubmissions(ctx, db); err != nil {
		t.Fatalf("ClearSubmissions: %v", err)
	}
	if n, _ := CountSubmissions(ctx, db); n != 0 {
		t.Fatalf("count after clear = %d, want 0", n)
	}

	// Clearing an empty store is not an error.
	if err := ClearSubmissions(ctx, db); err != nil {
		t.Fatalf("ClearSubmissions on empty store: %v", err)
	}
}
