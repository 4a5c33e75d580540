package db

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestEnsureSchemaCreatesOnlyMissingTables(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer sqlDB.Close()

	for _, tbl := range schema {
		if tbl.name == "bookings" {
			mock.ExpectQuery("information_schema\\.tables").WithArgs(tbl.name).
				WillReturnRows(sqlmock.NewRows([]string{"table_name"}).AddRow(tbl.name))
			continue
		}
		mock.ExpectQuery("information_schema\\.tables").WithArgs(tbl.name).
			WillReturnRows(sqlmock.NewRows([]string{"table_name"}))
		mock.ExpectExec("CREATE TABLE IF NOT EXISTS " + tbl.name).
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	if err := EnsureSchema(context.Background(), sqlDB); err != nil {
		t.Fatalf("EnsureSchema returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHelpers(t *testing.T) {
	if NullIfEmpty("  ") != nil {
		t.Fatalf("blank string should map to NULL")
	}
	if NullIfEmpty("x") != "x" {
		t.Fatalf("non-empty string should pass through")
	}
	if NullTime(nil) != nil {
		t.Fatalf("nil time should map to NULL")
	}
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	if got := NullTime(&now); got != now {
		t.Fatalf("NullTime = %v, want %v", got, now)
	}
	if got := Placeholders(3); got != "?, ?, ?" {
		t.Fatalf("Placeholders(3) = %q", got)
	}
	if got := EscapeLike(`50%_off\`); got != `50\%\_off\\` {
		t.Fatalf("EscapeLike = %q", got)
	}
}
