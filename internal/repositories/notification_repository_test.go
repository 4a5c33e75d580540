package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestNotificationRepository_DeactivateAlreadyInactive(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE notifications SET status = 'inactive'`).
		WithArgs(sqlmock.AnyArg(), "n-1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications WHERE id = \? AND type = 'system'`).
		WithArgs("n-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := NotificationRepository{DB: db}.Deactivate(context.Background(), "n-1", time.Now())
	if err != nil || !ok {
		t.Fatalf("expected idempotent deactivate, got ok=%v err=%v", ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNotificationRepository_DeactivateRejectsAddressed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`UPDATE notifications SET status = 'inactive'`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notifications`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ok, err := NotificationRepository{DB: db}.Deactivate(context.Background(), "n-2", time.Now())
	if err != nil || ok {
		t.Fatalf("expected false for a booking notice, got ok=%v err=%v", ok, err)
	}
}

func TestNotificationRepository_FeedQueriesRecipient(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(`FROM notifications\s+WHERE \(type = 'system' AND status = 'active'\)`).
		WithArgs("agent-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "message", "type", "status", "recipient_id", "booking_id", "created_at", "updated_at"}).
			AddRow("n-1", "Package Booking", "Booking id:b-1 created", "booking", nil, "agent-1", "b-1", now, now).
			AddRow("n-2", "Holiday", "Office closed", "system", "active", nil, nil, now, now))

	items, err := NotificationRepository{DB: db}.Feed(context.Background(), "agent-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 || items[0].RecipientID != "agent-1" || items[1].Status != "active" {
		t.Fatalf("unexpected feed: %+v", items)
	}
}
