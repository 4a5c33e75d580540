package notify

import (
	"context"
	"strings"
	"testing"
	"time"

	"travelagency/internal/domain/models"
)

func TestRender_EscapesMessage(t *testing.T) {
	body, err := render(models.Notification{
		Title:     "Booking Confirmation",
		Message:   "Booking id:b1 <Goa> on 2025-01-02 is confirmed",
		BookingID: "b1",
		CreatedAt: time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !strings.Contains(body, "&lt;Goa&gt;") {
		t.Fatalf("message not escaped: %s", body)
	}
	if !strings.Contains(body, "2025-01-01 08:00:00") {
		t.Fatalf("timestamp missing: %s", body)
	}
}

func TestMailer_SkipsWhenNotConfigured(t *testing.T) {
	n := models.Notification{Type: models.NotificationSuccess, Title: "t", Message: "m"}
	if err := (Mailer{}).Deliver(context.Background(), n, "agent@example.com"); err != nil {
		t.Fatalf("unconfigured mailer should be a no-op, got %v", err)
	}
}

func TestMailer_SkipsSystemNotices(t *testing.T) {
	m := Mailer{Host: "smtp.invalid", Port: 25, From: "noreply@example.com"}
	n := models.Notification{Type: models.NotificationSystem, Title: "t", Message: "m"}
	if err := m.Deliver(context.Background(), n, "agent@example.com"); err != nil {
		t.Fatalf("system notices are not mailed, got %v", err)
	}
}

func TestRedisPublisher_NilClientIsNoop(t *testing.T) {
	if err := (RedisPublisher{}).Deliver(context.Background(), models.Notification{}, ""); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
