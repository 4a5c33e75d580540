package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelagency/internal/domain"
	"travelagency/internal/domain/models"
	"travelagency/internal/repositories/memory"
	"travelagency/internal/services"
)

func TestNotificationCreate_DefaultsToActiveSystem(t *testing.T) {
	svc := services.NotificationService{Store: memory.NewNotificationStore()}
	n, err := svc.Create(context.Background(), services.NotificationInput{
		Title:     "Maintenance",
		Message:   "Portal offline on Sunday",
		Recipient: "agent-1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.NotificationSystem, n.Type)
	assert.Equal(t, models.NotificationActive, n.Status)
	assert.Empty(t, n.RecipientID, "system notices are broadcast")
}

func TestNotificationCreate_AddressedNeedsRecipientAndBooking(t *testing.T) {
	svc := services.NotificationService{Store: memory.NewNotificationStore()}
	_, err := svc.Create(context.Background(), services.NotificationInput{
		Type:    "success",
		Message: "Booking confirmed",
	})

	var errs domain.ValidationErrors
	require.True(t, errors.As(err, &errs))
	fields := []string{}
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"title", "recipient", "booking"}, fields)

	_, err = svc.Create(context.Background(), services.NotificationInput{Title: "x", Message: "y", Type: "promo"})
	assert.True(t, domain.IsValidation(err))
}

func TestNotificationDeactivate(t *testing.T) {
	ctx := context.Background()
	svc := services.NotificationService{Store: memory.NewNotificationStore()}

	sys, err := svc.Create(ctx, services.NotificationInput{Title: "Notice", Message: "Hello"})
	require.NoError(t, err)
	addressed, err := svc.Create(ctx, services.NotificationInput{
		Title: "Booked", Message: "Booking created", Type: "booking", Recipient: "agent-1", Booking: "b-1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(ctx, sys.ID))
	require.NoError(t, svc.Deactivate(ctx, sys.ID), "deactivating twice is fine")

	assert.True(t, domain.IsNotFound(svc.Deactivate(ctx, addressed.ID)))
	assert.True(t, domain.IsNotFound(svc.Deactivate(ctx, "missing")))

	feed, err := svc.Feed(ctx, "agent-1")
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, addressed.ID, feed[0].ID)
}

func TestNotificationFeed_OnlyOwnAndActiveSystem(t *testing.T) {
	ctx := context.Background()
	svc := services.NotificationService{Store: memory.NewNotificationStore()}

	_, err := svc.Create(ctx, services.NotificationInput{Title: "All", Message: "Broadcast"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, services.NotificationInput{Title: "Old", Message: "Hidden", Status: "inactive"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, services.NotificationInput{Title: "Mine", Message: "m", Type: "cancel", Recipient: "agent-1", Booking: "b-1"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, services.NotificationInput{Title: "Theirs", Message: "t", Type: "cancel", Recipient: "agent-2", Booking: "b-2"})
	require.NoError(t, err)

	feed, err := svc.Feed(ctx, "agent-1")
	require.NoError(t, err)
	titles := []string{}
	for _, n := range feed {
		titles = append(titles, n.Title)
	}
	assert.ElementsMatch(t, []string{"All", "Mine"}, titles)
}

func TestNotificationList_FiltersAndStats(t *testing.T) {
	ctx := context.Background()
	svc := services.NotificationService{Store: memory.NewNotificationStore()}
	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, services.NotificationInput{Title: "S", Message: "s"})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, services.NotificationInput{Title: "B", Message: "b", Type: "booking", Recipient: "a", Booking: "b"})
	require.NoError(t, err)

	report, err := svc.List(ctx, models.NotificationQuery{Type: models.NotificationSystem, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, report.Notifications, 2)
	assert.Equal(t, int64(3), report.Stats.Total)
	assert.Equal(t, int64(3), report.Stats.ActiveSystem)
	assert.Equal(t, int64(1), report.Stats.Booking)
	assert.Equal(t, int64(2), report.Pagination.TotalPages)

	_, err = svc.List(ctx, models.NotificationQuery{Type: "promo"})
	assert.True(t, domain.IsValidation(err))
}

type recordingSink struct {
	got chan models.Notification
}

func (s recordingSink) Name() string { return "recording" }

func (s recordingSink) Deliver(_ context.Context, n models.Notification, _ string) error {
	s.got <- n
	return nil
}

func TestEmit_FansOutAfterStoring(t *testing.T) {
	sink := recordingSink{got: make(chan models.Notification, 1)}
	store := memory.NewNotificationStore()
	svc := services.NotificationService{Store: store, Sinks: []services.NoticeSink{sink}}

	svc.Emit(context.Background(), services.Notice{
		Type: models.NotificationSuccess, Title: "Booking Confirmation", Message: "ok",
		RecipientID: "agent-1", BookingID: "b-1",
	})

	select {
	case n := <-sink.got:
		assert.Equal(t, "b-1", n.BookingID)
	case <-time.After(2 * time.Second):
		t.Fatal("sink was not called")
	}

	feed, err := store.Feed(context.Background(), "agent-1")
	require.NoError(t, err)
	assert.Len(t, feed, 1)
}
