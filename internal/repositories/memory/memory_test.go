package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelagency/internal/domain/models"
)

var base = time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

func booking(id, state, email string, status models.Status, minutes int, baseTotal float64) models.Booking {
	return models.Booking{
		ID:          id,
		AgentID:     "agent-1",
		Contact:     models.Contact{Name: "Agent " + id, Email: email, State: state},
		PackageName: "Pkg " + id,
		Pricing:     models.Pricing{BaseTotal: baseTotal, TotalAmount: baseTotal},
		Status:      status,
		CreatedAt:   base.Add(time.Duration(minutes) * time.Minute),
	}
}

func defaultBooking(id, state string, status models.Status, minutes int, baseTotal float64) models.DefaultPackageBooking {
	return models.DefaultPackageBooking{
		ID:          id,
		AgentID:     "agent-2",
		Contact:     models.Contact{Name: "Agent " + id, Email: id + "@example.com", State: state},
		PackageName: "Fixed " + id,
		Pricing:     models.Pricing{BaseTotal: baseTotal, TotalAmount: baseTotal},
		Status:      status,
		CreatedAt:   base.Add(time.Duration(minutes) * time.Minute),
	}
}

func TestVariantStore_UpdateStatusOnlyFromSources(t *testing.T) {
	ctx := context.Background()
	s := NewBookingStore()
	require.NoError(t, s.Insert(ctx, booking("b1", "Kerala", "a@x.com", models.StatusPending, 0, 100)))

	ok, err := s.UpdateStatus(ctx, "b1", []models.Status{models.StatusConfirmed}, models.StatusCancelled, base)
	require.NoError(t, err)
	assert.False(t, ok, "pending is not a source for this call")

	ok, err = s.UpdateStatus(ctx, "b1", models.SourcesOf(models.StatusConfirmed), models.StatusConfirmed, base)
	require.NoError(t, err)
	assert.True(t, ok)

	got, found, err := s.FindByID(ctx, "b1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, models.StatusConfirmed, got.Status)
	assert.Equal(t, base, got.UpdatedAt)
}

func TestVariantStore_ConcurrentTransitionsHaveOneWinner(t *testing.T) {
	ctx := context.Background()
	s := NewDefaultBookingStore()
	require.NoError(t, s.Insert(ctx, defaultBooking("d1", "Goa", models.StatusPending, 0, 100)))

	var wg sync.WaitGroup
	wins := make(chan models.Status, 20)
	for i := 0; i < 20; i++ {
		target := models.StatusConfirmed
		if i%2 == 1 {
			target = models.StatusCancelled
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, _ := s.UpdateStatus(ctx, "d1", []models.Status{models.StatusPending}, target, base)
			if ok {
				wins <- target
			}
		}()
	}
	wg.Wait()
	close(wins)
	assert.Len(t, wins, 1)
}

func TestVariantStore_ReplaceKeepsStatus(t *testing.T) {
	ctx := context.Background()
	s := NewBookingStore()
	require.NoError(t, s.Insert(ctx, booking("b1", "Kerala", "a@x.com", models.StatusConfirmed, 0, 100)))

	next := booking("b1", "Kerala", "a@x.com", models.StatusPending, 0, 250)
	next.UpdatedAt = base.Add(time.Hour)
	ok, err := s.Replace(ctx, next)
	require.NoError(t, err)
	require.True(t, ok)

	got, _, _ := s.FindByID(ctx, "b1")
	assert.Equal(t, models.StatusConfirmed, got.Status)
	assert.Equal(t, 250.0, got.Pricing.BaseTotal)

	ok, err = s.Replace(ctx, booking("missing", "", "", models.StatusPending, 0, 0))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVariantStore_InsertRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	s := NewBookingStore()
	require.NoError(t, s.Insert(ctx, booking("b1", "", "", models.StatusPending, 0, 0)))
	assert.Error(t, s.Insert(ctx, booking("b1", "", "", models.StatusPending, 0, 0)))
}

func seededListing(t *testing.T) Listing {
	t.Helper()
	ctx := context.Background()
	l := Listing{Bookings: NewBookingStore(), Defaults: NewDefaultBookingStore()}
	require.NoError(t, l.Bookings.Insert(ctx, booking("b1", "Kerala", "asha@x.com", models.StatusConfirmed, 1, 1000)))
	require.NoError(t, l.Bookings.Insert(ctx, booking("b2", "Goa", "ravi@x.com", models.StatusPending, 2, 500)))
	require.NoError(t, l.Defaults.Insert(ctx, defaultBooking("d1", "Kerala", models.StatusConfirmed, 3, 2000)))
	require.NoError(t, l.Defaults.Insert(ctx, defaultBooking("d2", "Delhi", models.StatusCancelled, 4, 700)))
	return l
}

func TestListing_StatsIgnoreFilters(t *testing.T) {
	l := seededListing(t)

	page, err := l.ListCombined(context.Background(), models.ListingQuery{State: "kerala"})
	require.NoError(t, err)

	assert.EqualValues(t, 2, page.Matching)
	require.Len(t, page.Records, 2)
	assert.Equal(t, "d1", page.Records[0].ID(), "newest first")
	assert.Equal(t, models.VariantDefault, page.Records[0].Variant)
	assert.Equal(t, "b1", page.Records[1].ID())

	assert.EqualValues(t, 4, page.Stats.TotalBookings)
	assert.EqualValues(t, 1, page.Stats.PendingBookings)
	assert.EqualValues(t, 2, page.Stats.ConfirmedBookings)
	assert.EqualValues(t, 1, page.Stats.CancelledBookings)
	assert.Equal(t, 3000.0, page.Stats.TotalRevenue)
}

func TestListing_SearchMatchesNameOrEmail(t *testing.T) {
	l := seededListing(t)

	page, err := l.ListCombined(context.Background(), models.ListingQuery{Search: "RAVI"})
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "b2", page.Records[0].ID())

	page, err = l.ListCombined(context.Background(), models.ListingQuery{Search: "agent d"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Matching)
}

func TestListing_PagePastEnd(t *testing.T) {
	l := seededListing(t)

	page, err := l.ListCombined(context.Background(), models.ListingQuery{Page: 5, Limit: 2})
	require.NoError(t, err)
	assert.Empty(t, page.Records)
	assert.EqualValues(t, 4, page.Matching)
	assert.EqualValues(t, 4, page.Stats.TotalBookings)
}

func TestNotificationStore_FeedAndDeactivate(t *testing.T) {
	ctx := context.Background()
	s := NewNotificationStore()
	for i, n := range []models.Notification{
		{ID: "s1", Type: models.NotificationSystem, Status: models.NotificationActive},
		{ID: "s2", Type: models.NotificationSystem, Status: models.NotificationInactive},
		{ID: "n1", Type: models.NotificationBooking, RecipientID: "agent-1", BookingID: "b1"},
		{ID: "n2", Type: models.NotificationCancel, RecipientID: "agent-2", BookingID: "b2"},
	} {
		n.Title, n.Message = fmt.Sprintf("t%d", i), "m"
		n.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.Insert(ctx, n))
	}

	feed, err := s.Feed(ctx, "agent-1")
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "n1", feed[0].ID)
	assert.Equal(t, "s1", feed[1].ID)

	ok, err := s.Deactivate(ctx, "n1", base)
	require.NoError(t, err)
	assert.False(t, ok, "addressed notices cannot be deactivated")

	ok, err = s.Deactivate(ctx, "s1", base)
	require.NoError(t, err)
	assert.True(t, ok)

	st, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, st.Total)
	assert.EqualValues(t, 0, st.ActiveSystem)
	assert.EqualValues(t, 2, st.InactiveSystem)
}

func TestAccountStore_EmailIsUnique(t *testing.T) {
	ctx := context.Background()
	s := NewAccountStore()
	require.NoError(t, s.InsertAgent(ctx, models.Agent{ID: "a1", Email: "One@x.com", Approval: models.ApprovalPending}))
	assert.Error(t, s.InsertAgent(ctx, models.Agent{ID: "a2", Email: "one@x.com"}))

	got, found, err := s.FindAgentByEmail(ctx, "ONE@X.COM")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "a1", got.ID)

	ok, err := s.SetAgentApproval(ctx, "a1", models.ApprovalApproved, base)
	require.NoError(t, err)
	assert.True(t, ok)
	counts, _ := s.CountAgents(ctx)
	assert.EqualValues(t, 1, counts.Approved)
}

func TestWindow_OutOfRangeOffsets(t *testing.T) {
	items := []int{1, 2, 3}
	assert.Equal(t, []int{2, 3}, window(items, 1, 10))
	assert.Empty(t, window(items, -6, 10))
	assert.NotNil(t, window(items, -6, 10))
	assert.Empty(t, window(items, 3, 10))
	assert.Empty(t, window(items, 0, 0))
}
