package services_test

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelagency/internal/domain/models"
	"travelagency/internal/repositories/memory"
	"travelagency/internal/services"
)

var seedTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func seedNormal(t *testing.T, stores services.Stores, i int, status models.Status, email string, baseTotal float64) {
	t.Helper()
	err := stores.Bookings.Insert(context.Background(), models.Booking{
		ID:          fmt.Sprintf("n-%02d", i),
		AgentID:     "agent-1",
		Contact:     models.Contact{Name: fmt.Sprintf("Agent %d", i), Email: email, State: "Kerala"},
		PackageName: "Munnar Escape",
		Pricing:     models.Pricing{BaseTotal: baseTotal, TotalAmount: baseTotal},
		Status:      status,
		CreatedAt:   seedTime.Add(time.Duration(i) * time.Minute),
	})
	require.NoError(t, err)
}

func seedDefault(t *testing.T, stores services.Stores, i int, status models.Status, email string, baseTotal float64) {
	t.Helper()
	err := stores.DefaultBookings.Insert(context.Background(), models.DefaultPackageBooking{
		ID:          fmt.Sprintf("d-%02d", i),
		AgentID:     "agent-2",
		Contact:     models.Contact{Name: fmt.Sprintf("Agent %d", i), Email: email, State: "Goa"},
		PackageName: "Goa Fixed Departure",
		Pricing:     models.Pricing{BaseTotal: baseTotal, TotalAmount: baseTotal},
		Status:      status,
		CreatedAt:   seedTime.Add(time.Duration(i) * time.Minute),
	})
	require.NoError(t, err)
}

func TestListing_RevenueIgnoresSearch(t *testing.T) {
	stores := memory.NewStores()
	seedNormal(t, stores, 1, models.StatusConfirmed, "alpha@example.com", 1000)
	seedNormal(t, stores, 2, models.StatusConfirmed, "beta@example.com", 2500)
	seedDefault(t, stores, 3, models.StatusConfirmed, "gamma@example.com", 4000)
	seedNormal(t, stores, 4, models.StatusPending, "alpha2@example.com", 9999)
	seedDefault(t, stores, 5, models.StatusCancelled, "delta@example.com", 7777)

	svc := services.ListingService{Listing: stores.Listing, Accounts: stores.Accounts}
	report, err := svc.List(context.Background(), models.ListingQuery{Search: "ALPHA"})
	require.NoError(t, err)

	assert.Len(t, report.Records, 2)
	assert.Equal(t, int64(2), report.Pagination.Total)
	assert.Equal(t, 7500.0, report.Stats.TotalRevenue)
	assert.Equal(t, int64(5), report.Stats.TotalBookings)
	assert.Equal(t, int64(3), report.Stats.ConfirmedBookings)
	assert.Equal(t, int64(1), report.Stats.PendingBookings)
	assert.Equal(t, int64(1), report.Stats.CancelledBookings)
}

func TestListing_PaginatesTheUnion(t *testing.T) {
	stores := memory.NewStores()
	for i := 0; i < 25; i++ {
		email := fmt.Sprintf("agent%d@example.com", i)
		if i%2 == 0 {
			seedNormal(t, stores, i, models.StatusPending, email, 100)
		} else {
			seedDefault(t, stores, i, models.StatusPending, email, 100)
		}
	}

	svc := services.ListingService{Listing: stores.Listing, Accounts: stores.Accounts}
	report, err := svc.List(context.Background(), models.ListingQuery{Page: 3, Limit: 10})
	require.NoError(t, err)

	assert.Len(t, report.Records, 5)
	assert.Equal(t, int64(3), report.Pagination.TotalPages)
	assert.Equal(t, int64(25), report.Pagination.Total)
	// newest first, so the last page holds the five oldest records
	assert.Equal(t, "n-04", report.Records[0].ID())
	assert.Equal(t, "n-00", report.Records[4].ID())

	empty, err := svc.List(context.Background(), models.ListingQuery{Page: 9, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, empty.Records)
	assert.NotNil(t, empty.Records)
	assert.Equal(t, int64(25), empty.Stats.TotalBookings)
}

func TestListing_HugePageIsEmpty(t *testing.T) {
	stores := memory.NewStores()
	seedNormal(t, stores, 1, models.StatusConfirmed, "alpha@example.com", 1000)
	seedDefault(t, stores, 2, models.StatusPending, "beta@example.com", 500)

	svc := services.ListingService{Listing: stores.Listing, Accounts: stores.Accounts}
	for _, page := range []int{math.MaxInt / 5, math.MaxInt, math.MaxInt32} {
		report, err := svc.List(context.Background(), models.ListingQuery{Page: page, Limit: 10})
		require.NoError(t, err, "page %d", page)
		assert.Empty(t, report.Records)
		assert.Equal(t, page, report.Pagination.Page)
		assert.Equal(t, int64(2), report.Pagination.Total)
		assert.Equal(t, int64(2), report.Stats.TotalBookings)
		assert.Equal(t, 1000.0, report.Stats.TotalRevenue)
	}
}

func TestListing_SearchFindsDefaultPackageBooking(t *testing.T) {
	stores := memory.NewStores()
	seedNormal(t, stores, 1, models.StatusPending, "someone@example.com", 100)
	seedDefault(t, stores, 2, models.StatusConfirmed, "target@travel.in", 300)

	svc := services.ListingService{Listing: stores.Listing, Accounts: stores.Accounts}
	report, err := svc.List(context.Background(), models.ListingQuery{Search: "target@"})
	require.NoError(t, err)
	require.Len(t, report.Records, 1)
	assert.Equal(t, models.VariantDefault, report.Records[0].Variant)
	assert.Equal(t, "d-02", report.Records[0].ID())
}

func TestListing_StateFilter(t *testing.T) {
	stores := memory.NewStores()
	seedNormal(t, stores, 1, models.StatusPending, "a@example.com", 100)
	seedDefault(t, stores, 2, models.StatusPending, "b@example.com", 100)

	svc := services.ListingService{Listing: stores.Listing, Accounts: stores.Accounts}
	report, err := svc.List(context.Background(), models.ListingQuery{State: "goa"})
	require.NoError(t, err)
	require.Len(t, report.Records, 1)
	assert.Equal(t, "d-02", report.Records[0].ID())
}

func TestOverview(t *testing.T) {
	stores := memory.NewStores()
	ctx := context.Background()
	seedNormal(t, stores, 1, models.StatusConfirmed, "a@example.com", 1200)
	seedDefault(t, stores, 2, models.StatusPending, "b@example.com", 800)
	require.NoError(t, stores.Accounts.InsertAgent(ctx, models.Agent{ID: "ag-1", Email: "a@example.com", Approval: models.ApprovalApproved}))

	svc := services.ListingService{Listing: stores.Listing, Accounts: stores.Accounts}
	got, err := svc.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Overview{Agents: 1, Bookings: 2, Revenue: 1200}, got)
}
