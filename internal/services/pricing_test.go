package services_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelagency/internal/domain"
	"travelagency/internal/domain/models"
	"travelagency/internal/services"
)

func payload(t *testing.T, fields map[string]any) models.RawPayload {
	t.Helper()
	p := models.RawPayload{}
	for k, v := range fields {
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		p[k] = raw
	}
	return p
}

func bookingFields() map[string]any {
	return map[string]any{
		"package_name":    "Kashmir Delight",
		"package_id":      "7b1f2c9e-3f51-4c57-9f1a-0a4f0c3f9d11",
		"vehicle_name":    "Innova",
		"pickup_date":     "2025-06-01",
		"pickup_time":     "2:30 pm",
		"pickup_location": "Srinagar Airport",
		"drop_date":       "2025-06-07",
		"adults_total":    "2",
		"children":        1,
		"infants":         "0",
		"rooms":           "1",
		"base_total":      "10000.50",
		"total_amount":    12345.67,
		"agent_commission": "500",
	}
}

func TestAssembleBooking_KeepsAmountsExactly(t *testing.T) {
	b, omitted, err := services.AssembleBooking(payload(t, bookingFields()))
	require.NoError(t, err)
	assert.Empty(t, omitted)

	assert.Equal(t, 12345.67, b.Pricing.TotalAmount)
	assert.Equal(t, 10000.50, b.Pricing.BaseTotal)
	assert.Equal(t, 500.0, b.Pricing.AgentCommission)
	assert.Equal(t, 2, b.Guests.AdultsTotal)
	assert.Equal(t, 1, b.Guests.Children)
	assert.Equal(t, "14:30", b.Dates.PickupTime)
	require.NotNil(t, b.Dates.PickupDate)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *b.Dates.PickupDate)
	assert.Equal(t, "7b1f2c9e-3f51-4c57-9f1a-0a4f0c3f9d11", b.PackageID)
}

func TestAssembleBooking_MissingTotalFailsFirst(t *testing.T) {
	for name, mutate := range map[string]func(map[string]any){
		"absent": func(f map[string]any) { delete(f, "total_amount") },
		"null":   func(f map[string]any) { f["total_amount"] = nil },
	} {
		t.Run(name, func(t *testing.T) {
			f := bookingFields()
			mutate(f)
			f["package_name"] = ""
			_, _, err := services.AssembleBooking(payload(t, f))
			require.Error(t, err)
			assert.True(t, domain.IsMissingField(err), "got %v", err)
		})
	}
}

func TestAssembleBooking_NonNumericTotalIsValidationError(t *testing.T) {
	f := bookingFields()
	f["total_amount"] = "twelve thousand"
	_, _, err := services.AssembleBooking(payload(t, f))
	require.Error(t, err)

	var errs domain.ValidationErrors
	require.True(t, errors.As(err, &errs))
	require.Len(t, errs, 1)
	assert.Equal(t, "total_amount", errs[0].Field)
}

func TestAssembleBooking_ReportsEveryBadField(t *testing.T) {
	f := bookingFields()
	f["package_name"] = "   "
	f["adults_total"] = 0
	f["base_total"] = -1
	f["pickup_date"] = "next tuesday"

	_, _, err := services.AssembleBooking(payload(t, f))
	var errs domain.ValidationErrors
	require.True(t, errors.As(err, &errs))

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"package_name", "pickup_date", "adults_total", "base_total"}, fields)
}

func TestAssembleBooking_RejectsCountsBeyondRange(t *testing.T) {
	f := bookingFields()
	f["adults_total"] = 1e20
	f["rooms"] = "3000000000"

	_, _, err := services.AssembleBooking(payload(t, f))
	var errs domain.ValidationErrors
	require.True(t, errors.As(err, &errs), "got %v", err)
	require.Len(t, errs, 2)
	assert.Equal(t, "adults_total", errs[0].Field)
	assert.Equal(t, "must be at most 2147483647", errs[0].Msg)
	assert.Equal(t, "rooms", errs[1].Field)

	f = bookingFields()
	f["adults_total"] = 2147483647
	b, _, err := services.AssembleBooking(payload(t, f))
	require.NoError(t, err)
	assert.Equal(t, 2147483647, b.Guests.AdultsTotal)

	_, _, err = services.AssembleDefaultBooking(payload(t, map[string]any{
		"package_name": "Goa Fixed", "adults_total": 1, "children_with_bed": 1e12,
		"base_total": 100, "total_amount": 100,
	}))
	require.True(t, errors.As(err, &errs))
	assert.Equal(t, "children_with_bed", errs[0].Field)
}

func TestAssembleBooking_ExtraFood(t *testing.T) {
	t.Run("missing object means no meals", func(t *testing.T) {
		b, _, err := services.AssembleBooking(payload(t, bookingFields()))
		require.NoError(t, err)
		assert.False(t, b.Extras.Breakfast)
		assert.False(t, b.Extras.LunchVeg)
		assert.False(t, b.Extras.LunchNonVeg)
	})

	t.Run("not an object", func(t *testing.T) {
		f := bookingFields()
		f["extra_food"] = "yes"
		b, _, err := services.AssembleBooking(payload(t, f))
		require.NoError(t, err)
		assert.False(t, b.Extras.Breakfast)
	})

	t.Run("string flags", func(t *testing.T) {
		f := bookingFields()
		f["extra_food"] = map[string]any{"breakfast": "true", "lunchVeg": "false", "lunchNonVeg": 1}
		f["guideNeeded"] = "on"
		f["snow_world_needed"] = "no"
		b, _, err := services.AssembleBooking(payload(t, f))
		require.NoError(t, err)
		assert.True(t, b.Extras.Breakfast)
		assert.False(t, b.Extras.LunchVeg)
		assert.True(t, b.Extras.LunchNonVeg)
		assert.True(t, b.Extras.GuideNeeded)
		assert.False(t, b.Extras.SnowWorldNeeded)
	})
}

func TestAssembleBooking_MalformedReferenceIsOmitted(t *testing.T) {
	f := bookingFields()
	f["package_id"] = "not-a-uuid"
	f["hotel_id"] = 42

	b, omitted, err := services.AssembleBooking(payload(t, f))
	require.NoError(t, err)
	assert.Equal(t, "", b.PackageID)
	assert.Equal(t, "", b.HotelID)
	assert.ElementsMatch(t, []string{"package_id", "hotel_id"}, omitted)
}

func TestAssembleDefaultBooking(t *testing.T) {
	p := payload(t, map[string]any{
		"package_name":            "Goa Fixed Departure",
		"pickup_date":             "2025-12-20",
		"outbound_departure_time": "2025-12-20T06:15",
		"outbound_flight":         "6E 213",
		"drop_date":               "2025-12-25",
		"return_flight":           "6E 214",
		"adults_total":            2,
		"children_with_bed":       "1",
		"children_without_bed":    "",
		"base_total":              48000,
		"total_amount":            "50999.99",
	})

	b, omitted, err := services.AssembleDefaultBooking(p)
	require.NoError(t, err)
	assert.Empty(t, omitted)
	assert.Equal(t, 50999.99, b.Pricing.TotalAmount)
	assert.Equal(t, 48000.0, b.Pricing.BaseTotal)
	assert.Equal(t, 1, b.Guests.ChildrenWithBed)
	assert.Equal(t, 0, b.Guests.ChildrenWithoutBed)
	assert.Equal(t, "6E 213", b.Dates.Outbound.Flight)
	require.NotNil(t, b.Dates.Outbound.DepartureTime)
	assert.Equal(t, 6, b.Dates.Outbound.DepartureTime.Hour())
	require.NotNil(t, b.Dates.Return.DropDate)
}

func TestPatchBooking_OnlyTouchesPresentFields(t *testing.T) {
	cur, _, err := services.AssembleBooking(payload(t, bookingFields()))
	require.NoError(t, err)

	next, _, err := services.PatchBooking(cur, payload(t, map[string]any{"total_amount": 15000, "rooms": 2}))
	require.NoError(t, err)
	assert.Equal(t, 15000.0, next.Pricing.TotalAmount)
	assert.Equal(t, 2, next.Hotel.Rooms)
	assert.Equal(t, cur.PackageName, next.PackageName)
	assert.Equal(t, cur.Pricing.BaseTotal, next.Pricing.BaseTotal)
	assert.Equal(t, cur.Dates, next.Dates)

	_, _, err = services.PatchBooking(cur, payload(t, map[string]any{"package_name": ""}))
	assert.True(t, domain.IsValidation(err))
}

func TestPatchBooking_MalformedReferenceKeepsStoredValue(t *testing.T) {
	cur, _, err := services.AssembleBooking(payload(t, bookingFields()))
	require.NoError(t, err)
	require.NotEmpty(t, cur.PackageID)

	next, omitted, err := services.PatchBooking(cur, payload(t, map[string]any{"package_id": "garbage"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"package_id"}, omitted)
	assert.Equal(t, cur.PackageID, next.PackageID)

	next, _, err = services.PatchBooking(cur, payload(t, map[string]any{"package_id": ""}))
	require.NoError(t, err)
	assert.Empty(t, next.PackageID)
}
