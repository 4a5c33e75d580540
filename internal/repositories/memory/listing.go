package memory

import (
	"context"
	"errors"
	"strings"
	"time"

	"travelagency/internal/domain"
	"travelagency/internal/domain/models"
)

var errDuplicate = errors.New("duplicate id")

// Listing reads the two variant stores as one collection.
type Listing struct {
	Bookings *VariantStore[models.Booking, *models.Booking]
	Defaults *VariantStore[models.DefaultPackageBooking, *models.DefaultPackageBooking]
}

func (l Listing) combined() []models.ResolvedBooking {
	out := []models.ResolvedBooking{}
	for _, b := range l.Bookings.snapshot() {
		out = append(out, models.ResolveNormal(b))
	}
	for _, b := range l.Defaults.snapshot() {
		out = append(out, models.ResolveDefault(b))
	}
	return out
}

func stats(all []models.ResolvedBooking) models.BookingStats {
	s := models.BookingStats{TotalBookings: int64(len(all))}
	for _, r := range all {
		switch r.Status() {
		case models.StatusPending:
			s.PendingBookings++
		case models.StatusConfirmed:
			s.ConfirmedBookings++
			s.TotalRevenue += r.Pricing().BaseTotal
		case models.StatusCancelled:
			s.CancelledBookings++
		}
	}
	return s
}

func matches(r models.ResolvedBooking, search, state string) bool {
	c := r.Contact()
	if state != "" && !strings.Contains(strings.ToLower(c.State), state) {
		return false
	}
	if search != "" &&
		!strings.Contains(strings.ToLower(c.Email), search) &&
		!strings.Contains(strings.ToLower(c.Name), search) {
		return false
	}
	return true
}

func (l Listing) ListCombined(_ context.Context, q models.ListingQuery) (models.ListingPage, error) {
	all := l.combined()
	search := strings.ToLower(strings.TrimSpace(q.Search))
	state := strings.ToLower(strings.TrimSpace(q.State))

	matched := []models.ResolvedBooking{}
	for _, r := range all {
		if matches(r, search, state) {
			matched = append(matched, r)
		}
	}
	sortNewestFirst(matched, func(r models.ResolvedBooking) (time.Time, string) { return r.CreatedAt(), r.ID() })

	page := domain.PageRequest{Page: q.Page, Limit: q.Limit}.Normalize(domain.DefaultPageSize)
	return models.ListingPage{
		Records:  window(matched, page.Offset(), page.Limit),
		Matching: int64(len(matched)),
		Stats:    stats(all),
	}, nil
}

func (l Listing) Stats(_ context.Context) (models.BookingStats, error) {
	return stats(l.combined()), nil
}
