package memory

import "travelagency/internal/services"

// NewStores wires a fresh, empty in-memory backend.
func NewStores() services.Stores {
	bookings := NewBookingStore()
	defaults := NewDefaultBookingStore()
	return services.Stores{
		Bookings:        bookings,
		DefaultBookings: defaults,
		Listing:         Listing{Bookings: bookings, Defaults: defaults},
		Notifications:   NewNotificationStore(),
		Accounts:        NewAccountStore(),
	}
}
