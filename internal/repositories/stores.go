package repositories

import (
	"database/sql"

	"travelagency/internal/services"
)

// NewStores wires the MySQL repositories onto one connection pool.
func NewStores(db *sql.DB) services.Stores {
	return services.Stores{
		Bookings:        BookingRepository{DB: db},
		DefaultBookings: DefaultBookingRepository{DB: db},
		Listing:         ListingRepository{DB: db},
		Notifications:   NotificationRepository{DB: db},
		Accounts:        AccountRepository{DB: db},
	}
}
