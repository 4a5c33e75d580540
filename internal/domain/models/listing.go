package models

import "travelagency/internal/domain"

// ListingQuery drives the combined admin booking listing.
type ListingQuery struct {
	Search string
	State  string
	Page   int
	Limit  int
}

// BookingStats summarizes the whole union of both stores, ignoring filters.
type BookingStats struct {
	TotalBookings     int64   `json:"totalBookings" bson:"totalBookings"`
	PendingBookings   int64   `json:"pendingBookings" bson:"pendingBookings"`
	ConfirmedBookings int64   `json:"confirmedBookings" bson:"confirmedBookings"`
	CancelledBookings int64   `json:"cancelledBookings" bson:"cancelledBookings"`
	TotalRevenue      float64 `json:"totalRevenue" bson:"totalRevenue"`
}

// ListingPage is what a store returns for one listing request.
type ListingPage struct {
	Records  []ResolvedBooking
	Matching int64
	Stats    BookingStats
}

type ListingReport struct {
	Records    []ResolvedBooking `json:"bookings"`
	Stats      BookingStats      `json:"stats"`
	Pagination domain.Pagination `json:"pagination"`
}

// Overview backs the admin home cards.
type Overview struct {
	Agents   int64   `json:"Agents"`
	Bookings int64   `json:"Bookings"`
	Revenue  float64 `json:"Revenue"`
}
