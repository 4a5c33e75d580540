package services

import (
	"context"
	"time"

	"travelagency/internal/domain/models"
)

// VariantStore is the persistence contract of one booking variant.
type VariantStore[T any] interface {
	Insert(ctx context.Context, rec T) error
	// FindByID reports found=false with a nil error when the id is unknown.
	FindByID(ctx context.Context, id string) (rec T, found bool, err error)
	// UpdateStatus moves the record to `to` only while its status is one of `from`.
	// It reports whether a row changed.
	UpdateStatus(ctx context.Context, id string, from []models.Status, to models.Status, at time.Time) (bool, error)
	Replace(ctx context.Context, rec T) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
	ListByAgent(ctx context.Context, agentID string) ([]T, error)
}

type BookingStore = VariantStore[models.Booking]

type DefaultBookingStore = VariantStore[models.DefaultPackageBooking]

// ListingStore serves the combined admin view over both variants.
type ListingStore interface {
	ListCombined(ctx context.Context, q models.ListingQuery) (models.ListingPage, error)
	Stats(ctx context.Context) (models.BookingStats, error)
}

type NotificationStore interface {
	Insert(ctx context.Context, n models.Notification) error
	List(ctx context.Context, q models.NotificationQuery) ([]models.Notification, int64, error)
	Stats(ctx context.Context) (models.NotificationStats, error)
	// Feed returns active system notices plus addressed notices for recipientID, newest first.
	Feed(ctx context.Context, recipientID string) ([]models.Notification, error)
	Delete(ctx context.Context, id string) (bool, error)
	// Deactivate marks a system notification inactive. Non-system ids report false.
	Deactivate(ctx context.Context, id string, at time.Time) (bool, error)
}

type AccountStore interface {
	InsertAgent(ctx context.Context, a models.Agent) error
	FindAgentByID(ctx context.Context, id string) (models.Agent, bool, error)
	FindAgentByEmail(ctx context.Context, email string) (models.Agent, bool, error)
	SetAgentApproval(ctx context.Context, id string, status models.ApprovalStatus, at time.Time) (bool, error)
	ListAgents(ctx context.Context, q models.AgentQuery) ([]models.Agent, int64, error)
	CountAgents(ctx context.Context) (models.AgentCounts, error)
	InsertAdmin(ctx context.Context, a models.Admin) error
	FindAdminByID(ctx context.Context, id string) (models.Admin, bool, error)
	FindAdminByEmail(ctx context.Context, email string) (models.Admin, bool, error)
}

// Stores bundles one backend's implementations.
type Stores struct {
	Bookings        BookingStore
	DefaultBookings DefaultBookingStore
	Listing         ListingStore
	Notifications   NotificationStore
	Accounts        AccountStore
}
