package handlers

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"travelagency/internal/http/middleware"
	"travelagency/internal/services"
)

// Deps is what the handlers need from main: the active store backend and
// the notification sinks.
type Deps struct {
	Stores       services.Stores
	Sinks        []services.NoticeSink
	SinkTimeout  time.Duration
	JWTSecret    []byte
	CookieSecure bool
}

var (
	depsMu sync.RWMutex
	deps   Deps
)

// Configure installs the dependencies used by every handler.
func Configure(d Deps) {
	depsMu.Lock()
	defer depsMu.Unlock()
	deps = d
}

func current() Deps {
	depsMu.RLock()
	defer depsMu.RUnlock()
	return deps
}

func notificationService(c *gin.Context) services.NotificationService {
	d := current()
	return services.NotificationService{
		Store:       d.Stores.Notifications,
		Sinks:       d.Sinks,
		SinkTimeout: d.SinkTimeout,
		RequestID:   middleware.GetRequestID(c),
	}
}

func bookingService(c *gin.Context) services.BookingService {
	d := current()
	return services.BookingService{
		Bookings:        d.Stores.Bookings,
		DefaultBookings: d.Stores.DefaultBookings,
		Notifications:   notificationService(c),
		RequestID:       middleware.GetRequestID(c),
	}
}

func lifecycleService(c *gin.Context) services.LifecycleService {
	d := current()
	return services.LifecycleService{
		Bookings:        d.Stores.Bookings,
		DefaultBookings: d.Stores.DefaultBookings,
		Notifications:   notificationService(c),
		RequestID:       middleware.GetRequestID(c),
	}
}

func listingService(c *gin.Context) services.ListingService {
	d := current()
	return services.ListingService{
		Listing:   d.Stores.Listing,
		Accounts:  d.Stores.Accounts,
		RequestID: middleware.GetRequestID(c),
	}
}

func authService(c *gin.Context) services.AuthService {
	d := current()
	return services.AuthService{
		Accounts:  d.Stores.Accounts,
		Secret:    d.JWTSecret,
		RequestID: middleware.GetRequestID(c),
	}
}

// Authenticator plugs the auth service into middleware.Authenticate.
func Authenticator(c *gin.Context) middleware.Authenticator {
	return authService(c)
}
