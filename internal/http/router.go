package api

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	intconfig "travelagency/internal/config"
	h "travelagency/internal/http/handlers"
	"travelagency/internal/http/middleware"
	"travelagency/internal/logger"
)

// NewRouter mounts every route under /api. rdb may be nil; rate limit
// counters then stay in process memory.
func NewRouter(env intconfig.Env, rdb *redis.Client) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.WarnLogger.WithError(err).Warn("failed to set trusted proxies")
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	authenticate := middleware.Authenticate(h.Authenticator)
	bookingLimit := rateLimit(env.BookingRateLimit, "book", rdb)

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/routes", h.Routes)

		// Auth
		auth := api.Group("/auth")
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", authenticate, h.Me)

		// Agent bookings
		booking := api.Group("/booking", authenticate)
		booking.GET("/bookings/:id/voucher", h.GetBookingVoucherPDF)
		agentOnly := booking.Group("", middleware.RequireAgent())
		agentOnly.POST("/book-package", bookingLimit, h.CreateBooking)
		agentOnly.POST("/book-default-package", bookingLimit, h.CreateDefaultBooking)
		agentOnly.GET("/bookings", h.ListMyBookings)
		agentOnly.GET("/notifications", h.MyNotifications)

		// Admin dashboard
		admin := api.Group("/admin", authenticate, middleware.RequireAdmin())
		admin.GET("/home", h.AdminHome)

		details := admin.Group("/booking-details")
		details.GET("", h.ListBookingDetails)
		details.PUT("/:id", h.UpdateBookingDetails)
		details.PUT("/:id/default", h.UpdateDefaultBookingDetails)
		details.PUT("/:id/confirm", h.ConfirmBooking)
		details.PUT("/:id/cancel", h.CancelBooking)
		details.DELETE("/:id", h.DeleteBooking)

		notifications := admin.Group("/notifications")
		notifications.GET("", h.ListNotifications)
		notifications.POST("", h.AddNotification)
		notifications.DELETE("/:id", h.DeleteNotification)
		notifications.PATCH("/:id/inactivate", h.InactivateNotification)

		agents := admin.Group("/agents")
		agents.GET("", h.ListAgents)
		agents.PUT("/:id/approve", h.ApproveAgent)
		agents.PUT("/:id/reject", h.RejectAgent)
	}

	h.SetRouter(r)
	return r
}

func rateLimit(rate, routeID string, rdb *redis.Client) gin.HandlerFunc {
	if rate == "" {
		return func(c *gin.Context) { c.Next() }
	}
	mw, err := middleware.RateLimit(rate, routeID, rdb)
	if err != nil {
		logger.WarnLogger.WithError(err).Warn("rate limit disabled for " + routeID)
		return func(c *gin.Context) { c.Next() }
	}
	return mw
}
