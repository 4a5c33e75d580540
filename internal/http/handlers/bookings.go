package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travelagency/internal/domain/models"
)

// POST /api/booking/book-package
func CreateBooking(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var body models.RawPayload
	if !BindJSONOrError(c, &body) {
		return
	}
	b, err := bookingService(c).CreateBooking(c.Request.Context(), p, body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking created successfully",
		"booking": models.ResolveNormal(b),
	})
}

// POST /api/booking/book-default-package
func CreateDefaultBooking(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	var body models.RawPayload
	if !BindJSONOrError(c, &body) {
		return
	}
	b, err := bookingService(c).CreateDefaultBooking(c.Request.Context(), p, body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking created successfully",
		"booking": models.ResolveDefault(b),
	})
}

// GET /api/booking/bookings
func ListMyBookings(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	list, err := bookingService(c).ListForAgent(c.Request.Context(), p.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Bookings fetched successfully",
		"bookings": list,
	})
}

// GET /api/booking/notifications
func MyNotifications(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	items, err := notificationService(c).Feed(c.Request.Context(), p.ID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}
