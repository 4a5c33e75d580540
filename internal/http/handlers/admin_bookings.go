package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"travelagency/internal/domain/models"
	"travelagency/internal/services"
)

// GET /api/admin/home
func AdminHome(c *gin.Context) {
	counts, err := listingService(c).Overview(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// GET /api/admin/booking-details?stateFilter=&searchTerm=&page=&limit=
func ListBookingDetails(c *gin.Context) {
	q := models.ListingQuery{
		Search: strings.TrimSpace(c.Query("searchTerm")),
		State:  strings.TrimSpace(c.Query("stateFilter")),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	}
	report, err := listingService(c).List(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// PUT /api/admin/booking-details/:id
func UpdateBookingDetails(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body models.RawPayload
	if !BindJSONOrError(c, &body) {
		return
	}
	b, err := bookingService(c).UpdateBooking(c.Request.Context(), id, body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking updated successfully", "booking": models.ResolveNormal(b)})
}

// PUT /api/admin/booking-details/:id/default
func UpdateDefaultBookingDetails(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var body models.RawPayload
	if !BindJSONOrError(c, &body) {
		return
	}
	b, err := bookingService(c).UpdateDefaultBooking(c.Request.Context(), id, body)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking updated successfully", "booking": models.ResolveDefault(b)})
}

func respondTransition(c *gin.Context, res services.TransitionResult) {
	c.JSON(http.StatusOK, gin.H{
		"message": res.Message,
		"changed": res.Changed,
		"type":    res.Type,
		"booking": res.Booking,
	})
}

// PUT /api/admin/booking-details/:id/confirm
func ConfirmBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := lifecycleService(c).Confirm(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondTransition(c, res)
}

// PUT /api/admin/booking-details/:id/cancel
func CancelBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	res, err := lifecycleService(c).Cancel(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	respondTransition(c, res)
}

// DELETE /api/admin/booking-details/:id
func DeleteBooking(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	rec, err := lifecycleService(c).Delete(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking deleted successfully", "type": rec.Variant})
}
