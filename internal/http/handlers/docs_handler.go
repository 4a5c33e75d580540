package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travelagency/internal/http/middleware"
	"travelagency/internal/services"
)

// GET /api/booking/bookings/:id/voucher
func GetBookingVoucherPDF(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	svc := services.DocsService{
		Resolver:  lifecycleService(c),
		RequestID: middleware.GetRequestID(c),
	}
	pdfBytes, filename, err := svc.Voucher(c.Request.Context(), p, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
