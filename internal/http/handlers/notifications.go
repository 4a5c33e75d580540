package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"travelagency/internal/domain/models"
	"travelagency/internal/services"
)

// GET /api/admin/notifications?filterType=&filterStatus=&page=&limit=
func ListNotifications(c *gin.Context) {
	q := models.NotificationQuery{
		Type:   models.NotificationType(strings.ToLower(strings.TrimSpace(c.Query("filterType")))),
		Status: models.NotificationStatus(strings.ToLower(strings.TrimSpace(c.Query("filterStatus")))),
		Page:   queryInt(c, "page"),
		Limit:  queryInt(c, "limit"),
	}
	if q.Type == "all" {
		q.Type = ""
	}
	if q.Status == "all" {
		q.Status = ""
	}
	report, err := notificationService(c).List(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// POST /api/admin/notifications
func AddNotification(c *gin.Context) {
	var req services.NotificationInput
	if !BindJSONOrError(c, &req) {
		return
	}
	n, err := notificationService(c).Create(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Notification added successfully", "notification": n})
}

// DELETE /api/admin/notifications/:id
func DeleteNotification(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := notificationService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted successfully"})
}

// PATCH /api/admin/notifications/:id/inactivate
func InactivateNotification(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := notificationService(c).Deactivate(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked inactive"})
}
