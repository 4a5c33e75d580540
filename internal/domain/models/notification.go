package models

import (
	"strings"
	"time"
)

type NotificationType string

const (
	NotificationBooking NotificationType = "booking"
	NotificationSuccess NotificationType = "success"
	NotificationSystem  NotificationType = "system"
	NotificationCancel  NotificationType = "cancel"
)

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationBooking, NotificationSuccess, NotificationSystem, NotificationCancel:
		return true
	}
	return false
}

// Addressed reports whether the type targets a single agent and booking.
func (t NotificationType) Addressed() bool {
	return t == NotificationBooking || t == NotificationSuccess || t == NotificationCancel
}

type NotificationStatus string

const (
	NotificationActive   NotificationStatus = "active"
	NotificationInactive NotificationStatus = "inactive"
)

type Notification struct {
	ID          string             `json:"id" bson:"_id"`
	Title       string             `json:"title" bson:"title"`
	Message     string             `json:"message" bson:"message"`
	Type        NotificationType   `json:"type" bson:"type"`
	Status      NotificationStatus `json:"status,omitempty" bson:"status,omitempty"`
	RecipientID string             `json:"recipient,omitempty" bson:"recipient,omitempty"`
	BookingID   string             `json:"booking,omitempty" bson:"booking,omitempty"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Problems lists every rule the notification breaks, keyed by field.
func (n Notification) Problems() map[string]string {
	out := map[string]string{}
	if strings.TrimSpace(n.Title) == "" {
		out["title"] = "is required"
	}
	if strings.TrimSpace(n.Message) == "" {
		out["message"] = "is required"
	}
	if !n.Type.IsValid() {
		out["type"] = "must be one of booking, success, system, cancel"
		return out
	}
	if n.Type.Addressed() {
		if strings.TrimSpace(n.RecipientID) == "" {
			out["recipient"] = "is required for " + string(n.Type) + " notifications"
		}
		if strings.TrimSpace(n.BookingID) == "" {
			out["booking"] = "is required for " + string(n.Type) + " notifications"
		}
	}
	if n.Type == NotificationSystem && n.Status != NotificationActive && n.Status != NotificationInactive {
		out["status"] = "must be active or inactive"
	}
	return out
}

// NotificationQuery filters the admin notification list.
type NotificationQuery struct {
	Type   NotificationType
	Status NotificationStatus
	Page   int
	Limit  int
}

type NotificationStats struct {
	Total          int64 `json:"total"`
	System         int64 `json:"system"`
	Booking        int64 `json:"booking"`
	Success        int64 `json:"success"`
	Cancel         int64 `json:"cancel"`
	ActiveSystem   int64 `json:"activeSystem"`
	InactiveSystem int64 `json:"inactiveSystem"`
}
