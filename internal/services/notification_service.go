package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"travelagency/internal/domain"
	"travelagency/internal/domain/models"
	"travelagency/internal/utils"
)

const defaultSinkTimeout = 10 * time.Second

// NoticeSink receives a notification after it has been stored.
type NoticeSink interface {
	Name() string
	Deliver(ctx context.Context, n models.Notification, recipientEmail string) error
}

// Notice is what the booking flows hand to Emit.
type Notice struct {
	Type           models.NotificationType
	Title          string
	RecipientID    string
	RecipientEmail string
	BookingID      string
	Message        string
}

type NotificationService struct {
	Store       NotificationStore
	Sinks       []NoticeSink
	SinkTimeout time.Duration
	RequestID   string
}

// Emit stores the notice once and then fans it out to the sinks in the
// background. Failures are logged and never reach the caller.
func (s NotificationService) Emit(ctx context.Context, notice Notice) {
	now := utils.NowUTC()
	n := models.Notification{
		ID:          uuid.NewString(),
		Title:       notice.Title,
		Message:     notice.Message,
		Type:        notice.Type,
		RecipientID: notice.RecipientID,
		BookingID:   notice.BookingID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if n.Type == models.NotificationSystem {
		n.Status = models.NotificationActive
	}
	if problems := n.Problems(); len(problems) > 0 {
		utils.LogWarn(s.RequestID, "notification", "emit", "dropped invalid notice for booking "+notice.BookingID)
		return
	}
	if s.Store == nil {
		return
	}
	if err := s.Store.Insert(ctx, n); err != nil {
		utils.LogError(s.RequestID, "notification", "emit", err)
		return
	}
	utils.LogEvent(s.RequestID, "notification", "emit", string(n.Type)+" notice "+n.ID+" for booking "+n.BookingID)

	if len(s.Sinks) > 0 {
		go s.fanOut(n, notice.RecipientEmail)
	}
}

func (s NotificationService) fanOut(n models.Notification, recipientEmail string) {
	timeout := s.SinkTimeout
	if timeout <= 0 {
		timeout = defaultSinkTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for _, sink := range s.Sinks {
		if err := sink.Deliver(ctx, n, recipientEmail); err != nil {
			utils.LogError(s.RequestID, "notification", "deliver_"+sink.Name(), err)
		}
	}
}

// NotificationReport is the admin list response.
type NotificationReport struct {
	Notifications []models.Notification    `json:"notifications"`
	Stats         models.NotificationStats `json:"stats"`
	Pagination    domain.Pagination        `json:"pagination"`
}

func (s NotificationService) List(ctx context.Context, q models.NotificationQuery) (NotificationReport, error) {
	if q.Type != "" && !q.Type.IsValid() {
		return NotificationReport{}, domain.ValidationError{Field: "filterType", Msg: "must be one of booking, success, system, cancel"}
	}
	if q.Status != "" && q.Status != models.NotificationActive && q.Status != models.NotificationInactive {
		return NotificationReport{}, domain.ValidationError{Field: "filterStatus", Msg: "must be active or inactive"}
	}
	page := domain.PageRequest{Page: q.Page, Limit: q.Limit}.Normalize(domain.DefaultPageSize)
	q.Page, q.Limit = page.Page, page.Limit

	items, total, err := s.Store.List(ctx, q)
	if err != nil {
		utils.LogError(s.RequestID, "notification", "list", err)
		return NotificationReport{}, domain.InternalError{Err: err}
	}
	stats, err := s.Store.Stats(ctx)
	if err != nil {
		utils.LogError(s.RequestID, "notification", "stats", err)
		return NotificationReport{}, domain.InternalError{Err: err}
	}
	stats.Total = total
	return NotificationReport{
		Notifications: items,
		Stats:         stats,
		Pagination:    domain.NewPagination(total, page),
	}, nil
}

// NotificationInput is an admin-authored notification.
type NotificationInput struct {
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Recipient string `json:"recipient"`
	Booking   string `json:"booking"`
}

func (s NotificationService) Create(ctx context.Context, in NotificationInput) (models.Notification, error) {
	now := utils.NowUTC()
	n := models.Notification{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Message:     strings.TrimSpace(in.Message),
		Type:        models.NotificationType(strings.ToLower(strings.TrimSpace(in.Type))),
		Status:      models.NotificationStatus(strings.ToLower(strings.TrimSpace(in.Status))),
		RecipientID: strings.TrimSpace(in.Recipient),
		BookingID:   strings.TrimSpace(in.Booking),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if n.Type == "" {
		n.Type = models.NotificationSystem
	}
	if n.Type == models.NotificationSystem && n.Status == "" {
		n.Status = models.NotificationActive
	}
	switch {
	case n.Type == models.NotificationSystem:
		n.RecipientID, n.BookingID = "", ""
	case n.Type.Addressed():
		n.Status = ""
	}

	if problems := n.Problems(); len(problems) > 0 {
		var errs domain.ValidationErrors
		for _, field := range []string{"title", "message", "type", "recipient", "booking", "status"} {
			if msg, ok := problems[field]; ok {
				errs = append(errs, domain.ValidationError{Field: field, Msg: msg})
			}
		}
		return models.Notification{}, errs
	}

	if err := s.Store.Insert(ctx, n); err != nil {
		utils.LogError(s.RequestID, "notification", "create", err)
		return models.Notification{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "notification", "create", "notification "+n.ID+" added")
	return n, nil
}

func (s NotificationService) Delete(ctx context.Context, id string) error {
	ok, err := s.Store.Delete(ctx, id)
	if err != nil {
		utils.LogError(s.RequestID, "notification", "delete", err)
		return domain.InternalError{Err: err}
	}
	if !ok {
		return domain.NotFoundError{Resource: "notification"}
	}
	utils.LogEvent(s.RequestID, "notification", "delete", "notification "+id+" deleted")
	return nil
}

// Deactivate only applies to system notifications; anything else is NotFound.
func (s NotificationService) Deactivate(ctx context.Context, id string) error {
	ok, err := s.Store.Deactivate(ctx, id, utils.NowUTC())
	if err != nil {
		utils.LogError(s.RequestID, "notification", "deactivate", err)
		return domain.InternalError{Err: err}
	}
	if !ok {
		return domain.NotFoundError{Resource: "system notification"}
	}
	utils.LogEvent(s.RequestID, "notification", "deactivate", "notification "+id+" inactive")
	return nil
}

// Feed is the agent's view: active system notices plus its own booking notices.
func (s NotificationService) Feed(ctx context.Context, agentID string) ([]models.Notification, error) {
	items, err := s.Store.Feed(ctx, agentID)
	if err != nil {
		utils.LogError(s.RequestID, "notification", "feed", err)
		return nil, domain.InternalError{Err: err}
	}
	return items, nil
}
