package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"travelagency/internal/domain"
	"travelagency/internal/domain/models"
	"travelagency/internal/utils"
)

// BookingService creates bookings for agents and lets admins edit them.
type BookingService struct {
	Bookings        BookingStore
	DefaultBookings DefaultBookingStore
	Notifications   NotificationService
	RequestID       string
}

func (s BookingService) notifier() NotificationService {
	n := s.Notifications
	n.RequestID = s.RequestID
	return n
}

func (s BookingService) warnOmitted(action string, omitted []string) {
	if len(omitted) == 0 {
		return
	}
	utils.LogWarn(s.RequestID, "booking", action, "malformed reference dropped: "+strings.Join(omitted, ", "))
}

func requireAgent(agent models.Principal) error {
	if strings.TrimSpace(agent.ID) == "" {
		return domain.UnauthorizedError{Msg: "unauthorized"}
	}
	return nil
}

func (s BookingService) CreateBooking(ctx context.Context, agent models.Principal, p models.RawPayload) (models.Booking, error) {
	if err := requireAgent(agent); err != nil {
		return models.Booking{}, err
	}
	b, omitted, err := AssembleBooking(p)
	if err != nil {
		return models.Booking{}, err
	}
	s.warnOmitted("create", omitted)

	now := utils.NowUTC()
	b.ID = uuid.NewString()
	b.AgentID = agent.ID
	b.Contact = agent.Contact
	b.Status = models.StatusPending
	b.CreatedAt, b.UpdatedAt = now, now

	if err := s.Bookings.Insert(ctx, b); err != nil {
		utils.LogError(s.RequestID, "booking", "create", err)
		return models.Booking{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "booking", "create", "booking "+b.ID+" created")

	s.notifier().Emit(ctx, Notice{
		Type:           models.NotificationBooking,
		Title:          "Package Booking",
		RecipientID:    b.AgentID,
		RecipientEmail: b.Contact.Email,
		BookingID:      b.ID,
		Message:        fmt.Sprintf("Booking id:%s %s on %s is Created", b.ID, b.PackageName, utils.FormatDatePtr(b.Dates.PickupDate)),
	})
	return b, nil
}

func (s BookingService) CreateDefaultBooking(ctx context.Context, agent models.Principal, p models.RawPayload) (models.DefaultPackageBooking, error) {
	if err := requireAgent(agent); err != nil {
		return models.DefaultPackageBooking{}, err
	}
	b, omitted, err := AssembleDefaultBooking(p)
	if err != nil {
		return models.DefaultPackageBooking{}, err
	}
	s.warnOmitted("create_default", omitted)

	now := utils.NowUTC()
	b.ID = uuid.NewString()
	b.AgentID = agent.ID
	b.Contact = agent.Contact
	b.Status = models.StatusPending
	b.CreatedAt, b.UpdatedAt = now, now

	if err := s.DefaultBookings.Insert(ctx, b); err != nil {
		utils.LogError(s.RequestID, "booking", "create_default", err)
		return models.DefaultPackageBooking{}, domain.InternalError{Err: err}
	}
	utils.LogEvent(s.RequestID, "booking", "create_default", "default booking "+b.ID+" created")

	s.notifier().Emit(ctx, Notice{
		Type:           models.NotificationBooking,
		Title:          "Package Booking",
		RecipientID:    b.AgentID,
		RecipientEmail: b.Contact.Email,
		BookingID:      b.ID,
		Message:        fmt.Sprintf("Booking id:%s %s (Default Package) is Created", b.ID, b.PackageName),
	})
	return b, nil
}

// ListForAgent merges the agent's bookings from both stores, newest first.
func (s BookingService) ListForAgent(ctx context.Context, agentID string) ([]models.ResolvedBooking, error) {
	normal, err := s.Bookings.ListByAgent(ctx, agentID)
	if err != nil {
		utils.LogError(s.RequestID, "booking", "list_agent", err)
		return nil, domain.InternalError{Err: err}
	}
	defaults, err := s.DefaultBookings.ListByAgent(ctx, agentID)
	if err != nil {
		utils.LogError(s.RequestID, "booking", "list_agent", err)
		return nil, domain.InternalError{Err: err}
	}

	out := make([]models.ResolvedBooking, 0, len(normal)+len(defaults))
	for _, b := range normal {
		out = append(out, models.ResolveNormal(b))
	}
	for _, b := range defaults {
		out = append(out, models.ResolveDefault(b))
	}
	slices.SortStableFunc(out, func(a, b models.ResolvedBooking) int {
		return b.CreatedAt().Compare(a.CreatedAt())
	})
	return out, nil
}

// UpdateBooking patches a custom booking. Status and contact are left alone.
func (s BookingService) UpdateBooking(ctx context.Context, id string, p models.RawPayload) (models.Booking, error) {
	cur, found, err := s.Bookings.FindByID(ctx, id)
	if err != nil {
		utils.LogError(s.RequestID, "booking", "update", err)
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if !found {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}

	next, omitted, err := PatchBooking(cur, p)
	if err != nil {
		return models.Booking{}, err
	}
	s.warnOmitted("update", omitted)
	next.ID, next.AgentID, next.Contact, next.Status, next.CreatedAt = cur.ID, cur.AgentID, cur.Contact, cur.Status, cur.CreatedAt
	next.UpdatedAt = utils.NowUTC()

	ok, err := s.Bookings.Replace(ctx, next)
	if err != nil {
		utils.LogError(s.RequestID, "booking", "update", err)
		return models.Booking{}, domain.InternalError{Err: err}
	}
	if !ok {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	utils.LogEvent(s.RequestID, "booking", "update", "booking "+id+" updated")

	if fresh, found, err := s.Bookings.FindByID(ctx, id); err == nil && found {
		return fresh, nil
	}
	return next, nil
}

func (s BookingService) UpdateDefaultBooking(ctx context.Context, id string, p models.RawPayload) (models.DefaultPackageBooking, error) {
	cur, found, err := s.DefaultBookings.FindByID(ctx, id)
	if err != nil {
		utils.LogError(s.RequestID, "booking", "update_default", err)
		return models.DefaultPackageBooking{}, domain.InternalError{Err: err}
	}
	if !found {
		return models.DefaultPackageBooking{}, domain.NotFoundError{Resource: "default package booking"}
	}

	next, omitted, err := PatchDefaultBooking(cur, p)
	if err != nil {
		return models.DefaultPackageBooking{}, err
	}
	s.warnOmitted("update_default", omitted)
	next.ID, next.AgentID, next.Contact, next.Status, next.CreatedAt = cur.ID, cur.AgentID, cur.Contact, cur.Status, cur.CreatedAt
	next.UpdatedAt = utils.NowUTC()

	ok, err := s.DefaultBookings.Replace(ctx, next)
	if err != nil {
		utils.LogError(s.RequestID, "booking", "update_default", err)
		return models.DefaultPackageBooking{}, domain.InternalError{Err: err}
	}
	if !ok {
		return models.DefaultPackageBooking{}, domain.NotFoundError{Resource: "default package booking"}
	}
	utils.LogEvent(s.RequestID, "booking", "update_default", "default booking "+id+" updated")

	if fresh, found, err := s.DefaultBookings.FindByID(ctx, id); err == nil && found {
		return fresh, nil
	}
	return next, nil
}
