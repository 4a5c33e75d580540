package services

import (
	"context"
	"fmt"
	"time"

	"travelagency/internal/domain"
	"travelagency/internal/domain/models"
	"travelagency/internal/utils"
)

// LifecycleService moves bookings of either variant through their status machine.
type LifecycleService struct {
	Bookings        BookingStore
	DefaultBookings DefaultBookingStore
	Notifications   NotificationService
	RequestID       string
}

// TransitionResult is returned by Confirm and Cancel. Changed is false for
// an idempotent repeat.
type TransitionResult struct {
	Booking models.ResolvedBooking `json:"booking"`
	Type    models.Variant         `json:"type"`
	Changed bool                   `json:"changed"`
	Message string                 `json:"message"`
}

func (s LifecycleService) notifier() NotificationService {
	n := s.Notifications
	n.RequestID = s.RequestID
	return n
}

// Resolve looks the id up in the custom store first, then the default store.
func (s LifecycleService) Resolve(ctx context.Context, id string) (models.ResolvedBooking, error) {
	b, found, err := s.Bookings.FindByID(ctx, id)
	if err != nil {
		utils.LogError(s.RequestID, "lifecycle", "resolve", err)
		return models.ResolvedBooking{}, domain.InternalError{Err: err}
	}
	if found {
		return models.ResolveNormal(b), nil
	}

	d, found, err := s.DefaultBookings.FindByID(ctx, id)
	if err != nil {
		utils.LogError(s.RequestID, "lifecycle", "resolve", err)
		return models.ResolvedBooking{}, domain.InternalError{Err: err}
	}
	if found {
		return models.ResolveDefault(d), nil
	}
	return models.ResolvedBooking{}, domain.NotFoundError{Resource: "booking"}
}

func (s LifecycleService) Confirm(ctx context.Context, id string) (TransitionResult, error) {
	return s.transition(ctx, id, models.StatusConfirmed)
}

func (s LifecycleService) Cancel(ctx context.Context, id string) (TransitionResult, error) {
	return s.transition(ctx, id, models.StatusCancelled)
}

func already(rec models.ResolvedBooking, target models.Status) TransitionResult {
	return TransitionResult{
		Booking: rec,
		Type:    rec.Variant,
		Message: fmt.Sprintf("Booking already %s", target),
	}
}

func (s LifecycleService) updateStatus(ctx context.Context, v models.Variant, id string, target models.Status, at time.Time) (bool, error) {
	from := models.SourcesOf(target)
	if v == models.VariantDefault {
		return s.DefaultBookings.UpdateStatus(ctx, id, from, target, at)
	}
	return s.Bookings.UpdateStatus(ctx, id, from, target, at)
}

// transition writes the new status with a conditional update, so of two
// racing callers only one changes the row and emits a notice.
func (s LifecycleService) transition(ctx context.Context, id string, target models.Status) (TransitionResult, error) {
	rec, err := s.Resolve(ctx, id)
	if err != nil {
		return TransitionResult{}, err
	}
	cur := rec.Status()
	if cur == target {
		return already(rec, target), nil
	}
	if !cur.CanTransitionTo(target) {
		return TransitionResult{}, domain.ConflictError{
			Resource: "booking",
			Msg:      fmt.Sprintf("a %s booking cannot be %s", cur, target),
		}
	}

	now := utils.NowUTC()
	changed, err := s.updateStatus(ctx, rec.Variant, id, target, now)
	if err != nil {
		utils.LogError(s.RequestID, "lifecycle", string(target), err)
		return TransitionResult{}, domain.InternalError{Err: err}
	}
	if !changed {
		again, err := s.Resolve(ctx, id)
		if err != nil {
			return TransitionResult{}, err
		}
		if again.Status() == target {
			return already(again, target), nil
		}
		return TransitionResult{}, domain.ConflictError{
			Resource: "booking",
			Msg:      fmt.Sprintf("booking moved to %s concurrently", again.Status()),
		}
	}

	updated := rec.WithStatus(target, now)
	utils.LogEvent(s.RequestID, "lifecycle", string(target), fmt.Sprintf("%s booking %s %s -> %s", updated.Variant, id, cur, target))
	s.notifier().Emit(ctx, transitionNotice(updated, target))

	return TransitionResult{
		Booking: updated,
		Type:    updated.Variant,
		Changed: true,
		Message: fmt.Sprintf("Booking %s successfully", target),
	}, nil
}

func transitionNotice(rec models.ResolvedBooking, target models.Status) Notice {
	n := Notice{
		RecipientID:    rec.AgentID(),
		RecipientEmail: rec.Contact().Email,
		BookingID:      rec.ID(),
	}
	switch target {
	case models.StatusConfirmed:
		n.Type = models.NotificationSuccess
		n.Title = "Booking Confirmation"
		n.Message = fmt.Sprintf("Booking id:%s %s on %s is confirmed", rec.ID(), rec.PackageName(), utils.FormatDatePtr(rec.PickupDate()))
	case models.StatusCancelled:
		n.Type = models.NotificationCancel
		n.Title = "Booking Cancellation"
		n.Message = fmt.Sprintf("Booking id:%s %s is cancelled", rec.ID(), rec.PackageName())
	}
	return n
}

// Delete removes the booking from whichever store holds it.
func (s LifecycleService) Delete(ctx context.Context, id string) (models.ResolvedBooking, error) {
	rec, err := s.Resolve(ctx, id)
	if err != nil {
		return models.ResolvedBooking{}, err
	}

	var ok bool
	if rec.Variant == models.VariantDefault {
		ok, err = s.DefaultBookings.Delete(ctx, id)
	} else {
		ok, err = s.Bookings.Delete(ctx, id)
	}
	if err != nil {
		utils.LogError(s.RequestID, "lifecycle", "delete", err)
		return models.ResolvedBooking{}, domain.InternalError{Err: err}
	}
	if !ok {
		return models.ResolvedBooking{}, domain.NotFoundError{Resource: "booking"}
	}
	utils.LogEvent(s.RequestID, "lifecycle", "delete", fmt.Sprintf("%s booking %s deleted", rec.Variant, id))
	return rec, nil
}
