package memory

import (
	"context"
	"sync"
	"time"

	"travelagency/internal/domain"
	"travelagency/internal/domain/models"
)

type NotificationStore struct {
	mu    sync.RWMutex
	items map[string]models.Notification
}

func NewNotificationStore() *NotificationStore {
	return &NotificationStore{items: map[string]models.Notification{}}
}

func (s *NotificationStore) Insert(_ context.Context, n models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[n.ID]; exists {
		return errDuplicate
	}
	s.items[n.ID] = n
	return nil
}

func (s *NotificationStore) sorted(keep func(models.Notification) bool) []models.Notification {
	s.mu.RLock()
	out := []models.Notification{}
	for _, n := range s.items {
		if keep(n) {
			out = append(out, n)
		}
	}
	s.mu.RUnlock()
	sortNewestFirst(out, func(n models.Notification) (time.Time, string) { return n.CreatedAt, n.ID })
	return out
}

func (s *NotificationStore) List(_ context.Context, q models.NotificationQuery) ([]models.Notification, int64, error) {
	all := s.sorted(func(n models.Notification) bool {
		if q.Type != "" && n.Type != q.Type {
			return false
		}
		return q.Status == "" || n.Status == q.Status
	})
	page := domain.PageRequest{Page: q.Page, Limit: q.Limit}.Normalize(domain.DefaultPageSize)
	return window(all, page.Offset(), page.Limit), int64(len(all)), nil
}

func (s *NotificationStore) Stats(_ context.Context) (models.NotificationStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var st models.NotificationStats
	for _, n := range s.items {
		st.Total++
		switch n.Type {
		case models.NotificationSystem:
			st.System++
			if n.Status == models.NotificationActive {
				st.ActiveSystem++
			} else if n.Status == models.NotificationInactive {
				st.InactiveSystem++
			}
		case models.NotificationBooking:
			st.Booking++
		case models.NotificationSuccess:
			st.Success++
		case models.NotificationCancel:
			st.Cancel++
		}
	}
	return st, nil
}

func (s *NotificationStore) Feed(_ context.Context, recipientID string) ([]models.Notification, error) {
	return s.sorted(func(n models.Notification) bool {
		if n.Type == models.NotificationSystem {
			return n.Status == models.NotificationActive
		}
		return n.RecipientID == recipientID
	}), nil
}

func (s *NotificationStore) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	return true, nil
}

func (s *NotificationStore) Deactivate(_ context.Context, id string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.items[id]
	if !ok || n.Type != models.NotificationSystem {
		return false, nil
	}
	if n.Status != models.NotificationInactive {
		n.Status = models.NotificationInactive
		n.UpdatedAt = at
		s.items[id] = n
	}
	return true, nil
}
