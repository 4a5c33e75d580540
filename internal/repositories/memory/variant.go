// Package memory keeps every store in process memory. It backs local runs
// with STORE_DRIVER=memory and the service tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"travelagency/internal/domain/models"
)

type statusSetter[T any] interface {
	*T
	SetStatus(s models.Status, at time.Time)
}

// VariantStore holds one booking variant keyed by id.
type VariantStore[T models.Record, PT statusSetter[T]] struct {
	mu   sync.RWMutex
	rows map[string]T
}

func NewVariantStore[T models.Record, PT statusSetter[T]]() *VariantStore[T, PT] {
	return &VariantStore[T, PT]{rows: map[string]T{}}
}

func NewBookingStore() *VariantStore[models.Booking, *models.Booking] {
	return NewVariantStore[models.Booking]()
}

func NewDefaultBookingStore() *VariantStore[models.DefaultPackageBooking, *models.DefaultPackageBooking] {
	return NewVariantStore[models.DefaultPackageBooking]()
}

func (s *VariantStore[T, PT]) Insert(_ context.Context, rec T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.rows[rec.RecordID()]; exists {
		return errDuplicate
	}
	s.rows[rec.RecordID()] = rec
	return nil
}

func (s *VariantStore[T, PT]) FindByID(_ context.Context, id string) (T, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.rows[id]
	return rec, ok, nil
}

func (s *VariantStore[T, PT]) UpdateStatus(_ context.Context, id string, from []models.Status, to models.Status, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.rows[id]
	if !ok || !slices.Contains(from, rec.RecordStatus()) {
		return false, nil
	}
	PT(&rec).SetStatus(to, at)
	s.rows[id] = rec
	return true, nil
}

// Replace swaps the stored record but keeps its current status.
func (s *VariantStore[T, PT]) Replace(_ context.Context, rec T) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rows[rec.RecordID()]
	if !ok {
		return false, nil
	}
	PT(&rec).SetStatus(cur.RecordStatus(), rec.UpdatedTime())
	s.rows[rec.RecordID()] = rec
	return true, nil
}

func (s *VariantStore[T, PT]) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return false, nil
	}
	delete(s.rows, id)
	return true, nil
}

func (s *VariantStore[T, PT]) ListByAgent(_ context.Context, agentID string) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []T{}
	for _, rec := range s.rows {
		if rec.OwnerID() == agentID {
			out = append(out, rec)
		}
	}
	sortNewestFirst(out, func(r T) (time.Time, string) { return r.CreatedTime(), r.RecordID() })
	return out, nil
}

func (s *VariantStore[T, PT]) snapshot() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.rows))
	for _, rec := range s.rows {
		out = append(out, rec)
	}
	return out
}

// sortNewestFirst orders by creation time, then id, both descending.
func sortNewestFirst[T any](items []T, key func(T) (time.Time, string)) {
	slices.SortStableFunc(items, func(a, b T) int {
		ta, ia := key(a)
		tb, ib := key(b)
		if c := tb.Compare(ta); c != 0 {
			return c
		}
		switch {
		case ia > ib:
			return -1
		case ia < ib:
			return 1
		}
		return 0
	})
}

func window[T any](items []T, offset, limit int) []T {
	if offset < 0 || limit <= 0 || offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
