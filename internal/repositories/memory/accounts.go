package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"travelagency/internal/domain"
	"travelagency/internal/domain/models"
)

type AccountStore struct {
	mu     sync.RWMutex
	agents map[string]models.Agent
	admins map[string]models.Admin
}

func NewAccountStore() *AccountStore {
	return &AccountStore{
		agents: map[string]models.Agent{},
		admins: map[string]models.Admin{},
	}
}

func (s *AccountStore) InsertAgent(_ context.Context, a models.Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.agents[a.ID]; exists {
		return errDuplicate
	}
	for _, other := range s.agents {
		if strings.EqualFold(other.Email, a.Email) {
			return errDuplicate
		}
	}
	s.agents[a.ID] = a
	return nil
}

func (s *AccountStore) FindAgentByID(_ context.Context, id string) (models.Agent, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.agents[id]
	return a, ok, nil
}

func (s *AccountStore) FindAgentByEmail(_ context.Context, email string) (models.Agent, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.agents {
		if strings.EqualFold(a.Email, email) {
			return a, true, nil
		}
	}
	return models.Agent{}, false, nil
}

func (s *AccountStore) SetAgentApproval(_ context.Context, id string, status models.ApprovalStatus, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.agents[id]
	if !ok {
		return false, nil
	}
	a.Approval = status
	a.UpdatedAt = at
	s.agents[id] = a
	return true, nil
}

func (s *AccountStore) ListAgents(_ context.Context, q models.AgentQuery) ([]models.Agent, int64, error) {
	s.mu.RLock()
	all := []models.Agent{}
	for _, a := range s.agents {
		if q.Approval == "" || a.Approval == q.Approval {
			all = append(all, a)
		}
	}
	s.mu.RUnlock()
	sortNewestFirst(all, func(a models.Agent) (time.Time, string) { return a.CreatedAt, a.ID })
	page := domain.PageRequest{Page: q.Page, Limit: q.Limit}.Normalize(domain.DefaultPageSize)
	return window(all, page.Offset(), page.Limit), int64(len(all)), nil
}

func (s *AccountStore) CountAgents(_ context.Context) (models.AgentCounts, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c := models.AgentCounts{Total: int64(len(s.agents))}
	for _, a := range s.agents {
		switch a.Approval {
		case models.ApprovalPending:
			c.Pending++
		case models.ApprovalApproved:
			c.Approved++
		case models.ApprovalRejected:
			c.Rejected++
		}
	}
	return c, nil
}

func (s *AccountStore) InsertAdmin(_ context.Context, a models.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.admins {
		if other.ID == a.ID || strings.EqualFold(other.Email, a.Email) {
			return errDuplicate
		}
	}
	s.admins[a.ID] = a
	return nil
}

func (s *AccountStore) FindAdminByID(_ context.Context, id string) (models.Admin, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.admins[id]
	return a, ok, nil
}

func (s *AccountStore) FindAdminByEmail(_ context.Context, email string) (models.Admin, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.admins {
		if strings.EqualFold(a.Email, email) {
			return a, true, nil
		}
	}
	return models.Admin{}, false, nil
}
