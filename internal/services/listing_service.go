package services

import (
	"context"

	"travelagency/internal/domain"
	"travelagency/internal/domain/models"
	"travelagency/internal/utils"
)

// ListingService backs the admin dashboard: the combined booking table and home counts.
type ListingService struct {
	Listing   ListingStore
	Accounts  AccountStore
	RequestID string
}

func (s ListingService) List(ctx context.Context, q models.ListingQuery) (models.ListingReport, error) {
	page := domain.PageRequest{Page: q.Page, Limit: q.Limit}.Normalize(domain.DefaultPageSize)
	q.Page, q.Limit = page.Page, page.Limit

	res, err := s.Listing.ListCombined(ctx, q)
	if err != nil {
		utils.LogError(s.RequestID, "listing", "list", err)
		return models.ListingReport{}, domain.InternalError{Err: err}
	}
	if res.Records == nil {
		res.Records = []models.ResolvedBooking{}
	}
	return models.ListingReport{
		Records:    res.Records,
		Stats:      res.Stats,
		Pagination: domain.NewPagination(res.Matching, page),
	}, nil
}

// Overview counts agents, bookings of both variants, and confirmed revenue.
func (s ListingService) Overview(ctx context.Context) (models.Overview, error) {
	stats, err := s.Listing.Stats(ctx)
	if err != nil {
		utils.LogError(s.RequestID, "listing", "overview", err)
		return models.Overview{}, domain.InternalError{Err: err}
	}
	agents, err := s.Accounts.CountAgents(ctx)
	if err != nil {
		utils.LogError(s.RequestID, "listing", "overview", err)
		return models.Overview{}, domain.InternalError{Err: err}
	}
	return models.Overview{
		Agents:   agents.Total,
		Bookings: stats.TotalBookings,
		Revenue:  stats.TotalRevenue,
	}, nil
}
