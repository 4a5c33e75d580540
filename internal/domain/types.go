package domain

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxOffset       = math.MaxInt32
)

// PageRequest carries the requested window before normalization.
type PageRequest struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Normalize applies page=1 and limit=defaultLimit fallbacks and caps the limit.
func (p PageRequest) Normalize(defaultLimit int) PageRequest {
	if defaultLimit <= 0 {
		defaultLimit = DefaultPageSize
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

// Offset is the number of rows to skip for this page. It saturates at
// MaxOffset, which is already past the end of any listing.
func (p PageRequest) Offset() int {
	if p.Page < 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > MaxOffset/p.Limit {
		return MaxOffset
	}
	return (p.Page - 1) * p.Limit
}

// Pagination is the metadata returned alongside a page of results.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"totalPages"`
}

func NewPagination(total int64, req PageRequest) Pagination {
	pages := int64(0)
	if req.Limit > 0 {
		pages = (total + int64(req.Limit) - 1) / int64(req.Limit)
	}
	return Pagination{
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: pages,
	}
}
