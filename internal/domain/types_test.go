package domain

import (
	"math"
	"testing"
)

func TestPageRequestNormalize(t *testing.T) {
	got := PageRequest{Page: 0, Limit: 500}.Normalize(DefaultPageSize)
	if got.Page != 1 || got.Limit != MaxPageSize {
		t.Fatalf("Normalize = %+v, want page 1 limit %d", got, MaxPageSize)
	}
	got = PageRequest{Page: -3, Limit: 0}.Normalize(0)
	if got.Page != 1 || got.Limit != DefaultPageSize {
		t.Fatalf("Normalize = %+v, want page 1 limit %d", got, DefaultPageSize)
	}
}

func TestPageRequestOffsetSaturates(t *testing.T) {
	cases := []struct {
		req  PageRequest
		want int
	}{
		{PageRequest{Page: 1, Limit: 10}, 0},
		{PageRequest{Page: 3, Limit: 10}, 20},
		{PageRequest{Page: 0, Limit: 10}, 0},
		{PageRequest{Page: 5, Limit: 0}, 0},
		{PageRequest{Page: math.MaxInt / 5, Limit: 10}, MaxOffset},
		{PageRequest{Page: math.MaxInt, Limit: MaxPageSize}, MaxOffset},
	}
	for _, tc := range cases {
		if got := tc.req.Offset(); got != tc.want {
			t.Fatalf("Offset(%+v) = %d, want %d", tc.req, got, tc.want)
		}
	}
}

func TestNewPaginationHugePage(t *testing.T) {
	p := NewPagination(25, PageRequest{Page: math.MaxInt, Limit: 10})
	if p.TotalPages != 3 || p.Page != math.MaxInt {
		t.Fatalf("NewPagination = %+v", p)
	}
}
