package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	intconfig "travelagency/internal/config"
	intdb "travelagency/internal/db"
	"travelagency/internal/domain"
	"travelagency/internal/domain/models"
)

// ListingRepository reads both booking tables as one collection.
type ListingRepository struct {
	DB *sql.DB
}

func (r ListingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// projection renders cols with the given alias prefix, or as NULL placeholders
// when the branch has no such columns.
func projection(cols []string, prefix string, present bool) string {
	parts := make([]string, 0, len(cols))
	for _, c := range cols {
		if present {
			parts = append(parts, fmt.Sprintf("%s AS %s%s", c, prefix, c))
		} else {
			parts = append(parts, fmt.Sprintf("NULL AS %s%s", prefix, c))
		}
	}
	return strings.Join(parts, ", ")
}

func combinedSource() string {
	common := strings.Join(commonColumns, ", ")
	return fmt.Sprintf(`
		SELECT 'normal' AS variant, %s, %s, %s FROM %s
		UNION ALL
		SELECT 'default' AS variant, %s, %s, %s FROM %s`,
		common, projection(bookingColumns, "a_", true), projection(defaultBookingColumns, "d_", false), tableBookings,
		common, projection(bookingColumns, "a_", false), projection(defaultBookingColumns, "d_", true), tableDefaultBookings,
	)
}

const statsSelect = `
		SELECT
			COUNT(*) AS total_bookings,
			COALESCE(SUM(status = 'pending'), 0) AS pending_bookings,
			COALESCE(SUM(status = 'confirmed'), 0) AS confirmed_bookings,
			COALESCE(SUM(status = 'cancelled'), 0) AS cancelled_bookings,
			COALESCE(SUM(CASE WHEN status = 'confirmed' THEN base_total ELSE 0 END), 0) AS total_revenue
		FROM combined`

func listingFilter(q models.ListingQuery) (string, []any) {
	where := []string{}
	args := []any{}
	if s := strings.ToLower(strings.TrimSpace(q.State)); s != "" {
		where = append(where, "LOWER(contact_state) LIKE ?")
		args = append(args, "%"+intdb.EscapeLike(s)+"%")
	}
	if s := strings.ToLower(strings.TrimSpace(q.Search)); s != "" {
		term := "%" + intdb.EscapeLike(s) + "%"
		where = append(where, "(LOWER(contact_email) LIKE ? OR LOWER(contact_name) LIKE ?)")
		args = append(args, term, term)
	}
	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

// buildListingQuery produces a single statement returning the unfiltered
// stats, the filtered count and one page of rows. An empty page still
// yields one row whose page columns are all NULL.
func buildListingQuery(q models.ListingQuery) (string, []any) {
	where, args := listingFilter(q)
	page := domain.PageRequest{Page: q.Page, Limit: q.Limit}.Normalize(domain.DefaultPageSize)

	query := fmt.Sprintf(`
		WITH combined AS (%s
		),
		matched AS (SELECT * FROM combined%s),
		stats AS (%s
		)
		SELECT
			s.total_bookings, s.pending_bookings, s.confirmed_bookings, s.cancelled_bookings, s.total_revenue,
			(SELECT COUNT(*) FROM matched) AS matching_bookings,
			p.*
		FROM stats s
		LEFT JOIN (
			SELECT * FROM matched ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?
		) p ON TRUE
		ORDER BY p.created_at DESC, p.id DESC`,
		combinedSource(), where, statsSelect)

	args = append(args, page.Limit, page.Offset())
	return query, args
}

type listingRow struct {
	stats    models.BookingStats
	matching int64
	variant  sql.NullString
	common   commonRow
	normal   bookingRow
	def      defaultBookingRow
}

func (r *listingRow) dest() []any {
	out := []any{
		&r.stats.TotalBookings, &r.stats.PendingBookings, &r.stats.ConfirmedBookings,
		&r.stats.CancelledBookings, &r.stats.TotalRevenue,
		&r.matching, &r.variant,
	}
	out = append(out, r.common.dest()...)
	out = append(out, r.normal.dest()...)
	return append(out, r.def.dest()...)
}

func (r listingRow) resolved() (models.ResolvedBooking, bool) {
	switch models.Variant(r.variant.String) {
	case models.VariantNormal:
		return models.ResolveNormal(r.normal.booking(r.common)), true
	case models.VariantDefault:
		return models.ResolveDefault(r.def.booking(r.common)), true
	}
	return models.ResolvedBooking{}, false
}

func (r ListingRepository) ListCombined(ctx context.Context, q models.ListingQuery) (models.ListingPage, error) {
	query, args := buildListingQuery(q)
	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return models.ListingPage{}, fmt.Errorf("list combined bookings: %w", err)
	}
	defer rows.Close()

	page := models.ListingPage{Records: []models.ResolvedBooking{}}
	for rows.Next() {
		var row listingRow
		if err := rows.Scan(row.dest()...); err != nil {
			return models.ListingPage{}, fmt.Errorf("scan combined booking: %w", err)
		}
		page.Stats = row.stats
		page.Matching = row.matching
		if rec, ok := row.resolved(); ok {
			page.Records = append(page.Records, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return models.ListingPage{}, fmt.Errorf("list combined bookings: %w", err)
	}
	return page, nil
}

// Stats aggregates both tables without any filter.
func (r ListingRepository) Stats(ctx context.Context) (models.BookingStats, error) {
	query := fmt.Sprintf(`
		WITH combined AS (
			SELECT status, base_total FROM %s
			UNION ALL
			SELECT status, base_total FROM %s
		)%s`, tableBookings, tableDefaultBookings, statsSelect)

	var s models.BookingStats
	err := r.db().QueryRowContext(ctx, query).Scan(
		&s.TotalBookings, &s.PendingBookings, &s.ConfirmedBookings, &s.CancelledBookings, &s.TotalRevenue,
	)
	if err != nil {
		return models.BookingStats{}, fmt.Errorf("booking stats: %w", err)
	}
	return s, nil
}
