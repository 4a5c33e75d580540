package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	intconfig "travelagency/internal/config"
	intdb "travelagency/internal/db"
	"travelagency/internal/domain/models"
)

// BookingRepository persists custom package bookings in the bookings table.
type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r BookingRepository) Insert(ctx context.Context, b models.Booking) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		tableBookings,
		joinColumns(commonColumns, bookingColumns),
		intdb.Placeholders(countColumns(commonColumns, bookingColumns)),
	)
	args := commonArgs(b.ID, b.AgentID, b.Contact, b.PackageID, b.PackageName, b.Pricing, b.Status, b.CreatedAt, b.UpdatedAt)
	args = append(args, bookingArgs(b)...)
	if _, err := r.db().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r BookingRepository) FindByID(ctx context.Context, id string) (models.Booking, bool, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ? LIMIT 1`,
		joinColumns(commonColumns, bookingColumns), tableBookings)

	var c commonRow
	var v bookingRow
	err := r.db().QueryRowContext(ctx, query, id).Scan(append(c.dest(), v.dest()...)...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, false, nil
	}
	if err != nil {
		return models.Booking{}, false, fmt.Errorf("find booking: %w", err)
	}
	return v.booking(c), true, nil
}

func (r BookingRepository) UpdateStatus(ctx context.Context, id string, from []models.Status, to models.Status, at time.Time) (bool, error) {
	return updateStatus(ctx, r.db(), tableBookings, id, from, to, at)
}

// Replace rewrites the editable columns of an existing booking.
func (r BookingRepository) Replace(ctx context.Context, b models.Booking) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = ?`,
		tableBookings, setClause(editableCommonColumns, bookingColumns))
	args := editableCommonArgs(b.PackageID, b.PackageName, b.Pricing, b.UpdatedAt)
	args = append(args, bookingArgs(b)...)
	args = append(args, b.ID)
	return execAffected(ctx, r.db(), "replace booking", query, args...)
}

func (r BookingRepository) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db(), tableBookings, id)
}

func (r BookingRepository) ListByAgent(ctx context.Context, agentID string) ([]models.Booking, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE agent_id = ? ORDER BY created_at DESC, id DESC`,
		joinColumns(commonColumns, bookingColumns), tableBookings)

	rows, err := r.db().QueryContext(ctx, query, agentID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	out := []models.Booking{}
	for rows.Next() {
		var c commonRow
		var v bookingRow
		if err := rows.Scan(append(c.dest(), v.dest()...)...); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, v.booking(c))
	}
	return out, rows.Err()
}
