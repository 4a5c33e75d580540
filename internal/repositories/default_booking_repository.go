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

// DefaultBookingRepository persists fixed-departure bookings.
type DefaultBookingRepository struct {
	DB *sql.DB
}

func (r DefaultBookingRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r DefaultBookingRepository) Insert(ctx context.Context, b models.DefaultPackageBooking) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		tableDefaultBookings,
		joinColumns(commonColumns, defaultBookingColumns),
		intdb.Placeholders(countColumns(commonColumns, defaultBookingColumns)),
	)
	args := commonArgs(b.ID, b.AgentID, b.Contact, b.PackageID, b.PackageName, b.Pricing, b.Status, b.CreatedAt, b.UpdatedAt)
	args = append(args, defaultBookingArgs(b)...)
	if _, err := r.db().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert default booking: %w", err)
	}
	return nil
}

func (r DefaultBookingRepository) FindByID(ctx context.Context, id string) (models.DefaultPackageBooking, bool, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ? LIMIT 1`,
		joinColumns(commonColumns, defaultBookingColumns), tableDefaultBookings)

	var c commonRow
	var v defaultBookingRow
	err := r.db().QueryRowContext(ctx, query, id).Scan(append(c.dest(), v.dest()...)...)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultPackageBooking{}, false, nil
	}
	if err != nil {
		return models.DefaultPackageBooking{}, false, fmt.Errorf("find default booking: %w", err)
	}
	return v.booking(c), true, nil
}

func (r DefaultBookingRepository) UpdateStatus(ctx context.Context, id string, from []models.Status, to models.Status, at time.Time) (bool, error) {
	return updateStatus(ctx, r.db(), tableDefaultBookings, id, from, to, at)
}

func (r DefaultBookingRepository) Replace(ctx context.Context, b models.DefaultPackageBooking) (bool, error) {
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE id = ?`,
		tableDefaultBookings, setClause(editableCommonColumns, defaultBookingColumns))
	args := editableCommonArgs(b.PackageID, b.PackageName, b.Pricing, b.UpdatedAt)
	args = append(args, defaultBookingArgs(b)...)
	args = append(args, b.ID)
	return execAffected(ctx, r.db(), "replace default booking", query, args...)
}

func (r DefaultBookingRepository) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db(), tableDefaultBookings, id)
}

func (r DefaultBookingRepository) ListByAgent(ctx context.Context, agentID string) ([]models.DefaultPackageBooking, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE agent_id = ? ORDER BY created_at DESC, id DESC`,
		joinColumns(commonColumns, defaultBookingColumns), tableDefaultBookings)

	rows, err := r.db().QueryContext(ctx, query, agentID)
	if err != nil {
		return nil, fmt.Errorf("list default bookings: %w", err)
	}
	defer rows.Close()

	out := []models.DefaultPackageBooking{}
	for rows.Next() {
		var c commonRow
		var v defaultBookingRow
		if err := rows.Scan(append(c.dest(), v.dest()...)...); err != nil {
			return nil, fmt.Errorf("scan default booking: %w", err)
		}
		out = append(out, v.booking(c))
	}
	return out, rows.Err()
}
