package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	intconfig "travelagency/internal/config"
	intdb "travelagency/internal/db"
	"travelagency/internal/domain"
	"travelagency/internal/domain/models"
)

const notificationColumns = `id, title, message, type, status, recipient_id, booking_id, created_at, updated_at`

type NotificationRepository struct {
	DB *sql.DB
}

func (r NotificationRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNotification(s rowScanner) (models.Notification, error) {
	var (
		n                             models.Notification
		typ                           string
		status, recipient, bookingRef sql.NullString
	)
	if err := s.Scan(&n.ID, &n.Title, &n.Message, &typ, &status, &recipient, &bookingRef, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return models.Notification{}, err
	}
	n.Type = models.NotificationType(typ)
	n.Status = models.NotificationStatus(status.String)
	n.RecipientID = recipient.String
	n.BookingID = bookingRef.String
	n.CreatedAt = n.CreatedAt.UTC()
	n.UpdatedAt = n.UpdatedAt.UTC()
	return n, nil
}

func (r NotificationRepository) Insert(ctx context.Context, n models.Notification) error {
	_, err := r.db().ExecContext(ctx,
		`INSERT INTO notifications (`+notificationColumns+`) VALUES (`+intdb.Placeholders(9)+`)`,
		n.ID, n.Title, n.Message, string(n.Type), intdb.NullIfEmpty(string(n.Status)),
		intdb.NullIfEmpty(n.RecipientID), intdb.NullIfEmpty(n.BookingID),
		n.CreatedAt.UTC(), n.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

func (r NotificationRepository) queryList(ctx context.Context, query string, args ...any) ([]models.Notification, error) {
	rows, err := r.db().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	out := []models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (r NotificationRepository) List(ctx context.Context, q models.NotificationQuery) ([]models.Notification, int64, error) {
	where := []string{}
	args := []any{}
	if q.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(q.Type))
	}
	if q.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(q.Status))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count notifications: %w", err)
	}

	page := domain.PageRequest{Page: q.Page, Limit: q.Limit}.Normalize(domain.DefaultPageSize)
	query := `SELECT ` + notificationColumns + ` FROM notifications` + clause +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	items, err := r.queryList(ctx, query, append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r NotificationRepository) Stats(ctx context.Context) (models.NotificationStats, error) {
	var s models.NotificationStats
	err := r.db().QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(type = 'system'), 0),
			COALESCE(SUM(type = 'booking'), 0),
			COALESCE(SUM(type = 'success'), 0),
			COALESCE(SUM(type = 'cancel'), 0),
			COALESCE(SUM(type = 'system' AND status = 'active'), 0),
			COALESCE(SUM(type = 'system' AND status = 'inactive'), 0)
		FROM notifications
	`).Scan(&s.Total, &s.System, &s.Booking, &s.Success, &s.Cancel, &s.ActiveSystem, &s.InactiveSystem)
	if err != nil {
		return models.NotificationStats{}, fmt.Errorf("notification stats: %w", err)
	}
	return s, nil
}

func (r NotificationRepository) Feed(ctx context.Context, recipientID string) ([]models.Notification, error) {
	return r.queryList(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE (type = 'system' AND status = 'active')
		   OR (type <> 'system' AND recipient_id = ?)
		ORDER BY created_at DESC, id DESC`, recipientID)
}

func (r NotificationRepository) Delete(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.db(), "notifications", id)
}

// Deactivate is idempotent: an already inactive system notice still reports true.
func (r NotificationRepository) Deactivate(ctx context.Context, id string, at time.Time) (bool, error) {
	changed, err := execAffected(ctx, r.db(), "deactivate notification",
		`UPDATE notifications SET status = 'inactive', updated_at = ? WHERE id = ? AND type = 'system' AND status <> 'inactive'`,
		at.UTC(), id)
	if err != nil || changed {
		return changed, err
	}
	var n int
	err = r.db().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE id = ? AND type = 'system'`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("deactivate notification: %w", err)
	}
	return n > 0, nil
}
