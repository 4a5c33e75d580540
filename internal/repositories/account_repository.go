package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	intconfig "travelagency/internal/config"
	"travelagency/internal/domain"
	"travelagency/internal/domain/models"
)

const (
	agentColumns = `id, full_name, email, mobile_number, company_name, state, password_hash, approval, created_at, updated_at`
	adminColumns = `id, name, email, password_hash, role, created_at`
)

// AccountRepository stores agents and admins.
type AccountRepository struct {
	DB *sql.DB
}

func (r AccountRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func scanAgent(s rowScanner) (models.Agent, error) {
	var a models.Agent
	var approval string
	if err := s.Scan(&a.ID, &a.FullName, &a.Email, &a.MobileNumber, &a.CompanyName, &a.State,
		&a.PasswordHash, &approval, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return models.Agent{}, err
	}
	a.Approval = models.ApprovalStatus(approval)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, nil
}

func (r AccountRepository) InsertAgent(ctx context.Context, a models.Agent) error {
	_, err := r.db().ExecContext(ctx,
		`INSERT INTO agents (`+agentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.FullName, a.Email, a.MobileNumber, a.CompanyName, a.State,
		a.PasswordHash, string(a.Approval), a.CreatedAt.UTC(), a.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert agent: %w", err)
	}
	return nil
}

func (r AccountRepository) findAgent(ctx context.Context, column, value string) (models.Agent, bool, error) {
	row := r.db().QueryRowContext(ctx, `SELECT `+agentColumns+` FROM agents WHERE `+column+` = ? LIMIT 1`, value)
	a, err := scanAgent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Agent{}, false, nil
	}
	if err != nil {
		return models.Agent{}, false, fmt.Errorf("find agent: %w", err)
	}
	return a, true, nil
}

func (r AccountRepository) FindAgentByID(ctx context.Context, id string) (models.Agent, bool, error) {
	return r.findAgent(ctx, "id", id)
}

func (r AccountRepository) FindAgentByEmail(ctx context.Context, email string) (models.Agent, bool, error) {
	return r.findAgent(ctx, "email", email)
}

func (r AccountRepository) SetAgentApproval(ctx context.Context, id string, status models.ApprovalStatus, at time.Time) (bool, error) {
	return execAffected(ctx, r.db(), "set agent approval",
		`UPDATE agents SET approval = ?, updated_at = ? WHERE id = ?`, string(status), at.UTC(), id)
}

func (r AccountRepository) ListAgents(ctx context.Context, q models.AgentQuery) ([]models.Agent, int64, error) {
	where := []string{}
	args := []any{}
	if q.Approval != "" {
		where = append(where, "approval = ?")
		args = append(args, string(q.Approval))
	}
	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM agents`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count agents: %w", err)
	}

	page := domain.PageRequest{Page: q.Page, Limit: q.Limit}.Normalize(domain.DefaultPageSize)
	rows, err := r.db().QueryContext(ctx,
		`SELECT `+agentColumns+` FROM agents`+clause+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		append(args, page.Limit, page.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	out := []models.Agent{}
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan agent: %w", err)
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

func (r AccountRepository) CountAgents(ctx context.Context) (models.AgentCounts, error) {
	var c models.AgentCounts
	err := r.db().QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(approval = 'pending'), 0),
			COALESCE(SUM(approval = 'approved'), 0),
			COALESCE(SUM(approval = 'rejected'), 0)
		FROM agents
	`).Scan(&c.Total, &c.Pending, &c.Approved, &c.Rejected)
	if err != nil {
		return models.AgentCounts{}, fmt.Errorf("count agents: %w", err)
	}
	return c, nil
}

func (r AccountRepository) InsertAdmin(ctx context.Context, a models.Admin) error {
	_, err := r.db().ExecContext(ctx,
		`INSERT INTO admins (`+adminColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Email, a.PasswordHash, a.Role, a.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func (r AccountRepository) findAdmin(ctx context.Context, column, value string) (models.Admin, bool, error) {
	var a models.Admin
	err := r.db().QueryRowContext(ctx, `SELECT `+adminColumns+` FROM admins WHERE `+column+` = ? LIMIT 1`, value).
		Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Admin{}, false, nil
	}
	if err != nil {
		return models.Admin{}, false, fmt.Errorf("find admin: %w", err)
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return a, true, nil
}

func (r AccountRepository) FindAdminByID(ctx context.Context, id string) (models.Admin, bool, error) {
	return r.findAdmin(ctx, "id", id)
}

func (r AccountRepository) FindAdminByEmail(ctx context.Context, email string) (models.Admin, bool, error) {
	return r.findAdmin(ctx, "email", email)
}
