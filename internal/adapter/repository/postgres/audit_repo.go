package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sankopay/agencyledger/internal/domain"
)

const auditColumns = `id, user_id, branch_id, action, resource_type, resource_id, request_id, before_state, after_state, status, error_message, created_at`

// AuditRepository implements usecase.AuditRepository over the audit_logs
// table.
type AuditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

// Create inserts an audit log entry. Callers leave ID and CreatedAt empty.
func (r *AuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	var beforeState, afterState []byte
	var err error

	if log.BeforeState != nil {
		beforeState, err = json.Marshal(log.BeforeState)
		if err != nil {
			return err
		}
	}
	if log.AfterState != nil {
		afterState, err = json.Marshal(log.AfterState)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO audit_logs (` + auditColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = r.pool.Exec(ctx, query,
		log.ID,
		log.UserID,
		log.BranchID,
		log.Action,
		log.ResourceType,
		log.ResourceID,
		log.RequestID,
		beforeState,
		afterState,
		log.Status,
		log.ErrorMessage,
		timeToPgTimestamptz(log.CreatedAt),
	)
	return err
}

// List retrieves audit logs matching the filter, newest first.
func (r *AuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_logs WHERE 1=1`
	args := []any{}
	argPos := 1

	addArg := func(clause string, value any) {
		query += clause + `$` + itoa(argPos)
		args = append(args, value)
		argPos++
	}

	if filter.UserID != "" {
		addArg(` AND user_id = `, filter.UserID)
	}
	if filter.BranchID != "" {
		addArg(` AND branch_id = `, filter.BranchID)
	}
	if filter.Action != "" {
		addArg(` AND action = `, filter.Action)
	}
	if filter.ResourceType != "" {
		addArg(` AND resource_type = `, filter.ResourceType)
	}
	if filter.ResourceID != "" {
		addArg(` AND resource_id = `, filter.ResourceID)
	}
	if filter.StartDate != nil {
		addArg(` AND created_at >= `, timeToPgTimestamptz(*filter.StartDate))
	}
	if filter.EndDate != nil {
		addArg(` AND created_at <= `, timeToPgTimestamptz(*filter.EndDate))
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		addArg(` LIMIT `, filter.Limit)
	}
	if filter.Offset > 0 {
		addArg(` OFFSET `, filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

// GetByResourceID retrieves the audit trail of a single resource, newest
// first.
func (r *AuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	query := `
		SELECT ` + auditColumns + `
		FROM audit_logs
		WHERE resource_type = $1 AND resource_id = $2
		ORDER BY created_at DESC
	`

	rows, err := r.pool.Query(ctx, query, resourceType, resourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanAuditLogs(rows)
}

func scanAuditLogs(rows pgx.Rows) ([]*domain.AuditLog, error) {
	var logs []*domain.AuditLog
	for rows.Next() {
		var (
			log                     domain.AuditLog
			beforeState, afterState []byte
		)

		err := rows.Scan(
			&log.ID,
			&log.UserID,
			&log.BranchID,
			&log.Action,
			&log.ResourceType,
			&log.ResourceID,
			&log.RequestID,
			&beforeState,
			&afterState,
			&log.Status,
			&log.ErrorMessage,
			&log.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if beforeState != nil {
			_ = json.Unmarshal(beforeState, &log.BeforeState)
		}
		if afterState != nil {
			_ = json.Unmarshal(afterState, &log.AfterState)
		}

		logs = append(logs, &log)
	}
	return logs, rows.Err()
}
