package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sankopay/agencyledger/internal/domain"
)

const mappingColumns = `id, float_account_id, transaction_type, branch_id, gl_account_id, gl_account_code, role, sign_convention, active, created_at, updated_at`

// MappingRepository implements usecase.MappingRepository.
type MappingRepository struct {
	pool *pgxpool.Pool
}

// NewMappingRepository creates a new MappingRepository.
func NewMappingRepository(pool *pgxpool.Pool) *MappingRepository {
	return &MappingRepository{pool: pool}
}

// Create inserts a mapping. Partial unique indexes enforce one active mapping
// per (float account, role) and per (transaction type, branch, role).
func (r *MappingRepository) Create(ctx context.Context, mapping *domain.FloatGLMapping) error {
	query := `
		INSERT INTO float_gl_mappings (` + mappingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.pool.Exec(ctx, query,
		mapping.ID,
		mapping.FloatAccountID,
		mapping.TransactionType,
		mapping.BranchID,
		mapping.GLAccountID,
		mapping.GLAccountCode,
		string(mapping.Role),
		string(mapping.Sign),
		mapping.Active,
		timeToPgTimestamptz(mapping.CreatedAt),
		timeToPgTimestamptz(mapping.UpdatedAt),
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrDuplicateMapping
	}

	return err
}

// GetByID retrieves a mapping by id.
func (r *MappingRepository) GetByID(ctx context.Context, id string) (*domain.FloatGLMapping, error) {
	query := `SELECT ` + mappingColumns + ` FROM float_gl_mappings WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// Deactivate retires a mapping. History is kept; mappings are never deleted.
func (r *MappingRepository) Deactivate(ctx context.Context, id string, updatedAt time.Time) error {
	query := `UPDATE float_gl_mappings SET active = false, updated_at = $2 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMappingNotFound
	}
	return nil
}

// ListByFloatAccount returns active mappings bound directly to a float account.
func (r *MappingRepository) ListByFloatAccount(ctx context.Context, floatAccountID string) ([]*domain.FloatGLMapping, error) {
	query := `
		SELECT ` + mappingColumns + `
		FROM float_gl_mappings
		WHERE float_account_id = $1 AND active
		ORDER BY role
	`

	rows, err := r.pool.Query(ctx, query, floatAccountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanMany(rows)
}

// ListByTransactionType returns active generic mappings for a transaction
// type within a branch.
func (r *MappingRepository) ListByTransactionType(ctx context.Context, transactionType, branchID string) ([]*domain.FloatGLMapping, error) {
	query := `
		SELECT ` + mappingColumns + `
		FROM float_gl_mappings
		WHERE transaction_type = $1 AND branch_id = $2 AND active
		ORDER BY role
	`

	rows, err := r.pool.Query(ctx, query, transactionType, branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanMany(rows)
}

// List lists mappings, optionally scoped to a branch, active first.
func (r *MappingRepository) List(ctx context.Context, branchID string, limit, offset int) ([]*domain.FloatGLMapping, error) {
	query := `SELECT ` + mappingColumns + ` FROM float_gl_mappings`
	args := []any{}

	if branchID != "" {
		query += ` WHERE branch_id = $1`
		args = append(args, branchID)
	}

	query += ` ORDER BY active DESC, branch_id, role`
	if limit > 0 {
		args = append(args, limit, offset)
		query += ` LIMIT $` + itoa(len(args)-1) + ` OFFSET $` + itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanMany(rows)
}

func (r *MappingRepository) scanOne(row pgx.Row) (*domain.FloatGLMapping, error) {
	var mapping domain.FloatGLMapping

	err := row.Scan(
		&mapping.ID,
		&mapping.FloatAccountID,
		&mapping.TransactionType,
		&mapping.BranchID,
		&mapping.GLAccountID,
		&mapping.GLAccountCode,
		&mapping.Role,
		&mapping.Sign,
		&mapping.Active,
		&mapping.CreatedAt,
		&mapping.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrMappingNotFound
	}
	if err != nil {
		return nil, err
	}

	return &mapping, nil
}

func (r *MappingRepository) scanMany(rows pgx.Rows) ([]*domain.FloatGLMapping, error) {
	var mappings []*domain.FloatGLMapping
	for rows.Next() {
		mapping, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		mappings = append(mappings, mapping)
	}
	return mappings, rows.Err()
}
