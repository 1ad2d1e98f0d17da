package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sankopay/agencyledger/internal/domain"
	"github.com/sankopay/agencyledger/internal/usecase"
)

const floatColumns = `id, branch_id, account_type, provider, current_balance, min_threshold, max_threshold, active, created_at, updated_at`

// FloatAccountRepository implements usecase.FloatAccountRepository.
type FloatAccountRepository struct {
	pool *pgxpool.Pool
}

// NewFloatAccountRepository creates a new FloatAccountRepository.
func NewFloatAccountRepository(pool *pgxpool.Pool) *FloatAccountRepository {
	return &FloatAccountRepository{pool: pool}
}

// Create inserts a float account.
func (r *FloatAccountRepository) Create(ctx context.Context, account *domain.FloatAccount) error {
	query := `
		INSERT INTO float_accounts (` + floatColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.BranchID,
		string(account.AccountType),
		account.Provider,
		decimalToNumeric(account.CurrentBalance),
		decimalToNumeric(account.MinThreshold),
		decimalToNumeric(account.MaxThreshold),
		account.Active,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)

	return err
}

// GetByID retrieves a float account by id.
func (r *FloatAccountRepository) GetByID(ctx context.Context, id string) (*domain.FloatAccount, error) {
	query := `SELECT ` + floatColumns + ` FROM float_accounts WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetByIDForUpdate retrieves a float account with a FOR UPDATE row lock. All
// balance mutations on one account serialize behind this lock.
func (r *FloatAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.FloatAccount, error) {
	query := `SELECT ` + floatColumns + ` FROM float_accounts WHERE id = $1 FOR UPDATE`
	return r.scanOne(txQuerier(tx, r.pool).QueryRow(ctx, query, id))
}

// GetByIDsForUpdate locks multiple float accounts; callers pass sorted ids.
func (r *FloatAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.FloatAccount, error) {
	query := `
		SELECT ` + floatColumns + `
		FROM float_accounts
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE
	`

	rows, err := txQuerier(tx, r.pool).Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanMany(rows)
}

// UpdateBalance writes a float account balance.
func (r *FloatAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	query := `UPDATE float_accounts SET current_balance = $2, updated_at = $3 WHERE id = $1`

	_, err := txQuerier(tx, r.pool).Exec(ctx, query, id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))
	return err
}

// List lists float accounts, optionally scoped to a branch.
func (r *FloatAccountRepository) List(ctx context.Context, branchID string, limit, offset int) ([]*domain.FloatAccount, error) {
	query := `SELECT ` + floatColumns + ` FROM float_accounts`
	args := []any{}

	if branchID != "" {
		query += ` WHERE branch_id = $1`
		args = append(args, branchID)
	}

	query += ` ORDER BY branch_id, account_type, id`
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

// ListAll returns every float account.
func (r *FloatAccountRepository) ListAll(ctx context.Context) ([]*domain.FloatAccount, error) {
	return r.List(ctx, "", 0, 0)
}

func (r *FloatAccountRepository) scanOne(row pgx.Row) (*domain.FloatAccount, error) {
	var (
		account      domain.FloatAccount
		balance      = decimalToNumeric(decimal.Zero)
		minThreshold = decimalToNumeric(decimal.Zero)
		maxThreshold = decimalToNumeric(decimal.Zero)
	)

	err := row.Scan(
		&account.ID,
		&account.BranchID,
		&account.AccountType,
		&account.Provider,
		&balance,
		&minThreshold,
		&maxThreshold,
		&account.Active,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrFloatAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	account.CurrentBalance = numericToDecimal(balance)
	account.MinThreshold = numericToDecimal(minThreshold)
	account.MaxThreshold = numericToDecimal(maxThreshold)
	return &account, nil
}

func (r *FloatAccountRepository) scanMany(rows pgx.Rows) ([]*domain.FloatAccount, error) {
	var accounts []*domain.FloatAccount
	for rows.Next() {
		account, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}
