package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sankopay/agencyledger/internal/domain"
	"github.com/sankopay/agencyledger/internal/usecase"
)

const accountColumns = `id, code, name, type, parent_id, balance, active, created_at, updated_at`

// AccountRepository implements usecase.AccountRepository over the
// gl_accounts table.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

// Create inserts a chart account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO gl_accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.Code,
		account.Name,
		string(account.Type),
		account.ParentID,
		decimalToNumeric(account.Balance),
		account.Active,
		timeToPgTimestamptz(account.CreatedAt),
		timeToPgTimestamptz(account.UpdatedAt),
	)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrDuplicateCode
	}

	return err
}

// GetByID retrieves a chart account by id.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM gl_accounts WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetByCode retrieves a chart account by its unique code.
func (r *AccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM gl_accounts WHERE code = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, code))
}

// GetByIDsForUpdate retrieves accounts with FOR UPDATE locks. Callers pass
// ids in sorted order so concurrent postings lock in a consistent order.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM gl_accounts
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

// UpdateBalance writes the cached balance of an account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	query := `UPDATE gl_accounts SET balance = $2, updated_at = $3 WHERE id = $1`

	_, err := txQuerier(tx, r.pool).Exec(ctx, query, id, decimalToNumeric(balance), timeToPgTimestamptz(updatedAt))
	return err
}

// SetActive toggles an account's active flag.
func (r *AccountRepository) SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) error {
	query := `UPDATE gl_accounts SET active = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, active, timeToPgTimestamptz(updatedAt))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// List lists accounts, optionally filtered by type, ordered by code.
func (r *AccountRepository) List(ctx context.Context, accountType domain.AccountType, limit, offset int) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM gl_accounts`
	args := []any{}

	if accountType != "" {
		query += ` WHERE type = $1`
		args = append(args, string(accountType))
	}

	query += ` ORDER BY code`
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

// ListAll returns the full chart ordered by code.
func (r *AccountRepository) ListAll(ctx context.Context) ([]*domain.Account, error) {
	return r.List(ctx, "", 0, 0)
}

func (r *AccountRepository) scanOne(row pgx.Row) (*domain.Account, error) {
	var (
		account domain.Account
		balance = decimalToNumeric(decimal.Zero)
	)

	err := row.Scan(
		&account.ID,
		&account.Code,
		&account.Name,
		&account.Type,
		&account.ParentID,
		&balance,
		&account.Active,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	account.Balance = numericToDecimal(balance)
	return &account, nil
}

func (r *AccountRepository) scanMany(rows pgx.Rows) ([]*domain.Account, error) {
	var accounts []*domain.Account
	for rows.Next() {
		account, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}
