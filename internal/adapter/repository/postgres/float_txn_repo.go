package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sankopay/agencyledger/internal/domain"
	"github.com/sankopay/agencyledger/internal/usecase"
)

// FloatTransactionRepository implements usecase.FloatTransactionRepository.
// Rows are append-only; they form the balance audit trail.
type FloatTransactionRepository struct {
	pool *pgxpool.Pool
}

// NewFloatTransactionRepository creates a new FloatTransactionRepository.
func NewFloatTransactionRepository(pool *pgxpool.Pool) *FloatTransactionRepository {
	return &FloatTransactionRepository{pool: pool}
}

// Create inserts a float transaction row, within the caller's transaction.
func (r *FloatTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.FloatTransaction) error {
	query := `
		INSERT INTO float_transactions (
			id, float_account_id, type, amount,
			balance_before, balance_after, reference, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := txQuerier(tx, r.pool).Exec(ctx, query,
		txn.ID,
		txn.FloatAccountID,
		string(txn.Type),
		decimalToNumeric(txn.Amount),
		decimalToNumeric(txn.BalanceBefore),
		decimalToNumeric(txn.BalanceAfter),
		txn.Reference,
		txn.CreatedBy,
		timeToPgTimestamptz(txn.CreatedAt),
	)

	return err
}

// ListByAccount lists the audit trail of a float account, newest first.
func (r *FloatTransactionRepository) ListByAccount(ctx context.Context, floatAccountID string, limit, offset int) ([]*domain.FloatTransaction, error) {
	query := `
		SELECT id, float_account_id, type, amount,
		       balance_before, balance_after, reference, created_by, created_at
		FROM float_transactions
		WHERE float_account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, floatAccountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*domain.FloatTransaction
	for rows.Next() {
		var (
			txn    domain.FloatTransaction
			amount = decimalToNumeric(decimal.Zero)
			before = decimalToNumeric(decimal.Zero)
			after  = decimalToNumeric(decimal.Zero)
		)

		err := rows.Scan(
			&txn.ID,
			&txn.FloatAccountID,
			&txn.Type,
			&amount,
			&before,
			&after,
			&txn.Reference,
			&txn.CreatedBy,
			&txn.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		txn.Amount = numericToDecimal(amount)
		txn.BalanceBefore = numericToDecimal(before)
		txn.BalanceAfter = numericToDecimal(after)
		txns = append(txns, &txn)
	}

	return txns, rows.Err()
}
