package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sankopay/agencyledger/internal/domain"
)

// EquityRepository implements usecase.EquityRepository over the
// equity_transactions table.
type EquityRepository struct {
	pool *pgxpool.Pool
}

// NewEquityRepository creates a new EquityRepository.
func NewEquityRepository(pool *pgxpool.Pool) *EquityRepository {
	return &EquityRepository{pool: pool}
}

// Create records an equity movement.
func (r *EquityRepository) Create(ctx context.Context, txn *domain.EquityTransaction) error {
	query := `
		INSERT INTO equity_transactions (
			id, ledger_type, transaction_date, description,
			debit, credit, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		txn.ID,
		string(txn.LedgerType),
		timeToPgTimestamptz(txn.TransactionDate),
		txn.Description,
		decimalToNumeric(txn.Debit),
		decimalToNumeric(txn.Credit),
		txn.CreatedBy,
		timeToPgTimestamptz(txn.CreatedAt),
	)
	return err
}

// SumByTypeBefore nets all movements strictly before the cutoff, per ledger
// type. Ledgers with no movements are absent from the map.
func (r *EquityRepository) SumByTypeBefore(ctx context.Context, before time.Time) (map[domain.EquityLedgerType]decimal.Decimal, error) {
	query := `
		SELECT ledger_type, COALESCE(SUM(credit - debit), 0)
		FROM equity_transactions
		WHERE transaction_date < $1
		GROUP BY ledger_type
	`

	rows, err := r.pool.Query(ctx, query, timeToPgTimestamptz(before))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := make(map[domain.EquityLedgerType]decimal.Decimal)
	for rows.Next() {
		var (
			ledgerType string
			net        = decimalToNumeric(decimal.Zero)
		)
		if err := rows.Scan(&ledgerType, &net); err != nil {
			return nil, err
		}
		sums[domain.EquityLedgerType(ledgerType)] = numericToDecimal(net)
	}
	return sums, rows.Err()
}

// MovementsBetween lists all equity movements in a period, oldest first.
func (r *EquityRepository) MovementsBetween(ctx context.Context, from, to time.Time) ([]*domain.EquityTransaction, error) {
	query := `
		SELECT id, ledger_type, transaction_date, description, debit, credit, created_by, created_at
		FROM equity_transactions
		WHERE transaction_date >= $1 AND transaction_date <= $2
		ORDER BY transaction_date, id
	`

	rows, err := r.pool.Query(ctx, query, timeToPgTimestamptz(from), timeToPgTimestamptz(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEquityTransactions(rows)
}

func scanEquityTransactions(rows pgx.Rows) ([]*domain.EquityTransaction, error) {
	var txns []*domain.EquityTransaction
	for rows.Next() {
		var (
			txn    domain.EquityTransaction
			debit  = decimalToNumeric(decimal.Zero)
			credit = decimalToNumeric(decimal.Zero)
		)

		err := rows.Scan(
			&txn.ID,
			&txn.LedgerType,
			&txn.TransactionDate,
			&txn.Description,
			&debit,
			&credit,
			&txn.CreatedBy,
			&txn.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		txn.Debit = numericToDecimal(debit)
		txn.Credit = numericToDecimal(credit)
		txns = append(txns, &txn)
	}
	return txns, rows.Err()
}
