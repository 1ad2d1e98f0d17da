package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sankopay/agencyledger/internal/usecase"
)

// StatementRepository implements usecase.StatementRepository. Revenue figures
// come from posted journal lines; commissions, expenses, fixed assets and
// card inventory come from the channel tables they are recorded in.
type StatementRepository struct {
	pool *pgxpool.Pool
}

// NewStatementRepository creates a new StatementRepository.
func NewStatementRepository(pool *pgxpool.Pool) *StatementRepository {
	return &StatementRepository{pool: pool}
}

// FeeRevenueByRange sums posted credits net of debits on revenue accounts in
// the range, grouped by account. An empty branch covers all branches.
func (r *StatementRepository) FeeRevenueByRange(ctx context.Context, from, to time.Time, branchID string) ([]usecase.AccountTotal, error) {
	query := `
		SELECT a.id, a.code, a.name, COALESCE(SUM(e.credit - e.debit), 0)
		FROM journal_entries e
		JOIN gl_transactions t ON t.id = e.transaction_id
		JOIN gl_accounts a ON a.id = e.account_id
		WHERE t.status = 'posted'
		  AND a.type = 'revenue'
		  AND t.date >= $1 AND t.date <= $2
		  AND ($3 = '' OR t.branch_id = $3)
		GROUP BY a.id, a.code, a.name
		ORDER BY a.code
	`

	rows, err := r.pool.Query(ctx, query, timeToPgTimestamptz(from), timeToPgTimestamptz(to), branchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []usecase.AccountTotal
	for rows.Next() {
		var (
			total  usecase.AccountTotal
			amount = decimalToNumeric(decimal.Zero)
		)
		if err := rows.Scan(&total.AccountID, &total.AccountCode, &total.AccountName, &amount); err != nil {
			return nil, err
		}
		total.Amount = numericToDecimal(amount)
		totals = append(totals, total)
	}
	return totals, rows.Err()
}

// CommissionsByRange sums commission income earned in the range.
func (r *StatementRepository) CommissionsByRange(ctx context.Context, from, to time.Time, branchID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM commissions
		WHERE earned_date >= $1 AND earned_date <= $2
		  AND ($3 = '' OR branch_id = $3)
	`
	return r.sumQuery(ctx, query, timeToPgTimestamptz(from), timeToPgTimestamptz(to), branchID)
}

// ExpensesByRange sums expenses incurred in the range.
func (r *StatementRepository) ExpensesByRange(ctx context.Context, from, to time.Time, branchID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE expense_date >= $1 AND expense_date <= $2
		  AND ($3 = '' OR branch_id = $3)
	`
	return r.sumQuery(ctx, query, timeToPgTimestamptz(from), timeToPgTimestamptz(to), branchID)
}

// FixedAssetNetBookValue values fixed assets at cost less straight-line
// depreciation accrued up to the reporting date, floored at zero per asset.
func (r *StatementRepository) FixedAssetNetBookValue(ctx context.Context, asOf time.Time, branchID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			GREATEST(
				cost - (cost / NULLIF(useful_life_months, 0))
					* LEAST(
						useful_life_months,
						GREATEST(0, (EXTRACT(YEAR FROM AGE($1::timestamptz, purchase_date)) * 12
							+ EXTRACT(MONTH FROM AGE($1::timestamptz, purchase_date)))::int)
					),
				0
			)
		), 0)
		FROM fixed_assets
		WHERE purchase_date <= $1
		  AND disposed_at IS NULL
		  AND ($2 = '' OR branch_id = $2)
	`
	return r.sumQuery(ctx, query, timeToPgTimestamptz(asOf), branchID)
}

// CommissionsReceivable sums commissions earned but not yet paid out as of the
// reporting date.
func (r *StatementRepository) CommissionsReceivable(ctx context.Context, asOf time.Time, branchID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM commissions
		WHERE earned_date <= $1
		  AND paid_at IS NULL
		  AND ($2 = '' OR branch_id = $2)
	`
	return r.sumQuery(ctx, query, timeToPgTimestamptz(asOf), branchID)
}

// CardInventoryValue values unsold card stock at cost.
func (r *StatementRepository) CardInventoryValue(ctx context.Context, asOf time.Time, branchID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity_on_hand * unit_cost), 0)
		FROM card_inventory
		WHERE received_date <= $1
		  AND ($2 = '' OR branch_id = $2)
	`
	return r.sumQuery(ctx, query, timeToPgTimestamptz(asOf), branchID)
}

// ExpensesPayable sums expenses incurred but unpaid as of the reporting date.
func (r *StatementRepository) ExpensesPayable(ctx context.Context, asOf time.Time, branchID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE expense_date <= $1
		  AND paid_at IS NULL
		  AND ($2 = '' OR branch_id = $2)
	`
	return r.sumQuery(ctx, query, timeToPgTimestamptz(asOf), branchID)
}

// TrialBalance lists every GL account with its posted debit and credit totals
// up to the reporting date. Accounts with no activity still appear.
func (r *StatementRepository) TrialBalance(ctx context.Context, asOf time.Time) ([]usecase.TrialBalanceRow, error) {
	query := `
		SELECT a.id, a.code, a.name, a.type,
			COALESCE(SUM(e.debit), 0), COALESCE(SUM(e.credit), 0)
		FROM gl_accounts a
		LEFT JOIN (
			SELECT e.account_id, e.debit, e.credit
			FROM journal_entries e
			JOIN gl_transactions t ON t.id = e.transaction_id
			WHERE t.status = 'posted' AND t.date <= $1
		) e ON e.account_id = a.id
		WHERE a.active
		GROUP BY a.id, a.code, a.name, a.type
		ORDER BY a.code
	`

	rows, err := r.pool.Query(ctx, query, timeToPgTimestamptz(asOf))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []usecase.TrialBalanceRow
	for rows.Next() {
		var (
			row    usecase.TrialBalanceRow
			debit  = decimalToNumeric(decimal.Zero)
			credit = decimalToNumeric(decimal.Zero)
		)
		if err := rows.Scan(&row.AccountID, &row.AccountCode, &row.AccountName, &row.AccountType, &debit, &credit); err != nil {
			return nil, err
		}
		row.Debit = numericToDecimal(debit)
		row.Credit = numericToDecimal(credit)
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *StatementRepository) sumQuery(ctx context.Context, query string, args ...any) (decimal.Decimal, error) {
	sum := decimalToNumeric(decimal.Zero)
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return decimal.Zero, err
	}
	return numericToDecimal(sum), nil
}
