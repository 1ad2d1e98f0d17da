package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sankopay/agencyledger/internal/domain"
	"github.com/sankopay/agencyledger/internal/usecase"
)

const glTransactionColumns = `id, date, source_module, source_transaction_id, source_transaction_type, branch_id, description, status, reversal_of_id, created_by, metadata, created_at`

// GLRepository implements usecase.GLRepository over the gl_transactions and
// journal_entries tables.
type GLRepository struct {
	pool *pgxpool.Pool
}

// NewGLRepository creates a new GLRepository.
func NewGLRepository(pool *pgxpool.Pool) *GLRepository {
	return &GLRepository{pool: pool}
}

// CreateTransaction inserts a GL transaction and all its journal lines within
// the caller's transaction. Lines are immutable once written.
func (r *GLRepository) CreateTransaction(ctx context.Context, tx usecase.Transaction, txn *domain.GLTransaction) error {
	q := txQuerier(tx, r.pool)

	var metadata []byte
	if txn.Metadata != nil {
		var err error
		metadata, err = json.Marshal(txn.Metadata)
		if err != nil {
			return err
		}
	}

	query := `
		INSERT INTO gl_transactions (` + glTransactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := q.Exec(ctx, query,
		txn.ID,
		timeToPgTimestamptz(txn.Date),
		txn.SourceModule,
		txn.SourceTransactionID,
		txn.SourceTransactionType,
		txn.BranchID,
		txn.Description,
		string(txn.Status),
		txn.ReversalOfID,
		txn.CreatedBy,
		metadata,
		timeToPgTimestamptz(txn.CreatedAt),
	)
	if err != nil {
		// Unique (source_module, source_transaction_id): a racing post of the
		// same source transaction lost to the one already committed.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrDuplicatePosting
		}
		return err
	}

	entryQuery := `
		INSERT INTO journal_entries (
			id, transaction_id, account_id, account_code,
			debit, credit, description, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, e := range txn.Entries {
		_, err := q.Exec(ctx, entryQuery,
			e.ID,
			e.TransactionID,
			e.AccountID,
			e.AccountCode,
			decimalToNumeric(e.Debit),
			decimalToNumeric(e.Credit),
			e.Description,
			timeToPgTimestamptz(e.CreatedAt),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// GetByID retrieves a GL transaction with its journal lines.
func (r *GLRepository) GetByID(ctx context.Context, id string) (*domain.GLTransaction, error) {
	query := `SELECT ` + glTransactionColumns + ` FROM gl_transactions WHERE id = $1`

	txn, err := r.scanTransaction(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	txn.Entries, err = r.entriesFor(ctx, txn.ID)
	return txn, err
}

// GetBySource looks up the posting for a source transaction.
func (r *GLRepository) GetBySource(ctx context.Context, sourceModule, sourceTransactionID string) (*domain.GLTransaction, error) {
	query := `
		SELECT ` + glTransactionColumns + `
		FROM gl_transactions
		WHERE source_module = $1 AND source_transaction_id = $2
	`

	txn, err := r.scanTransaction(r.pool.QueryRow(ctx, query, sourceModule, sourceTransactionID))
	if err != nil {
		return nil, err
	}

	txn.Entries, err = r.entriesFor(ctx, txn.ID)
	return txn, err
}

// UpdateStatus changes a GL transaction's lifecycle status.
func (r *GLRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.GLStatus, updatedAt time.Time) error {
	query := `UPDATE gl_transactions SET status = $2 WHERE id = $1`

	tag, err := txQuerier(tx, r.pool).Exec(ctx, query, id, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPostingNotFound
	}
	return nil
}

// AccountActivity sums posted debit and credit activity on a GL account.
func (r *GLRepository) AccountActivity(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(e.debit), 0), COALESCE(SUM(e.credit), 0)
		FROM journal_entries e
		JOIN gl_transactions t ON t.id = e.transaction_id
		WHERE e.account_id = $1 AND t.status = 'posted'
	`

	debits := decimalToNumeric(decimal.Zero)
	credits := decimalToNumeric(decimal.Zero)

	if err := r.pool.QueryRow(ctx, query, accountID).Scan(&debits, &credits); err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return numericToDecimal(debits), numericToDecimal(credits), nil
}

// ListByAccount lists journal lines on an account, newest first.
func (r *GLRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.JournalEntry, error) {
	query := `
		SELECT id, transaction_id, account_id, account_code, debit, credit, description, created_at
		FROM journal_entries
		WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *GLRepository) entriesFor(ctx context.Context, transactionID string) ([]*domain.JournalEntry, error) {
	query := `
		SELECT id, transaction_id, account_id, account_code, debit, credit, description, created_at
		FROM journal_entries
		WHERE transaction_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *GLRepository) scanTransaction(row pgx.Row) (*domain.GLTransaction, error) {
	var (
		txn      domain.GLTransaction
		metadata []byte
	)

	err := row.Scan(
		&txn.ID,
		&txn.Date,
		&txn.SourceModule,
		&txn.SourceTransactionID,
		&txn.SourceTransactionType,
		&txn.BranchID,
		&txn.Description,
		&txn.Status,
		&txn.ReversalOfID,
		&txn.CreatedBy,
		&metadata,
		&txn.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPostingNotFound
	}
	if err != nil {
		return nil, err
	}

	if metadata != nil {
		_ = json.Unmarshal(metadata, &txn.Metadata)
	}

	return &txn, nil
}

func scanEntries(rows pgx.Rows) ([]*domain.JournalEntry, error) {
	var entries []*domain.JournalEntry
	for rows.Next() {
		var (
			entry  domain.JournalEntry
			debit  = decimalToNumeric(decimal.Zero)
			credit = decimalToNumeric(decimal.Zero)
		)

		err := rows.Scan(
			&entry.ID,
			&entry.TransactionID,
			&entry.AccountID,
			&entry.AccountCode,
			&debit,
			&credit,
			&entry.Description,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		entry.Debit = numericToDecimal(debit)
		entry.Credit = numericToDecimal(credit)
		entries = append(entries, &entry)
	}
	return entries, rows.Err()
}
