package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sankopay/agencyledger/internal/domain"
)

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByCode(ctx context.Context, code string) (*domain.Account, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) error
	List(ctx context.Context, accountType domain.AccountType, limit, offset int) ([]*domain.Account, error)
	ListAll(ctx context.Context) ([]*domain.Account, error)
}

// FloatAccountRepository defines data access for float accounts.
type FloatAccountRepository interface {
	Create(ctx context.Context, account *domain.FloatAccount) error
	GetByID(ctx context.Context, id string) (*domain.FloatAccount, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.FloatAccount, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.FloatAccount, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, branchID string, limit, offset int) ([]*domain.FloatAccount, error)
	ListAll(ctx context.Context) ([]*domain.FloatAccount, error)
}

// FloatTransactionRepository defines data access for float audit rows.
type FloatTransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.FloatTransaction) error
	ListByAccount(ctx context.Context, floatAccountID string, limit, offset int) ([]*domain.FloatTransaction, error)
}

// MappingRepository defines data access for float-GL mappings.
type MappingRepository interface {
	Create(ctx context.Context, mapping *domain.FloatGLMapping) error
	GetByID(ctx context.Context, id string) (*domain.FloatGLMapping, error)
	Deactivate(ctx context.Context, id string, updatedAt time.Time) error
	// ListByFloatAccount returns the active mappings bound directly to a float account.
	ListByFloatAccount(ctx context.Context, floatAccountID string) ([]*domain.FloatGLMapping, error)
	// ListByTransactionType returns the active generic fallback mappings for a
	// transaction type within a branch.
	ListByTransactionType(ctx context.Context, transactionType, branchID string) ([]*domain.FloatGLMapping, error)
	List(ctx context.Context, branchID string, limit, offset int) ([]*domain.FloatGLMapping, error)
}

// GLRepository defines data access for GL transactions and journal entries.
type GLRepository interface {
	// CreateTransaction inserts a GL transaction and all its journal lines.
	CreateTransaction(ctx context.Context, tx Transaction, txn *domain.GLTransaction) error
	GetByID(ctx context.Context, id string) (*domain.GLTransaction, error)
	// GetBySource looks up an existing posting for a source transaction;
	// returns domain.ErrPostingNotFound when none exists.
	GetBySource(ctx context.Context, sourceModule, sourceTransactionID string) (*domain.GLTransaction, error)
	UpdateStatus(ctx context.Context, tx Transaction, id string, status domain.GLStatus, updatedAt time.Time) error
	// AccountActivity sums debit and credit journal lines on a GL account over
	// transactions with status posted.
	AccountActivity(ctx context.Context, accountID string) (debits, credits decimal.Decimal, err error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.JournalEntry, error)
}

// EquityRepository defines data access for the equity ledgers.
type EquityRepository interface {
	Create(ctx context.Context, txn *domain.EquityTransaction) error
	// SumByTypeBefore returns the net (credit - debit) per ledger type for all
	// movements strictly before the given date.
	SumByTypeBefore(ctx context.Context, before time.Time) (map[domain.EquityLedgerType]decimal.Decimal, error)
	MovementsBetween(ctx context.Context, from, to time.Time) ([]*domain.EquityTransaction, error)
}

// TrialBalanceRow is one account line of the trial balance.
type TrialBalanceRow struct {
	AccountID   string             `json:"account_id"`
	AccountCode string             `json:"account_code"`
	AccountName string             `json:"account_name"`
	AccountType domain.AccountType `json:"account_type"`
	Debit       decimal.Decimal    `json:"debit"`
	Credit      decimal.Decimal    `json:"credit"`
}

// StatementRepository defines the aggregate queries behind the financial
// statements. Sources beyond the GL (commissions, expenses, fixed assets, card
// inventory) are owned by the channel modules; this interface reads them.
type StatementRepository interface {
	// FeeRevenueByRange sums posted journal credits net of debits on
	// revenue-type accounts within the range, grouped by account.
	FeeRevenueByRange(ctx context.Context, from, to time.Time, branchID string) ([]AccountTotal, error)
	CommissionsByRange(ctx context.Context, from, to time.Time, branchID string) (decimal.Decimal, error)
	ExpensesByRange(ctx context.Context, from, to time.Time, branchID string) (decimal.Decimal, error)
	FixedAssetNetBookValue(ctx context.Context, asOf time.Time, branchID string) (decimal.Decimal, error)
	CommissionsReceivable(ctx context.Context, asOf time.Time, branchID string) (decimal.Decimal, error)
	CardInventoryValue(ctx context.Context, asOf time.Time, branchID string) (decimal.Decimal, error)
	ExpensesPayable(ctx context.Context, asOf time.Time, branchID string) (decimal.Decimal, error)
	TrialBalance(ctx context.Context, asOf time.Time) ([]TrialBalanceRow, error)
}

// AccountTotal pairs a GL account with an aggregated amount.
type AccountTotal struct {
	AccountID   string          `json:"account_id"`
	AccountCode string          `json:"account_code"`
	AccountName string          `json:"account_name"`
	Amount      decimal.Decimal `json:"amount"`
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	// Create writes an outbox event. A nil tx writes outside any transaction
	// (fire-and-forget notifications); a non-nil tx commits the event with
	// the caller's mutation.
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
	GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier retries an operation on transient store failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
