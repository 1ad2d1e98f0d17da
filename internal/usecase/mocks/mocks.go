package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sankopay/agencyledger/internal/domain"
	"github.com/sankopay/agencyledger/internal/usecase"
)

// MockAccountRepository is a mock implementation of AccountRepository.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.Account

	CreateFunc            func(ctx context.Context, account *domain.Account) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.Account, error)
	GetByCodeFunc         func(ctx context.Context, code string) (*domain.Account, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalanceFunc     func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	SetActiveFunc         func(ctx context.Context, id string, active bool, updatedAt time.Time) error
	ListFunc              func(ctx context.Context, accountType domain.AccountType, limit, offset int) ([]*domain.Account, error)
	ListAllFunc           func(ctx context.Context) ([]*domain.Account, error)
}

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]*domain.Account),
	}
}

// Seed inserts accounts directly, bypassing Create hooks.
func (m *MockAccountRepository) Seed(accounts ...*domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range accounts {
		m.accounts[a.ID] = a
	}
}

func (m *MockAccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, acc := range m.accounts {
		if acc.Code == code {
			return acc, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *MockAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		acc, ok := m.accounts[id]
		if !ok {
			return nil, domain.ErrAccountNotFound
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

func (m *MockAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Balance = balance
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) SetActive(ctx context.Context, id string, active bool, updatedAt time.Time) error {
	if m.SetActiveFunc != nil {
		return m.SetActiveFunc(ctx, id, active, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	acc.Active = active
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockAccountRepository) List(ctx context.Context, accountType domain.AccountType, limit, offset int) ([]*domain.Account, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, accountType, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.Account, 0, len(m.accounts))
	for _, acc := range m.accounts {
		if accountType != "" && acc.Type != accountType {
			continue
		}
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

func (m *MockAccountRepository) ListAll(ctx context.Context) ([]*domain.Account, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return m.List(ctx, "", 0, 0)
}

// MockFloatAccountRepository is a mock implementation of FloatAccountRepository.
type MockFloatAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]*domain.FloatAccount

	CreateFunc            func(ctx context.Context, account *domain.FloatAccount) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.FloatAccount, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id string) (*domain.FloatAccount, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.FloatAccount, error)
	UpdateBalanceFunc     func(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error
	ListFunc              func(ctx context.Context, branchID string, limit, offset int) ([]*domain.FloatAccount, error)
	ListAllFunc           func(ctx context.Context) ([]*domain.FloatAccount, error)
}

func NewMockFloatAccountRepository() *MockFloatAccountRepository {
	return &MockFloatAccountRepository{
		accounts: make(map[string]*domain.FloatAccount),
	}
}

func (m *MockFloatAccountRepository) Seed(accounts ...*domain.FloatAccount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range accounts {
		m.accounts[a.ID] = a
	}
}

func (m *MockFloatAccountRepository) Create(ctx context.Context, account *domain.FloatAccount) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.ID] = account
	return nil
}

func (m *MockFloatAccountRepository) GetByID(ctx context.Context, id string) (*domain.FloatAccount, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if acc, ok := m.accounts[id]; ok {
		return acc, nil
	}
	return nil, domain.ErrFloatAccountNotFound
}

func (m *MockFloatAccountRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.FloatAccount, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockFloatAccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.FloatAccount, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.FloatAccount, 0, len(ids))
	for _, id := range ids {
		acc, ok := m.accounts[id]
		if !ok {
			return nil, domain.ErrFloatAccountNotFound
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}

func (m *MockFloatAccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, id, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	acc, ok := m.accounts[id]
	if !ok {
		return domain.ErrFloatAccountNotFound
	}
	acc.CurrentBalance = balance
	acc.UpdatedAt = updatedAt
	return nil
}

func (m *MockFloatAccountRepository) List(ctx context.Context, branchID string, limit, offset int) ([]*domain.FloatAccount, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, branchID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	accounts := make([]*domain.FloatAccount, 0, len(m.accounts))
	for _, acc := range m.accounts {
		if branchID != "" && acc.BranchID != branchID {
			continue
		}
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	return accounts, nil
}

func (m *MockFloatAccountRepository) ListAll(ctx context.Context) ([]*domain.FloatAccount, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return m.List(ctx, "", 0, 0)
}

// MockFloatTransactionRepository is a mock implementation of FloatTransactionRepository.
type MockFloatTransactionRepository struct {
	mu   sync.RWMutex
	rows []*domain.FloatTransaction

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, txn *domain.FloatTransaction) error
	ListByAccountFunc func(ctx context.Context, floatAccountID string, limit, offset int) ([]*domain.FloatTransaction, error)
}

func NewMockFloatTransactionRepository() *MockFloatTransactionRepository {
	return &MockFloatTransactionRepository{}
}

func (m *MockFloatTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.FloatTransaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, txn)
	return nil
}

func (m *MockFloatTransactionRepository) ListByAccount(ctx context.Context, floatAccountID string, limit, offset int) ([]*domain.FloatTransaction, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, floatAccountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rows []*domain.FloatTransaction
	for _, r := range m.rows {
		if r.FloatAccountID == floatAccountID {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

// All returns every recorded float transaction.
func (m *MockFloatTransactionRepository) All() []*domain.FloatTransaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.FloatTransaction(nil), m.rows...)
}

// MockMappingRepository is a mock implementation of MappingRepository.
type MockMappingRepository struct {
	mu       sync.RWMutex
	mappings map[string]*domain.FloatGLMapping

	CreateFunc                func(ctx context.Context, mapping *domain.FloatGLMapping) error
	GetByIDFunc               func(ctx context.Context, id string) (*domain.FloatGLMapping, error)
	DeactivateFunc            func(ctx context.Context, id string, updatedAt time.Time) error
	ListByFloatAccountFunc    func(ctx context.Context, floatAccountID string) ([]*domain.FloatGLMapping, error)
	ListByTransactionTypeFunc func(ctx context.Context, transactionType, branchID string) ([]*domain.FloatGLMapping, error)
	ListFunc                  func(ctx context.Context, branchID string, limit, offset int) ([]*domain.FloatGLMapping, error)
}

func NewMockMappingRepository() *MockMappingRepository {
	return &MockMappingRepository{
		mappings: make(map[string]*domain.FloatGLMapping),
	}
}

func (m *MockMappingRepository) Seed(mappings ...*domain.FloatGLMapping) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mp := range mappings {
		m.mappings[mp.ID] = mp
	}
}

func (m *MockMappingRepository) Create(ctx context.Context, mapping *domain.FloatGLMapping) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, mapping)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mappings[mapping.ID] = mapping
	return nil
}

func (m *MockMappingRepository) GetByID(ctx context.Context, id string) (*domain.FloatGLMapping, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mp, ok := m.mappings[id]; ok {
		return mp, nil
	}
	return nil, domain.ErrMappingNotFound
}

func (m *MockMappingRepository) Deactivate(ctx context.Context, id string, updatedAt time.Time) error {
	if m.DeactivateFunc != nil {
		return m.DeactivateFunc(ctx, id, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	mp, ok := m.mappings[id]
	if !ok {
		return domain.ErrMappingNotFound
	}
	mp.Active = false
	mp.UpdatedAt = updatedAt
	return nil
}

func (m *MockMappingRepository) ListByFloatAccount(ctx context.Context, floatAccountID string) ([]*domain.FloatGLMapping, error) {
	if m.ListByFloatAccountFunc != nil {
		return m.ListByFloatAccountFunc(ctx, floatAccountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var mappings []*domain.FloatGLMapping
	for _, mp := range m.mappings {
		if mp.Active && mp.FloatAccountID != nil && *mp.FloatAccountID == floatAccountID {
			mappings = append(mappings, mp)
		}
	}
	return mappings, nil
}

func (m *MockMappingRepository) ListByTransactionType(ctx context.Context, transactionType, branchID string) ([]*domain.FloatGLMapping, error) {
	if m.ListByTransactionTypeFunc != nil {
		return m.ListByTransactionTypeFunc(ctx, transactionType, branchID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var mappings []*domain.FloatGLMapping
	for _, mp := range m.mappings {
		if mp.Active && mp.TransactionType != nil && *mp.TransactionType == transactionType && mp.BranchID == branchID {
			mappings = append(mappings, mp)
		}
	}
	return mappings, nil
}

func (m *MockMappingRepository) List(ctx context.Context, branchID string, limit, offset int) ([]*domain.FloatGLMapping, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, branchID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var mappings []*domain.FloatGLMapping
	for _, mp := range m.mappings {
		if branchID != "" && mp.BranchID != branchID {
			continue
		}
		mappings = append(mappings, mp)
	}
	return mappings, nil
}

// MockGLRepository is a mock implementation of GLRepository.
type MockGLRepository struct {
	mu           sync.RWMutex
	transactions map[string]*domain.GLTransaction
	bySource     map[string]string

	CreateTransactionFunc func(ctx context.Context, tx usecase.Transaction, txn *domain.GLTransaction) error
	GetByIDFunc           func(ctx context.Context, id string) (*domain.GLTransaction, error)
	GetBySourceFunc       func(ctx context.Context, sourceModule, sourceTransactionID string) (*domain.GLTransaction, error)
	UpdateStatusFunc      func(ctx context.Context, tx usecase.Transaction, id string, status domain.GLStatus, updatedAt time.Time) error
	AccountActivityFunc   func(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error)
	ListByAccountFunc     func(ctx context.Context, accountID string, limit, offset int) ([]*domain.JournalEntry, error)
}

func NewMockGLRepository() *MockGLRepository {
	return &MockGLRepository{
		transactions: make(map[string]*domain.GLTransaction),
		bySource:     make(map[string]string),
	}
}

func (m *MockGLRepository) CreateTransaction(ctx context.Context, tx usecase.Transaction, txn *domain.GLTransaction) error {
	if m.CreateTransactionFunc != nil {
		return m.CreateTransactionFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sourceKey := txn.SourceModule + "/" + txn.SourceTransactionID
	if _, exists := m.bySource[sourceKey]; exists {
		return domain.ErrDuplicatePosting
	}
	m.transactions[txn.ID] = txn
	m.bySource[sourceKey] = txn.ID
	return nil
}

func (m *MockGLRepository) GetByID(ctx context.Context, id string) (*domain.GLTransaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.transactions[id]; ok {
		return txn, nil
	}
	return nil, domain.ErrPostingNotFound
}

func (m *MockGLRepository) GetBySource(ctx context.Context, sourceModule, sourceTransactionID string) (*domain.GLTransaction, error) {
	if m.GetBySourceFunc != nil {
		return m.GetBySourceFunc(ctx, sourceModule, sourceTransactionID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.bySource[sourceModule+"/"+sourceTransactionID]; ok {
		return m.transactions[id], nil
	}
	return nil, domain.ErrPostingNotFound
}

func (m *MockGLRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.GLStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	txn, ok := m.transactions[id]
	if !ok {
		return domain.ErrPostingNotFound
	}
	txn.Status = status
	return nil
}

func (m *MockGLRepository) AccountActivity(ctx context.Context, accountID string) (decimal.Decimal, decimal.Decimal, error) {
	if m.AccountActivityFunc != nil {
		return m.AccountActivityFunc(ctx, accountID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	debits, credits := decimal.Zero, decimal.Zero
	for _, txn := range m.transactions {
		if txn.Status != domain.GLStatusPosted {
			continue
		}
		for _, e := range txn.Entries {
			if e.AccountID != accountID {
				continue
			}
			debits = debits.Add(e.Debit)
			credits = credits.Add(e.Credit)
		}
	}
	return debits, credits, nil
}

func (m *MockGLRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.JournalEntry, error) {
	if m.ListByAccountFunc != nil {
		return m.ListByAccountFunc(ctx, accountID, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.JournalEntry
	for _, txn := range m.transactions {
		for _, e := range txn.Entries {
			if e.AccountID == accountID {
				entries = append(entries, e)
			}
		}
	}
	return entries, nil
}

// All returns every recorded GL transaction.
func (m *MockGLRepository) All() []*domain.GLTransaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	txns := make([]*domain.GLTransaction, 0, len(m.transactions))
	for _, txn := range m.transactions {
		txns = append(txns, txn)
	}
	return txns
}

// MockEquityRepository is a mock implementation of EquityRepository.
type MockEquityRepository struct {
	mu   sync.RWMutex
	rows []*domain.EquityTransaction

	CreateFunc          func(ctx context.Context, txn *domain.EquityTransaction) error
	SumByTypeBeforeFunc func(ctx context.Context, before time.Time) (map[domain.EquityLedgerType]decimal.Decimal, error)
	MovementsBetweenFunc func(ctx context.Context, from, to time.Time) ([]*domain.EquityTransaction, error)
}

func NewMockEquityRepository() *MockEquityRepository {
	return &MockEquityRepository{}
}

func (m *MockEquityRepository) Seed(rows ...*domain.EquityTransaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, rows...)
}

func (m *MockEquityRepository) Create(ctx context.Context, txn *domain.EquityTransaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, txn)
	return nil
}

func (m *MockEquityRepository) SumByTypeBefore(ctx context.Context, before time.Time) (map[domain.EquityLedgerType]decimal.Decimal, error) {
	if m.SumByTypeBeforeFunc != nil {
		return m.SumByTypeBeforeFunc(ctx, before)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sums := make(map[domain.EquityLedgerType]decimal.Decimal)
	for _, r := range m.rows {
		if r.TransactionDate.Before(before) {
			sums[r.LedgerType] = sums[r.LedgerType].Add(r.Net())
		}
	}
	return sums, nil
}

func (m *MockEquityRepository) MovementsBetween(ctx context.Context, from, to time.Time) ([]*domain.EquityTransaction, error) {
	if m.MovementsBetweenFunc != nil {
		return m.MovementsBetweenFunc(ctx, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rows []*domain.EquityTransaction
	for _, r := range m.rows {
		if !r.TransactionDate.Before(from) && !r.TransactionDate.After(to) {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

// MockStatementRepository is a mock implementation of StatementRepository.
// Fixed values per query, settable from the test.
type MockStatementRepository struct {
	FeeRevenue       []usecase.AccountTotal
	Commissions      decimal.Decimal
	Expenses         decimal.Decimal
	FixedAssetsNBV   decimal.Decimal
	Receivable       decimal.Decimal
	CardInventory    decimal.Decimal
	Payable          decimal.Decimal
	TrialBalanceRows []usecase.TrialBalanceRow

	FeeRevenueByRangeFunc func(ctx context.Context, from, to time.Time, branchID string) ([]usecase.AccountTotal, error)
	TrialBalanceFunc      func(ctx context.Context, asOf time.Time) ([]usecase.TrialBalanceRow, error)
}

func NewMockStatementRepository() *MockStatementRepository {
	return &MockStatementRepository{}
}

func (m *MockStatementRepository) FeeRevenueByRange(ctx context.Context, from, to time.Time, branchID string) ([]usecase.AccountTotal, error) {
	if m.FeeRevenueByRangeFunc != nil {
		return m.FeeRevenueByRangeFunc(ctx, from, to, branchID)
	}
	return m.FeeRevenue, nil
}

func (m *MockStatementRepository) CommissionsByRange(ctx context.Context, from, to time.Time, branchID string) (decimal.Decimal, error) {
	return m.Commissions, nil
}

func (m *MockStatementRepository) ExpensesByRange(ctx context.Context, from, to time.Time, branchID string) (decimal.Decimal, error) {
	return m.Expenses, nil
}

func (m *MockStatementRepository) FixedAssetNetBookValue(ctx context.Context, asOf time.Time, branchID string) (decimal.Decimal, error) {
	return m.FixedAssetsNBV, nil
}

func (m *MockStatementRepository) CommissionsReceivable(ctx context.Context, asOf time.Time, branchID string) (decimal.Decimal, error) {
	return m.Receivable, nil
}

func (m *MockStatementRepository) CardInventoryValue(ctx context.Context, asOf time.Time, branchID string) (decimal.Decimal, error) {
	return m.CardInventory, nil
}

func (m *MockStatementRepository) ExpensesPayable(ctx context.Context, asOf time.Time, branchID string) (decimal.Decimal, error) {
	return m.Payable, nil
}

func (m *MockStatementRepository) TrialBalance(ctx context.Context, asOf time.Time) ([]usecase.TrialBalanceRow, error) {
	if m.TrialBalanceFunc != nil {
		return m.TrialBalanceFunc(ctx, asOf)
	}
	return m.TrialBalanceRows, nil
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc  func(ctx context.Context, id string, publishedAt time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			events = append(events, e)
			if limit > 0 && len(events) >= limit {
				break
			}
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return domain.ErrStoreUnavailable
}

func (m *MockOutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var events []*domain.OutboxEvent
	for _, e := range m.events {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			events = append(events, e)
		}
	}
	return events, nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.OutboxEvent
	for _, e := range m.events {
		if e.Published && e.PublishedAt != nil && e.PublishedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	m.events = kept
	return nil
}

// Events returns every recorded outbox event.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.OutboxEvent(nil), m.events...)
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateFunc func(ctx context.Context, log *domain.AuditLog) error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.AuditLog(nil), m.logs...), nil
}

func (m *MockAuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var logs []*domain.AuditLog
	for _, l := range m.logs {
		if l.ResourceType == resourceType && l.ResourceID == resourceID {
			logs = append(logs, l)
		}
	}
	return logs, nil
}

// Logs returns every recorded audit log.
func (m *MockAuditRepository) Logs() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.AuditLog(nil), m.logs...)
}

// MockTransaction is a mock database transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	m.RolledBack = true
	return nil
}

// MockTransactionManager is a mock TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockRetrier runs the operation once, without retries.
type MockRetrier struct {
	RetryFunc func(ctx context.Context, operation func() error) error
}

func (m *MockRetrier) Retry(ctx context.Context, operation func() error) error {
	if m.RetryFunc != nil {
		return m.RetryFunc(ctx, operation)
	}
	return operation()
}

// MockIDGenerator generates sequential IDs.
type MockIDGenerator struct {
	counter atomic.Int64
	Prefix  string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{Prefix: "test-id"}
}

func (m *MockIDGenerator) Generate() string {
	n := m.counter.Add(1)
	return fmt.Sprintf("%s-%d", m.Prefix, n)
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu    sync.RWMutex
	store map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{store: make(map[string]string)}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.store[key], nil
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, key)
	return nil
}

// MockIdempotencyStore is an in-memory IdempotencyStore.
type MockIdempotencyStore struct {
	mu    sync.Mutex
	store map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{store: make(map[string][]byte)}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.store[key]; ok {
		return true, existing, nil
	}
	m.store[key] = response
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[key] = response
	return nil
}
