package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sankopay/agencyledger/internal/domain"
)

// AccountResponse represents a chart-of-accounts node in API responses.
type AccountResponse struct {
	ID        string          `json:"id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	ParentID  *string         `json:"parent_id,omitempty"`
	Balance   decimal.Decimal `json:"balance"`
	Active    bool            `json:"active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		Code:      a.Code,
		Name:      a.Name,
		Type:      string(a.Type),
		ParentID:  a.ParentID,
		Balance:   a.Balance,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// GLTransactionResponse represents a posted GL transaction.
type GLTransactionResponse struct {
	ID                    string                  `json:"id"`
	Date                  time.Time               `json:"date"`
	SourceModule          string                  `json:"source_module"`
	SourceTransactionID   string                  `json:"source_transaction_id"`
	SourceTransactionType string                  `json:"source_transaction_type"`
	BranchID              string                  `json:"branch_id"`
	Description           string                  `json:"description"`
	Status                string                  `json:"status"`
	ReversalOfID          *string                 `json:"reversal_of_id,omitempty"`
	CreatedBy             string                  `json:"created_by"`
	Entries               []*JournalEntryResponse `json:"entries"`
	TotalDebit            decimal.Decimal         `json:"total_debit"`
	TotalCredit           decimal.Decimal         `json:"total_credit"`
	Duplicate             bool                    `json:"duplicate,omitempty"`
	CreatedAt             time.Time               `json:"created_at"`
}

// JournalEntryResponse represents one journal line.
type JournalEntryResponse struct {
	ID          string          `json:"id"`
	AccountID   string          `json:"account_id"`
	AccountCode string          `json:"account_code"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// GLTransactionFromDomain converts a domain GL transaction to a response.
func GLTransactionFromDomain(t *domain.GLTransaction) *GLTransactionResponse {
	entries := make([]*JournalEntryResponse, len(t.Entries))
	for i, e := range t.Entries {
		entries[i] = &JournalEntryResponse{
			ID:          e.ID,
			AccountID:   e.AccountID,
			AccountCode: e.AccountCode,
			Debit:       e.Debit,
			Credit:      e.Credit,
			Description: e.Description,
			CreatedAt:   e.CreatedAt,
		}
	}

	return &GLTransactionResponse{
		ID:                    t.ID,
		Date:                  t.Date,
		SourceModule:          t.SourceModule,
		SourceTransactionID:   t.SourceTransactionID,
		SourceTransactionType: t.SourceTransactionType,
		BranchID:              t.BranchID,
		Description:           t.Description,
		Status:                string(t.Status),
		ReversalOfID:          t.ReversalOfID,
		CreatedBy:             t.CreatedBy,
		Entries:               entries,
		TotalDebit:            t.TotalDebit(),
		TotalCredit:           t.TotalCredit(),
		CreatedAt:             t.CreatedAt,
	}
}

// FloatAccountResponse represents a float account.
type FloatAccountResponse struct {
	ID             string          `json:"id"`
	BranchID       string          `json:"branch_id"`
	AccountType    string          `json:"account_type"`
	Provider       string          `json:"provider,omitempty"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	MinThreshold   decimal.Decimal `json:"min_threshold"`
	MaxThreshold   decimal.Decimal `json:"max_threshold"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// FloatAccountFromDomain converts a domain float account to a response.
func FloatAccountFromDomain(f *domain.FloatAccount) *FloatAccountResponse {
	return &FloatAccountResponse{
		ID:             f.ID,
		BranchID:       f.BranchID,
		AccountType:    string(f.AccountType),
		Provider:       f.Provider,
		CurrentBalance: f.CurrentBalance,
		MinThreshold:   f.MinThreshold,
		MaxThreshold:   f.MaxThreshold,
		Active:         f.Active,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

// FloatAccountsFromDomain converts domain float accounts to responses.
func FloatAccountsFromDomain(accounts []*domain.FloatAccount) []*FloatAccountResponse {
	result := make([]*FloatAccountResponse, len(accounts))
	for i, f := range accounts {
		result[i] = FloatAccountFromDomain(f)
	}
	return result
}

// FloatTransactionResponse represents one float audit row.
type FloatTransactionResponse struct {
	ID             string          `json:"id"`
	FloatAccountID string          `json:"float_account_id"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	BalanceBefore  decimal.Decimal `json:"balance_before"`
	BalanceAfter   decimal.Decimal `json:"balance_after"`
	Reference      string          `json:"reference,omitempty"`
	CreatedBy      string          `json:"created_by"`
	CreatedAt      time.Time       `json:"created_at"`
}

// FloatTransactionsFromDomain converts domain float transactions to responses.
func FloatTransactionsFromDomain(txns []*domain.FloatTransaction) []*FloatTransactionResponse {
	result := make([]*FloatTransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = &FloatTransactionResponse{
			ID:             t.ID,
			FloatAccountID: t.FloatAccountID,
			Type:           string(t.Type),
			Amount:         t.Amount,
			BalanceBefore:  t.BalanceBefore,
			BalanceAfter:   t.BalanceAfter,
			Reference:      t.Reference,
			CreatedBy:      t.CreatedBy,
			CreatedAt:      t.CreatedAt,
		}
	}
	return result
}

// MappingResponse represents a float-GL mapping.
type MappingResponse struct {
	ID              string    `json:"id"`
	FloatAccountID  *string   `json:"float_account_id,omitempty"`
	TransactionType *string   `json:"transaction_type,omitempty"`
	BranchID        string    `json:"branch_id"`
	GLAccountID     string    `json:"gl_account_id"`
	GLAccountCode   string    `json:"gl_account_code"`
	Role            string    `json:"role"`
	SignConvention  string    `json:"sign_convention"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
}

// MappingFromDomain converts a domain mapping to a response.
func MappingFromDomain(m *domain.FloatGLMapping) *MappingResponse {
	return &MappingResponse{
		ID:              m.ID,
		FloatAccountID:  m.FloatAccountID,
		TransactionType: m.TransactionType,
		BranchID:        m.BranchID,
		GLAccountID:     m.GLAccountID,
		GLAccountCode:   m.GLAccountCode,
		Role:            string(m.Role),
		SignConvention:  string(m.Sign),
		Active:          m.Active,
		CreatedAt:       m.CreatedAt,
	}
}

// MappingsFromDomain converts domain mappings to responses.
func MappingsFromDomain(mappings []*domain.FloatGLMapping) []*MappingResponse {
	result := make([]*MappingResponse, len(mappings))
	for i, m := range mappings {
		result[i] = MappingFromDomain(m)
	}
	return result
}

// AuditLogResponse represents an audit trail row.
type AuditLogResponse struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	BranchID     string         `json:"branch_id,omitempty"`
	Action       string         `json:"action"`
	ResourceType string         `json:"resource_type"`
	ResourceID   string         `json:"resource_id"`
	RequestID    string         `json:"request_id,omitempty"`
	BeforeState  map[string]any `json:"before_state,omitempty"`
	AfterState   map[string]any `json:"after_state,omitempty"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}

// AuditLogsFromDomain converts domain audit logs to responses.
func AuditLogsFromDomain(logs []*domain.AuditLog) []*AuditLogResponse {
	result := make([]*AuditLogResponse, len(logs))
	for i, l := range logs {
		result[i] = &AuditLogResponse{
			ID:           l.ID,
			UserID:       l.UserID,
			BranchID:     l.BranchID,
			Action:       l.Action,
			ResourceType: l.ResourceType,
			ResourceID:   l.ResourceID,
			RequestID:    l.RequestID,
			BeforeState:  l.BeforeState,
			AfterState:   l.AfterState,
			Status:       l.Status,
			ErrorMessage: l.ErrorMessage,
			CreatedAt:    l.CreatedAt,
		}
	}
	return result
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
