package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sankopay/agencyledger/internal/domain"
	"github.com/sankopay/agencyledger/internal/usecase"
)

// PostGLEntriesRequest asks the posting engine to mirror one channel
// transaction into the GL.
type PostGLEntriesRequest struct {
	SourceModule        string          `json:"source_module"`
	SourceTransactionID string          `json:"source_transaction_id"`
	TransactionType     string          `json:"transaction_type"`
	FloatAccountID      string          `json:"float_account_id"`
	BranchID            string          `json:"branch_id"`
	Amount              decimal.Decimal `json:"amount"`
	Fee                 decimal.Decimal `json:"fee"`
	CustomerRef         string          `json:"customer_ref,omitempty"`
	Description         string          `json:"description,omitempty"`
	Metadata            map[string]any  `json:"metadata,omitempty"`
	Date                *time.Time      `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *PostGLEntriesRequest) ToUseCaseInput(actor domain.Identity) usecase.PostingEvent {
	return usecase.PostingEvent{
		SourceModule:        r.SourceModule,
		SourceTransactionID: r.SourceTransactionID,
		TransactionType:     r.TransactionType,
		FloatAccountID:      r.FloatAccountID,
		BranchID:            r.BranchID,
		Amount:              r.Amount,
		Fee:                 r.Fee,
		CustomerRef:         r.CustomerRef,
		Description:         r.Description,
		CreatedBy:           actor.UserID,
		Metadata:            r.Metadata,
		Date:                r.Date,
	}
}

// ReverseRequest asks for a posted GL transaction to be reversed.
type ReverseRequest struct {
	Reason string `json:"reason"`
}

// CreateAccountRequest creates a chart-of-accounts node.
type CreateAccountRequest struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	ParentCode string `json:"parent_code,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(actor domain.Identity) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		Code:       r.Code,
		Name:       r.Name,
		Type:       domain.AccountType(r.Type),
		ParentCode: r.ParentCode,
		Actor:      actor,
	}
}

// CreateMappingRequest binds a float account or transaction type to a GL
// account for a posting role.
type CreateMappingRequest struct {
	FloatAccountID  *string `json:"float_account_id,omitempty"`
	TransactionType *string `json:"transaction_type,omitempty"`
	BranchID        string  `json:"branch_id"`
	GLAccountID     string  `json:"gl_account_id"`
	Role            string  `json:"role"`
	SignConvention  string  `json:"sign_convention,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateMappingRequest) ToUseCaseInput() usecase.CreateMappingInput {
	return usecase.CreateMappingInput{
		FloatAccountID:  r.FloatAccountID,
		TransactionType: r.TransactionType,
		BranchID:        r.BranchID,
		GLAccountID:     r.GLAccountID,
		Role:            domain.MappingRole(r.Role),
		Sign:            domain.SignConvention(r.SignConvention),
	}
}

// CreateFloatAccountRequest registers a float account for a branch.
type CreateFloatAccountRequest struct {
	BranchID       string          `json:"branch_id"`
	AccountType    string          `json:"account_type"`
	Provider       string          `json:"provider,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	MinThreshold   decimal.Decimal `json:"min_threshold"`
	MaxThreshold   decimal.Decimal `json:"max_threshold"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateFloatAccountRequest) ToUseCaseInput() usecase.CreateFloatAccountInput {
	return usecase.CreateFloatAccountInput{
		BranchID:       r.BranchID,
		AccountType:    domain.FloatAccountType(r.AccountType),
		Provider:       r.Provider,
		OpeningBalance: r.OpeningBalance,
		MinThreshold:   r.MinThreshold,
		MaxThreshold:   r.MaxThreshold,
	}
}

// AdjustFloatRequest applies a signed delta to a float account.
type AdjustFloatRequest struct {
	Delta     decimal.Decimal `json:"delta"`
	Type      string          `json:"type"`
	Reference string          `json:"reference,omitempty"`
	// PostGL, when true, enqueues a GL posting request with the balance
	// mutation so the mirror follows.
	PostGL          bool   `json:"post_gl,omitempty"`
	TransactionType string `json:"transaction_type,omitempty"`
	Fee             string `json:"fee,omitempty"`
}

// SettlementRequest moves float between a channel account and a settlement
// partner account.
type SettlementRequest struct {
	FromAccountID string          `json:"from_account_id"`
	ToAccountID   string          `json:"to_account_id"`
	Amount        decimal.Decimal `json:"amount"`
	Reference     string          `json:"reference,omitempty"`
}
