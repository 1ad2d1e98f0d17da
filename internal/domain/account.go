package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies a chart-of-accounts node.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeRevenue   AccountType = "revenue"
	AccountTypeExpense   AccountType = "expense"
)

var validAccountTypes = map[AccountType]bool{
	AccountTypeAsset:     true,
	AccountTypeLiability: true,
	AccountTypeEquity:    true,
	AccountTypeRevenue:   true,
	AccountTypeExpense:   true,
}

// IsValid checks if the account type is one of the five classifications.
func (t AccountType) IsValid() bool {
	return validAccountTypes[t]
}

// NormalBalance reports which ledger side increases an account of this type.
func (t AccountType) NormalBalance() EntrySide {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return SideDebit
	default:
		return SideCredit
	}
}

// EntrySide distinguishes the two sides of a journal line.
type EntrySide string

const (
	SideDebit  EntrySide = "debit"
	SideCredit EntrySide = "credit"
)

// Account is a chart-of-accounts node. Balance is a denormalized cache
// maintained by the posting engine; the journal lines are the source of truth.
type Account struct {
	ID        string
	Code      string
	Name      string
	Type      AccountType
	ParentID  *string
	Balance   decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApplyDebit returns the cached balance after a debit, per the account's
// normal-balance convention.
func (a *Account) ApplyDebit(amount decimal.Decimal) decimal.Decimal {
	if a.Type.NormalBalance() == SideDebit {
		return a.Balance.Add(amount)
	}
	return a.Balance.Sub(amount)
}

// ApplyCredit returns the cached balance after a credit.
func (a *Account) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	if a.Type.NormalBalance() == SideCredit {
		return a.Balance.Add(amount)
	}
	return a.Balance.Sub(amount)
}
