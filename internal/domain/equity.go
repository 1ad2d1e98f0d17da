package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EquityLedgerType names the equity fund a movement belongs to. The note
// numbers follow the fixed audit presentation scheme.
type EquityLedgerType string

const (
	EquityShareCapital     EquityLedgerType = "share-capital"
	EquityRetainedEarnings EquityLedgerType = "retained-earnings"
	EquityOtherFunds       EquityLedgerType = "other-funds"
)

// NoteNumber returns the statement note this ledger type is presented under.
func (t EquityLedgerType) NoteNumber() int {
	switch t {
	case EquityShareCapital:
		return 1
	case EquityRetainedEarnings:
		return 2
	default:
		return 3
	}
}

// EquityTransaction is one movement on the share-capital, retained-earnings or
// other-funds ledgers. Seeds opening/closing balances for the equity statement.
type EquityTransaction struct {
	ID              string
	LedgerType      EquityLedgerType
	TransactionDate time.Time
	Description     string
	Debit           decimal.Decimal
	Credit          decimal.Decimal
	CreatedBy       string
	CreatedAt       time.Time
}

// Net returns the movement's effect on the fund (equity is credit-normal).
func (e *EquityTransaction) Net() decimal.Decimal {
	return e.Credit.Sub(e.Debit)
}
