package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// GLStatus is the lifecycle state of a GL transaction.
type GLStatus string

const (
	GLStatusPending  GLStatus = "pending"
	GLStatusPosted   GLStatus = "posted"
	GLStatusReversed GLStatus = "reversed"
)

// GLTransaction groups the balanced journal lines produced for one source
// transaction. Immutable once posted; corrections go through an explicit
// reversal transaction that negates the original lines.
type GLTransaction struct {
	ID                    string
	Date                  time.Time
	SourceModule          string
	SourceTransactionID   string
	SourceTransactionType string
	BranchID              string
	Description           string
	Status                GLStatus
	ReversalOfID          *string
	CreatedBy             string
	Metadata              map[string]any
	Entries               []*JournalEntry
	CreatedAt             time.Time
}

// JournalEntry is a single debit or credit line. Exactly one of Debit and
// Credit is nonzero.
type JournalEntry struct {
	ID            string
	TransactionID string
	AccountID     string
	AccountCode   string
	Debit         decimal.Decimal
	Credit        decimal.Decimal
	Description   string
	CreatedAt     time.Time
}

// Side reports which side of the ledger this line sits on.
func (e *JournalEntry) Side() EntrySide {
	if e.Debit.IsPositive() {
		return SideDebit
	}
	return SideCredit
}

// Amount returns the nonzero side of the line.
func (e *JournalEntry) Amount() decimal.Decimal {
	if e.Debit.IsPositive() {
		return e.Debit
	}
	return e.Credit
}

// Validate enforces the write-time journal invariants: at least two lines,
// each line purely debit or purely credit, and total debits equal to total
// credits.
func (t *GLTransaction) Validate() error {
	if len(t.Entries) < 2 {
		return ErrUnbalancedEntry
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero

	for _, e := range t.Entries {
		if e.Debit.IsNegative() || e.Credit.IsNegative() {
			return ErrInvalidAmount
		}
		if e.Debit.IsPositive() && e.Credit.IsPositive() {
			return ErrUnbalancedEntry
		}
		if e.Debit.IsZero() && e.Credit.IsZero() {
			return ErrInvalidAmount
		}

		totalDebit = totalDebit.Add(e.Debit)
		totalCredit = totalCredit.Add(e.Credit)
	}

	if !totalDebit.Equal(totalCredit) {
		return ErrUnbalancedEntry
	}

	return nil
}

// TotalDebit sums the debit side of all lines.
func (t *GLTransaction) TotalDebit() decimal.Decimal {
	total := decimal.Zero
	for _, e := range t.Entries {
		total = total.Add(e.Debit)
	}
	return total
}

// TotalCredit sums the credit side of all lines.
func (t *GLTransaction) TotalCredit() decimal.Decimal {
	total := decimal.Zero
	for _, e := range t.Entries {
		total = total.Add(e.Credit)
	}
	return total
}
