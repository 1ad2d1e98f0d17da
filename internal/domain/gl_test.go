package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func line(debit, credit int64) *JournalEntry {
	return &JournalEntry{
		Debit:  decimal.NewFromInt(debit),
		Credit: decimal.NewFromInt(credit),
	}
}

func TestGLTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		entries []*JournalEntry
		wantErr error
	}{
		{
			name:    "balanced two lines",
			entries: []*JournalEntry{line(205, 0), line(0, 205)},
			wantErr: nil,
		},
		{
			name:    "balanced three lines with fee split",
			entries: []*JournalEntry{line(205, 0), line(0, 200), line(0, 5)},
			wantErr: nil,
		},
		{
			name:    "unbalanced totals",
			entries: []*JournalEntry{line(200, 0), line(0, 205)},
			wantErr: ErrUnbalancedEntry,
		},
		{
			name:    "single line",
			entries: []*JournalEntry{line(100, 0)},
			wantErr: ErrUnbalancedEntry,
		},
		{
			name:    "line with both sides set",
			entries: []*JournalEntry{{Debit: decimal.NewFromInt(100), Credit: decimal.NewFromInt(100)}, line(0, 0)},
			wantErr: ErrUnbalancedEntry,
		},
		{
			name:    "empty line",
			entries: []*JournalEntry{line(100, 0), line(0, 100), line(0, 0)},
			wantErr: ErrInvalidAmount,
		},
		{
			name:    "negative debit",
			entries: []*JournalEntry{line(-100, 0), line(0, -100)},
			wantErr: ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := &GLTransaction{Entries: tt.entries}
			err := txn.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGLTransactionTotals(t *testing.T) {
	txn := &GLTransaction{Entries: []*JournalEntry{line(205, 0), line(0, 200), line(0, 5)}}

	if !txn.TotalDebit().Equal(decimal.NewFromInt(205)) {
		t.Errorf("TotalDebit() = %s, want 205", txn.TotalDebit())
	}
	if !txn.TotalCredit().Equal(decimal.NewFromInt(205)) {
		t.Errorf("TotalCredit() = %s, want 205", txn.TotalCredit())
	}
}

func TestJournalEntrySide(t *testing.T) {
	if line(100, 0).Side() != SideDebit {
		t.Error("expected debit side")
	}
	if line(0, 100).Side() != SideCredit {
		t.Error("expected credit side")
	}
	if !line(0, 100).Amount().Equal(decimal.NewFromInt(100)) {
		t.Error("expected amount 100")
	}
}

func TestFloatAccountValidateDebit(t *testing.T) {
	acct := &FloatAccount{Active: true, CurrentBalance: decimal.NewFromInt(300)}

	if err := acct.ValidateDebit(decimal.NewFromInt(300)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := acct.ValidateDebit(decimal.NewFromInt(301)); !errors.Is(err, ErrInsufficientFunds) {
		t.Errorf("expected ErrInsufficientFunds, got %v", err)
	}

	acct.Active = false
	if err := acct.ValidateDebit(decimal.NewFromInt(1)); !errors.Is(err, ErrAccountInactive) {
		t.Errorf("expected ErrAccountInactive, got %v", err)
	}
}
