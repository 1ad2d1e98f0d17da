package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestAccountTypeNormalBalance(t *testing.T) {
	tests := []struct {
		accountType AccountType
		want        EntrySide
	}{
		{AccountTypeAsset, SideDebit},
		{AccountTypeExpense, SideDebit},
		{AccountTypeLiability, SideCredit},
		{AccountTypeEquity, SideCredit},
		{AccountTypeRevenue, SideCredit},
	}

	for _, tt := range tests {
		t.Run(string(tt.accountType), func(t *testing.T) {
			if got := tt.accountType.NormalBalance(); got != tt.want {
				t.Errorf("NormalBalance() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAccountApplyDebit(t *testing.T) {
	tests := []struct {
		name        string
		accountType AccountType
		balance     int64
		amount      int64
		want        int64
	}{
		{"debit increases asset", AccountTypeAsset, 100, 40, 140},
		{"debit increases expense", AccountTypeExpense, 100, 40, 140},
		{"debit decreases liability", AccountTypeLiability, 100, 40, 60},
		{"debit decreases revenue", AccountTypeRevenue, 100, 40, 60},
		{"debit decreases equity", AccountTypeEquity, 100, 40, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Account{Type: tt.accountType, Balance: decimal.NewFromInt(tt.balance)}
			got := a.ApplyDebit(decimal.NewFromInt(tt.amount))
			if !got.Equal(decimal.NewFromInt(tt.want)) {
				t.Errorf("ApplyDebit() = %s, want %d", got, tt.want)
			}
		})
	}
}

func TestAccountApplyCredit(t *testing.T) {
	tests := []struct {
		name        string
		accountType AccountType
		balance     int64
		amount      int64
		want        int64
	}{
		{"credit decreases asset", AccountTypeAsset, 100, 40, 60},
		{"credit increases liability", AccountTypeLiability, 100, 40, 140},
		{"credit increases revenue", AccountTypeRevenue, 100, 40, 140},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &Account{Type: tt.accountType, Balance: decimal.NewFromInt(tt.balance)}
			got := a.ApplyCredit(decimal.NewFromInt(tt.amount))
			if !got.Equal(decimal.NewFromInt(tt.want)) {
				t.Errorf("ApplyCredit() = %s, want %d", got, tt.want)
			}
		})
	}
}

func TestAccountTypeIsValid(t *testing.T) {
	for _, valid := range []AccountType{AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense} {
		if !valid.IsValid() {
			t.Errorf("expected %s to be valid", valid)
		}
	}

	if AccountType("suspense").IsValid() {
		t.Error("expected unknown type to be invalid")
	}
}
