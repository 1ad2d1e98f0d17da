package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAccountCode(t *testing.T) {
	valid := []string{"1000", "1100-1", "4010", "500000", "2050-12"}
	for _, code := range valid {
		if err := ValidateAccountCode(code); err != nil {
			t.Errorf("ValidateAccountCode(%q) = %v, want nil", code, err)
		}
	}

	invalid := []string{"", "10", "abcd", "1000-", "1000-1234", "10 00"}
	for _, code := range invalid {
		if err := ValidateAccountCode(code); err == nil {
			t.Errorf("ValidateAccountCode(%q) = nil, want error", code)
		}
	}
}

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount(decimal.NewFromInt(100)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateAmount(decimal.Zero); err == nil {
		t.Error("expected error for zero amount")
	}
	if err := ValidateAmount(decimal.NewFromInt(-5)); err == nil {
		t.Error("expected error for negative amount")
	}
	big, _ := decimal.NewFromString("1000000001")
	if err := ValidateAmount(big); err == nil {
		t.Error("expected error for amount above maximum")
	}
}

func TestValidateFee(t *testing.T) {
	if err := ValidateFee(decimal.Zero); err != nil {
		t.Errorf("zero fee should be allowed: %v", err)
	}
	if err := ValidateFee(decimal.NewFromInt(-1)); err == nil {
		t.Error("expected error for negative fee")
	}
}

func TestValidatePagination(t *testing.T) {
	limit, offset := ValidatePagination(0, -1)
	if limit != 50 || offset != 0 {
		t.Errorf("got limit=%d offset=%d, want 50 and 0", limit, offset)
	}

	limit, _ = ValidatePagination(5000, 0)
	if limit != 1000 {
		t.Errorf("got limit=%d, want capped at 1000", limit)
	}
}
