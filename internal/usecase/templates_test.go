package usecase

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sankopay/agencyledger/internal/domain"
)

// Every template must produce balanced journal lines for any event, with and
// without a fee. A template failing here would make every posting of its
// transaction type abort at validation.
func TestPostingTemplatesBalance(t *testing.T) {
	amount := decimal.RequireFromString("200.00")
	fees := []decimal.Decimal{decimal.RequireFromString("5.00"), decimal.Zero}

	for txnType, template := range postingTemplates {
		for _, fee := range fees {
			debit, credit := decimal.Zero, decimal.Zero
			lines := 0
			for _, line := range template {
				v := line.Amount.eval(amount, fee)
				if v.IsZero() {
					continue
				}
				if v.IsNegative() {
					t.Errorf("%s: line %s evaluates negative (%s)", txnType, line.Role, v)
				}
				lines++
				if line.Side == domain.SideDebit {
					debit = debit.Add(v)
				} else {
					credit = credit.Add(v)
				}
			}
			if !debit.Equal(credit) {
				t.Errorf("%s with fee %s: debit %s != credit %s", txnType, fee, debit, credit)
			}
			if lines < 2 {
				t.Errorf("%s with fee %s: only %d nonzero lines", txnType, fee, lines)
			}
		}
	}
}

func TestTemplateFor(t *testing.T) {
	if _, ok := TemplateFor("momo_cash_in"); !ok {
		t.Fatal("momo_cash_in template missing")
	}
	if _, ok := TemplateFor("lottery_draw"); ok {
		t.Fatal("unexpected template for unknown type")
	}

	types := SupportedTransactionTypes()
	if len(types) != len(postingTemplates) {
		t.Fatalf("expected %d types, got %d", len(postingTemplates), len(types))
	}
}

func TestAmountExprEval(t *testing.T) {
	amount := decimal.NewFromInt(200)
	fee := decimal.NewFromInt(5)

	tests := []struct {
		expr amountExpr
		want int64
	}{
		{exprAmount, 200},
		{exprFee, 5},
		{exprAmountPlusFee, 205},
		{exprAmountMinusFee, 195},
	}
	for _, tt := range tests {
		if got := tt.expr.eval(amount, fee); !got.Equal(decimal.NewFromInt(tt.want)) {
			t.Errorf("expr %d: got %s, want %d", tt.expr, got, tt.want)
		}
	}
}
