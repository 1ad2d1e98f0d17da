package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/sankopay/agencyledger/internal/domain"
)

// amountExpr selects which portion of the posting event a template line carries.
type amountExpr int

const (
	exprAmount amountExpr = iota
	exprFee
	exprAmountPlusFee
	exprAmountMinusFee
)

func (e amountExpr) eval(amount, fee decimal.Decimal) decimal.Decimal {
	switch e {
	case exprFee:
		return fee
	case exprAmountPlusFee:
		return amount.Add(fee)
	case exprAmountMinusFee:
		return amount.Sub(fee)
	default:
		return amount
	}
}

// templateLine describes one journal line of a posting template. Lines that
// evaluate to zero are dropped, so fee roles are only required when the event
// carries a fee.
type templateLine struct {
	Role        domain.MappingRole
	Side        domain.EntrySide
	Amount      amountExpr
	Description string
}

// postingTemplates drives journal construction per transaction type. Adding a
// channel means adding mappings and a template row here, not code.
var postingTemplates = map[string][]templateLine{
	// Customer hands over cash (amount + fee); wallet float is drawn down.
	"momo_cash_in": {
		{Role: domain.RoleCash, Side: domain.SideDebit, Amount: exprAmountPlusFee, Description: "cash received incl. fee"},
		{Role: domain.RoleMain, Side: domain.SideCredit, Amount: exprAmount, Description: "momo float drawdown"},
		{Role: domain.RoleFee, Side: domain.SideCredit, Amount: exprFee, Description: "cash-in fee earned"},
	},
	// Customer receives cash net of fee; wallet float replenishes.
	"momo_cash_out": {
		{Role: domain.RoleMain, Side: domain.SideDebit, Amount: exprAmount, Description: "momo float top-up"},
		{Role: domain.RoleCash, Side: domain.SideCredit, Amount: exprAmountMinusFee, Description: "cash paid out net of fee"},
		{Role: domain.RoleFee, Side: domain.SideCredit, Amount: exprFee, Description: "cash-out fee earned"},
	},
	// Card withdrawal paid from the till; partner owes the agency.
	"ezwich_withdrawal": {
		{Role: domain.RoleMain, Side: domain.SideDebit, Amount: exprAmount, Description: "e-zwich settlement receivable"},
		{Role: domain.RoleCash, Side: domain.SideCredit, Amount: exprAmountMinusFee, Description: "cash paid out net of fee"},
		{Role: domain.RoleFee, Side: domain.SideCredit, Amount: exprFee, Description: "withdrawal fee earned"},
	},
	// Prepaid power sale: cash in, provider credit drawn down.
	"power_sale": {
		{Role: domain.RoleCash, Side: domain.SideDebit, Amount: exprAmountPlusFee, Description: "cash received incl. fee"},
		{Role: domain.RoleMain, Side: domain.SideCredit, Amount: exprAmount, Description: "power credit drawdown"},
		{Role: domain.RoleFee, Side: domain.SideCredit, Amount: exprFee, Description: "vending fee earned"},
	},
	// Parcel cash collection held on behalf of the marketplace.
	"jumia_collection": {
		{Role: domain.RoleCash, Side: domain.SideDebit, Amount: exprAmount, Description: "parcel cash collected"},
		{Role: domain.RoleLiability, Side: domain.SideCredit, Amount: exprAmount, Description: "payable to marketplace"},
	},
	"agency_banking_deposit": {
		{Role: domain.RoleCash, Side: domain.SideDebit, Amount: exprAmountPlusFee, Description: "cash received incl. fee"},
		{Role: domain.RoleMain, Side: domain.SideCredit, Amount: exprAmount, Description: "bank float drawdown"},
		{Role: domain.RoleFee, Side: domain.SideCredit, Amount: exprFee, Description: "deposit fee earned"},
	},
	"agency_banking_withdrawal": {
		{Role: domain.RoleMain, Side: domain.SideDebit, Amount: exprAmount, Description: "bank float top-up"},
		{Role: domain.RoleCash, Side: domain.SideCredit, Amount: exprAmountMinusFee, Description: "cash paid out net of fee"},
		{Role: domain.RoleFee, Side: domain.SideCredit, Amount: exprFee, Description: "withdrawal fee earned"},
	},
	"expense_payment": {
		{Role: domain.RoleMain, Side: domain.SideDebit, Amount: exprAmount, Description: "expense incurred"},
		{Role: domain.RoleCash, Side: domain.SideCredit, Amount: exprAmount, Description: "paid from till"},
	},
	"fixed_asset_purchase": {
		{Role: domain.RoleMain, Side: domain.SideDebit, Amount: exprAmount, Description: "asset capitalised"},
		{Role: domain.RoleCash, Side: domain.SideCredit, Amount: exprAmount, Description: "paid from till"},
	},
	"commission_earned": {
		{Role: domain.RoleMain, Side: domain.SideDebit, Amount: exprAmount, Description: "commission receivable"},
		{Role: domain.RoleCommission, Side: domain.SideCredit, Amount: exprAmount, Description: "commission income"},
	},
	"settlement_transfer": {
		{Role: domain.RoleSettlement, Side: domain.SideDebit, Amount: exprAmount, Description: "settlement received"},
		{Role: domain.RolePartner, Side: domain.SideCredit, Amount: exprAmount, Description: "partner float cleared"},
	},
}

// TemplateFor returns the journal template for a transaction type.
func TemplateFor(transactionType string) ([]templateLine, bool) {
	t, ok := postingTemplates[transactionType]
	return t, ok
}

// SupportedTransactionTypes lists the transaction types with posting templates.
func SupportedTransactionTypes() []string {
	types := make([]string, 0, len(postingTemplates))
	for t := range postingTemplates {
		types = append(types, t)
	}
	return types
}
