package usecase

import "github.com/sankopay/agencyledger/internal/domain"

// SuspenseAccountCode is the reconciliation suspense account used as the
// counterpart for supervised catch-up entries.
const SuspenseAccountCode = "1999"

// Cache keys and ttls live in one place so invalidation stays symmetric with
// population.
const (
	cacheKeyAccountPrefix     = "coa:account:"
	cacheKeyAccountCodePrefix = "coa:code:"
	cacheKeyFloatMappings     = "mappings:float:"
	cacheKeyTypeMappings      = "mappings:type:"
)

type seedAccount struct {
	Code     string
	Name     string
	Type     domain.AccountType
	ParentCode string
}

// defaultChart is the agency back-office chart installed by Seed. Codes group
// by classification: 1xxx assets, 2xxx liabilities, 3xxx equity, 4xxx revenue,
// 5xxx expenses.
var defaultChart = []seedAccount{
	// Assets
	{Code: "1000", Name: "Cash and Cash Equivalents", Type: domain.AccountTypeAsset},
	{Code: "1010", Name: "Cash in Till", Type: domain.AccountTypeAsset, ParentCode: "1000"},
	{Code: "1020", Name: "Bank Accounts", Type: domain.AccountTypeAsset, ParentCode: "1000"},
	{Code: "1100", Name: "Float Assets", Type: domain.AccountTypeAsset},
	{Code: "1110", Name: "MoMo Float", Type: domain.AccountTypeAsset, ParentCode: "1100"},
	{Code: "1120", Name: "E-Zwich Float", Type: domain.AccountTypeAsset, ParentCode: "1100"},
	{Code: "1130", Name: "Power Float", Type: domain.AccountTypeAsset, ParentCode: "1100"},
	{Code: "1140", Name: "Agency Banking Float", Type: domain.AccountTypeAsset, ParentCode: "1100"},
	{Code: "1150", Name: "Settlement Partner Float", Type: domain.AccountTypeAsset, ParentCode: "1100"},
	{Code: "1200", Name: "Receivables", Type: domain.AccountTypeAsset},
	{Code: "1210", Name: "Commissions Receivable", Type: domain.AccountTypeAsset, ParentCode: "1200"},
	{Code: "1300", Name: "Card Inventory", Type: domain.AccountTypeAsset},
	{Code: "1500", Name: "Fixed Assets", Type: domain.AccountTypeAsset},
	{Code: "1510", Name: "Office Equipment", Type: domain.AccountTypeAsset, ParentCode: "1500"},
	{Code: "1520", Name: "Furniture and Fittings", Type: domain.AccountTypeAsset, ParentCode: "1500"},
	{Code: "1590", Name: "Accumulated Depreciation", Type: domain.AccountTypeAsset, ParentCode: "1500"},
	{Code: SuspenseAccountCode, Name: "Reconciliation Suspense", Type: domain.AccountTypeAsset},

	// Liabilities
	{Code: "2000", Name: "Current Liabilities", Type: domain.AccountTypeLiability},
	{Code: "2100", Name: "Jumia Collections Payable", Type: domain.AccountTypeLiability, ParentCode: "2000"},
	{Code: "2200", Name: "Expenses Payable", Type: domain.AccountTypeLiability, ParentCode: "2000"},
	{Code: "2300", Name: "Settlement Obligations", Type: domain.AccountTypeLiability, ParentCode: "2000"},
	{Code: "2500", Name: "Long Term Loans", Type: domain.AccountTypeLiability},

	// Equity
	{Code: "3000", Name: "Equity", Type: domain.AccountTypeEquity},
	{Code: "3100", Name: "Share Capital", Type: domain.AccountTypeEquity, ParentCode: "3000"},
	{Code: "3200", Name: "Retained Earnings", Type: domain.AccountTypeEquity, ParentCode: "3000"},
	{Code: "3300", Name: "Other Funds", Type: domain.AccountTypeEquity, ParentCode: "3000"},

	// Revenue
	{Code: "4000", Name: "Fee Revenue", Type: domain.AccountTypeRevenue},
	{Code: "4100", Name: "MoMo Fees", Type: domain.AccountTypeRevenue, ParentCode: "4000"},
	{Code: "4200", Name: "E-Zwich Fees", Type: domain.AccountTypeRevenue, ParentCode: "4000"},
	{Code: "4300", Name: "Power Sales Fees", Type: domain.AccountTypeRevenue, ParentCode: "4000"},
	{Code: "4400", Name: "Agency Banking Fees", Type: domain.AccountTypeRevenue, ParentCode: "4000"},
	{Code: "4500", Name: "Commission Income", Type: domain.AccountTypeRevenue},

	// Expenses
	{Code: "5000", Name: "Operating Expenses", Type: domain.AccountTypeExpense},
	{Code: "5100", Name: "Salaries and Wages", Type: domain.AccountTypeExpense, ParentCode: "5000"},
	{Code: "5200", Name: "Rent and Utilities", Type: domain.AccountTypeExpense, ParentCode: "5000"},
	{Code: "5300", Name: "Bank Charges", Type: domain.AccountTypeExpense, ParentCode: "5000"},
	{Code: "5900", Name: "Depreciation Expense", Type: domain.AccountTypeExpense, ParentCode: "5000"},
}
