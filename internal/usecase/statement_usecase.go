package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sankopay/agencyledger/internal/domain"
)

// StatementUseCase builds the financial statements over the GL, the float
// balances and the auxiliary channel tables.
type StatementUseCase struct {
	statementRepo StatementRepository
	floatRepo     FloatAccountRepository
	equityRepo    EquityRepository
	longTermLoans decimal.Decimal
	epsilon       decimal.Decimal
	logger        zerolog.Logger
}

// NewStatementUseCase creates a new statement use case. longTermLoans is the
// configured carrying value of non-current borrowings; epsilon bounds the
// acceptable balance-sheet rounding difference.
func NewStatementUseCase(
	statementRepo StatementRepository,
	floatRepo FloatAccountRepository,
	equityRepo EquityRepository,
	longTermLoans decimal.Decimal,
	epsilon decimal.Decimal,
	logger zerolog.Logger,
) *StatementUseCase {
	return &StatementUseCase{
		statementRepo: statementRepo,
		floatRepo:     floatRepo,
		equityRepo:    equityRepo,
		longTermLoans: longTermLoans,
		epsilon:       epsilon,
		logger:        logger,
	}
}

// BalanceSheet is the statement of financial position as of a date.
type BalanceSheet struct {
	AsOf     time.Time `json:"as_of"`
	BranchID string    `json:"branch_id,omitempty"`

	// Non-current assets
	FixedAssetsNBV decimal.Decimal `json:"fixed_assets_nbv"`

	// Current assets
	FloatBalances         decimal.Decimal `json:"float_balances"`
	CommissionsReceivable decimal.Decimal `json:"commissions_receivable"`
	CardInventory         decimal.Decimal `json:"card_inventory"`

	TotalAssets decimal.Decimal `json:"total_assets"`

	// Shareholders' fund
	ShareCapital     decimal.Decimal `json:"share_capital"`
	RetainedEarnings decimal.Decimal `json:"retained_earnings"`
	PeriodProfit     decimal.Decimal `json:"period_profit"`
	TotalEquity      decimal.Decimal `json:"total_equity"`

	// Liabilities
	ExpensesPayable   decimal.Decimal `json:"expenses_payable"`
	BankOverdrafts    decimal.Decimal `json:"bank_overdrafts"`
	SettlementArrears decimal.Decimal `json:"settlement_arrears"`
	LongTermLoans     decimal.Decimal `json:"long_term_loans"`
	TotalLiabilities  decimal.Decimal `json:"total_liabilities"`

	TotalEquityAndLiabilities decimal.Decimal `json:"total_equity_and_liabilities"`
	BalanceCheck              bool            `json:"balance_check"`
	Difference                decimal.Decimal `json:"difference"`
}

// GenerateBalanceSheet builds the balance sheet as of a date. Negative float
// balances reclassify to the liability side: bank and agency-banking floats as
// overdrafts, settlement-partner floats as arrears.
func (uc *StatementUseCase) GenerateBalanceSheet(ctx context.Context, asOf time.Time, branchID string) (*BalanceSheet, error) {
	bs := &BalanceSheet{
		AsOf:          asOf,
		BranchID:      branchID,
		LongTermLoans: uc.longTermLoans,
	}

	nbv, err := uc.statementRepo.FixedAssetNetBookValue(ctx, asOf, branchID)
	if err != nil {
		return nil, err
	}
	bs.FixedAssetsNBV = nbv

	floats, err := uc.listFloats(ctx, branchID)
	if err != nil {
		return nil, err
	}
	for _, f := range floats {
		if f.CurrentBalance.IsNegative() {
			negated := f.CurrentBalance.Neg()
			if f.AccountType == domain.FloatTypeSettlementPartner {
				bs.SettlementArrears = bs.SettlementArrears.Add(negated)
			} else {
				bs.BankOverdrafts = bs.BankOverdrafts.Add(negated)
			}
			continue
		}
		bs.FloatBalances = bs.FloatBalances.Add(f.CurrentBalance)
	}

	receivable, err := uc.statementRepo.CommissionsReceivable(ctx, asOf, branchID)
	if err != nil {
		return nil, err
	}
	bs.CommissionsReceivable = receivable

	cards, err := uc.statementRepo.CardInventoryValue(ctx, asOf, branchID)
	if err != nil {
		return nil, err
	}
	bs.CardInventory = cards

	payable, err := uc.statementRepo.ExpensesPayable(ctx, asOf, branchID)
	if err != nil {
		return nil, err
	}
	bs.ExpensesPayable = payable

	yearStart := time.Date(asOf.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	equity, err := uc.equityRepo.SumByTypeBefore(ctx, asOf)
	if err != nil {
		return nil, err
	}
	bs.ShareCapital = equity[domain.EquityShareCapital]

	// Retained earnings stop at period start; the period's own result rides in
	// PeriodProfit, so an in-period appropriation must not count twice.
	opening, err := uc.equityRepo.SumByTypeBefore(ctx, yearStart)
	if err != nil {
		return nil, err
	}
	bs.RetainedEarnings = opening[domain.EquityRetainedEarnings]

	pl, err := uc.GenerateProfitAndLoss(ctx, yearStart, asOf, branchID)
	if err != nil {
		return nil, err
	}
	bs.PeriodProfit = pl.NetProfit

	bs.TotalAssets = bs.FixedAssetsNBV.
		Add(bs.FloatBalances).
		Add(bs.CommissionsReceivable).
		Add(bs.CardInventory)

	bs.TotalEquity = bs.ShareCapital.
		Add(bs.RetainedEarnings).
		Add(bs.PeriodProfit)

	bs.TotalLiabilities = bs.ExpensesPayable.
		Add(bs.BankOverdrafts).
		Add(bs.SettlementArrears).
		Add(bs.LongTermLoans)

	bs.TotalEquityAndLiabilities = bs.TotalEquity.Add(bs.TotalLiabilities)
	bs.Difference = bs.TotalAssets.Sub(bs.TotalEquityAndLiabilities)
	bs.BalanceCheck = bs.Difference.Abs().LessThan(uc.epsilon)

	if !bs.BalanceCheck {
		uc.logger.Warn().
			Str("as_of", asOf.Format("2006-01-02")).
			Str("difference", bs.Difference.String()).
			Msg("balance sheet out of balance")
	}

	return bs, nil
}

// ProfitAndLoss is the income statement for a period.
type ProfitAndLoss struct {
	From     time.Time `json:"from"`
	To       time.Time `json:"to"`
	BranchID string    `json:"branch_id,omitempty"`

	FeeRevenue       []AccountTotal  `json:"fee_revenue"`
	TotalFeeRevenue  decimal.Decimal `json:"total_fee_revenue"`
	CommissionIncome decimal.Decimal `json:"commission_income"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`

	TotalExpenses decimal.Decimal `json:"total_expenses"`
	NetProfit     decimal.Decimal `json:"net_profit"`
}

// GenerateProfitAndLoss builds the income statement for a period.
func (uc *StatementUseCase) GenerateProfitAndLoss(ctx context.Context, from, to time.Time, branchID string) (*ProfitAndLoss, error) {
	pl := &ProfitAndLoss{
		From:     from,
		To:       to,
		BranchID: branchID,
	}

	fees, err := uc.statementRepo.FeeRevenueByRange(ctx, from, to, branchID)
	if err != nil {
		return nil, err
	}
	pl.FeeRevenue = fees
	for _, f := range fees {
		pl.TotalFeeRevenue = pl.TotalFeeRevenue.Add(f.Amount)
	}

	commissions, err := uc.statementRepo.CommissionsByRange(ctx, from, to, branchID)
	if err != nil {
		return nil, err
	}
	pl.CommissionIncome = commissions

	expenses, err := uc.statementRepo.ExpensesByRange(ctx, from, to, branchID)
	if err != nil {
		return nil, err
	}
	pl.TotalExpenses = expenses

	pl.TotalRevenue = pl.TotalFeeRevenue.Add(pl.CommissionIncome)
	pl.NetProfit = pl.TotalRevenue.Sub(pl.TotalExpenses)

	return pl, nil
}

// EquityStatementLine is one ledger-type section of the equity statement.
type EquityStatementLine struct {
	LedgerType domain.EquityLedgerType `json:"ledger_type"`
	Note       int                     `json:"note"`
	Opening    decimal.Decimal         `json:"opening"`
	Movements  decimal.Decimal         `json:"movements"`
	Closing    decimal.Decimal         `json:"closing"`
}

// EquityStatement is the statement of changes in equity for a period.
type EquityStatement struct {
	From  time.Time             `json:"from"`
	To    time.Time             `json:"to"`
	Lines []EquityStatementLine `json:"lines"`

	PeriodIncome decimal.Decimal `json:"period_income"`
	TotalOpening decimal.Decimal `json:"total_opening"`
	TotalClosing decimal.Decimal `json:"total_closing"`
}

// GenerateEquityStatement builds the statement of changes in equity. Period
// income accrues to retained earnings.
func (uc *StatementUseCase) GenerateEquityStatement(ctx context.Context, from, to time.Time, branchID string) (*EquityStatement, error) {
	opening, err := uc.equityRepo.SumByTypeBefore(ctx, from)
	if err != nil {
		return nil, err
	}

	movements, err := uc.equityRepo.MovementsBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	moved := make(map[domain.EquityLedgerType]decimal.Decimal)
	for _, m := range movements {
		moved[m.LedgerType] = moved[m.LedgerType].Add(m.Net())
	}

	pl, err := uc.GenerateProfitAndLoss(ctx, from, to, branchID)
	if err != nil {
		return nil, err
	}

	stmt := &EquityStatement{
		From:         from,
		To:           to,
		PeriodIncome: pl.NetProfit,
	}

	for _, ledgerType := range []domain.EquityLedgerType{
		domain.EquityShareCapital,
		domain.EquityRetainedEarnings,
		domain.EquityOtherFunds,
	} {
		line := EquityStatementLine{
			LedgerType: ledgerType,
			Note:       ledgerType.NoteNumber(),
			Opening:    opening[ledgerType],
			Movements:  moved[ledgerType],
		}
		line.Closing = line.Opening.Add(line.Movements)
		if ledgerType == domain.EquityRetainedEarnings {
			line.Closing = line.Closing.Add(pl.NetProfit)
		}

		stmt.TotalOpening = stmt.TotalOpening.Add(line.Opening)
		stmt.TotalClosing = stmt.TotalClosing.Add(line.Closing)
		stmt.Lines = append(stmt.Lines, line)
	}

	return stmt, nil
}

// TrialBalance is the per-account debit/credit listing as of a date.
type TrialBalance struct {
	AsOf        time.Time         `json:"as_of"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"total_debit"`
	TotalCredit decimal.Decimal   `json:"total_credit"`
	Balanced    bool              `json:"balanced"`
}

// GenerateTrialBalance builds the trial balance as of a date.
func (uc *StatementUseCase) GenerateTrialBalance(ctx context.Context, asOf time.Time) (*TrialBalance, error) {
	rows, err := uc.statementRepo.TrialBalance(ctx, asOf)
	if err != nil {
		return nil, err
	}

	tb := &TrialBalance{
		AsOf: asOf,
		Rows: rows,
	}
	for _, row := range rows {
		tb.TotalDebit = tb.TotalDebit.Add(row.Debit)
		tb.TotalCredit = tb.TotalCredit.Add(row.Credit)
	}
	tb.Balanced = tb.TotalDebit.Equal(tb.TotalCredit)

	return tb, nil
}

func (uc *StatementUseCase) listFloats(ctx context.Context, branchID string) ([]*domain.FloatAccount, error) {
	if branchID == "" {
		return uc.floatRepo.ListAll(ctx)
	}
	return uc.floatRepo.List(ctx, branchID, 1000, 0)
}
