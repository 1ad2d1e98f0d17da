package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sankopay/agencyledger/internal/domain"
	"github.com/sankopay/agencyledger/internal/usecase"
	"github.com/sankopay/agencyledger/internal/usecase/mocks"
)

func newStatementFixture(stmtRepo *mocks.MockStatementRepository, floatRepo *mocks.MockFloatAccountRepository, equityRepo *mocks.MockEquityRepository) *usecase.StatementUseCase {
	return usecase.NewStatementUseCase(
		stmtRepo,
		floatRepo,
		equityRepo,
		decimal.NewFromInt(10000),        // long-term loans
		decimal.RequireFromString("0.01"), // epsilon
		zerolog.Nop(),
	)
}

func equityRow(ledger domain.EquityLedgerType, date time.Time, debit, credit int64) *domain.EquityTransaction {
	return &domain.EquityTransaction{
		ID:              "eq-" + string(ledger) + date.Format("20060102"),
		LedgerType:      ledger,
		TransactionDate: date,
		Debit:           decimal.NewFromInt(debit),
		Credit:          decimal.NewFromInt(credit),
	}
}

func TestStatementUseCase_GenerateBalanceSheet(t *testing.T) {
	asOf := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	stmtRepo := mocks.NewMockStatementRepository()
	stmtRepo.FixedAssetsNBV = decimal.NewFromInt(20000)
	stmtRepo.Receivable = decimal.NewFromInt(3000)
	stmtRepo.CardInventory = decimal.NewFromInt(1000)
	stmtRepo.Payable = decimal.NewFromInt(2000)
	stmtRepo.Commissions = decimal.NewFromInt(4000)
	stmtRepo.Expenses = decimal.NewFromInt(9000)
	stmtRepo.FeeRevenue = []usecase.AccountTotal{
		{AccountID: "gl-fee", AccountCode: "4100", AccountName: "MoMo Fees", Amount: decimal.NewFromInt(12000)},
	}

	floatRepo := mocks.NewMockFloatAccountRepository()
	momo := floatAccount("float-momo", 15000)
	bank := floatAccount("float-bank", -2000)
	bank.AccountType = domain.FloatTypeAgencyBanking
	partner := floatAccount("float-partner", -500)
	partner.AccountType = domain.FloatTypeSettlementPartner
	floatRepo.Seed(momo, bank, partner)

	equityRepo := mocks.NewMockEquityRepository()
	equityRepo.Seed(
		equityRow(domain.EquityShareCapital, asOf.AddDate(-1, 0, 0), 0, 15000),
		equityRow(domain.EquityRetainedEarnings, asOf.AddDate(-1, 0, 0), 0, 3500),
	)

	uc := newStatementFixture(stmtRepo, floatRepo, equityRepo)

	bs, err := uc.GenerateBalanceSheet(context.Background(), asOf, "")
	require.NoError(t, err)

	// Assets: 20000 NBV + 15000 positive floats + 3000 receivable + 1000 cards.
	assert.True(t, bs.TotalAssets.Equal(decimal.NewFromInt(39000)), "assets %s", bs.TotalAssets)

	// Negative floats reclassify to the liability side.
	assert.True(t, bs.BankOverdrafts.Equal(decimal.NewFromInt(2000)))
	assert.True(t, bs.SettlementArrears.Equal(decimal.NewFromInt(500)))

	// Equity: 15000 + 3500 + period profit (12000 + 4000 - 9000 = 7000).
	assert.True(t, bs.PeriodProfit.Equal(decimal.NewFromInt(7000)))
	assert.True(t, bs.TotalEquity.Equal(decimal.NewFromInt(25500)))

	// Liabilities: 2000 payable + 2000 overdraft + 500 arrears + 10000 loans.
	assert.True(t, bs.TotalLiabilities.Equal(decimal.NewFromInt(14500)))

	// 39000 vs 25500 + 14500 = 40000: out of balance by 1000 and honest about it.
	assert.False(t, bs.BalanceCheck)
	assert.True(t, bs.Difference.Equal(decimal.NewFromInt(-1000)), "difference %s", bs.Difference)
}

func TestStatementUseCase_GenerateBalanceSheet_InPeriodAppropriation(t *testing.T) {
	asOf := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	stmtRepo := mocks.NewMockStatementRepository()
	stmtRepo.FeeRevenue = []usecase.AccountTotal{
		{AccountCode: "4100", AccountName: "MoMo Fees", Amount: decimal.NewFromInt(7000)},
	}

	// Opening retained earnings 3000, then the period's profit appropriated
	// into the ledger mid-period. The appropriation must not stack on top of
	// PeriodProfit.
	equityRepo := mocks.NewMockEquityRepository()
	equityRepo.Seed(
		equityRow(domain.EquityRetainedEarnings, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC), 0, 3000),
		equityRow(domain.EquityRetainedEarnings, time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), 0, 7000),
	)

	uc := newStatementFixture(stmtRepo, mocks.NewMockFloatAccountRepository(), equityRepo)

	bs, err := uc.GenerateBalanceSheet(context.Background(), asOf, "")
	require.NoError(t, err)

	assert.True(t, bs.RetainedEarnings.Equal(decimal.NewFromInt(3000)), "retained earnings %s", bs.RetainedEarnings)
	assert.True(t, bs.PeriodProfit.Equal(decimal.NewFromInt(7000)), "period profit %s", bs.PeriodProfit)
	assert.True(t, bs.RetainedEarnings.Add(bs.PeriodProfit).Equal(decimal.NewFromInt(10000)),
		"retained earnings plus period profit %s", bs.RetainedEarnings.Add(bs.PeriodProfit))
}

func TestStatementUseCase_GenerateProfitAndLoss(t *testing.T) {
	stmtRepo := mocks.NewMockStatementRepository()
	stmtRepo.FeeRevenue = []usecase.AccountTotal{
		{AccountCode: "4100", AccountName: "MoMo Fees", Amount: decimal.NewFromInt(8000)},
		{AccountCode: "4300", AccountName: "Power Sales Fees", Amount: decimal.NewFromInt(2000)},
	}
	stmtRepo.Commissions = decimal.NewFromInt(1500)
	stmtRepo.Expenses = decimal.NewFromInt(6000)

	uc := newStatementFixture(stmtRepo, mocks.NewMockFloatAccountRepository(), mocks.NewMockEquityRepository())

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	pl, err := uc.GenerateProfitAndLoss(context.Background(), from, to, "branch-1")
	require.NoError(t, err)
	assert.True(t, pl.TotalFeeRevenue.Equal(decimal.NewFromInt(10000)))
	assert.True(t, pl.TotalRevenue.Equal(decimal.NewFromInt(11500)))
	assert.True(t, pl.NetProfit.Equal(decimal.NewFromInt(5500)))
}

func TestStatementUseCase_GenerateEquityStatement(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	stmtRepo := mocks.NewMockStatementRepository()
	stmtRepo.Commissions = decimal.NewFromInt(3000)

	equityRepo := mocks.NewMockEquityRepository()
	equityRepo.Seed(
		// Opening balances, strictly before the period.
		equityRow(domain.EquityShareCapital, from.AddDate(-1, 0, 0), 0, 20000),
		equityRow(domain.EquityRetainedEarnings, from.AddDate(-1, 0, 0), 0, 5000),
		// In-period movement: additional capital injected.
		equityRow(domain.EquityShareCapital, from.AddDate(0, 2, 0), 0, 4000),
	)

	uc := newStatementFixture(stmtRepo, mocks.NewMockFloatAccountRepository(), equityRepo)

	stmt, err := uc.GenerateEquityStatement(context.Background(), from, to, "")
	require.NoError(t, err)
	require.Len(t, stmt.Lines, 3)

	byType := make(map[domain.EquityLedgerType]usecase.EquityStatementLine)
	for _, line := range stmt.Lines {
		byType[line.LedgerType] = line
	}

	share := byType[domain.EquityShareCapital]
	assert.Equal(t, 1, share.Note)
	assert.True(t, share.Opening.Equal(decimal.NewFromInt(20000)))
	assert.True(t, share.Movements.Equal(decimal.NewFromInt(4000)))
	assert.True(t, share.Closing.Equal(decimal.NewFromInt(24000)))

	// Retained earnings pick up period income (3000 commissions, no expenses).
	retained := byType[domain.EquityRetainedEarnings]
	assert.Equal(t, 2, retained.Note)
	assert.True(t, retained.Closing.Equal(decimal.NewFromInt(8000)))

	assert.True(t, stmt.TotalOpening.Equal(decimal.NewFromInt(25000)))
	assert.True(t, stmt.TotalClosing.Equal(decimal.NewFromInt(32000)))
}

func TestStatementUseCase_GenerateTrialBalance(t *testing.T) {
	stmtRepo := mocks.NewMockStatementRepository()
	stmtRepo.TrialBalanceRows = []usecase.TrialBalanceRow{
		{AccountCode: "1010", AccountName: "Cash in Till", AccountType: domain.AccountTypeAsset, Debit: decimal.NewFromInt(500), Credit: decimal.Zero},
		{AccountCode: "4100", AccountName: "MoMo Fees", AccountType: domain.AccountTypeRevenue, Debit: decimal.Zero, Credit: decimal.NewFromInt(500)},
	}

	uc := newStatementFixture(stmtRepo, mocks.NewMockFloatAccountRepository(), mocks.NewMockEquityRepository())

	tb, err := uc.GenerateTrialBalance(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, tb.Balanced)
	assert.True(t, tb.TotalDebit.Equal(decimal.NewFromInt(500)))
	assert.True(t, tb.TotalCredit.Equal(decimal.NewFromInt(500)))
}
