package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sankopay/agencyledger/internal/domain"
	"github.com/sankopay/agencyledger/internal/usecase"
	"github.com/sankopay/agencyledger/internal/usecase/mocks"
)

type settlementFixture struct {
	uc        *usecase.SettlementUseCase
	floatRepo *mocks.MockFloatAccountRepository
	glRepo    *mocks.MockGLRepository
	accRepo   *mocks.MockAccountRepository
	outbox    *mocks.MockOutboxRepository
	auditRepo *mocks.MockAuditRepository
}

func newSettlementFixture(resolver usecase.MappingResolver) *settlementFixture {
	f := &settlementFixture{
		floatRepo: mocks.NewMockFloatAccountRepository(),
		glRepo:    mocks.NewMockGLRepository(),
		accRepo:   mocks.NewMockAccountRepository(),
		outbox:    mocks.NewMockOutboxRepository(),
		auditRepo: mocks.NewMockAuditRepository(),
	}

	balances := usecase.NewFloatBalanceUseCase(
		mocks.NewMockTransactionManager(),
		f.floatRepo,
		mocks.NewMockFloatTransactionRepository(),
		f.outbox,
		mocks.NewMockIDGenerator(),
		zerolog.Nop(),
	)
	posting := usecase.NewPostingUseCase(
		mocks.NewMockTransactionManager(),
		f.glRepo,
		f.accRepo,
		resolver,
		mocks.NewMockIDGenerator(),
		zerolog.Nop(),
	)
	f.uc = usecase.NewSettlementUseCase(
		balances,
		posting,
		f.outbox,
		f.auditRepo,
		mocks.NewMockIDGenerator(),
		zerolog.Nop(),
	)
	return f
}

func settlementSet() domain.MappingSet {
	return domain.MappingSet{
		domain.RoleSettlement: mapping(domain.RoleSettlement, "gl-settle", "1020", domain.SignDebitIncreases),
		domain.RolePartner:    mapping(domain.RolePartner, "gl-partner", "1150", domain.SignDebitIncreases),
	}
}

func settlementChart() []*domain.Account {
	return []*domain.Account{
		{ID: "gl-settle", Code: "1020", Name: "Bank Accounts", Type: domain.AccountTypeAsset, Active: true},
		{ID: "gl-partner", Code: "1150", Name: "Settlement Partner Float", Type: domain.AccountTypeAsset, Active: true},
	}
}

func TestSettlementUseCase_Settle(t *testing.T) {
	f := newSettlementFixture(&staticResolver{set: settlementSet()})
	f.accRepo.Seed(settlementChart()...)

	partner := floatAccount("float-partner", 1000)
	partner.AccountType = domain.FloatTypeSettlementPartner
	till := floatAccount("float-till", 500)
	till.AccountType = domain.FloatTypeCashInTill
	f.floatRepo.Seed(partner, till)

	result, err := f.uc.Settle(context.Background(), usecase.SettleInput{
		FromAccountID: "float-partner",
		ToAccountID:   "float-till",
		Amount:        decimal.NewFromInt(300),
		Reference:     "daily-sweep",
		Actor:         domain.Identity{UserID: "supervisor-1", BranchID: "branch-1"},
	})
	require.NoError(t, err)
	assert.True(t, result.GLPosted)
	assert.NotEmpty(t, result.GLTransactionID)
	assert.True(t, result.FromBalance.Equal(decimal.NewFromInt(700)))
	assert.True(t, result.ToBalance.Equal(decimal.NewFromInt(800)))

	// The GL mirror carries one balanced transaction for the movement.
	txns := f.glRepo.All()
	require.Len(t, txns, 1)
	assert.Equal(t, "settlement", txns[0].SourceModule)
	assert.True(t, txns[0].TotalDebit().Equal(decimal.NewFromInt(300)))

	// Audit carries before/after on both sides.
	logs := f.auditRepo.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, string(domain.AuditActionSettlement), logs[0].Action)
	assert.Equal(t, "1000", logs[0].BeforeState["from_balance"])
	assert.Equal(t, "700", logs[0].AfterState["from_balance"])

	// Completion notification is enqueued.
	var completed int
	for _, e := range f.outbox.Events() {
		if e.EventType == domain.EventTypeSettlementCompleted {
			completed++
		}
	}
	assert.Equal(t, 1, completed)

	// A second transfer larger than the remaining balance fails whole.
	_, err = f.uc.Settle(context.Background(), usecase.SettleInput{
		FromAccountID: "float-partner",
		ToAccountID:   "float-till",
		Amount:        decimal.NewFromInt(800),
		Actor:         domain.Identity{UserID: "supervisor-1"},
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	from, err := f.floatRepo.GetByID(context.Background(), "float-partner")
	require.NoError(t, err)
	assert.True(t, from.CurrentBalance.Equal(decimal.NewFromInt(700)), "failed settlement must not move balances")
}

func TestSettlementUseCase_Settle_GLFailureKeepsBalances(t *testing.T) {
	// No settlement mappings exist: the balance movement commits, the GL
	// mirror does not, and reconciliation owns the gap.
	f := newSettlementFixture(&staticResolver{err: domain.ErrMappingNotFound})
	f.floatRepo.Seed(floatAccount("float-partner", 1000), floatAccount("float-till", 500))

	result, err := f.uc.Settle(context.Background(), usecase.SettleInput{
		FromAccountID: "float-partner",
		ToAccountID:   "float-till",
		Amount:        decimal.NewFromInt(300),
		Actor:         domain.Identity{UserID: "supervisor-1"},
	})
	require.NoError(t, err)
	assert.False(t, result.GLPosted)
	assert.Empty(t, result.GLTransactionID)
	assert.True(t, result.FromBalance.Equal(decimal.NewFromInt(700)))
	assert.True(t, result.ToBalance.Equal(decimal.NewFromInt(800)))
	assert.Empty(t, f.glRepo.All())
}
