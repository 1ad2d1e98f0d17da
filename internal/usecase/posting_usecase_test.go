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

type staticResolver struct {
	set domain.MappingSet
	err error
}

func (r *staticResolver) Resolve(ctx context.Context, floatAccountID, transactionType, branchID string) (domain.MappingSet, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.set, nil
}

func mapping(role domain.MappingRole, accountID, code string, sign domain.SignConvention) *domain.FloatGLMapping {
	return &domain.FloatGLMapping{
		ID:            "map-" + string(role),
		GLAccountID:   accountID,
		GLAccountCode: code,
		Role:          role,
		Sign:          sign,
		Active:        true,
	}
}

func chartFixture() []*domain.Account {
	return []*domain.Account{
		{ID: "gl-cash", Code: "1010", Name: "Cash in Till", Type: domain.AccountTypeAsset, Active: true},
		{ID: "gl-momo", Code: "1110", Name: "MoMo Float", Type: domain.AccountTypeAsset, Active: true},
		{ID: "gl-fee", Code: "4100", Name: "MoMo Fees", Type: domain.AccountTypeRevenue, Active: true},
	}
}

func momoSet() domain.MappingSet {
	return domain.MappingSet{
		domain.RoleCash: mapping(domain.RoleCash, "gl-cash", "1010", domain.SignDebitIncreases),
		domain.RoleMain: mapping(domain.RoleMain, "gl-momo", "1110", domain.SignDebitIncreases),
		domain.RoleFee:  mapping(domain.RoleFee, "gl-fee", "4100", domain.SignCreditIncreases),
	}
}

func cashInEvent() usecase.PostingEvent {
	return usecase.PostingEvent{
		SourceModule:        "momo",
		SourceTransactionID: "momo-txn-1",
		TransactionType:     "momo_cash_in",
		FloatAccountID:      "float-momo-1",
		BranchID:            "branch-1",
		Amount:              decimal.NewFromInt(200),
		Fee:                 decimal.NewFromInt(5),
		CreatedBy:           "user-1",
	}
}

func newPostingUseCase(glRepo *mocks.MockGLRepository, accRepo *mocks.MockAccountRepository, resolver usecase.MappingResolver) *usecase.PostingUseCase {
	return usecase.NewPostingUseCase(
		mocks.NewMockTransactionManager(),
		glRepo,
		accRepo,
		resolver,
		mocks.NewMockIDGenerator(),
		zerolog.Nop(),
	)
}

func TestPostingUseCase_Post_CashIn(t *testing.T) {
	glRepo := mocks.NewMockGLRepository()
	accRepo := mocks.NewMockAccountRepository()
	accRepo.Seed(chartFixture()...)

	uc := newPostingUseCase(glRepo, accRepo, &staticResolver{set: momoSet()})

	result, err := uc.Post(context.Background(), cashInEvent())
	require.NoError(t, err)
	require.False(t, result.Duplicate)

	txn := result.Transaction
	require.NotNil(t, txn)
	assert.Equal(t, domain.GLStatusPosted, txn.Status)
	assert.True(t, txn.TotalDebit().Equal(decimal.NewFromInt(205)), "total debit %s", txn.TotalDebit())
	assert.True(t, txn.TotalCredit().Equal(decimal.NewFromInt(205)), "total credit %s", txn.TotalCredit())
	require.NoError(t, txn.Validate())

	// Chart balance cache moves with the posting: cash and fee up, float down.
	cash, err := accRepo.GetByID(context.Background(), "gl-cash")
	require.NoError(t, err)
	assert.True(t, cash.Balance.Equal(decimal.NewFromInt(205)), "cash balance %s", cash.Balance)

	momo, err := accRepo.GetByID(context.Background(), "gl-momo")
	require.NoError(t, err)
	assert.True(t, momo.Balance.Equal(decimal.NewFromInt(-200)), "momo balance %s", momo.Balance)

	fee, err := accRepo.GetByID(context.Background(), "gl-fee")
	require.NoError(t, err)
	assert.True(t, fee.Balance.Equal(decimal.NewFromInt(5)), "fee balance %s", fee.Balance)
}

func TestPostingUseCase_Post_ZeroFeeDropsFeeLine(t *testing.T) {
	glRepo := mocks.NewMockGLRepository()
	accRepo := mocks.NewMockAccountRepository()
	accRepo.Seed(chartFixture()...)

	uc := newPostingUseCase(glRepo, accRepo, &staticResolver{set: momoSet()})

	event := cashInEvent()
	event.Fee = decimal.Zero

	result, err := uc.Post(context.Background(), event)
	require.NoError(t, err)
	assert.Len(t, result.Transaction.Entries, 2)
	assert.True(t, result.Transaction.TotalDebit().Equal(decimal.NewFromInt(200)))
}

func TestPostingUseCase_Post_Idempotent(t *testing.T) {
	glRepo := mocks.NewMockGLRepository()
	accRepo := mocks.NewMockAccountRepository()
	accRepo.Seed(chartFixture()...)

	uc := newPostingUseCase(glRepo, accRepo, &staticResolver{set: momoSet()})

	first, err := uc.Post(context.Background(), cashInEvent())
	require.NoError(t, err)

	second, err := uc.Post(context.Background(), cashInEvent())
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.Transaction.ID, second.Transaction.ID)

	// Re-posting must not move balances again.
	cash, err := accRepo.GetByID(context.Background(), "gl-cash")
	require.NoError(t, err)
	assert.True(t, cash.Balance.Equal(decimal.NewFromInt(205)))
	assert.Len(t, glRepo.All(), 1)
}

func TestPostingUseCase_Post_RacingDuplicateResolvesToWinner(t *testing.T) {
	glRepo := mocks.NewMockGLRepository()
	accRepo := mocks.NewMockAccountRepository()
	accRepo.Seed(chartFixture()...)

	uc := newPostingUseCase(glRepo, accRepo, &staticResolver{set: momoSet()})

	first, err := uc.Post(context.Background(), cashInEvent())
	require.NoError(t, err)

	// A concurrent post of the same source transaction that read "not found"
	// before the winner committed: the idempotency pre-check misses, the
	// insert hits the unique constraint, and the loser re-fetches the winner.
	missed := false
	glRepo.GetBySourceFunc = func(ctx context.Context, sourceModule, sourceTransactionID string) (*domain.GLTransaction, error) {
		if !missed {
			missed = true
			return nil, domain.ErrPostingNotFound
		}
		glRepo.GetBySourceFunc = nil
		return glRepo.GetBySource(ctx, sourceModule, sourceTransactionID)
	}

	second, err := uc.Post(context.Background(), cashInEvent())
	require.NoError(t, err)
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.Transaction.ID, second.Transaction.ID)
	assert.Len(t, glRepo.All(), 1)
}

func TestPostingUseCase_Post_Errors(t *testing.T) {
	tests := []struct {
		name     string
		resolver usecase.MappingResolver
		mutate   func(*usecase.PostingEvent)
		wantErr  error
	}{
		{
			name:     "unknown transaction type",
			resolver: &staticResolver{set: momoSet()},
			mutate:   func(e *usecase.PostingEvent) { e.TransactionType = "lottery_draw" },
			wantErr:  domain.ErrUnknownTemplate,
		},
		{
			name:     "no mapping resolves",
			resolver: &staticResolver{err: domain.ErrMappingNotFound},
			mutate:   func(e *usecase.PostingEvent) {},
			wantErr:  domain.ErrMappingNotFound,
		},
		{
			name:     "role missing from resolved set",
			resolver: &staticResolver{set: domain.MappingSet{domain.RoleMain: mapping(domain.RoleMain, "gl-momo", "1110", domain.SignDebitIncreases)}},
			mutate:   func(e *usecase.PostingEvent) {},
			wantErr:  domain.ErrMappingNotFound,
		},
		{
			name:     "missing source transaction id",
			resolver: &staticResolver{set: momoSet()},
			mutate:   func(e *usecase.PostingEvent) { e.SourceTransactionID = "" },
			wantErr:  domain.ErrInvalidEvent,
		},
		{
			name:     "negative amount",
			resolver: &staticResolver{set: momoSet()},
			mutate:   func(e *usecase.PostingEvent) { e.Amount = decimal.NewFromInt(-10) },
			wantErr:  domain.ErrInvalidAmount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			glRepo := mocks.NewMockGLRepository()
			accRepo := mocks.NewMockAccountRepository()
			accRepo.Seed(chartFixture()...)

			uc := newPostingUseCase(glRepo, accRepo, tt.resolver)

			event := cashInEvent()
			tt.mutate(&event)

			_, err := uc.Post(context.Background(), event)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, glRepo.All(), "nothing may persist on failure")
		})
	}
}

func TestPostingUseCase_Reverse(t *testing.T) {
	glRepo := mocks.NewMockGLRepository()
	accRepo := mocks.NewMockAccountRepository()
	accRepo.Seed(chartFixture()...)

	uc := newPostingUseCase(glRepo, accRepo, &staticResolver{set: momoSet()})

	posted, err := uc.Post(context.Background(), cashInEvent())
	require.NoError(t, err)

	reversal, err := uc.Reverse(context.Background(), posted.Transaction.ID, "teller error", "supervisor-1")
	require.NoError(t, err)
	require.NotNil(t, reversal.ReversalOfID)
	assert.Equal(t, posted.Transaction.ID, *reversal.ReversalOfID)
	require.NoError(t, reversal.Validate())

	original, err := uc.GetTransaction(context.Background(), posted.Transaction.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GLStatusReversed, original.Status)

	// Balances return to zero once the negating lines apply.
	for _, id := range []string{"gl-cash", "gl-momo", "gl-fee"} {
		acc, err := accRepo.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.True(t, acc.Balance.IsZero(), "%s balance %s", id, acc.Balance)
	}

	_, err = uc.Reverse(context.Background(), posted.Transaction.ID, "again", "supervisor-1")
	require.ErrorIs(t, err, domain.ErrAlreadyReversed)
}
