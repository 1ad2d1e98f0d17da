package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sankopay/agencyledger/internal/domain"
)

// FloatBalanceUseCase owns every mutation of float account balances. All
// adjustments run under a row lock and write a FloatTransaction audit row;
// that trail is the reconciliation ground truth independent of the GL.
type FloatBalanceUseCase struct {
	txManager TransactionManager
	floatRepo FloatAccountRepository
	floatTxns FloatTransactionRepository
	outbox    OutboxRepository
	idGen     IDGenerator
	logger    zerolog.Logger
}

// NewFloatBalanceUseCase creates a new FloatBalanceUseCase.
func NewFloatBalanceUseCase(
	txManager TransactionManager,
	floatRepo FloatAccountRepository,
	floatTxns FloatTransactionRepository,
	outbox OutboxRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
) *FloatBalanceUseCase {
	return &FloatBalanceUseCase{
		txManager: txManager,
		floatRepo: floatRepo,
		floatTxns: floatTxns,
		outbox:    outbox,
		idGen:     idGen,
		logger:    logger,
	}
}

// CreateFloatAccountInput represents input for creating a float account.
type CreateFloatAccountInput struct {
	BranchID       string
	AccountType    domain.FloatAccountType
	Provider       string
	OpeningBalance decimal.Decimal
	MinThreshold   decimal.Decimal
	MaxThreshold   decimal.Decimal
}

// CreateFloatAccount registers a float account for a branch.
func (uc *FloatBalanceUseCase) CreateFloatAccount(ctx context.Context, input CreateFloatAccountInput) (*domain.FloatAccount, error) {
	if err := domain.ValidateBranchID(input.BranchID); err != nil {
		return nil, err
	}
	if input.OpeningBalance.IsNegative() {
		return nil, domain.ErrInvalidAmount
	}

	now := time.Now().UTC()
	account := &domain.FloatAccount{
		ID:             uc.idGen.Generate(),
		BranchID:       input.BranchID,
		AccountType:    input.AccountType,
		Provider:       input.Provider,
		CurrentBalance: input.OpeningBalance,
		MinThreshold:   input.MinThreshold,
		MaxThreshold:   input.MaxThreshold,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.floatRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// AdjustInput represents one balance adjustment.
type AdjustInput struct {
	FloatAccountID string
	Delta          decimal.Decimal
	Type           domain.FloatTransactionType
	Reference      string
	CreatedBy      string
	// PostingRequest, when set, is enqueued to the outbox in the same
	// database transaction as the balance mutation so the GL mirror follows
	// eventually even if this process dies right after commit.
	PostingRequest *domain.PostingRequestedEvent
}

// AdjustResult reports the balances around an adjustment.
type AdjustResult struct {
	Account       *domain.FloatAccount
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
}

// Adjust applies a signed delta to a float account under a row lock.
// Negative deltas fail with ErrInsufficientFunds before any mutation; the
// caller performs any channel-specific checks beforehand.
func (uc *FloatBalanceUseCase) Adjust(ctx context.Context, input AdjustInput) (*AdjustResult, error) {
	if input.Delta.IsZero() {
		return nil, domain.ErrInvalidAmount
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	account, err := uc.floatRepo.GetByIDForUpdate(ctx, tx, input.FloatAccountID)
	if err != nil {
		return nil, err
	}
	if !account.Active {
		return nil, domain.ErrAccountInactive
	}

	if input.Delta.IsNegative() {
		if err := account.ValidateDebit(input.Delta.Neg()); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	before := account.CurrentBalance
	after := before.Add(input.Delta)

	if err := uc.applyAdjustment(ctx, tx, account, input, before, after, now); err != nil {
		return nil, err
	}

	if input.PostingRequest != nil {
		if err := uc.enqueuePosting(ctx, tx, account, input.PostingRequest, now); err != nil {
			return nil, err
		}
	}

	if account.BelowMinThreshold() {
		uc.enqueueThresholdAlert(ctx, tx, account, now)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("float_account_id", account.ID).
		Str("delta", input.Delta.String()).
		Str("balance", after.String()).
		Str("type", string(input.Type)).
		Msg("float balance adjusted")

	return &AdjustResult{Account: account, BalanceBefore: before, BalanceAfter: after}, nil
}

// TransferInput represents an atomic two-sided balance movement.
type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Reference     string
	CreatedBy     string
}

// TransferResult reports both sides of a transfer.
type TransferResult struct {
	FromAccount *domain.FloatAccount
	ToAccount   *domain.FloatAccount
	FromBefore  decimal.Decimal
	FromAfter   decimal.Decimal
	ToBefore    decimal.Decimal
	ToAfter     decimal.Decimal
}

// Transfer debits from and credits to as one database transaction. Either
// both balances change or neither does. Rows are locked in sorted id order to
// avoid deadlocks between concurrent opposite transfers.
func (uc *FloatBalanceUseCase) Transfer(ctx context.Context, input TransferInput) (*TransferResult, error) {
	if input.FromAccountID == input.ToAccountID {
		return nil, domain.ErrSameAccount
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	ids := []string{input.FromAccountID, input.ToAccountID}
	sort.Strings(ids)

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	accounts, err := uc.floatRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return nil, err
	}
	if len(accounts) != 2 {
		return nil, domain.ErrFloatAccountNotFound
	}

	var from, to *domain.FloatAccount
	for _, a := range accounts {
		switch a.ID {
		case input.FromAccountID:
			from = a
		case input.ToAccountID:
			to = a
		}
	}
	if from == nil || to == nil {
		return nil, domain.ErrFloatAccountNotFound
	}

	if !to.Active {
		return nil, domain.ErrAccountInactive
	}
	if err := from.ValidateDebit(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	result := &TransferResult{
		FromAccount: from,
		ToAccount:   to,
		FromBefore:  from.CurrentBalance,
		FromAfter:   from.CurrentBalance.Sub(input.Amount),
		ToBefore:    to.CurrentBalance,
		ToAfter:     to.CurrentBalance.Add(input.Amount),
	}

	err = uc.applyAdjustment(ctx, tx, from, AdjustInput{
		FloatAccountID: from.ID,
		Delta:          input.Amount.Neg(),
		Type:           domain.FloatTxnTransferOut,
		Reference:      input.Reference,
		CreatedBy:      input.CreatedBy,
	}, result.FromBefore, result.FromAfter, now)
	if err != nil {
		return nil, err
	}

	err = uc.applyAdjustment(ctx, tx, to, AdjustInput{
		FloatAccountID: to.ID,
		Delta:          input.Amount,
		Type:           domain.FloatTxnTransferIn,
		Reference:      input.Reference,
		CreatedBy:      input.CreatedBy,
	}, result.ToBefore, result.ToAfter, now)
	if err != nil {
		return nil, err
	}

	if from.BelowMinThreshold() {
		uc.enqueueThresholdAlert(ctx, tx, from, now)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

// GetFloatAccount retrieves a float account by id.
func (uc *FloatBalanceUseCase) GetFloatAccount(ctx context.Context, id string) (*domain.FloatAccount, error) {
	return uc.floatRepo.GetByID(ctx, id)
}

// ListFloatAccounts lists float accounts, optionally scoped to a branch.
func (uc *FloatBalanceUseCase) ListFloatAccounts(ctx context.Context, branchID string, limit, offset int) ([]*domain.FloatAccount, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.floatRepo.List(ctx, branchID, limit, offset)
}

// ListFloatTransactions lists the audit trail of a float account.
func (uc *FloatBalanceUseCase) ListFloatTransactions(ctx context.Context, floatAccountID string, limit, offset int) ([]*domain.FloatTransaction, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.floatTxns.ListByAccount(ctx, floatAccountID, limit, offset)
}

func (uc *FloatBalanceUseCase) applyAdjustment(
	ctx context.Context,
	tx Transaction,
	account *domain.FloatAccount,
	input AdjustInput,
	before, after decimal.Decimal,
	now time.Time,
) error {
	if err := uc.floatRepo.UpdateBalance(ctx, tx, account.ID, after, now); err != nil {
		return err
	}

	account.CurrentBalance = after

	return uc.floatTxns.Create(ctx, tx, &domain.FloatTransaction{
		ID:             uc.idGen.Generate(),
		FloatAccountID: account.ID,
		Type:           input.Type,
		Amount:         input.Delta,
		BalanceBefore:  before,
		BalanceAfter:   after,
		Reference:      input.Reference,
		CreatedBy:      input.CreatedBy,
		CreatedAt:      now,
	})
}

func (uc *FloatBalanceUseCase) enqueuePosting(
	ctx context.Context,
	tx Transaction,
	account *domain.FloatAccount,
	request *domain.PostingRequestedEvent,
	now time.Time,
) error {
	return uc.outbox.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   account.ID,
		AggregateType: domain.AggregateTypeFloatAccount,
		EventType:     domain.EventTypePostingRequested,
		Payload: map[string]any{
			"source_module":           request.SourceModule,
			"source_transaction_id":   request.SourceTransactionID,
			"source_transaction_type": request.SourceTransactionType,
			"float_account_id":        request.FloatAccountID,
			"branch_id":               request.BranchID,
			"amount":                  request.Amount,
			"fee":                     request.Fee,
			"customer_ref":            request.CustomerRef,
			"created_by":              request.CreatedBy,
		},
		CreatedAt: now,
	})
}

// Threshold alerts are advisory; a failed enqueue never blocks the movement.
func (uc *FloatBalanceUseCase) enqueueThresholdAlert(ctx context.Context, tx Transaction, account *domain.FloatAccount, now time.Time) {
	err := uc.outbox.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   account.ID,
		AggregateType: domain.AggregateTypeFloatAccount,
		EventType:     domain.EventTypeFloatBelowThreshold,
		Payload: map[string]any{
			"float_account_id": account.ID,
			"branch_id":        account.BranchID,
			"balance":          account.CurrentBalance.String(),
			"min_threshold":    account.MinThreshold.String(),
		},
		CreatedAt: now,
	})
	if err != nil {
		uc.logger.Warn().Err(err).Str("float_account_id", account.ID).Msg("failed to enqueue threshold alert")
	}
}
