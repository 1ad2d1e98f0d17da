package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sankopay/agencyledger/internal/domain"
)

// SettlementUseCase atomically moves value between two float accounts (e.g.
// settlement partner -> cash-in-till) and mirrors the movement into the GL.
//
// The two balance adjustments are one database transaction. The GL posting is
// best-effort: balances are authoritative and a failed posting is healed by
// reconciliation rather than unwinding a completed money movement.
type SettlementUseCase struct {
	balances  *FloatBalanceUseCase
	posting   *PostingUseCase
	outbox    OutboxRepository
	auditRepo AuditRepository
	idGen     IDGenerator
	logger    zerolog.Logger
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(
	balances *FloatBalanceUseCase,
	posting *PostingUseCase,
	outbox OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
) *SettlementUseCase {
	return &SettlementUseCase{
		balances:  balances,
		posting:   posting,
		outbox:    outbox,
		auditRepo: auditRepo,
		idGen:     idGen,
		logger:    logger,
	}
}

// SettleInput represents a settlement transfer request.
type SettleInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        decimal.Decimal
	Reference     string
	Actor         domain.Identity
	RequestID     string
}

// SettleResult reports the outcome of a settlement transfer.
type SettleResult struct {
	SettlementID    string
	FromBalance     decimal.Decimal
	ToBalance       decimal.Decimal
	GLTransactionID string
	// GLPosted is false when the balance movement committed but the GL
	// mirror could not be written; reconciliation will surface the drift.
	GLPosted bool
}

// Settle performs the settlement transfer.
func (uc *SettlementUseCase) Settle(ctx context.Context, input SettleInput) (*SettleResult, error) {
	settlementID := uc.idGen.Generate()
	reference := input.Reference
	if reference == "" {
		reference = settlementID
	}

	transfer, err := uc.balances.Transfer(ctx, TransferInput{
		FromAccountID: input.FromAccountID,
		ToAccountID:   input.ToAccountID,
		Amount:        input.Amount,
		Reference:     reference,
		CreatedBy:     input.Actor.UserID,
	})
	if err != nil {
		uc.audit(ctx, input, settlementID, nil, err)
		return nil, err
	}

	result := &SettleResult{
		SettlementID: settlementID,
		FromBalance:  transfer.FromAfter,
		ToBalance:    transfer.ToAfter,
	}

	// Best-effort GL mirror. Keyed on the settlement id so a retry after a
	// transient failure cannot double-post.
	posting, err := uc.posting.Post(ctx, PostingEvent{
		SourceModule:        "settlement",
		SourceTransactionID: settlementID,
		TransactionType:     "settlement_transfer",
		FloatAccountID:      input.FromAccountID,
		BranchID:            transfer.FromAccount.BranchID,
		Amount:              input.Amount,
		Description:         "settlement transfer " + reference,
		CreatedBy:           input.Actor.UserID,
	})
	if err != nil {
		uc.logger.Error().
			Err(err).
			Str("settlement_id", settlementID).
			Str("from", input.FromAccountID).
			Str("to", input.ToAccountID).
			Str("amount", input.Amount.String()).
			Msg("gl posting failed after settlement; balances stand, reconciliation will report drift")
	} else {
		result.GLTransactionID = posting.Transaction.ID
		result.GLPosted = true
	}

	uc.audit(ctx, input, settlementID, transfer, nil)
	uc.notify(ctx, input, settlementID, transfer, reference)

	return result, nil
}

func (uc *SettlementUseCase) audit(ctx context.Context, input SettleInput, settlementID string, transfer *TransferResult, opErr error) {
	log := &domain.AuditLog{
		UserID:       input.Actor.UserID,
		BranchID:     input.Actor.BranchID,
		Action:       string(domain.AuditActionSettlement),
		ResourceType: domain.AggregateTypeSettlement,
		ResourceID:   settlementID,
		RequestID:    input.RequestID,
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	}

	if opErr != nil {
		log.Status = string(domain.AuditStatusFailure)
		log.ErrorMessage = opErr.Error()
	}

	if transfer != nil {
		log.BeforeState = domain.JSON{
			"from_balance": transfer.FromBefore.String(),
			"to_balance":   transfer.ToBefore.String(),
		}
		log.AfterState = domain.JSON{
			"from_balance": transfer.FromAfter.String(),
			"to_balance":   transfer.ToAfter.String(),
		}
	}

	if err := uc.auditRepo.Create(ctx, log); err != nil {
		uc.logger.Warn().Err(err).Str("settlement_id", settlementID).Msg("failed to write settlement audit log")
	}
}

// notify enqueues a fire-and-forget notification; failures never affect
// ledger state.
func (uc *SettlementUseCase) notify(ctx context.Context, input SettleInput, settlementID string, transfer *TransferResult, reference string) {
	err := uc.outbox.Create(ctx, nil, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   settlementID,
		AggregateType: domain.AggregateTypeSettlement,
		EventType:     domain.EventTypeSettlementCompleted,
		Payload: map[string]any{
			"from_account_id": input.FromAccountID,
			"to_account_id":   input.ToAccountID,
			"amount":          input.Amount.String(),
			"reference":       reference,
			"from_balance":    transfer.FromAfter.String(),
			"to_balance":      transfer.ToAfter.String(),
		},
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		uc.logger.Warn().Err(err).Str("settlement_id", settlementID).Msg("failed to enqueue settlement notification")
	}
}
