package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sankopay/agencyledger/internal/domain"
)

// MappingResolver resolves the mapping set for a posting.
type MappingResolver interface {
	Resolve(ctx context.Context, floatAccountID, transactionType, branchID string) (domain.MappingSet, error)
}

// PostingUseCase is the GL posting engine: it maps normalized channel events
// onto balanced journal entries and commits them atomically.
type PostingUseCase struct {
	txManager   TransactionManager
	glRepo      GLRepository
	accountRepo AccountRepository
	resolver    MappingResolver
	idGen       IDGenerator
	logger      zerolog.Logger
}

// NewPostingUseCase creates a new PostingUseCase.
func NewPostingUseCase(
	txManager TransactionManager,
	glRepo GLRepository,
	accountRepo AccountRepository,
	resolver MappingResolver,
	idGen IDGenerator,
	logger zerolog.Logger,
) *PostingUseCase {
	return &PostingUseCase{
		txManager:   txManager,
		glRepo:      glRepo,
		accountRepo: accountRepo,
		resolver:    resolver,
		idGen:       idGen,
		logger:      logger,
	}
}

// PostingEvent is a normalized transaction event emitted by a channel module.
type PostingEvent struct {
	SourceModule        string
	SourceTransactionID string
	TransactionType     string
	FloatAccountID      string
	BranchID            string
	Amount              decimal.Decimal
	Fee                 decimal.Decimal
	CustomerRef         string
	Description         string
	CreatedBy           string
	Metadata            map[string]any
	Date                *time.Time
}

// PostingResult reports the outcome of a posting.
type PostingResult struct {
	Transaction *domain.GLTransaction
	// Duplicate is true when the source transaction was already posted and
	// the original transaction is returned unchanged.
	Duplicate bool
}

// Post resolves mappings, builds balanced journal lines from the transaction
// type's template and commits the GL transaction with its companion chart
// balance updates in one database transaction.
//
// Posting is idempotent on (source module, source transaction id): re-posting
// an already-posted source transaction returns the original posting.
func (uc *PostingUseCase) Post(ctx context.Context, event PostingEvent) (*PostingResult, error) {
	if err := uc.validateEvent(event); err != nil {
		return nil, err
	}

	// Idempotency: the channel transaction is the source of truth, one
	// posting per source transaction.
	existing, err := uc.glRepo.GetBySource(ctx, event.SourceModule, event.SourceTransactionID)
	if err == nil {
		return &PostingResult{Transaction: existing, Duplicate: true}, nil
	}
	if err != domain.ErrPostingNotFound {
		return nil, err
	}

	template, ok := TemplateFor(event.TransactionType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownTemplate, event.TransactionType)
	}

	set, err := uc.resolver.Resolve(ctx, event.FloatAccountID, event.TransactionType, event.BranchID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	date := now
	if event.Date != nil {
		date = *event.Date
	}

	txn := &domain.GLTransaction{
		ID:                    uc.idGen.Generate(),
		Date:                  date,
		SourceModule:          event.SourceModule,
		SourceTransactionID:   event.SourceTransactionID,
		SourceTransactionType: event.TransactionType,
		BranchID:              event.BranchID,
		Description:           uc.description(event),
		Status:                domain.GLStatusPosted,
		CreatedBy:             event.CreatedBy,
		Metadata:              event.Metadata,
		CreatedAt:             now,
	}

	for _, line := range template {
		amount := line.Amount.eval(event.Amount, event.Fee)
		if amount.IsZero() {
			continue
		}
		if amount.IsNegative() {
			return nil, fmt.Errorf("%w: template line %s evaluates negative", domain.ErrInvalidAmount, line.Role)
		}

		mapping, mapped := set[line.Role]
		if !mapped {
			return nil, fmt.Errorf("%w: role %s for %s in branch %s",
				domain.ErrMappingNotFound, line.Role, event.TransactionType, event.BranchID)
		}

		entry := &domain.JournalEntry{
			ID:            uc.idGen.Generate(),
			TransactionID: txn.ID,
			AccountID:     mapping.GLAccountID,
			AccountCode:   mapping.GLAccountCode,
			Description:   line.Description,
			CreatedAt:     now,
		}
		if line.Side == domain.SideDebit {
			entry.Debit = amount
			entry.Credit = decimal.Zero
		} else {
			entry.Debit = decimal.Zero
			entry.Credit = amount
		}

		txn.Entries = append(txn.Entries, entry)
	}

	if err := txn.Validate(); err != nil {
		// A template that does not balance is a programmer error; it is never
		// persisted and never shown to end users as anything but a failure.
		uc.logger.Error().
			Str("source_module", event.SourceModule).
			Str("source_transaction_id", event.SourceTransactionID).
			Str("transaction_type", event.TransactionType).
			Str("total_debit", txn.TotalDebit().String()).
			Str("total_credit", txn.TotalCredit().String()).
			Err(err).
			Msg("refusing unbalanced gl transaction")
		return nil, err
	}

	if err := uc.commit(ctx, txn); err != nil {
		if errors.Is(err, domain.ErrDuplicatePosting) {
			// Lost the race against a concurrent post of the same source
			// transaction; the winner's posting is the idempotent answer.
			existing, getErr := uc.glRepo.GetBySource(ctx, event.SourceModule, event.SourceTransactionID)
			if getErr != nil {
				return nil, getErr
			}
			return &PostingResult{Transaction: existing, Duplicate: true}, nil
		}
		return nil, err
	}

	uc.logger.Info().
		Str("gl_transaction_id", txn.ID).
		Str("source_module", event.SourceModule).
		Str("source_transaction_id", event.SourceTransactionID).
		Str("total", txn.TotalDebit().String()).
		Int("lines", len(txn.Entries)).
		Msg("gl transaction posted")

	return &PostingResult{Transaction: txn}, nil
}

// Reverse posts a negating transaction for a posted GL transaction and marks
// the original reversed. Journal lines are never edited in place.
func (uc *PostingUseCase) Reverse(ctx context.Context, glTransactionID, reason, actor string) (*domain.GLTransaction, error) {
	original, err := uc.glRepo.GetByID(ctx, glTransactionID)
	if err != nil {
		return nil, err
	}
	if original.Status == domain.GLStatusReversed {
		return nil, domain.ErrAlreadyReversed
	}

	now := time.Now().UTC()
	reversal := &domain.GLTransaction{
		ID:                    uc.idGen.Generate(),
		Date:                  now,
		SourceModule:          original.SourceModule,
		SourceTransactionID:   original.SourceTransactionID + "/reversal",
		SourceTransactionType: "reversal",
		BranchID:              original.BranchID,
		Description:           fmt.Sprintf("reversal of %s: %s", original.ID, reason),
		Status:                domain.GLStatusPosted,
		ReversalOfID:          &original.ID,
		CreatedBy:             actor,
		CreatedAt:             now,
	}

	for _, e := range original.Entries {
		reversal.Entries = append(reversal.Entries, &domain.JournalEntry{
			ID:            uc.idGen.Generate(),
			TransactionID: reversal.ID,
			AccountID:     e.AccountID,
			AccountCode:   e.AccountCode,
			Debit:         e.Credit,
			Credit:        e.Debit,
			Description:   "reversal: " + e.Description,
			CreatedAt:     now,
		})
	}

	if err := reversal.Validate(); err != nil {
		return nil, err
	}

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.applyToChart(ctx, tx, reversal, now); err != nil {
		return nil, err
	}
	if err := uc.glRepo.CreateTransaction(ctx, tx, reversal); err != nil {
		return nil, err
	}
	if err := uc.glRepo.UpdateStatus(ctx, tx, original.ID, domain.GLStatusReversed, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("gl_transaction_id", original.ID).
		Str("reversal_id", reversal.ID).
		Str("actor", actor).
		Msg("gl transaction reversed")

	return reversal, nil
}

// GetTransaction retrieves a GL transaction with its journal lines.
// ListAccountEntries lists the journal lines on a GL account, newest first.
func (uc *PostingUseCase) ListAccountEntries(ctx context.Context, accountID string, limit, offset int) ([]*domain.JournalEntry, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.glRepo.ListByAccount(ctx, accountID, limit, offset)
}

func (uc *PostingUseCase) GetTransaction(ctx context.Context, id string) (*domain.GLTransaction, error) {
	return uc.glRepo.GetByID(ctx, id)
}

func (uc *PostingUseCase) commit(ctx context.Context, txn *domain.GLTransaction) error {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.applyToChart(ctx, tx, txn, txn.CreatedAt); err != nil {
		return err
	}
	if err := uc.glRepo.CreateTransaction(ctx, tx, txn); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// applyToChart moves the cached chart balances for every line, locking the
// touched accounts in sorted order.
func (uc *PostingUseCase) applyToChart(ctx context.Context, tx Transaction, txn *domain.GLTransaction, now time.Time) error {
	ids := make([]string, 0, len(txn.Entries))
	seen := make(map[string]bool)
	for _, e := range txn.Entries {
		if !seen[e.AccountID] {
			seen[e.AccountID] = true
			ids = append(ids, e.AccountID)
		}
	}
	sort.Strings(ids)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(ctx, tx, ids)
	if err != nil {
		return err
	}
	if len(accounts) != len(ids) {
		return domain.ErrAccountNotFound
	}

	byID := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	for _, e := range txn.Entries {
		account := byID[e.AccountID]
		if e.Debit.IsPositive() {
			account.Balance = account.ApplyDebit(e.Debit)
		} else {
			account.Balance = account.ApplyCredit(e.Credit)
		}
	}

	for _, id := range ids {
		if err := uc.accountRepo.UpdateBalance(ctx, tx, id, byID[id].Balance, now); err != nil {
			return err
		}
	}

	return nil
}

func (uc *PostingUseCase) validateEvent(event PostingEvent) error {
	if event.SourceModule == "" || event.SourceTransactionID == "" {
		return fmt.Errorf("%w: source module and transaction id required", domain.ErrInvalidEvent)
	}
	if err := domain.ValidateBranchID(event.BranchID); err != nil {
		return err
	}
	if err := domain.ValidateAmount(event.Amount); err != nil {
		return err
	}
	if err := domain.ValidateFee(event.Fee); err != nil {
		return err
	}
	return domain.ValidateMetadata(event.Metadata)
}

func (uc *PostingUseCase) description(event PostingEvent) string {
	if event.Description != "" {
		return event.Description
	}
	return fmt.Sprintf("%s %s %s", event.SourceModule, event.TransactionType, event.SourceTransactionID)
}
