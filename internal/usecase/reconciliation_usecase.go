package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sankopay/agencyledger/internal/domain"
)

// FloatMappingSource lists the mappings bound directly to a float account.
type FloatMappingSource interface {
	FloatMappings(ctx context.Context, floatAccountID string) ([]*domain.FloatGLMapping, error)
}

// ReconciliationUseCase compares each float account's cached balance against
// the balance derived from its mapped GL accounts. Drift is reported, never
// silently corrected; a supervised repair may synthesize a catch-up entry.
type ReconciliationUseCase struct {
	floatRepo FloatAccountRepository
	glRepo    GLRepository
	mappings  FloatMappingSource
	posting   *PostingUseCase
	coa       *ChartUseCase
	auditRepo AuditRepository
	logger    zerolog.Logger
}

// NewReconciliationUseCase creates a new reconciliation use case.
func NewReconciliationUseCase(
	floatRepo FloatAccountRepository,
	glRepo GLRepository,
	mappings FloatMappingSource,
	posting *PostingUseCase,
	coa *ChartUseCase,
	auditRepo AuditRepository,
	logger zerolog.Logger,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		floatRepo: floatRepo,
		glRepo:    glRepo,
		mappings:  mappings,
		posting:   posting,
		coa:       coa,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// ReconciliationResult represents the result of a reconciliation check.
type ReconciliationResult struct {
	FloatAccountID string                  `json:"float_account_id"`
	BranchID       string                  `json:"branch_id"`
	AccountType    domain.FloatAccountType `json:"account_type"`
	FloatBalance   decimal.Decimal         `json:"float_balance"`
	GLBalance      decimal.Decimal         `json:"gl_balance"`
	Drift          decimal.Decimal         `json:"drift"`
	Reconciled     bool                    `json:"reconciled"`
	CheckedAt      time.Time               `json:"checked_at"`
}

// Reconcile derives a float account's GL balance from the posted journal
// lines on its value-carrying mappings (roles main and liability), signed by
// each mapping's explicit convention, and compares it to the cached balance.
func (uc *ReconciliationUseCase) Reconcile(ctx context.Context, floatAccountID string) (*ReconciliationResult, error) {
	account, err := uc.floatRepo.GetByID(ctx, floatAccountID)
	if err != nil {
		return nil, err
	}

	mappings, err := uc.mappings.FloatMappings(ctx, floatAccountID)
	if err != nil {
		return nil, err
	}

	glBalance := decimal.Zero
	for _, m := range mappings {
		if m.Role != domain.RoleMain && m.Role != domain.RoleLiability {
			continue
		}

		debits, credits, err := uc.glRepo.AccountActivity(ctx, m.GLAccountID)
		if err != nil {
			return nil, err
		}

		// The sign convention is per-mapping metadata. Inverting it flips the
		// drift report, so it is never inferred here.
		if m.Sign == domain.SignCreditIncreases {
			glBalance = glBalance.Add(credits.Sub(debits))
		} else {
			glBalance = glBalance.Add(debits.Sub(credits))
		}
	}

	drift := account.CurrentBalance.Sub(glBalance)

	result := &ReconciliationResult{
		FloatAccountID: account.ID,
		BranchID:       account.BranchID,
		AccountType:    account.AccountType,
		FloatBalance:   account.CurrentBalance,
		GLBalance:      glBalance,
		Drift:          drift,
		Reconciled:     drift.IsZero(),
		CheckedAt:      time.Now().UTC(),
	}

	if !result.Reconciled {
		uc.logger.Warn().
			Str("float_account_id", account.ID).
			Str("float_balance", account.CurrentBalance.String()).
			Str("gl_balance", glBalance.String()).
			Str("drift", drift.String()).
			Msg("reconciliation drift detected")
	}

	return result, nil
}

// ReconciliationReport represents a full reconciliation report.
type ReconciliationReport struct {
	TotalAccounts      int                     `json:"total_accounts"`
	ReconciledAccounts int                     `json:"reconciled_accounts"`
	Discrepancies      []*ReconciliationResult `json:"discrepancies"`
	CheckedAt          time.Time               `json:"checked_at"`
}

// ReconcileAll reconciles every float account.
func (uc *ReconciliationUseCase) ReconcileAll(ctx context.Context) (*ReconciliationReport, error) {
	accounts, err := uc.floatRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		TotalAccounts: len(accounts),
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     time.Now().UTC(),
	}

	for _, account := range accounts {
		result, err := uc.Reconcile(ctx, account.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile float account %s: %w", account.ID, err)
		}

		if result.Reconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}

// Repair posts a catch-up adjusting entry for a drifted account against the
// reconciliation suspense account. Supervised: it requires an explicit
// approver and a nonzero drift at the time of repair.
func (uc *ReconciliationUseCase) Repair(ctx context.Context, floatAccountID string, actor domain.Identity) (*ReconciliationResult, error) {
	result, err := uc.Reconcile(ctx, floatAccountID)
	if err != nil {
		return nil, err
	}
	if result.Reconciled {
		return nil, domain.ErrNoDrift
	}

	mappings, err := uc.mappings.FloatMappings(ctx, floatAccountID)
	if err != nil {
		return nil, err
	}

	var target *domain.FloatGLMapping
	for _, m := range mappings {
		if m.Role == domain.RoleMain || m.Role == domain.RoleLiability {
			target = m
			break
		}
	}
	if target == nil {
		return nil, domain.ErrMappingNotFound
	}

	suspense, err := uc.coa.GetByCode(ctx, SuspenseAccountCode)
	if err != nil {
		return nil, err
	}

	drift := result.Drift
	amount := drift.Abs()

	// Drift > 0 means the cached balance runs ahead of the GL mirror: the
	// catch-up moves the mapped account in its increasing direction.
	targetSide := domain.SideDebit
	if target.Sign == domain.SignCreditIncreases {
		targetSide = domain.SideCredit
	}
	if drift.IsNegative() {
		if targetSide == domain.SideDebit {
			targetSide = domain.SideCredit
		} else {
			targetSide = domain.SideDebit
		}
	}

	now := time.Now().UTC()

	txn := &domain.GLTransaction{
		ID:                    uc.posting.idGen.Generate(),
		Date:                  now,
		SourceModule:          "reconciliation",
		SourceTransactionID:   fmt.Sprintf("repair/%s/%d", floatAccountID, now.UnixNano()),
		SourceTransactionType: "reconciliation_repair",
		BranchID:              result.BranchID,
		Description:           fmt.Sprintf("catch-up adjustment for float account %s, drift %s", floatAccountID, drift),
		Status:                domain.GLStatusPosted,
		CreatedBy:             actor.UserID,
		CreatedAt:             now,
	}

	targetEntry := &domain.JournalEntry{
		ID:            uc.posting.idGen.Generate(),
		TransactionID: txn.ID,
		AccountID:     target.GLAccountID,
		AccountCode:   target.GLAccountCode,
		Description:   "reconciliation catch-up",
		CreatedAt:     now,
	}
	suspenseEntry := &domain.JournalEntry{
		ID:            uc.posting.idGen.Generate(),
		TransactionID: txn.ID,
		AccountID:     suspense.ID,
		AccountCode:   suspense.Code,
		Description:   "reconciliation catch-up counterpart",
		CreatedAt:     now,
	}

	if targetSide == domain.SideDebit {
		targetEntry.Debit = amount
		targetEntry.Credit = decimal.Zero
		suspenseEntry.Debit = decimal.Zero
		suspenseEntry.Credit = amount
	} else {
		targetEntry.Debit = decimal.Zero
		targetEntry.Credit = amount
		suspenseEntry.Debit = amount
		suspenseEntry.Credit = decimal.Zero
	}

	txn.Entries = []*domain.JournalEntry{targetEntry, suspenseEntry}

	if err := txn.Validate(); err != nil {
		return nil, err
	}
	if err := uc.posting.commit(ctx, txn); err != nil {
		return nil, err
	}

	uc.auditRepair(ctx, floatAccountID, txn.ID, result, actor)

	uc.logger.Info().
		Str("float_account_id", floatAccountID).
		Str("gl_transaction_id", txn.ID).
		Str("drift", drift.String()).
		Str("approved_by", actor.UserID).
		Msg("reconciliation repair posted")

	return uc.Reconcile(ctx, floatAccountID)
}

func (uc *ReconciliationUseCase) auditRepair(ctx context.Context, floatAccountID, glTransactionID string, before *ReconciliationResult, actor domain.Identity) {
	err := uc.auditRepo.Create(ctx, &domain.AuditLog{
		UserID:       actor.UserID,
		BranchID:     actor.BranchID,
		Action:       string(domain.AuditActionGLRepair),
		ResourceType: domain.AggregateTypeFloatAccount,
		ResourceID:   floatAccountID,
		BeforeState: domain.JSON{
			"float_balance": before.FloatBalance.String(),
			"gl_balance":    before.GLBalance.String(),
			"drift":         before.Drift.String(),
		},
		AfterState: domain.JSON{
			"gl_transaction_id": glTransactionID,
		},
		Status:    string(domain.AuditStatusSuccess),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		uc.logger.Warn().Err(err).Str("float_account_id", floatAccountID).Msg("failed to write repair audit log")
	}
}
