package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sankopay/agencyledger/internal/domain"
)

const accountCacheTTL = 10 * time.Minute

// ChartUseCase manages the chart of accounts.
type ChartUseCase struct {
	accountRepo AccountRepository
	auditRepo   AuditRepository
	cache       Cache
	idGen       IDGenerator
	logger      zerolog.Logger
}

// NewChartUseCase creates a new chart-of-accounts use case.
func NewChartUseCase(
	accountRepo AccountRepository,
	auditRepo AuditRepository,
	cache Cache,
	idGen IDGenerator,
	logger zerolog.Logger,
) *ChartUseCase {
	return &ChartUseCase{
		accountRepo: accountRepo,
		auditRepo:   auditRepo,
		cache:       cache,
		idGen:       idGen,
		logger:      logger,
	}
}

// CreateAccountInput holds the fields for creating a chart account.
type CreateAccountInput struct {
	Code       string
	Name       string
	Type       domain.AccountType
	ParentCode string
	Actor      domain.Identity
}

// CreateAccount creates a new chart-of-accounts node.
func (uc *ChartUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountCode(input.Code); err != nil {
		return nil, err
	}
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}
	if !input.Type.IsValid() {
		return nil, domain.ErrInvalidAccountType
	}

	if _, err := uc.accountRepo.GetByCode(ctx, input.Code); err == nil {
		return nil, domain.ErrDuplicateCode
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, err
	}

	var parentID *string
	if input.ParentCode != "" {
		parent, err := uc.accountRepo.GetByCode(ctx, input.ParentCode)
		if err != nil {
			return nil, err
		}
		parentID = &parent.ID
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:        uc.idGen.Generate(),
		Code:      input.Code,
		Name:      input.Name,
		Type:      input.Type,
		ParentID:  parentID,
		Balance:   decimal.Zero,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	uc.invalidate(ctx, account)
	uc.audit(ctx, input.Actor, domain.AuditActionAccountCreate, account.ID, nil, account)

	uc.logger.Info().
		Str("account_id", account.ID).
		Str("code", account.Code).
		Str("type", string(account.Type)).
		Msg("chart account created")

	return account, nil
}

// GetAccount retrieves an account by ID, through the cache.
func (uc *ChartUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	if cached, err := uc.cache.Get(ctx, cacheKeyAccountPrefix+id); err == nil && cached != "" {
		var account domain.Account
		if err := json.Unmarshal([]byte(cached), &account); err == nil {
			return &account, nil
		}
	}

	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.populate(ctx, account)
	return account, nil
}

// GetByCode retrieves an account by its chart code, through the cache.
func (uc *ChartUseCase) GetByCode(ctx context.Context, code string) (*domain.Account, error) {
	if cached, err := uc.cache.Get(ctx, cacheKeyAccountCodePrefix+code); err == nil && cached != "" {
		var account domain.Account
		if err := json.Unmarshal([]byte(cached), &account); err == nil {
			return &account, nil
		}
	}

	account, err := uc.accountRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	uc.populate(ctx, account)
	return account, nil
}

// ListAccounts lists accounts, optionally filtered by type.
func (uc *ChartUseCase) ListAccounts(ctx context.Context, accountType domain.AccountType, limit, offset int) ([]*domain.Account, error) {
	if accountType != "" && !accountType.IsValid() {
		return nil, domain.ErrInvalidAccountType
	}
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.accountRepo.List(ctx, accountType, limit, offset)
}

// DeactivateAccount marks an account inactive. Inactive accounts reject new
// journal lines but stay visible in statements.
func (uc *ChartUseCase) DeactivateAccount(ctx context.Context, id string, actor domain.Identity) error {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.accountRepo.SetActive(ctx, id, false, time.Now().UTC()); err != nil {
		return err
	}

	uc.invalidate(ctx, account)

	uc.logger.Info().Str("account_id", id).Str("code", account.Code).Msg("chart account deactivated")
	return nil
}

// SeedResult reports what Seed installed.
type SeedResult struct {
	Created int
	Skipped int
}

// Seed installs the default agency chart. Idempotent: accounts whose code
// already exists are skipped, so re-running after a partial failure completes
// the chart.
func (uc *ChartUseCase) Seed(ctx context.Context, actor domain.Identity) (*SeedResult, error) {
	result := &SeedResult{}
	byCode := make(map[string]string, len(defaultChart))

	for _, seed := range defaultChart {
		existing, err := uc.accountRepo.GetByCode(ctx, seed.Code)
		if err == nil {
			byCode[seed.Code] = existing.ID
			result.Skipped++
			continue
		}
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return nil, err
		}

		var parentID *string
		if seed.ParentCode != "" {
			if id, ok := byCode[seed.ParentCode]; ok {
				parentID = &id
			}
		}

		now := time.Now().UTC()
		account := &domain.Account{
			ID:        uc.idGen.Generate(),
			Code:      seed.Code,
			Name:      seed.Name,
			Type:      seed.Type,
			ParentID:  parentID,
			Balance:   decimal.Zero,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := uc.accountRepo.Create(ctx, account); err != nil {
			return nil, err
		}
		byCode[seed.Code] = account.ID
		result.Created++
	}

	uc.audit(ctx, actor, domain.AuditActionChartSeed, "default-chart", nil, result)

	uc.logger.Info().
		Int("created", result.Created).
		Int("skipped", result.Skipped).
		Msg("default chart seeded")

	return result, nil
}

func (uc *ChartUseCase) populate(ctx context.Context, account *domain.Account) {
	data, err := json.Marshal(account)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, cacheKeyAccountPrefix+account.ID, string(data), accountCacheTTL); err != nil {
		uc.logger.Debug().Err(err).Msg("account cache set failed")
	}
	if err := uc.cache.Set(ctx, cacheKeyAccountCodePrefix+account.Code, string(data), accountCacheTTL); err != nil {
		uc.logger.Debug().Err(err).Msg("account code cache set failed")
	}
}

func (uc *ChartUseCase) invalidate(ctx context.Context, account *domain.Account) {
	if err := uc.cache.Delete(ctx, cacheKeyAccountPrefix+account.ID); err != nil {
		uc.logger.Debug().Err(err).Msg("account cache delete failed")
	}
	if err := uc.cache.Delete(ctx, cacheKeyAccountCodePrefix+account.Code); err != nil {
		uc.logger.Debug().Err(err).Msg("account code cache delete failed")
	}
}

func (uc *ChartUseCase) audit(ctx context.Context, actor domain.Identity, action domain.AuditAction, resourceID string, before, after any) {
	err := uc.auditRepo.Create(ctx, &domain.AuditLog{
		UserID:       actor.UserID,
		BranchID:     actor.BranchID,
		Action:       string(action),
		ResourceType: "gl_account",
		ResourceID:   resourceID,
		BeforeState:  domain.MarshalState(before),
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		uc.logger.Warn().Err(err).Str("action", string(action)).Msg("failed to write audit log")
	}
}
