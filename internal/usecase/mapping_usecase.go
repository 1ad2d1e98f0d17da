package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sankopay/agencyledger/internal/domain"
)

const mappingCacheTTL = 10 * time.Minute

// MappingUseCase manages float-GL mappings and resolves the mapping set used
// by the posting engine. Resolution is specific-then-generic: mappings bound
// to the float account win; generic (transaction type, branch) mappings fill
// the remaining roles.
type MappingUseCase struct {
	mappingRepo MappingRepository
	accountRepo AccountRepository
	cache       Cache
	idGen       IDGenerator
	logger      zerolog.Logger
}

// NewMappingUseCase creates a new MappingUseCase.
func NewMappingUseCase(
	mappingRepo MappingRepository,
	accountRepo AccountRepository,
	cache Cache,
	idGen IDGenerator,
	logger zerolog.Logger,
) *MappingUseCase {
	return &MappingUseCase{
		mappingRepo: mappingRepo,
		accountRepo: accountRepo,
		cache:       cache,
		idGen:       idGen,
		logger:      logger,
	}
}

// CreateMappingInput represents input for creating a mapping.
type CreateMappingInput struct {
	FloatAccountID  *string
	TransactionType *string
	BranchID        string
	GLAccountID     string
	Role            domain.MappingRole
	Sign            domain.SignConvention
}

// CreateMapping registers a new active mapping. Exactly one of FloatAccountID
// and TransactionType must be set.
func (uc *MappingUseCase) CreateMapping(ctx context.Context, input CreateMappingInput) (*domain.FloatGLMapping, error) {
	if (input.FloatAccountID == nil) == (input.TransactionType == nil) {
		return nil, fmt.Errorf("%w: exactly one of float account and transaction type must be set", domain.ErrDuplicateMapping)
	}
	if err := domain.ValidateBranchID(input.BranchID); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByID(ctx, input.GLAccountID)
	if err != nil {
		return nil, err
	}
	if !account.Active {
		return nil, domain.ErrAccountInactive
	}

	sign := input.Sign
	if sign == "" {
		// Default from the account's normal balance; callers may override for
		// contra accounts.
		if account.Type.NormalBalance() == domain.SideDebit {
			sign = domain.SignDebitIncreases
		} else {
			sign = domain.SignCreditIncreases
		}
	}

	now := time.Now().UTC()
	mapping := &domain.FloatGLMapping{
		ID:              uc.idGen.Generate(),
		FloatAccountID:  input.FloatAccountID,
		TransactionType: input.TransactionType,
		BranchID:        input.BranchID,
		GLAccountID:     account.ID,
		GLAccountCode:   account.Code,
		Role:            input.Role,
		Sign:            sign,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.mappingRepo.Create(ctx, mapping); err != nil {
		return nil, err
	}

	uc.invalidate(ctx, mapping)

	return mapping, nil
}

// DeactivateMapping retires a mapping and invalidates its cache entries.
func (uc *MappingUseCase) DeactivateMapping(ctx context.Context, id string) error {
	mapping, err := uc.mappingRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := uc.mappingRepo.Deactivate(ctx, id, time.Now().UTC()); err != nil {
		return err
	}

	uc.invalidate(ctx, mapping)

	return nil
}

// ListMappings lists mappings for a branch.
func (uc *MappingUseCase) ListMappings(ctx context.Context, branchID string, limit, offset int) ([]*domain.FloatGLMapping, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.mappingRepo.List(ctx, branchID, limit, offset)
}

// Resolve builds the mapping set for a posting. Specific float-account
// mappings take precedence; generic transaction-type mappings fill missing
// roles. Returns domain.ErrMappingNotFound when nothing resolves at all.
func (uc *MappingUseCase) Resolve(ctx context.Context, floatAccountID, transactionType, branchID string) (domain.MappingSet, error) {
	set := domain.MappingSet{}

	if floatAccountID != "" {
		specific, err := uc.floatMappings(ctx, floatAccountID)
		if err != nil {
			return nil, err
		}
		for _, m := range specific {
			set[m.Role] = m
		}
	}

	if transactionType != "" {
		generic, err := uc.typeMappings(ctx, transactionType, branchID)
		if err != nil {
			return nil, err
		}
		for _, m := range generic {
			if _, ok := set[m.Role]; !ok {
				set[m.Role] = m
			}
		}
	}

	if len(set) == 0 {
		return nil, domain.ErrMappingNotFound
	}

	return set, nil
}

// FloatMappings returns the active mappings bound to a float account
// (cached). Used by reconciliation to decide which GL accounts mirror the
// float balance.
func (uc *MappingUseCase) FloatMappings(ctx context.Context, floatAccountID string) ([]*domain.FloatGLMapping, error) {
	return uc.floatMappings(ctx, floatAccountID)
}

func (uc *MappingUseCase) floatMappings(ctx context.Context, floatAccountID string) ([]*domain.FloatGLMapping, error) {
	key := cacheKeyFloatMappings + floatAccountID

	if cached, err := uc.cache.Get(ctx, key); err == nil && cached != "" {
		var mappings []*domain.FloatGLMapping
		if err := json.Unmarshal([]byte(cached), &mappings); err == nil {
			return mappings, nil
		}
	}

	mappings, err := uc.mappingRepo.ListByFloatAccount(ctx, floatAccountID)
	if err != nil {
		return nil, err
	}

	uc.cacheSet(ctx, key, mappings)

	return mappings, nil
}

func (uc *MappingUseCase) typeMappings(ctx context.Context, transactionType, branchID string) ([]*domain.FloatGLMapping, error) {
	key := cacheKeyTypeMappings + transactionType + ":" + branchID

	if cached, err := uc.cache.Get(ctx, key); err == nil && cached != "" {
		var mappings []*domain.FloatGLMapping
		if err := json.Unmarshal([]byte(cached), &mappings); err == nil {
			return mappings, nil
		}
	}

	mappings, err := uc.mappingRepo.ListByTransactionType(ctx, transactionType, branchID)
	if err != nil {
		return nil, err
	}

	uc.cacheSet(ctx, key, mappings)

	return mappings, nil
}

func (uc *MappingUseCase) cacheSet(ctx context.Context, key string, mappings []*domain.FloatGLMapping) {
	data, err := json.Marshal(mappings)
	if err != nil {
		return
	}
	if err := uc.cache.Set(ctx, key, string(data), mappingCacheTTL); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("mapping cache set failed")
	}
}

func (uc *MappingUseCase) invalidate(ctx context.Context, mapping *domain.FloatGLMapping) {
	var key string
	switch {
	case mapping.FloatAccountID != nil:
		key = cacheKeyFloatMappings + *mapping.FloatAccountID
	case mapping.TransactionType != nil:
		key = cacheKeyTypeMappings + *mapping.TransactionType + ":" + mapping.BranchID
	default:
		return
	}

	if err := uc.cache.Delete(ctx, key); err != nil {
		uc.logger.Warn().Err(err).Str("key", key).Msg("mapping cache invalidation failed")
	}
}
