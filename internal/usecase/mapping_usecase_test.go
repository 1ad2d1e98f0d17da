package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sankopay/agencyledger/internal/domain"
	"github.com/sankopay/agencyledger/internal/usecase"
	"github.com/sankopay/agencyledger/internal/usecase/mocks"
)

type mappingFixture struct {
	uc          *usecase.MappingUseCase
	mappingRepo *mocks.MockMappingRepository
	accRepo     *mocks.MockAccountRepository
	cache       *mocks.MockCache
}

func newMappingFixture() *mappingFixture {
	f := &mappingFixture{
		mappingRepo: mocks.NewMockMappingRepository(),
		accRepo:     mocks.NewMockAccountRepository(),
		cache:       mocks.NewMockCache(),
	}
	f.uc = usecase.NewMappingUseCase(
		f.mappingRepo,
		f.accRepo,
		f.cache,
		mocks.NewMockIDGenerator(),
		zerolog.Nop(),
	)
	return f
}

func strptr(s string) *string { return &s }

func specificMapping(id, floatID string, role domain.MappingRole, accountID string) *domain.FloatGLMapping {
	return &domain.FloatGLMapping{
		ID:             id,
		FloatAccountID: &floatID,
		BranchID:       "branch-1",
		GLAccountID:    accountID,
		GLAccountCode:  "1110",
		Role:           role,
		Sign:           domain.SignDebitIncreases,
		Active:         true,
	}
}

func genericMapping(id, txnType string, role domain.MappingRole, accountID string) *domain.FloatGLMapping {
	return &domain.FloatGLMapping{
		ID:              id,
		TransactionType: &txnType,
		BranchID:        "branch-1",
		GLAccountID:     accountID,
		GLAccountCode:   "1010",
		Role:            role,
		Sign:            domain.SignDebitIncreases,
		Active:          true,
	}
}

func TestMappingUseCase_Resolve(t *testing.T) {
	tests := []struct {
		name        string
		seed        []*domain.FloatGLMapping
		wantErr     error
		wantAccount map[domain.MappingRole]string
	}{
		{
			name: "specific only",
			seed: []*domain.FloatGLMapping{
				specificMapping("m1", "float-1", domain.RoleMain, "gl-momo"),
			},
			wantAccount: map[domain.MappingRole]string{domain.RoleMain: "gl-momo"},
		},
		{
			name: "generic only",
			seed: []*domain.FloatGLMapping{
				genericMapping("m1", "momo_cash_in", domain.RoleCash, "gl-cash"),
			},
			wantAccount: map[domain.MappingRole]string{domain.RoleCash: "gl-cash"},
		},
		{
			name: "specific wins over generic for the same role",
			seed: []*domain.FloatGLMapping{
				specificMapping("m1", "float-1", domain.RoleMain, "gl-momo-mtn"),
				genericMapping("m2", "momo_cash_in", domain.RoleMain, "gl-momo-generic"),
				genericMapping("m3", "momo_cash_in", domain.RoleCash, "gl-cash"),
			},
			wantAccount: map[domain.MappingRole]string{
				domain.RoleMain: "gl-momo-mtn",
				domain.RoleCash: "gl-cash",
			},
		},
		{
			name:    "neither resolves",
			seed:    nil,
			wantErr: domain.ErrMappingNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newMappingFixture()
			f.mappingRepo.Seed(tt.seed...)

			set, err := f.uc.Resolve(context.Background(), "float-1", "momo_cash_in", "branch-1")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			for role, accountID := range tt.wantAccount {
				assert.Equal(t, accountID, set.Account(role), "role %s", role)
			}
		})
	}
}

func TestMappingUseCase_Resolve_CachesFloatMappings(t *testing.T) {
	f := newMappingFixture()
	f.mappingRepo.Seed(specificMapping("m1", "float-1", domain.RoleMain, "gl-momo"))

	_, err := f.uc.Resolve(context.Background(), "float-1", "", "branch-1")
	require.NoError(t, err)

	// Second resolve is served from cache even if the repo goes away.
	f.mappingRepo.ListByFloatAccountFunc = func(ctx context.Context, floatAccountID string) ([]*domain.FloatGLMapping, error) {
		return nil, domain.ErrStoreUnavailable
	}

	set, err := f.uc.Resolve(context.Background(), "float-1", "", "branch-1")
	require.NoError(t, err)
	assert.Equal(t, "gl-momo", set.Account(domain.RoleMain))
}

func TestMappingUseCase_CreateMapping(t *testing.T) {
	activeAsset := &domain.Account{ID: "gl-momo", Code: "1110", Name: "MoMo Float", Type: domain.AccountTypeAsset, Active: true}
	revenue := &domain.Account{ID: "gl-fee", Code: "4100", Name: "MoMo Fees", Type: domain.AccountTypeRevenue, Active: true}
	inactive := &domain.Account{ID: "gl-old", Code: "1190", Name: "Retired Float", Type: domain.AccountTypeAsset, Active: false}

	t.Run("defaults sign from normal balance", func(t *testing.T) {
		f := newMappingFixture()
		f.accRepo.Seed(activeAsset, revenue)

		m, err := f.uc.CreateMapping(context.Background(), usecase.CreateMappingInput{
			FloatAccountID: strptr("float-1"),
			BranchID:       "branch-1",
			GLAccountID:    "gl-momo",
			Role:           domain.RoleMain,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.SignDebitIncreases, m.Sign)
		assert.Equal(t, "1110", m.GLAccountCode)

		m, err = f.uc.CreateMapping(context.Background(), usecase.CreateMappingInput{
			TransactionType: strptr("momo_cash_in"),
			BranchID:        "branch-1",
			GLAccountID:     "gl-fee",
			Role:            domain.RoleFee,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.SignCreditIncreases, m.Sign)
	})

	t.Run("rejects both or neither scope", func(t *testing.T) {
		f := newMappingFixture()
		f.accRepo.Seed(activeAsset)

		_, err := f.uc.CreateMapping(context.Background(), usecase.CreateMappingInput{
			FloatAccountID:  strptr("float-1"),
			TransactionType: strptr("momo_cash_in"),
			BranchID:        "branch-1",
			GLAccountID:     "gl-momo",
			Role:            domain.RoleMain,
		})
		require.Error(t, err)

		_, err = f.uc.CreateMapping(context.Background(), usecase.CreateMappingInput{
			BranchID:    "branch-1",
			GLAccountID: "gl-momo",
			Role:        domain.RoleMain,
		})
		require.Error(t, err)
	})

	t.Run("rejects inactive gl account", func(t *testing.T) {
		f := newMappingFixture()
		f.accRepo.Seed(inactive)

		_, err := f.uc.CreateMapping(context.Background(), usecase.CreateMappingInput{
			FloatAccountID: strptr("float-1"),
			BranchID:       "branch-1",
			GLAccountID:    "gl-old",
			Role:           domain.RoleMain,
		})
		require.ErrorIs(t, err, domain.ErrAccountInactive)
	})
}

func TestMappingUseCase_DeactivateMapping_InvalidatesCache(t *testing.T) {
	f := newMappingFixture()
	f.mappingRepo.Seed(specificMapping("m1", "float-1", domain.RoleMain, "gl-momo"))

	// Warm the cache.
	_, err := f.uc.Resolve(context.Background(), "float-1", "", "branch-1")
	require.NoError(t, err)

	require.NoError(t, f.uc.DeactivateMapping(context.Background(), "m1"))

	// The next resolve hits the repo and finds nothing active.
	_, err = f.uc.Resolve(context.Background(), "float-1", "", "branch-1")
	require.ErrorIs(t, err, domain.ErrMappingNotFound)
}
