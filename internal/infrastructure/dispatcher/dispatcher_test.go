package dispatcher

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sankopay/agencyledger/internal/domain"
	"github.com/sankopay/agencyledger/internal/usecase"
	"github.com/sankopay/agencyledger/internal/usecase/mocks"
)

type nopRetrier struct{}

func (nopRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

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

type recordingPublisher struct {
	published []*domain.OutboxEvent
	err       error
}

func (p *recordingPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event)
	return nil
}

func momoMappings() domain.MappingSet {
	return domain.MappingSet{
		domain.RoleCash: {
			ID: "map-cash", GLAccountID: "gl-cash", GLAccountCode: "1010",
			Role: domain.RoleCash, Sign: domain.SignDebitIncreases, Active: true,
		},
		domain.RoleMain: {
			ID: "map-main", GLAccountID: "gl-momo", GLAccountCode: "1110",
			Role: domain.RoleMain, Sign: domain.SignDebitIncreases, Active: true,
		},
		domain.RoleFee: {
			ID: "map-fee", GLAccountID: "gl-fee", GLAccountCode: "4100",
			Role: domain.RoleFee, Sign: domain.SignCreditIncreases, Active: true,
		},
	}
}

func chartAccounts() []*domain.Account {
	return []*domain.Account{
		{ID: "gl-cash", Code: "1010", Name: "Cash in Till", Type: domain.AccountTypeAsset, Active: true},
		{ID: "gl-momo", Code: "1110", Name: "MoMo Float", Type: domain.AccountTypeAsset, Active: true},
		{ID: "gl-fee", Code: "4100", Name: "MoMo Fees", Type: domain.AccountTypeRevenue, Active: true},
	}
}

func postingRequestEvent(id string) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		ID:            id,
		AggregateID:   "float-momo-1",
		AggregateType: domain.AggregateTypeFloatAccount,
		EventType:     domain.EventTypePostingRequested,
		Payload: map[string]any{
			"source_module":           "momo",
			"source_transaction_id":   "momo-txn-1",
			"source_transaction_type": "momo_cash_in",
			"float_account_id":        "float-momo-1",
			"branch_id":               "branch-1",
			"amount":                  "200",
			"fee":                     "5",
			"created_by":              "user-1",
		},
		CreatedAt: time.Now().UTC(),
	}
}

func newTestDispatcher(outbox *mocks.MockOutboxRepository, glRepo *mocks.MockGLRepository, resolver usecase.MappingResolver, publisher Publisher) *Dispatcher {
	accRepo := mocks.NewMockAccountRepository()
	accRepo.Seed(chartAccounts()...)

	posting := usecase.NewPostingUseCase(
		mocks.NewMockTransactionManager(),
		glRepo,
		accRepo,
		resolver,
		mocks.NewMockIDGenerator(),
		zerolog.Nop(),
	)

	return New(Config{
		OutboxRepo: outbox,
		Posting:    posting,
		Publisher:  publisher,
		Retrier:    nopRetrier{},
		Logger:     zerolog.Nop(),
		BatchSize:  10,
		Interval:   time.Minute,
	})
}

func TestDispatcher_PostsQueuedRequest(t *testing.T) {
	outbox := mocks.NewMockOutboxRepository()
	glRepo := mocks.NewMockGLRepository()
	event := postingRequestEvent("evt-1")
	require.NoError(t, outbox.Create(context.Background(), nil, event))

	d := newTestDispatcher(outbox, glRepo, &staticResolver{set: momoMappings()}, &recordingPublisher{})

	require.NoError(t, d.processBatch(context.Background()))

	txn, err := glRepo.GetBySource(context.Background(), "momo", "momo-txn-1")
	require.NoError(t, err)
	assert.Equal(t, domain.GLStatusPosted, txn.Status)
	assert.Equal(t, "branch-1", txn.BranchID)

	pending, err := outbox.GetUnpublished(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDispatcher_LeavesRequestQueuedWhenMappingMissing(t *testing.T) {
	outbox := mocks.NewMockOutboxRepository()
	glRepo := mocks.NewMockGLRepository()
	event := postingRequestEvent("evt-1")
	require.NoError(t, outbox.Create(context.Background(), nil, event))

	d := newTestDispatcher(outbox, glRepo, &staticResolver{err: domain.ErrMappingNotFound}, &recordingPublisher{})

	require.NoError(t, d.processBatch(context.Background()))

	_, err := glRepo.GetBySource(context.Background(), "momo", "momo-txn-1")
	assert.ErrorIs(t, err, domain.ErrPostingNotFound)

	// Still queued: the request posts once the mapping is configured.
	pending, err := outbox.GetUnpublished(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "evt-1", pending[0].ID)
}

func TestDispatcher_PublishesNotificationEvents(t *testing.T) {
	outbox := mocks.NewMockOutboxRepository()
	publisher := &recordingPublisher{}
	event := &domain.OutboxEvent{
		ID:            "evt-notify",
		AggregateID:   "float-momo-1",
		AggregateType: domain.AggregateTypeFloatAccount,
		EventType:     domain.EventTypeFloatBelowThreshold,
		Payload: map[string]any{
			"float_account_id": "float-momo-1",
			"balance":          "12.50",
			"min_threshold":    "500",
		},
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, outbox.Create(context.Background(), nil, event))

	d := newTestDispatcher(outbox, mocks.NewMockGLRepository(), &staticResolver{}, publisher)

	require.NoError(t, d.processBatch(context.Background()))

	require.Len(t, publisher.published, 1)
	assert.Equal(t, "evt-notify", publisher.published[0].ID)

	pending, err := outbox.GetUnpublished(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDispatcher_MalformedPayloadIsNotRetriedSilently(t *testing.T) {
	outbox := mocks.NewMockOutboxRepository()
	event := postingRequestEvent("evt-bad")
	event.Payload["amount"] = "not-a-number"
	require.NoError(t, outbox.Create(context.Background(), nil, event))

	d := newTestDispatcher(outbox, mocks.NewMockGLRepository(), &staticResolver{set: momoMappings()}, &recordingPublisher{})

	// The batch itself succeeds; the bad event is logged and stays queued.
	require.NoError(t, d.processBatch(context.Background()))

	pending, err := outbox.GetUnpublished(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
}
