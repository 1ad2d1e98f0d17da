package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/sankopay/agencyledger/internal/domain"
	"github.com/sankopay/agencyledger/internal/infrastructure/metrics"
	"github.com/sankopay/agencyledger/internal/usecase"
)

// Publisher delivers non-posting events to external systems.
type Publisher interface {
	Publish(ctx context.Context, event *domain.OutboxEvent) error
}

// Dispatcher drains the outbox. Posting requests are executed against the
// posting engine; everything else is handed to the publisher.
type Dispatcher struct {
	outboxRepo usecase.OutboxRepository
	posting    *usecase.PostingUseCase
	publisher  Publisher
	retrier    usecase.Retrier
	metrics    *metrics.Metrics
	logger     zerolog.Logger
	batchSize  int
	interval   time.Duration
}

// Config for Dispatcher.
type Config struct {
	OutboxRepo usecase.OutboxRepository
	Posting    *usecase.PostingUseCase
	Publisher  Publisher
	Retrier    usecase.Retrier
	Metrics    *metrics.Metrics
	Logger     zerolog.Logger
	BatchSize  int
	Interval   time.Duration
}

// New creates a new Dispatcher.
func New(cfg Config) *Dispatcher {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = 5 * time.Second
	}

	return &Dispatcher{
		outboxRepo: cfg.OutboxRepo,
		posting:    cfg.Posting,
		publisher:  cfg.Publisher,
		retrier:    cfg.Retrier,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
		batchSize:  cfg.BatchSize,
		interval:   cfg.Interval,
	}
}

// Start runs the polling loop until the context is cancelled.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.logger.Info().
		Int("batch_size", d.batchSize).
		Dur("interval", d.interval).
		Msg("outbox dispatcher started")

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	if err := d.processBatch(ctx); err != nil {
		d.logger.Error().Err(err).Msg("outbox batch failed on start")
	}

	for {
		select {
		case <-ctx.Done():
			d.logger.Info().Msg("outbox dispatcher shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := d.processBatch(ctx); err != nil {
				d.logger.Error().Err(err).Msg("outbox batch failed")
			}
		}
	}
}

func (d *Dispatcher) processBatch(ctx context.Context) error {
	events, err := d.outboxRepo.GetUnpublished(ctx, d.batchSize)
	if err != nil {
		return err
	}
	if d.metrics != nil {
		d.metrics.EventsPending.Set(float64(len(events)))
	}
	if len(events) == 0 {
		return nil
	}

	for _, event := range events {
		done, err := d.handle(ctx, event)
		if err != nil {
			d.logger.Error().
				Str("event_id", event.ID).
				Str("event_type", event.EventType).
				Err(err).
				Msg("failed to dispatch event")
			if d.metrics != nil {
				d.metrics.DispatchErrors.WithLabelValues(event.EventType).Inc()
			}
			continue
		}
		if !done {
			// Left in the outbox for a later cycle, e.g. a posting request
			// whose mapping is not configured yet.
			continue
		}

		if err := d.outboxRepo.MarkPublished(ctx, event.ID, time.Now().UTC()); err != nil {
			d.logger.Error().
				Str("event_id", event.ID).
				Err(err).
				Msg("failed to mark event published")
			continue
		}
		if d.metrics != nil {
			d.metrics.EventsDispatched.WithLabelValues(event.EventType).Inc()
		}
	}

	return nil
}

// handle processes one event. It reports done=false when the event should
// stay in the outbox and be retried later.
func (d *Dispatcher) handle(ctx context.Context, event *domain.OutboxEvent) (bool, error) {
	if event.EventType == domain.EventTypePostingRequested {
		return d.post(ctx, event)
	}

	if err := d.publisher.Publish(ctx, event); err != nil {
		return false, err
	}
	return true, nil
}

func (d *Dispatcher) post(ctx context.Context, event *domain.OutboxEvent) (bool, error) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return false, err
	}

	var req domain.PostingRequestedEvent
	if err := json.Unmarshal(payload, &req); err != nil {
		return false, err
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return false, err
	}
	fee := decimal.Zero
	if req.Fee != "" {
		if fee, err = decimal.NewFromString(req.Fee); err != nil {
			return false, err
		}
	}

	postingEvent := usecase.PostingEvent{
		SourceModule:        req.SourceModule,
		SourceTransactionID: req.SourceTransactionID,
		TransactionType:     req.SourceTransactionType,
		FloatAccountID:      req.FloatAccountID,
		BranchID:            req.BranchID,
		Amount:              amount,
		Fee:                 fee,
		CustomerRef:         req.CustomerRef,
		CreatedBy:           req.CreatedBy,
	}

	postErr := d.retrier.Retry(ctx, func() error {
		_, err := d.posting.Post(ctx, postingEvent)
		return err
	})
	if errors.Is(postErr, domain.ErrMappingNotFound) {
		// Mapping gap: keep the request queued so it posts once an operator
		// configures the mapping. Balances already moved.
		d.logger.Warn().
			Str("event_id", event.ID).
			Str("float_account_id", req.FloatAccountID).
			Str("transaction_type", req.SourceTransactionType).
			Msg("posting request waiting for mapping")
		return false, nil
	}
	if postErr != nil {
		return false, postErr
	}

	if d.metrics != nil {
		d.metrics.PostingsCreated.WithLabelValues(req.SourceModule, req.SourceTransactionType).Inc()
	}
	return true, nil
}

// LogPublisher logs events instead of delivering them anywhere. Used until a
// real broker integration is configured.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	p.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("aggregate_type", event.AggregateType).
		Str("aggregate_id", event.AggregateID).
		Msg("event published")
	return nil
}
