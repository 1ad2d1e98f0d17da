package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sankopay/agencyledger/internal/domain"
	"github.com/sankopay/agencyledger/internal/usecase"
)

const outboxColumns = `id, aggregate_id, aggregate_type, event_type, payload, created_at, published_at, published`

// OutboxRepository implements usecase.OutboxRepository over the outbox_events
// table.
type OutboxRepository struct {
	pool *pgxpool.Pool
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

// Create writes an outbox event. With a non-nil tx the event commits or rolls
// back with the caller's mutation; a nil tx writes immediately.
func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO outbox_events (` + outboxColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var publishedAt any
	if event.PublishedAt != nil {
		publishedAt = timeToPgTimestamptz(*event.PublishedAt)
	}

	_, err = txQuerier(tx, r.pool).Exec(ctx, query,
		event.ID,
		event.AggregateID,
		event.AggregateType,
		event.EventType,
		payload,
		timeToPgTimestamptz(event.CreatedAt),
		publishedAt,
		event.Published,
	)
	return err
}

// GetUnpublished retrieves unpublished events in creation order.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	query := `
		SELECT ` + outboxColumns + `
		FROM outbox_events
		WHERE NOT published
		ORDER BY created_at
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOutboxEvents(rows)
}

// MarkPublished marks an event as published.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	query := `
		UPDATE outbox_events
		SET published = true, published_at = $2
		WHERE id = $1
	`

	_, err := r.pool.Exec(ctx, query, id, timeToPgTimestamptz(publishedAt))
	return err
}

// GetByAggregate retrieves the event history of one aggregate, newest first.
func (r *OutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	query := `
		SELECT ` + outboxColumns + `
		FROM outbox_events
		WHERE aggregate_type = $1 AND aggregate_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query, aggregateType, aggregateID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanOutboxEvents(rows)
}

// DeletePublished removes published events older than the cutoff.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	query := `DELETE FROM outbox_events WHERE published AND published_at < $1`

	_, err := r.pool.Exec(ctx, query, timeToPgTimestamptz(before))
	return err
}

func scanOutboxEvents(rows pgx.Rows) ([]*domain.OutboxEvent, error) {
	var events []*domain.OutboxEvent
	for rows.Next() {
		var (
			event   domain.OutboxEvent
			payload []byte
		)

		err := rows.Scan(
			&event.ID,
			&event.AggregateID,
			&event.AggregateType,
			&event.EventType,
			&payload,
			&event.CreatedAt,
			&event.PublishedAt,
			&event.Published,
		)
		if err != nil {
			return nil, err
		}

		if payload != nil {
			_ = json.Unmarshal(payload, &event.Payload)
		}

		events = append(events, &event)
	}
	return events, rows.Err()
}
