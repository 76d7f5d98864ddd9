package eventpublisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"

	"github.com/iho/cashbox/internal/domain"
	"github.com/iho/cashbox/internal/infrastructure/metrics"
	"github.com/iho/cashbox/internal/usecase"
)

// EventPublisher drains the outbox to a Publisher.
type EventPublisher struct {
	outboxRepo   usecase.OutboxRepository
	publisher    Publisher
	logger       zerolog.Logger
	metrics      *metrics.Metrics
	batchSize    int
	interval     time.Duration
	retention    time.Duration
	maxAttempts  uint64
	retryBackoff time.Duration
	now          func() time.Time
}

// Publisher defines the interface for publishing events to external systems.
type Publisher interface {
	Publish(ctx context.Context, event *domain.OutboxEvent) error
}

// Config for EventPublisher.
type Config struct {
	OutboxRepo usecase.OutboxRepository
	Publisher  Publisher
	Logger     zerolog.Logger
	Metrics    *metrics.Metrics
	BatchSize  int           // Number of events to fetch per batch
	Interval   time.Duration // Polling interval
	Retention  time.Duration // Published events older than this are purged; 0 keeps them
	// MaxAttempts bounds publish attempts per event within one batch.
	MaxAttempts int
}

// NewEventPublisher creates a new EventPublisher.
func NewEventPublisher(cfg Config) *EventPublisher {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}

	return &EventPublisher{
		outboxRepo:   cfg.OutboxRepo,
		publisher:    cfg.Publisher,
		logger:       cfg.Logger.With().Str("component", "outbox").Logger(),
		metrics:      cfg.Metrics,
		batchSize:    cfg.BatchSize,
		interval:     cfg.Interval,
		retention:    cfg.Retention,
		maxAttempts:  uint64(cfg.MaxAttempts),
		retryBackoff: 100 * time.Millisecond,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Start runs the worker until ctx is cancelled.
func (ep *EventPublisher) Start(ctx context.Context) error {
	ep.logger.Info().
		Int("batch_size", ep.batchSize).
		Dur("interval", ep.interval).
		Msg("event publisher started")

	ticker := time.NewTicker(ep.interval)
	defer ticker.Stop()

	// Process immediately on start
	if err := ep.processEvents(ctx); err != nil {
		ep.logger.Error().Err(err).Msg("error processing events on start")
	}

	for {
		select {
		case <-ctx.Done():
			ep.logger.Info().Msg("event publisher shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := ep.processEvents(ctx); err != nil {
				ep.logger.Error().Err(err).Msg("error processing events")
			}
			if err := ep.purge(ctx); err != nil {
				ep.logger.Error().Err(err).Msg("error purging published events")
			}
		}
	}
}

// processEvents fetches and publishes a batch of unpublished events in
// creation order.
func (ep *EventPublisher) processEvents(ctx context.Context) error {
	events, err := ep.outboxRepo.GetUnpublished(ctx, ep.batchSize)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	ep.logger.Debug().Int("count", len(events)).Msg("processing events")

	for _, event := range events {
		if err := ep.publishEvent(ctx, event); err != nil {
			ep.logger.Error().Err(err).
				Str("event_id", event.ID).
				Str("event_type", event.EventType).
				Msg("failed to publish event")
			ep.observe(event, "failed")
			continue
		}

		if err := ep.outboxRepo.MarkPublished(ctx, event.ID, ep.now()); err != nil {
			ep.logger.Error().Err(err).
				Str("event_id", event.ID).
				Msg("failed to mark event as published")
			continue
		}
		ep.observe(event, "published")
	}

	return nil
}

// publishEvent publishes a single event, retrying transient failures.
func (ep *EventPublisher) publishEvent(ctx context.Context, event *domain.OutboxEvent) error {
	ep.logger.Debug().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("aggregate_type", event.AggregateType).
		Str("aggregate_id", event.AggregateID).
		Msg("publishing event")

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = ep.retryBackoff
	policy := backoff.WithContext(backoff.WithMaxRetries(b, ep.maxAttempts-1), ctx)

	return backoff.Retry(func() error {
		return ep.publisher.Publish(ctx, event)
	}, policy)
}

func (ep *EventPublisher) purge(ctx context.Context) error {
	if ep.retention <= 0 {
		return nil
	}
	return ep.outboxRepo.DeletePublished(ctx, ep.now().Add(-ep.retention))
}

func (ep *EventPublisher) observe(event *domain.OutboxEvent, status string) {
	if ep.metrics == nil {
		return
	}
	ep.metrics.EventsPublished.WithLabelValues(event.EventType, status).Inc()
}

// LogPublisher writes every event to the log.
type LogPublisher struct {
	logger zerolog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger zerolog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Info().
		Str("event_id", event.ID).
		Str("event_type", event.EventType).
		Str("aggregate_type", event.AggregateType).
		Str("aggregate_id", event.AggregateID).
		RawJSON("payload", payload).
		Msg("event published")

	return nil
}
