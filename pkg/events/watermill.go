// Package events carries domain events through a Postgres outbox built on
// Watermill's SQL transport.
//
// Repositories call PublishTx inside the transaction that writes the
// aggregate, so an event is stored if and only if the write commits. The API
// runs in forwarder mode: messages land on an internal queue and the
// forwarder relays them to their topics. cmd/worker subscribes to those
// topics.
//
// Every worker shares one consumer group, so each message is handled by one
// instance. Handlers must be idempotent. A failing handler is retried with
// exponential backoff and the message is nacked after the last attempt.
//
// Trace context travels in message metadata from PublishTx to Subscribe.
package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	watermillsql "github.com/ThreeDotsLabs/watermill-sql/v3/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/ghuser/itemtracker/pkg/config"
	"github.com/ghuser/itemtracker/pkg/logger"
)

const (
	shutdownTimeout = 30 * time.Second
	maxRetryDelay   = 30 * time.Second
	errChanSize     = 100

	forwarderTopic = "_itemtracker_outbox"
	forwarderGroup = "itemtracker-forwarder"
)

var (
	schema  = watermillsql.DefaultPostgreSQLSchema{}
	offsets = watermillsql.DefaultPostgreSQLOffsetsAdapter{}
)

// RetryPolicy bounds how often a failing handler runs for one message.
type RetryPolicy struct {
	Attempts  int           // total runs, at least 1
	BaseDelay time.Duration // first pause; doubles after every failure
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = time.Second
	}
	return p
}

// EventBus publishes into the outbox and subscribes to event topics.
type EventBus struct {
	db         *sql.DB
	log        logger.Logger
	wlog       watermill.LoggerAdapter
	subscriber *watermillsql.Subscriber
	fwd        *forwarder.Forwarder
	forwarding bool
	retry      RetryPolicy
	wg         sync.WaitGroup
}

// NewEventBus opens the outbox database and a subscriber in the
// "<service>-worker" consumer group. Messages published through it go
// straight to their topic.
func NewEventBus(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newEventBus(cfg, log, false)
}

// NewEventBusWithForwarder is NewEventBus for publishing processes: PublishTx
// envelopes messages for the forwarder queue. Call StartForwarder to relay
// them to their topics.
func NewEventBusWithForwarder(cfg *config.Config, log logger.Logger) (*EventBus, error) {
	return newEventBus(cfg, log, true)
}

func newEventBus(cfg *config.Config, log logger.Logger, forwarding bool) (*EventBus, error) {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("events: open db: %w", err)
	}
	wlog := &slogAdapter{log: log}

	sub, err := newSubscriber(db, cfg.ServiceName+"-worker", wlog)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &EventBus{
		db:         db,
		log:        log,
		wlog:       wlog,
		subscriber: sub,
		forwarding: forwarding,
		retry: RetryPolicy{
			Attempts:  cfg.EventRetryAttempts,
			BaseDelay: cfg.EventRetryDelay,
		}.normalized(),
	}, nil
}

func newSubscriber(db *sql.DB, group string, wlog watermill.LoggerAdapter) (*watermillsql.Subscriber, error) {
	sub, err := watermillsql.NewSubscriber(db, watermillsql.SubscriberConfig{
		SchemaAdapter:    schema,
		OffsetsAdapter:   offsets,
		InitializeSchema: true,
		ConsumerGroup:    group,
	}, wlog)
	if err != nil {
		return nil, fmt.Errorf("events: subscriber for %s: %w", group, err)
	}
	return sub, nil
}

// StartForwarder runs the daemon that drains the forwarder queue into the
// target topics. It returns once the daemon is running.
func (q *EventBus) StartForwarder(ctx context.Context) error {
	if !q.forwarding {
		return errors.New("events: StartForwarder called on non-forwarder EventBus")
	}
	if q.fwd != nil {
		return errors.New("events: forwarder already started")
	}

	queue, err := newSubscriber(q.db, forwarderGroup, q.wlog)
	if err != nil {
		return err
	}
	target, err := watermillsql.NewPublisher(q.db, watermillsql.PublisherConfig{
		SchemaAdapter:        schema,
		AutoInitializeSchema: true,
	}, q.wlog)
	if err != nil {
		_ = queue.Close()
		return fmt.Errorf("events: forwarder publisher: %w", err)
	}
	fwd, err := forwarder.NewForwarder(queue, target, q.wlog, forwarder.Config{
		ForwarderTopic: forwarderTopic,
	})
	if err != nil {
		_ = target.Close()
		_ = queue.Close()
		return fmt.Errorf("events: create forwarder: %w", err)
	}
	q.fwd = fwd

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		q.log.InfoContext(ctx, "events: forwarder started")
		if err := fwd.Run(ctx); err != nil {
			q.log.ErrorContext(ctx, "events: forwarder stopped with error", "error", err)
			return
		}
		q.log.InfoContext(ctx, "events: forwarder stopped")
	}()

	select {
	case <-fwd.Running():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("events: waiting for forwarder: %w", ctx.Err())
	}
}

// NewEventMessage marshals event into a Watermill message and stamps the
// event_id and event_version metadata consumers use for deduplication.
func NewEventMessage(eventID uuid.UUID, version int, event any) (*message.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("events: marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", eventID.String())
	msg.Metadata.Set("event_version", fmt.Sprint(version))
	return msg, nil
}

// DecodePayload unmarshals the JSON payload of msg into v. A payload that
// does not decode is marked permanent, so Subscribe nacks it without retrying.
func DecodePayload(msg *message.Message, v any) error {
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return backoff.Permanent(fmt.Errorf("events: decode message %s: %w", msg.UUID, err))
	}
	return nil
}

// PublishTx stores msgs for topic inside tx. The outbox tables already exist
// once the bus is up, so the tx publisher never creates schema.
func (q *EventBus) PublishTx(ctx context.Context, tx *sql.Tx, topic string, msgs ...*message.Message) error {
	injectTraceContext(ctx, msgs)

	pub, err := watermillsql.NewPublisher(tx, watermillsql.PublisherConfig{
		SchemaAdapter: schema,
	}, q.wlog)
	if err != nil {
		return fmt.Errorf("events: tx publisher: %w", err)
	}
	var p message.Publisher = pub
	if q.forwarding {
		p = forwarder.NewPublisher(pub, forwarder.PublisherConfig{ForwarderTopic: forwarderTopic})
	}

	if err := p.Publish(topic, msgs...); err != nil { //nolint:contextcheck
		return fmt.Errorf("events: publish to %s in tx: %w", topic, err)
	}
	return nil
}

func injectTraceContext(ctx context.Context, msgs []*message.Message) {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for _, msg := range msgs {
		for k, v := range carrier {
			msg.Metadata.Set(k, v)
		}
	}
}

func extractTraceContext(ctx context.Context, msg *message.Message) context.Context {
	carrier := propagation.MapCarrier{}
	for k, v := range msg.Metadata {
		carrier[k] = v
	}
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}

// Subscribe handles every message on topic in a background goroutine, with
// the publisher's trace restored into the handler's context. A nil handler
// error acks the message; otherwise the handler is retried per the bus's
// RetryPolicy, then the message is nacked and the error is sent on the
// returned channel. Callers must drain the channel. Close waits for
// in-flight handlers.
func (q *EventBus) Subscribe(ctx context.Context, topic string, handler func(context.Context, *message.Message) error) (<-chan error, error) {
	ch, err := q.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("events: subscribe to %s: %w", topic, err)
	}

	errCh := make(chan error, errChanSize)
	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		defer close(errCh)

		for msg := range ch {
			msgCtx := extractTraceContext(ctx, msg)
			if err := handleWithRetry(msgCtx, msg, handler, q.retry, q.log); err != nil {
				msg.Nack()
				select {
				case errCh <- err:
				default:
					q.log.ErrorContext(msgCtx, "events: error channel full, dropping error",
						"error", err, "topic", topic)
				}
				continue
			}
			msg.Ack()
		}
	}()

	return errCh, nil
}

// handleWithRetry runs handler until it succeeds, policy.Attempts runs are
// used up or ctx ends.
func handleWithRetry(
	ctx context.Context,
	msg *message.Message,
	handler func(context.Context, *message.Message) error,
	policy RetryPolicy,
	log logger.Logger,
) error {
	policy = policy.normalized()
	attempt := 0
	_, err := backoff.Retry(ctx,
		func() (struct{}, error) {
			attempt++
			return struct{}{}, handler(ctx, msg)
		},
		backoff.WithBackOff(&backoff.ExponentialBackOff{
			InitialInterval: policy.BaseDelay,
			Multiplier:      2,
			MaxInterval:     maxRetryDelay,
		}),
		backoff.WithMaxTries(uint(policy.Attempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.WarnContext(ctx, "events: handler failed, retrying",
				"attempt", attempt,
				"max_attempts", policy.Attempts,
				"next_delay", next,
				"error", err,
			)
		}),
	)
	if err != nil {
		return fmt.Errorf("events: handler failed after %d attempts: %w", attempt, err)
	}
	return nil
}

// Ping implements httpx.HealthChecker.
func (q *EventBus) Ping(ctx context.Context) error {
	if err := q.db.PingContext(ctx); err != nil {
		return fmt.Errorf("events: ping db: %w", err)
	}
	return nil
}

// Close stops the subscriber and the forwarder, waits up to shutdownTimeout
// for in-flight handlers and closes the database.
func (q *EventBus) Close() error {
	if err := q.subscriber.Close(); err != nil {
		return fmt.Errorf("events: close subscriber: %w", err)
	}
	if q.fwd != nil {
		if err := q.fwd.Close(); err != nil {
			return fmt.Errorf("events: close forwarder: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(shutdownTimeout):
		q.log.Error("events: timed out waiting for in-flight handlers")
	}

	return q.db.Close()
}

// slogAdapter bridges logger.Logger to watermill.LoggerAdapter.
type slogAdapter struct{ log logger.Logger }

func (a *slogAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.log.Error(msg, append(fieldsToArgs(fields), "error", err)...)
}
func (a *slogAdapter) Info(msg string, fields watermill.LogFields) {
	a.log.Info(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Debug(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) Trace(msg string, fields watermill.LogFields) {
	a.log.Debug(msg, fieldsToArgs(fields)...)
}
func (a *slogAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &slogAdapter{log: a.log.With(fieldsToArgs(fields)...)}
}

func fieldsToArgs(fields watermill.LogFields) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
