package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/itemtracker/pkg/app"
	"github.com/ghuser/itemtracker/pkg/cache"
	"github.com/ghuser/itemtracker/pkg/config"
	"github.com/ghuser/itemtracker/pkg/database"
	"github.com/ghuser/itemtracker/pkg/events"
	"github.com/ghuser/itemtracker/pkg/logger"
	"github.com/ghuser/itemtracker/pkg/telemetry"
	accountEvents "github.com/ghuser/itemtracker/services/account/domain/events"
	itemEvents "github.com/ghuser/itemtracker/services/item/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	var itemCache *cache.ItemCache
	if cfg.RedisURL != "" {
		redisClient, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Error("failed to connect to redis", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer redisClient.Close() //nolint:errcheck
		itemCache = cache.NewItemCache(redisClient, cache.ItemCacheOptions{
			TTL:       cfg.ItemCacheTTL,
			EvictHold: cfg.ItemCacheEvictHold,
		})
		log.Info("redis connected")
	}

	appConfig := &app.Application{
		Db:        pool,
		Logger:    log,
		EventBus:  eventBus,
		ItemCache: itemCache,
	}

	if err := registerSubscribers(ctx, appConfig); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application) error {
	handlers := map[string]func(context.Context, *message.Message) error{
		accountEvents.TopicUserRegistered: handleUserRegistered(a.Logger),
		itemEvents.TopicItemCreated:       handleItemCreated(a.Logger),
		itemEvents.TopicItemUpdated:       evictOnItemEvent(a.Logger, a.ItemCache, itemEvents.TopicItemUpdated),
		itemEvents.TopicItemDeleted:       evictOnItemEvent(a.Logger, a.ItemCache, itemEvents.TopicItemDeleted),
	}

	topics := make([]string, 0, len(handlers))
	for topic, h := range handlers {
		errCh, err := a.EventBus.Subscribe(ctx, topic, h)
		if err != nil {
			return err
		}
		// Drain subscriber errors in background so the channel never blocks.
		go func(topic string) {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}(topic)
		topics = append(topics, topic)
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}

// handleUserRegistered logs new accounts, including the synthesized default owner.
func handleUserRegistered(log logger.Logger) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt accountEvents.UserRegisteredEvent
		if err := events.DecodePayload(msg, &evt); err != nil {
			return err
		}
		log.InfoContext(ctx, "user registered",
			"user_id", evt.UserID, "username", evt.Username, "event_id", evt.EventID)
		return nil
	}
}

// handleItemCreated only logs: a new id has nothing cached to invalidate.
func handleItemCreated(log logger.Logger) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt itemEvents.ItemCreatedEvent
		if err := events.DecodePayload(msg, &evt); err != nil {
			return err
		}
		log.InfoContext(ctx, "item created", "item_id", evt.ItemID, "user_id", evt.OwnerID)
		return nil
	}
}

// itemRef is the part of every item event the worker reads.
type itemRef struct {
	ItemID int64 `json:"item_id"`
}

// evictOnItemEvent evicts the item named by the event after its write has
// committed. Topics are consumed independently and in any order, so the
// worker never writes item state; only the read path warms the cache.
// Returning the error makes the bus retry the eviction.
func evictOnItemEvent(
	log logger.Logger,
	itemCache *cache.ItemCache,
	topic string,
) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var ref itemRef
		if err := events.DecodePayload(msg, &ref); err != nil {
			return err
		}
		if itemCache == nil {
			return nil
		}
		if err := itemCache.Evict(ctx, ref.ItemID); err != nil {
			return err
		}
		log.InfoContext(ctx, "cache evicted", "item_id", ref.ItemID, "topic", topic)
		return nil
	}
}
