package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/ghuser/itemtracker/pkg/config"
)

const sentryFlushTimeout = 2 * time.Second

// SetupSentry starts the Sentry client. Without SENTRY_DSN it does nothing.
func SetupSentry(cfg *config.Config) error {
	if cfg.SentryDSN == "" {
		return nil
	}
	opts, err := sentryOptions(cfg)
	if err != nil {
		return err
	}
	if err := sentry.Init(opts); err != nil {
		return fmt.Errorf("telemetry: sentry init: %w", err)
	}
	return nil
}

func sentryOptions(cfg *config.Config) (sentry.ClientOptions, error) {
	if cfg.SentrySampleRate < 0 || cfg.SentrySampleRate > 1 {
		return sentry.ClientOptions{}, fmt.Errorf("telemetry: SENTRY_TRACES_SAMPLE_RATE %v outside 0..1", cfg.SentrySampleRate)
	}
	return sentry.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.Environment,
		ServerName:       cfg.ServiceName,
		Release:          cfg.ServiceName + "@" + cfg.ServiceVersion,
		EnableTracing:    cfg.SentrySampleRate > 0,
		TracesSampleRate: cfg.SentrySampleRate,
	}, nil
}

// SentryFlush sends buffered events. Deferred by main before exit.
func SentryFlush() {
	sentry.Flush(sentryFlushTimeout)
}

// SentryMiddleware reports panics to Sentry and re-panics so the recovery
// middleware still writes the 500.
func SentryMiddleware() func(http.Handler) http.Handler {
	return sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle
}
