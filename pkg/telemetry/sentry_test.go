package telemetry

import (
	"testing"

	"github.com/ghuser/itemtracker/pkg/config"
)

func TestSetupSentry_NoDSNIsNoop(t *testing.T) {
	cfg := testConfig()
	cfg.SentrySampleRate = 5 // not validated without a DSN
	if err := SetupSentry(cfg); err != nil {
		t.Fatalf("SetupSentry: %v", err)
	}
}

func TestSentryOptions(t *testing.T) {
	cfg := testConfig()
	cfg.SentryDSN = "https://key@sentry.example.com/1"
	cfg.SentrySampleRate = 0.5

	opts, err := sentryOptions(cfg)
	if err != nil {
		t.Fatalf("sentryOptions: %v", err)
	}
	if opts.ServerName != "itemtracker-test" {
		t.Errorf("ServerName = %q", opts.ServerName)
	}
	if opts.Release != "itemtracker-test@test" {
		t.Errorf("Release = %q", opts.Release)
	}
	if opts.Environment != config.EnvTesting {
		t.Errorf("Environment = %q", opts.Environment)
	}
	if !opts.EnableTracing || opts.TracesSampleRate != 0.5 {
		t.Errorf("tracing = %v at %v", opts.EnableTracing, opts.TracesSampleRate)
	}
}

func TestSentryOptions_ZeroRateDisablesTracing(t *testing.T) {
	cfg := testConfig()
	cfg.SentryDSN = "https://key@sentry.example.com/1"

	opts, err := sentryOptions(cfg)
	if err != nil {
		t.Fatalf("sentryOptions: %v", err)
	}
	if opts.EnableTracing {
		t.Error("tracing enabled at rate 0")
	}
}

func TestSetupSentry_RejectsBadSampleRate(t *testing.T) {
	for _, rate := range []float64{-0.1, 1.5} {
		cfg := testConfig()
		cfg.SentryDSN = "https://key@sentry.example.com/1"
		cfg.SentrySampleRate = rate
		if err := SetupSentry(cfg); err == nil {
			t.Errorf("rate %v: expected error", rate)
		}
	}
}

func TestSetupSentry_RejectsMalformedDSN(t *testing.T) {
	cfg := testConfig()
	cfg.SentryDSN = "not a dsn"
	cfg.SentrySampleRate = 0.2
	if err := SetupSentry(cfg); err == nil {
		t.Fatal("expected error for malformed DSN")
	}
}
