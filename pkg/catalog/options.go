package catalog

import (
	"log/slog"

	"github.com/randalmurphal/catalog/pkg/catalog/config"
	"github.com/randalmurphal/catalog/pkg/catalog/observability"
)

// settings holds registry construction settings.
type settings struct {
	name           string
	logger         *slog.Logger
	hooks          any
	metricsEnabled bool
	tracingEnabled bool
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
}

// Option configures a registry at construction.
type Option func(*settings)

// WithName sets the registry name used in errors, logs, metrics and spans.
// Default: "catalog-" followed by eight hex characters.
func WithName(name string) Option {
	return func(s *settings) {
		if name != "" {
			s.name = name
		}
	}
}

// WithLogger enables structured logging of populations and mutations.
// Default: no logging.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	reg := catalog.New(loadBackends, catalog.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithHooks installs hook callbacks. The type parameters must match the
// registry's; New panics otherwise.
func WithHooks[K comparable, V any](h Hooks[K, V]) Option {
	return func(s *settings) {
		s.hooks = h
	}
}

// WithMetrics enables OpenTelemetry metrics using the global meter provider.
// Default: false
func WithMetrics(enabled bool) Option {
	return func(s *settings) {
		s.metricsEnabled = enabled
	}
}

// WithMetricsRecorder sets a custom metrics recorder and enables metrics.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(s *settings) {
		s.metrics = m
		s.metricsEnabled = m != nil
	}
}

// WithTracing enables OpenTelemetry tracing of populations using the global
// tracer provider.
// Default: false
func WithTracing(enabled bool) Option {
	return func(s *settings) {
		s.tracingEnabled = enabled
	}
}

// WithSpanManager sets a custom span manager and enables tracing.
func WithSpanManager(m observability.SpanManager) Option {
	return func(s *settings) {
		s.spans = m
		s.tracingEnabled = m != nil
	}
}

// OptionsFromConfig maps configuration keys to options:
//
//	name: backends   # WithName
//	metrics: true    # WithMetrics
//	tracing: false   # WithTracing
//
// Missing keys leave the defaults in place.
func OptionsFromConfig(cfg config.Config) []Option {
	var opts []Option
	if name := cfg.String("name", ""); name != "" {
		opts = append(opts, WithName(name))
	}
	if cfg.Has("metrics") {
		opts = append(opts, WithMetrics(cfg.Bool("metrics", false)))
	}
	if cfg.Has("tracing") {
		opts = append(opts, WithTracing(cfg.Bool("tracing", false)))
	}
	return opts
}
