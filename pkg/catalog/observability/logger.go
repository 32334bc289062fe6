// Package observability provides structured logging, metrics, and tracing
// for catalog registries.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
)

// LogPopulateStart logs the start of a population.
func LogPopulateStart(logger *slog.Logger, registry, populationID string) {
	if logger == nil {
		return
	}
	logger.Debug("registry populating",
		slog.String("registry", registry),
		slog.String("population_id", populationID),
	)
}

// LogPopulateComplete logs a successful population.
func LogPopulateComplete(logger *slog.Logger, registry, populationID string, durationMs float64, itemCount int) {
	if logger == nil {
		return
	}
	logger.Info("registry populated",
		slog.String("registry", registry),
		slog.String("population_id", populationID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("items", itemCount),
	)
}

// LogPopulateError logs a failed population. The registry is unpopulated
// again and the next access retries.
func LogPopulateError(logger *slog.Logger, registry, populationID string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("registry population failed",
		slog.String("registry", registry),
		slog.String("population_id", populationID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogItemRegistered logs an item registration.
func LogItemRegistered(logger *slog.Logger, registry string, keys any) {
	if logger == nil {
		return
	}
	logger.Debug("item registered",
		slog.String("registry", registry),
		slog.Any("keys", keys),
	)
}

// LogItemUnregistered logs an item removal.
func LogItemUnregistered(logger *slog.Logger, registry string, keys any) {
	if logger == nil {
		return
	}
	logger.Debug("item unregistered",
		slog.String("registry", registry),
		slog.Any("keys", keys),
	)
}

// LogMutationError logs a rejected register, unregister or reset.
func LogMutationError(logger *slog.Logger, registry, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("registry mutation failed",
		slog.String("registry", registry),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// LogReset logs a registry reset.
func LogReset(logger *slog.Logger, registry string, cleared int) {
	if logger == nil {
		return
	}
	logger.Info("registry reset",
		slog.String("registry", registry),
		slog.Int("cleared", cleared),
	)
}

// LogLookupMiss logs a lookup for a key that is not registered.
func LogLookupMiss(logger *slog.Logger, registry string, key any) {
	if logger == nil {
		return
	}
	logger.Debug("registry lookup miss",
		slog.String("registry", registry),
		slog.Any("key", key),
	)
}

// LogLookupError logs a lookup that failed for a reason other than a miss,
// typically a population failure.
func LogLookupError(logger *slog.Logger, registry string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("registry lookup failed",
		slog.String("registry", registry),
		slog.String("error", err.Error()),
	)
}

// LogPanic logs a recovered panic from a populator or hook.
func LogPanic(logger *slog.Logger, registry, stage string, value any) {
	if logger == nil {
		return
	}
	logger.Error("registry callback panicked",
		slog.String("registry", registry),
		slog.String("stage", stage),
		slog.Any("panic", value),
	)
}
