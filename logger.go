package kmeanspp

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with clustering-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// WithJob adds a job identifier field to the logger.
func (l *Logger) WithJob(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("job", id),
	}
}

// WithK adds a k (cluster count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// WithRuns adds a runs field to the logger.
func (l *Logger) WithRuns(runs int) *Logger {
	return &Logger{
		Logger: l.Logger.With("runs", runs),
	}
}

// LogSeeding logs the end of k-means++ seeding.
func (l *Logger) LogSeeding(ctx context.Context, runs, k int, elapsed time.Duration) {
	l.InfoContext(ctx, "seeding completed",
		"runs", runs,
		"k", k,
		"elapsed", elapsed,
	)
}

// LogIteration logs one refinement iteration.
func (l *Logger) LogIteration(ctx context.Context, stats IterationStats) {
	l.DebugContext(ctx, "iteration completed",
		"iteration", stats.Iteration,
		"shift", stats.Shift,
		"empty_clusters", stats.EmptyClusters,
		"elapsed", stats.Duration,
	)
}

// LogEmptyCluster logs a cluster that received no points.
func (l *Logger) LogEmptyCluster(ctx context.Context, ev EmptyClusterEvent) {
	l.WarnContext(ctx, "empty cluster",
		"iteration", ev.Iteration,
		"run", ev.Run,
		"cluster", ev.Cluster,
		"policy", ev.Policy.String(),
		"point", ev.Point,
	)
}

// LogFit logs the outcome of a Fit or Refine call.
func (l *Logger) LogFit(ctx context.Context, res *Result, err error) {
	if err != nil {
		l.ErrorContext(ctx, "fit failed",
			"error", err,
		)
		return
	}

	level := slog.LevelInfo
	if res.Status != StatusConverged {
		level = slog.LevelWarn
	}
	l.Log(ctx, level, "fit completed",
		"status", res.Status.String(),
		"iterations", res.Iterations,
		"shift", res.Shift,
		"best_run", res.Best(),
		"elapsed", res.Duration,
	)
}
