// Package obs owns the global structured logger and the correlation
// fields that tie log lines back to a scenario run.
package obs

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type correlationContextKey struct{}

// Correlation carries per-run correlation identifiers. RunID is assigned
// once per scenario execution; ScenarioName and StepName narrow as the
// sequencer descends into steps.
type Correlation struct {
	RunID        string
	ScenarioName string
	StepName     string
}

var (
	loggerMu sync.RWMutex
	logger   *slog.Logger
)

// Init configures the global structured logger.
func Init() {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	if logger != nil {
		return
	}
	logger = newLogger(os.Stderr)
	slog.SetDefault(logger)
}

// SetOutputForTests overrides the global logger output for tests.
func SetOutputForTests(w io.Writer) func() {
	loggerMu.Lock()
	prev := logger
	logger = newLogger(w)
	slog.SetDefault(logger)
	loggerMu.Unlock()

	return func() {
		loggerMu.Lock()
		defer loggerMu.Unlock()
		if prev != nil {
			logger = prev
		} else {
			logger = newLogger(os.Stderr)
		}
		slog.SetDefault(logger)
	}
}

func newLogger(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(_ []string, attr slog.Attr) slog.Attr {
			if attr.Key == slog.TimeKey {
				t, ok := attr.Value.Any().(time.Time)
				if ok {
					return slog.String(slog.TimeKey, t.UTC().Format(time.RFC3339Nano))
				}
			}
			return attr
		},
	})
	return slog.New(handler)
}

func globalLogger() *slog.Logger {
	loggerMu.RLock()
	l := logger
	loggerMu.RUnlock()
	if l != nil {
		return l
	}
	Init()
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// Pkg returns a logger tagged with package name.
func Pkg(pkg string) *slog.Logger {
	return globalLogger().With("pkg", pkg)
}

// From returns a logger with correlation fields from context.
func From(ctx context.Context) *slog.Logger {
	l := globalLogger()
	corr := CorrelationFromContext(ctx)
	attrs := correlationAttrs(corr)
	if len(attrs) == 0 {
		return l
	}
	return l.With(attrs...)
}

// WithRun stores a fresh run ID and the scenario name in context.
func WithRun(ctx context.Context, scenarioName string) context.Context {
	corr := CorrelationFromContext(ctx)
	corr.RunID = NewRunID()
	corr.ScenarioName = strings.TrimSpace(scenarioName)
	return context.WithValue(ctx, correlationContextKey{}, corr)
}

// WithStep stores the active step name in context.
func WithStep(ctx context.Context, stepName string) context.Context {
	corr := CorrelationFromContext(ctx)
	corr.StepName = strings.TrimSpace(stepName)
	return context.WithValue(ctx, correlationContextKey{}, corr)
}

// CorrelationFromContext returns run correlation fields from context.
func CorrelationFromContext(ctx context.Context) Correlation {
	if ctx == nil {
		return Correlation{}
	}
	corr, ok := ctx.Value(correlationContextKey{}).(Correlation)
	if !ok {
		return Correlation{}
	}
	return corr
}

func correlationAttrs(corr Correlation) []any {
	attrs := make([]any, 0, 6)
	if corr.RunID != "" {
		attrs = append(attrs, "run_id", corr.RunID)
	}
	if corr.ScenarioName != "" {
		attrs = append(attrs, "scenario", corr.ScenarioName)
	}
	if corr.StepName != "" {
		attrs = append(attrs, "step", corr.StepName)
	}
	return attrs
}

// NewRunID returns a unique identifier for one scenario execution.
func NewRunID() string {
	return "run-" + uuid.NewString()
}
