package recovery

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/blushlabs/resilience/internal/resilience/classify"
	"github.com/blushlabs/resilience/internal/resilience/history"
	"github.com/blushlabs/resilience/internal/resilience/metrics"
)

// Sink receives a copy of every classified failure, e.g. for a dashboard
// journal or long-term archive. Delivery is best-effort.
type Sink interface {
	Record(ctx context.Context, e history.Entry) error
}

// Handler orchestrates the classification pipeline: classify, log, map
// message, select strategy, execute recovery. One Handler owns one error
// history; construct and inject it rather than sharing a global.
type Handler struct {
	history *history.Log
	exec    *Executor
	log     *slog.Logger
	sinks   []Sink
}

// NewHandler creates a handler around the given history log and executor.
func NewHandler(hist *history.Log, exec *Executor, logger *slog.Logger, sinks ...Sink) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		history: hist,
		exec:    exec,
		log:     logger,
		sinks:   sinks,
	}
}

// HandleResult bundles everything learned about a failure: its
// classification, the operator-facing message, the chosen strategy and the
// recovery outcome.
type HandleResult struct {
	Kind     classify.Kind        `json:"kind"`
	Code     string               `json:"code,omitempty"`
	Message  classify.UserMessage `json:"message"`
	Strategy Strategy             `json:"strategy"`
	Recovery Result               `json:"recovery"`
}

// WrapOptions carries optional inputs for a wrapped operation.
type WrapOptions struct {
	AlternativePath string
	Context         map[string]string
}

// HandleError drives the full pipeline for an already-observed failure.
// Every classified failure is recorded in the history, recovered or not.
// NotifyUser and Skip strategies skip execution entirely.
func (h *Handler) HandleError(ctx context.Context, err error, op Operation, path string, req Request) HandleResult {
	kind, code := classify.ClassifyError(err)
	metrics.ErrorsClassified.WithLabelValues(kind.String()).Inc()

	entry := history.Entry{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
		Operation: string(op),
		Path:      path,
		Kind:      kind,
		Code:      code,
		Message:   err.Error(),
		Stack:     string(debug.Stack()),
		Context:   req.Context,
	}
	h.history.Append(entry)
	metrics.HistorySize.Set(float64(h.history.Size()))
	h.publish(ctx, entry)

	msg := classify.MessageFor(kind, path)
	strategy := Select(kind, op)

	h.log.Warn("operation failed",
		"operation", op,
		"path", path,
		"kind", kind.String(),
		"code", code,
		"strategy", strategy.String(),
	)

	result := Result{Success: false, Recovered: false, Strategy: strategy}
	if strategy != StrategyNotifyUser && strategy != StrategySkip && req.Replay != nil {
		req.Path = path
		result = h.exec.Execute(ctx, strategy, req)
		if result.Recovered {
			h.log.Info("operation recovered",
				"operation", op,
				"path", path,
				"strategy", strategy.String(),
				"attempts", result.Attempts,
			)
		}
	} else {
		metrics.Recoveries.WithLabelValues(strategy.String(), "declined").Inc()
	}

	return HandleResult{
		Kind:     kind,
		Code:     code,
		Message:  msg,
		Strategy: strategy,
		Recovery: result,
	}
}

// Wrap invokes fn and is transparent on success. On failure it drives the
// recovery pipeline with fn as the replay: if recovery succeeds the caller
// sees the recovered result and never the original error; otherwise it
// returns an *EnrichedError carrying the original cause, the classification,
// the user message and the recovery diagnostics.
func (h *Handler) Wrap(ctx context.Context, fn ReplayFunc, op Operation, path string, opts WrapOptions) (any, error) {
	value, err := fn(ctx, path)
	if err == nil {
		return value, nil
	}

	res := h.HandleError(ctx, err, op, path, Request{
		Replay:          fn,
		Path:            path,
		AlternativePath: opts.AlternativePath,
		Context:         opts.Context,
	})
	if res.Recovery.Recovered {
		return res.Recovery.Value, nil
	}

	return nil, &EnrichedError{
		Kind:     res.Kind,
		Message:  res.Message,
		Strategy: res.Strategy,
		Recovery: res.Recovery,
		Err:      err,
	}
}

// Status summarizes the handler's history for the diagnostics surface.
type Status struct {
	HistorySize  int             `json:"history_size"`
	Capacity     int             `json:"capacity"`
	RecentErrors []history.Entry `json:"recent_errors"`
}

// Status reports the current history size, capacity and most recent errors.
func (h *Handler) Status() Status {
	return Status{
		HistorySize:  h.history.Size(),
		Capacity:     h.history.Capacity(),
		RecentErrors: h.history.Recent(5),
	}
}

// History returns matching history entries, newest first.
func (h *Handler) History(f history.Filter) []history.Entry {
	return h.history.List(f)
}

// ClearHistory removes all recorded entries.
func (h *Handler) ClearHistory() {
	h.history.Clear()
	metrics.HistorySize.Set(0)
}

func (h *Handler) publish(ctx context.Context, e history.Entry) {
	for _, s := range h.sinks {
		if err := s.Record(ctx, e); err != nil {
			h.log.Warn("failed to publish error entry", "entry_id", e.ID, "error", err)
		}
	}
}
