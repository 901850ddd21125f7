package gologgeradapter

import (
	"context"
	"strings"

	"github.com/goliatone/go-fieldgate/activity"
	"github.com/goliatone/go-fieldgate/market"
	"github.com/goliatone/go-fieldgate/mask"
	"github.com/goliatone/go-logger/glog"
)

// Hook logs resolve, update, and classification events using go-logger.
type Hook struct {
	logger          glog.Logger
	resolveLevel    string
	updateLevel     string
	evaluateLevel   string
	resolveMessage  string
	updateMessage   string
	evaluateMessage string
}

// Option customizes the logger hook.
type Option func(*Hook)

// New builds a logging hook for resolve/update/evaluate events.
func New(logger glog.Logger, opts ...Option) *Hook {
	hook := &Hook{
		logger:          logger,
		resolveLevel:    "debug",
		updateLevel:     "info",
		evaluateLevel:   "debug",
		resolveMessage:  "fieldgate.resolve",
		updateMessage:   "fieldgate.update",
		evaluateMessage: "fieldgate.classify",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(hook)
		}
	}
	return hook
}

// WithResolveLevel sets the log level for resolve events.
func WithResolveLevel(level string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.resolveLevel = strings.ToLower(strings.TrimSpace(level))
	}
}

// WithUpdateLevel sets the log level for update events.
func WithUpdateLevel(level string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.updateLevel = strings.ToLower(strings.TrimSpace(level))
	}
}

// WithEvaluateLevel sets the log level for classification events.
func WithEvaluateLevel(level string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.evaluateLevel = strings.ToLower(strings.TrimSpace(level))
	}
}

// WithResolveMessage overrides the resolve log message.
func WithResolveMessage(message string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.resolveMessage = message
	}
}

// WithUpdateMessage overrides the update log message.
func WithUpdateMessage(message string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.updateMessage = message
	}
}

// WithEvaluateMessage overrides the classification log message.
func WithEvaluateMessage(message string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.evaluateMessage = message
	}
}

// OnResolve implements mask.ResolveHook.
func (h *Hook) OnResolve(ctx context.Context, event mask.ResolveEvent) {
	if h == nil || h.logger == nil {
		return
	}
	fields := map[string]any{
		"mask_role":        string(event.Role),
		"mask_module":      event.Module,
		"mask_module_norm": event.Trace.ModuleNorm,
		"mask_field":       event.Field,
		"mask_hidden":      event.Hidden,
		"mask_source":      string(event.Source),
		"mask_cache_hit":   event.Trace.CacheHit,
		"mask_rule_state":  string(event.Trace.ModuleRule.State),
	}
	if event.Error != nil {
		fields["mask_error"] = event.Error.Error()
	}
	h.log(ctx, h.resolveLevel, h.resolveMessage, fields)
}

// OnUpdate implements activity.Hook.
func (h *Hook) OnUpdate(ctx context.Context, event activity.UpdateEvent) {
	if h == nil || h.logger == nil {
		return
	}
	fields := map[string]any{
		"mask_role":   string(event.Key.Role),
		"mask_module": event.Key.Module,
		"mask_field":  event.Key.Field,
		"mask_action": string(event.Action),
		"actor_id":    event.Actor.ID,
		"actor_type":  event.Actor.Type,
		"actor_name":  event.Actor.Name,
	}
	if event.Hidden != nil {
		fields["mask_hidden"] = *event.Hidden
	}
	h.log(ctx, h.updateLevel, h.updateMessage, fields)
}

// OnEvaluate implements market.EvaluateHook.
func (h *Hook) OnEvaluate(ctx context.Context, event market.EvaluateEvent) {
	if h == nil || h.logger == nil {
		return
	}
	fields := map[string]any{
		"market_score":     event.Classification.Score,
		"market_tier":      string(event.Classification.Tier),
		"market_threshold": event.Threshold,
		"market_factors":   len(event.Classification.Factors),
	}
	if event.Error != nil {
		fields["market_error"] = event.Error.Error()
	}
	h.log(ctx, h.evaluateLevel, h.evaluateMessage, fields)
}

func (h *Hook) log(ctx context.Context, level string, message string, fields map[string]any) {
	logger := h.logger
	if logger == nil {
		return
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(glog.FieldsLogger); ok && len(fields) > 0 {
		logger = fieldsLogger.WithFields(fields)
	}
	switch level {
	case "trace":
		logger.Trace(message)
	case "debug":
		logger.Debug(message)
	case "warn":
		logger.Warn(message)
	case "error":
		logger.Error(message)
	case "fatal":
		// Avoid Fatal in go-fieldgate; treat fatal as error instead.
		logger.Error(message)
	default:
		logger.Info(message)
	}
}

var _ mask.ResolveHook = (*Hook)(nil)
var _ activity.Hook = (*Hook)(nil)
var _ market.EvaluateHook = (*Hook)(nil)
