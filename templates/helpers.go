package templates

import (
	"context"
	"fmt"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-fieldgate/fgerrors"
	"github.com/goliatone/go-fieldgate/logger"
	"github.com/goliatone/go-fieldgate/market"
	"github.com/goliatone/go-fieldgate/mask"
	"github.com/goliatone/go-fieldgate/profile"
)

const (
	TemplateContextKey  = "mask_ctx"
	TemplateProfileKey  = "mask_profile"
	TemplateSnapshotKey = "mask_snapshot"
)

// DefaultPlaceholder replaces masked values in rendered output.
const DefaultPlaceholder = "•••"

// HelperConfig configures template helpers.
type HelperConfig struct {
	ContextKey             string
	ProfileKey             string
	SnapshotKey            string
	Placeholder            string
	EnableStructuredErrors bool
	EnableErrorLogging     bool
	Logger                 logger.Logger
}

// HelperOption configures template helpers.
type HelperOption func(*HelperConfig)

// DefaultHelperConfig returns the default helper configuration.
func DefaultHelperConfig() HelperConfig {
	return HelperConfig{
		ContextKey:             TemplateContextKey,
		ProfileKey:             TemplateProfileKey,
		SnapshotKey:            TemplateSnapshotKey,
		Placeholder:            DefaultPlaceholder,
		EnableStructuredErrors: false,
		EnableErrorLogging:     false,
	}
}

// WithContextKey overrides the template context key name.
func WithContextKey(key string) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.ContextKey = strings.TrimSpace(key)
	}
}

// WithProfileKey overrides the template profile key name.
func WithProfileKey(key string) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.ProfileKey = strings.TrimSpace(key)
	}
}

// WithSnapshotKey overrides the template snapshot key name.
func WithSnapshotKey(key string) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.SnapshotKey = strings.TrimSpace(key)
	}
}

// WithPlaceholder overrides the masked value placeholder.
func WithPlaceholder(placeholder string) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.Placeholder = placeholder
	}
}

// WithStructuredErrors toggles structured error output for string helpers.
func WithStructuredErrors(enabled bool) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.EnableStructuredErrors = enabled
	}
}

// WithErrorLogging toggles error logging for helper failures.
func WithErrorLogging(enabled bool) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.EnableErrorLogging = enabled
	}
}

// WithLogger injects a logger for helper error logging.
func WithLogger(lgr logger.Logger) HelperOption {
	return func(cfg *HelperConfig) {
		if cfg == nil {
			return
		}
		cfg.Logger = lgr
	}
}

// TemplateHelpers returns a helper set suitable for WithTemplateFunc.
// Helpers fail closed: a missing profile, a missing resolver, or a
// resolution error all render as hidden.
func TemplateHelpers(fieldMask mask.FieldMask, opts ...HelperOption) map[string]any {
	cfg := DefaultHelperConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.EnableErrorLogging && cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	helpers := &helperSet{
		resolver: fieldMask,
		trace:    traceMask(fieldMask),
		cfg:      cfg,
	}

	funcs := map[string]any{
		"field_hidden":   helpers.fieldHidden,
		"field_visible":  helpers.fieldVisible,
		"module_hidden":  helpers.moduleHidden,
		"module_visible": helpers.moduleVisible,
		"masked":         helpers.masked,
		"visible_if":     helpers.visibleIf,
		"mask_class":     helpers.maskClass,
		"market_tier":    helpers.marketTier,
		"market_complex": helpers.marketComplex,
		"market_premium": helpers.marketPremium,
	}
	if helpers.trace != nil {
		funcs["field_trace"] = helpers.fieldTrace
	}
	return funcs
}

type helperSet struct {
	resolver mask.FieldMask
	trace    mask.TraceableFieldMask
	cfg      HelperConfig
}

func (h *helperSet) fieldHidden(execCtx *pongo2.ExecutionContext, module, field any) bool {
	moduleKey, fieldKey, ok := parseFieldKey(module, field)
	if !ok {
		return true
	}
	hidden, err := h.resolveHidden(execCtx, moduleKey, fieldKey)
	if err != nil {
		return true
	}
	return hidden
}

func (h *helperSet) fieldVisible(execCtx *pongo2.ExecutionContext, module, field any) bool {
	return !h.fieldHidden(execCtx, module, field)
}

func (h *helperSet) moduleHidden(execCtx *pongo2.ExecutionContext, module any) bool {
	moduleKey, ok := parseModuleKey(module)
	if !ok {
		return true
	}
	hidden, err := h.resolveHidden(execCtx, moduleKey, "")
	if err != nil {
		return true
	}
	return hidden
}

func (h *helperSet) moduleVisible(execCtx *pongo2.ExecutionContext, module any) bool {
	return !h.moduleHidden(execCtx, module)
}

func (h *helperSet) masked(execCtx *pongo2.ExecutionContext, module, field any, value any, placeholder ...any) any {
	fallback := any(h.cfg.Placeholder)
	if len(placeholder) > 0 {
		fallback = unwrapValue(placeholder[0])
	}
	if h.fieldHidden(execCtx, module, field) {
		return fallback
	}
	return unwrapValue(value)
}

func (h *helperSet) visibleIf(execCtx *pongo2.ExecutionContext, module, field any, whenVisible any, whenHidden ...any) any {
	var fallback any = ""
	if len(whenHidden) > 0 {
		fallback = whenHidden[0]
	}
	moduleKey, fieldKey, ok := parseFieldKey(module, field)
	if !ok {
		return h.errorOrFallback("visible_if", fgerrors.WrapSentinel(fgerrors.ErrInvalidModule, "module key is required", map[string]any{
			fgerrors.MetaModule: module,
		}), fallback)
	}
	hidden, err := h.resolveHidden(execCtx, moduleKey, fieldKey)
	if err != nil {
		return h.errorOrFallback("visible_if", err, fallback)
	}
	if hidden {
		return fallback
	}
	return whenVisible
}

func (h *helperSet) maskClass(execCtx *pongo2.ExecutionContext, module, field any, on any, off ...any) any {
	var fallback any = ""
	if len(off) > 0 {
		fallback = off[0]
	}
	moduleKey, fieldKey, ok := parseFieldKey(module, field)
	if !ok {
		return h.errorOrFallback("mask_class", fgerrors.WrapSentinel(fgerrors.ErrInvalidModule, "module key is required", map[string]any{
			fgerrors.MetaModule: module,
		}), fallback)
	}
	hidden, err := h.resolveHidden(execCtx, moduleKey, fieldKey)
	if err != nil {
		return h.errorOrFallback("mask_class", err, fallback)
	}
	if hidden {
		return on
	}
	return fallback
}

func (h *helperSet) fieldTrace(execCtx *pongo2.ExecutionContext, module, field any) any {
	moduleKey, fieldKey, ok := parseFieldKey(module, field)
	if !ok {
		return h.errorOrFallback("field_trace", fgerrors.WrapSentinel(fgerrors.ErrInvalidModule, "module key is required", map[string]any{
			fgerrors.MetaModule: module,
		}), nil)
	}
	if snapshot := h.snapshot(execCtx); snapshot != nil {
		if trace, ok := snapshotTrace(snapshot, snapshotKey(moduleKey, fieldKey)); ok {
			return trace
		}
	}
	if h.trace == nil {
		return nil
	}

	ctx := h.context(execCtx)
	opts := h.resolveOptions(execCtx)
	_, trace, err := h.trace.FieldHiddenWithTrace(ctx, moduleKey, fieldKey, opts...)
	if err != nil {
		return h.errorOrFallback("field_trace", err, nil)
	}
	return trace
}

func (h *helperSet) marketTier(value any) string {
	tier, ok := tierFromValue(unwrapValue(value))
	if !ok {
		return ""
	}
	return string(tier)
}

func (h *helperSet) marketComplex(value any) bool {
	tier, ok := tierFromValue(unwrapValue(value))
	if !ok {
		return false
	}
	return tier == market.TierComplex
}

func (h *helperSet) marketPremium(previous, next any) bool {
	prev, prevOK := tierFromValue(unwrapValue(previous))
	curr, currOK := tierFromValue(unwrapValue(next))
	if !prevOK || !currOK {
		return false
	}
	return market.Transition(prev, curr) == market.SuggestPremiumPricing
}

func (h *helperSet) resolveHidden(execCtx *pongo2.ExecutionContext, module, field string) (bool, error) {
	if module == "" {
		return true, fgerrors.WrapSentinel(fgerrors.ErrInvalidModule, "module key is required", nil)
	}
	if snapshot := h.snapshot(execCtx); snapshot != nil {
		if hidden, ok := snapshotHidden(snapshot, snapshotKey(module, field)); ok {
			return hidden, nil
		}
	}
	if h.resolver == nil {
		return true, fgerrors.WrapSentinel(fgerrors.ErrResolverRequired, "field mask resolver is required", nil)
	}
	ctx := h.context(execCtx)
	prof, ok := h.profile(execCtx, ctx)
	if !ok {
		return true, nil
	}
	opts := []mask.ResolveOption{mask.WithProfile(prof)}
	if field == "" {
		return h.resolver.ModuleHidden(ctx, module, opts...)
	}
	return h.resolver.FieldHidden(ctx, module, field, opts...)
}

func (h *helperSet) resolveOptions(execCtx *pongo2.ExecutionContext) []mask.ResolveOption {
	ctx := h.context(execCtx)
	if prof, ok := h.profile(execCtx, ctx); ok {
		return []mask.ResolveOption{mask.WithProfile(prof)}
	}
	return nil
}

func (h *helperSet) context(execCtx *pongo2.ExecutionContext) context.Context {
	data := templateData(execCtx)
	if data == nil {
		return context.Background()
	}
	key := h.cfg.ContextKey
	if key == "" {
		key = TemplateContextKey
	}
	raw, ok := data[key]
	if !ok || raw == nil {
		return context.Background()
	}
	return contextFromValue(raw)
}

func (h *helperSet) profile(execCtx *pongo2.ExecutionContext, ctx context.Context) (mask.Profile, bool) {
	data := templateData(execCtx)
	if data != nil {
		key := h.cfg.ProfileKey
		if key == "" {
			key = TemplateProfileKey
		}
		if raw, ok := data[key]; ok && raw != nil {
			if prof, ok := profileFromValue(raw); ok {
				return prof, prof.HasRole()
			}
		}
	}
	return profile.FromContext(ctx)
}

func (h *helperSet) snapshot(execCtx *pongo2.ExecutionContext) any {
	data := templateData(execCtx)
	if data == nil {
		return nil
	}
	key := h.cfg.SnapshotKey
	if key == "" {
		key = TemplateSnapshotKey
	}
	raw, ok := data[key]
	if !ok {
		return nil
	}
	return raw
}

func (h *helperSet) errorOrFallback(helper string, err error, fallback any) any {
	if h.cfg.EnableStructuredErrors {
		if h.cfg.EnableErrorLogging {
			h.logHelperError(helper, err)
		}
		return templateError(helper, err)
	}
	if h.cfg.EnableErrorLogging {
		h.logHelperError(helper, err)
	}
	return fallback
}

// TemplateError provides structured helper error output.
type TemplateError struct {
	Helper   string         `json:"helper"`
	Type     string         `json:"type,omitempty"`
	Message  string         `json:"message,omitempty"`
	Category string         `json:"category,omitempty"`
	TextCode string         `json:"text_code,omitempty"`
	Context  map[string]any `json:"context,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func templateError(helper string, err error) TemplateError {
	out := TemplateError{Helper: helper}
	if err == nil {
		return out
	}
	if rich, ok := fgerrors.As(err); ok {
		out.Message = rich.Message
		out.Category = rich.Category.String()
		out.TextCode = rich.TextCode
		if len(rich.Metadata) > 0 {
			out.Metadata = rich.Metadata
			out.Context = rich.Metadata
		}
		if out.TextCode != "" {
			out.Type = out.TextCode
		} else if out.Category != "" {
			out.Type = out.Category
		}
		return out
	}
	out.Message = err.Error()
	out.Type = "error"
	return out
}

// SnapshotReader reports stored visibility values by key.
type SnapshotReader interface {
	Hidden(key string) (bool, bool)
}

// TraceSnapshotReader exposes trace data for rule keys.
type TraceSnapshotReader interface {
	SnapshotReader
	Trace(key string) (mask.ResolveTrace, bool)
}

// Snapshot holds optional precomputed visibility values and traces.
// Keys use "module" for module rules and "module.field" for field rules.
type Snapshot struct {
	Values map[string]bool
	Traces map[string]mask.ResolveTrace
}

// Hidden implements SnapshotReader.
func (s Snapshot) Hidden(key string) (bool, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return false, false
	}
	if value, ok := s.Values[key]; ok {
		return value, true
	}
	return false, false
}

// Trace implements TraceSnapshotReader.
func (s Snapshot) Trace(key string) (mask.ResolveTrace, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return mask.ResolveTrace{}, false
	}
	trace, ok := s.Traces[key]
	return trace, ok
}

func snapshotHidden(snapshot any, key string) (bool, bool) {
	if reader, ok := snapshot.(SnapshotReader); ok {
		return reader.Hidden(key)
	}
	switch typed := snapshot.(type) {
	case map[string]bool:
		value, ok := typed[key]
		return value, ok
	case map[string]mask.ResolveTrace:
		trace, ok := typed[key]
		return trace.Hidden, ok
	case map[string]any:
		if value, ok := typed[key]; ok {
			return boolFromValue(value)
		}
		if value, ok := lookupNestedValue(typed, key); ok {
			return boolFromValue(value)
		}
	}
	return false, false
}

func snapshotTrace(snapshot any, key string) (mask.ResolveTrace, bool) {
	if reader, ok := snapshot.(TraceSnapshotReader); ok {
		return reader.Trace(key)
	}
	switch typed := snapshot.(type) {
	case map[string]mask.ResolveTrace:
		trace, ok := typed[key]
		return trace, ok
	case map[string]*mask.ResolveTrace:
		trace, ok := typed[key]
		if !ok || trace == nil {
			return mask.ResolveTrace{}, false
		}
		return *trace, true
	}
	return mask.ResolveTrace{}, false
}

func boolFromValue(value any) (bool, bool) {
	switch typed := value.(type) {
	case bool:
		return typed, true
	case *bool:
		if typed == nil {
			return false, false
		}
		return *typed, true
	default:
		return false, false
	}
}

func lookupNestedValue(snapshot map[string]any, key string) (any, bool) {
	if len(snapshot) == 0 {
		return nil, false
	}
	parts := splitPath(key)
	if len(parts) == 0 {
		return nil, false
	}
	var current any = snapshot
	for _, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		value, ok := m[part]
		if !ok {
			return nil, false
		}
		current = value
	}
	return current, true
}

func snapshotKey(module, field string) string {
	if field == "" {
		return module
	}
	return module + "." + field
}

func parseModuleKey(value any) (string, bool) {
	raw, ok := stringFromValue(value)
	if !ok {
		return "", false
	}
	normalized := mask.NormalizeModule(raw)
	return normalized, normalized != ""
}

func parseFieldKey(module, field any) (string, string, bool) {
	moduleKey, ok := parseModuleKey(module)
	if !ok {
		return "", "", false
	}
	raw, ok := stringFromValue(field)
	if !ok {
		return "", "", false
	}
	fieldKey := mask.NormalizeField(raw)
	if fieldKey == "" {
		return "", "", false
	}
	return moduleKey, fieldKey, true
}

func stringFromValue(value any) (string, bool) {
	raw := unwrapValue(value)
	switch typed := raw.(type) {
	case string:
		return strings.TrimSpace(typed), true
	case fmt.Stringer:
		return strings.TrimSpace(typed.String()), true
	default:
		return "", false
	}
}

func tierFromValue(value any) (market.Tier, bool) {
	switch typed := value.(type) {
	case market.Tier:
		return typed, typed != ""
	case market.Classification:
		return typed.Tier, typed.Tier != ""
	case *market.Classification:
		if typed == nil {
			return "", false
		}
		return typed.Tier, typed.Tier != ""
	case string:
		switch strings.ToLower(strings.TrimSpace(typed)) {
		case string(market.TierSimple):
			return market.TierSimple, true
		case string(market.TierComplex):
			return market.TierComplex, true
		default:
			return "", false
		}
	default:
		return "", false
	}
}

func unwrapValue(value any) any {
	if value == nil {
		return nil
	}
	if pv, ok := value.(*pongo2.Value); ok && pv != nil {
		return pv.Interface()
	}
	return value
}

func contextFromValue(value any) context.Context {
	switch typed := value.(type) {
	case context.Context:
		return typed
	case interface{ Context() context.Context }:
		return typed.Context()
	default:
		return context.Background()
	}
}

func profileFromValue(value any) (mask.Profile, bool) {
	switch typed := unwrapValue(value).(type) {
	case mask.Profile:
		return typed, true
	case *mask.Profile:
		if typed == nil {
			return mask.Profile{}, false
		}
		return *typed, true
	case map[string]any:
		return profileFromMap(typed)
	case map[string]string:
		raw := map[string]any{}
		for key, val := range typed {
			raw[key] = val
		}
		return profileFromMap(raw)
	default:
		return mask.Profile{}, false
	}
}

func profileFromMap(data map[string]any) (mask.Profile, bool) {
	if len(data) == 0 {
		return mask.Profile{}, false
	}
	prof := mask.Profile{}
	if val, ok := data[profile.MetadataRole]; ok {
		if raw, ok := val.(string); ok {
			if role, ok := mask.ParseRole(raw); ok {
				prof.Role = role
			}
		}
	}
	if val, ok := data[profile.MetadataUserID]; ok {
		prof.UserID, _ = val.(string)
	}
	if val, ok := data[profile.MetadataBranch]; ok {
		prof.Branch, _ = val.(string)
	}
	if prof == (mask.Profile{}) {
		return mask.Profile{}, false
	}
	return prof, true
}

func templateData(execCtx *pongo2.ExecutionContext) map[string]any {
	if execCtx == nil || execCtx.Public == nil {
		return nil
	}
	data := make(map[string]any, len(execCtx.Public))
	for key, value := range execCtx.Public {
		data[key] = value
	}
	return data
}

func splitPath(path string) []string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, ".")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func (h *helperSet) logHelperError(helper string, err error) {
	if h == nil || h.cfg.Logger == nil {
		return
	}
	args := []any{
		"helper", helper,
		"error", err,
	}
	if rich, ok := fgerrors.As(err); ok {
		args = append(args,
			"category", rich.Category,
			"text_code", rich.TextCode,
			"metadata", rich.Metadata,
		)
	}
	h.cfg.Logger.Error("fieldgate.helper_error", args...)
}

func traceMask(fieldMask mask.FieldMask) mask.TraceableFieldMask {
	if fieldMask == nil {
		return nil
	}
	traceable, ok := fieldMask.(mask.TraceableFieldMask)
	if !ok {
		return nil
	}
	return traceable
}
