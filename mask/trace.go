package mask

import "context"

// ResolveSource captures which layer produced the final decision.
type ResolveSource string

const (
	ResolveSourceStore    ResolveSource = "store"
	ResolveSourceStatic   ResolveSource = "static"
	ResolveSourceFallback ResolveSource = "fallback"
)

// RuleTrace captures runtime rule resolution details for one key.
type RuleTrace struct {
	State RuleState
	Value *bool
	Error error
}

// StaticTrace captures static rule lookup details for one key.
type StaticTrace struct {
	Matched bool
	Hidden  bool
}

// ResolveTrace captures provenance for a single visibility resolution.
type ResolveTrace struct {
	Role       Role
	Module     string
	ModuleNorm string
	Field      string
	Hidden     bool
	Source     ResolveSource
	ModuleRule RuleTrace
	FieldRule  RuleTrace
	Static     StaticTrace
	CacheHit   bool
}

// ResolveEvent is emitted after resolution for hooks.
type ResolveEvent struct {
	Role   Role
	Module string
	Field  string
	Hidden bool
	Source ResolveSource
	Error  error
	Trace  ResolveTrace
}

// ResolveHook receives resolution events.
type ResolveHook interface {
	OnResolve(ctx context.Context, event ResolveEvent)
}

// ResolveHookFunc wraps a function as a ResolveHook.
type ResolveHookFunc func(context.Context, ResolveEvent)

// OnResolve implements ResolveHook.
func (fn ResolveHookFunc) OnResolve(ctx context.Context, event ResolveEvent) {
	if fn == nil {
		return
	}
	fn(ctx, event)
}
