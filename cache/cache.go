package cache

import (
	"context"

	"github.com/goliatone/go-fieldgate/mask"
)

// Entry stores a resolved visibility decision and optional trace.
type Entry struct {
	Hidden bool
	Trace  mask.ResolveTrace
}

// Cache stores resolved visibility decisions by rule key.
type Cache interface {
	Get(ctx context.Context, key mask.RuleKey) (Entry, bool)
	Set(ctx context.Context, key mask.RuleKey, entry Entry)
	Delete(ctx context.Context, key mask.RuleKey)
	Clear(ctx context.Context)
}

// NoopCache ignores all cache operations.
type NoopCache struct{}

// Get implements Cache.
func (NoopCache) Get(context.Context, mask.RuleKey) (Entry, bool) {
	return Entry{}, false
}

// Set implements Cache.
func (NoopCache) Set(context.Context, mask.RuleKey, Entry) {}

// Delete implements Cache.
func (NoopCache) Delete(context.Context, mask.RuleKey) {}

// Clear implements Cache.
func (NoopCache) Clear(context.Context) {}
