package goauthadapter

import (
	"context"

	"github.com/goliatone/go-auth"
	"github.com/goliatone/go-fieldgate/mask"
)

// ActorExtractor extracts an auth.ActorContext from context.
type ActorExtractor func(context.Context) (*auth.ActorContext, bool)

// Option customizes the profile resolver behavior.
type Option func(*ProfileResolver)

// ProfileResolver derives visibility profiles from go-auth actor context.
type ProfileResolver struct {
	extractor ActorExtractor
}

// NewProfileResolver builds a resolver using go-auth's actor context extractor.
func NewProfileResolver(opts ...Option) *ProfileResolver {
	resolver := &ProfileResolver{
		extractor: auth.ActorFromContext,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(resolver)
		}
	}
	if resolver.extractor == nil {
		resolver.extractor = auth.ActorFromContext
	}
	return resolver
}

// WithActorExtractor overrides the actor context extractor.
func WithActorExtractor(extractor ActorExtractor) Option {
	return func(resolver *ProfileResolver) {
		if resolver == nil {
			return
		}
		resolver.extractor = extractor
	}
}

// Resolve implements mask.ProfileResolver. An absent actor or an
// unrecognized role yields an empty profile, which downstream guards
// treat as hidden.
func (r *ProfileResolver) Resolve(ctx context.Context) (mask.Profile, error) {
	if r == nil || r.extractor == nil {
		return mask.Profile{}, nil
	}
	actor, ok := r.extractor(ctx)
	if !ok || actor == nil {
		return mask.Profile{}, nil
	}
	return ProfileFromActor(actor), nil
}

// ProfileFromActor builds a Profile from an auth.ActorContext.
func ProfileFromActor(actor *auth.ActorContext) mask.Profile {
	if actor == nil {
		return mask.Profile{}
	}
	userID := actor.ActorID
	if userID == "" {
		userID = actor.Subject
	}
	role, _ := mask.ParseRole(actor.Role)
	return mask.Profile{
		Role:   role,
		UserID: userID,
		Branch: actor.OrganizationID,
	}
}

// ActorRefFromActor builds an ActorRef from an auth.ActorContext.
func ActorRefFromActor(actor *auth.ActorContext) mask.ActorRef {
	if actor == nil {
		return mask.ActorRef{}
	}
	id := actor.ActorID
	if id == "" {
		id = actor.Subject
	}
	return mask.ActorRef{
		ID:   id,
		Type: actor.Subject,
		Name: actor.Role,
	}
}

// ActorRefFromContext extracts an ActorRef from context.
func ActorRefFromContext(ctx context.Context) (mask.ActorRef, bool) {
	actor, ok := auth.ActorFromContext(ctx)
	if !ok || actor == nil {
		return mask.ActorRef{}, false
	}
	return ActorRefFromActor(actor), true
}

var _ mask.ProfileResolver = (*ProfileResolver)(nil)
