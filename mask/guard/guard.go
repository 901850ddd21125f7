package guard

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-fieldgate/mask"
	"github.com/goliatone/go-fieldgate/profile"
)

// ErrHidden is returned when a module or field is hidden and no custom
// error is provided.
var ErrHidden = errors.New("hidden for role")

// HiddenError includes the hidden module/field and unwraps to ErrHidden.
type HiddenError struct {
	Module string
	Field  string
}

func (e HiddenError) Error() string {
	if e.Module == "" {
		return ErrHidden.Error()
	}
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrHidden.Error(), e.Module)
	}
	return fmt.Sprintf("%s: %s.%s", ErrHidden.Error(), e.Module, e.Field)
}

func (e HiddenError) Unwrap() error {
	return ErrHidden
}

// Option configures Require behavior.
type Option func(*config)

type config struct {
	hiddenErr   error
	errorMapper func(error) error
	profile     *mask.Profile
}

// WithHiddenError sets the error returned when the target is hidden.
func WithHiddenError(err error) Option {
	return func(c *config) {
		if c == nil {
			return
		}
		c.hiddenErr = err
	}
}

// WithErrorMapper transforms resolver errors before returning them.
func WithErrorMapper(mapper func(error) error) Option {
	return func(c *config) {
		if c == nil {
			return
		}
		c.errorMapper = mapper
	}
}

// WithProfile supplies the profile explicitly instead of reading context.
func WithProfile(p mask.Profile) Option {
	return func(c *config) {
		if c == nil {
			return
		}
		c.profile = &p
	}
}

// RequireModule checks module visibility and returns an error when access
// is denied. Unlike the resolver, the guard fails closed: a nil mask or a
// missing/unrecognized role denies access.
func RequireModule(ctx context.Context, fm mask.FieldMask, module string, opts ...Option) error {
	return require(ctx, fm, module, "", opts...)
}

// RequireField checks field visibility with the same fail-closed policy.
func RequireField(ctx context.Context, fm mask.FieldMask, module, field string, opts ...Option) error {
	return require(ctx, fm, module, field, opts...)
}

func require(ctx context.Context, fm mask.FieldMask, module, field string, opts ...Option) error {
	cfg := &config{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}

	prof, ok := resolveProfile(ctx, cfg)
	if fm == nil || !ok {
		return denied(cfg, module, field)
	}

	var (
		hidden bool
		err    error
	)
	if field == "" {
		hidden, err = fm.ModuleHidden(ctx, module, mask.WithProfile(prof))
	} else {
		hidden, err = fm.FieldHidden(ctx, module, field, mask.WithProfile(prof))
	}
	if err != nil {
		return mapErr(cfg, err)
	}
	if hidden {
		return denied(cfg, module, field)
	}
	return nil
}

func resolveProfile(ctx context.Context, cfg *config) (mask.Profile, bool) {
	if cfg != nil && cfg.profile != nil {
		return *cfg.profile, cfg.profile.HasRole()
	}
	return profile.FromContext(ctx)
}

func denied(cfg *config, module, field string) error {
	if cfg != nil && cfg.hiddenErr != nil {
		return cfg.hiddenErr
	}
	return HiddenError{Module: module, Field: field}
}

func mapErr(cfg *config, err error) error {
	if err == nil {
		return nil
	}
	if cfg != nil && cfg.errorMapper != nil {
		return cfg.errorMapper(err)
	}
	return err
}
