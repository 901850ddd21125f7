package profile

import (
	"context"
	"strings"

	"github.com/goliatone/go-fieldgate/mask"
)

type contextKey string

const (
	roleKey   contextKey = "fieldgate.role"
	userIDKey contextKey = "fieldgate.user_id"
	branchKey contextKey = "fieldgate.branch"
)

// Metadata field names used when logging profile values.
const (
	MetadataRole   = "profile_role"
	MetadataUserID = "profile_user_id"
	MetadataBranch = "profile_branch"
)

// WithRole stores a role in context.
func WithRole(ctx context.Context, role mask.Role) context.Context {
	return context.WithValue(ctx, roleKey, strings.TrimSpace(string(role)))
}

// WithUserID stores a user identifier in context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, strings.TrimSpace(userID))
}

// WithBranch stores a branch office identifier in context.
func WithBranch(ctx context.Context, branch string) context.Context {
	return context.WithValue(ctx, branchKey, strings.TrimSpace(branch))
}

// Role extracts the role from context. Unrecognized values come back empty.
func Role(ctx context.Context) mask.Role {
	raw := toString(ctx.Value(roleKey))
	if raw == "" {
		return ""
	}
	role, ok := mask.ParseRole(raw)
	if !ok {
		return ""
	}
	return role
}

// UserID extracts the user identifier from context.
func UserID(ctx context.Context) string {
	return toString(ctx.Value(userIDKey))
}

// Branch extracts the branch identifier from context.
func Branch(ctx context.Context) string {
	return toString(ctx.Value(branchKey))
}

// FromContext builds a Profile from context values. The second return
// reports whether a recognized role was present; callers with security
// obligations must fail closed when it is false.
func FromContext(ctx context.Context) (mask.Profile, bool) {
	if ctx == nil {
		return mask.Profile{}, false
	}
	p := mask.Profile{
		Role:   Role(ctx),
		UserID: UserID(ctx),
		Branch: Branch(ctx),
	}
	return p, p.HasRole()
}

// WithProfile stores every profile value in context.
func WithProfile(ctx context.Context, p mask.Profile) context.Context {
	ctx = WithRole(ctx, p.Role)
	ctx = WithUserID(ctx, p.UserID)
	return WithBranch(ctx, p.Branch)
}

func toString(value any) string {
	if value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
