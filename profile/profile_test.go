package profile

import (
	"context"
	"testing"

	"github.com/goliatone/go-fieldgate/mask"
)

func TestProfileRoundTrip(t *testing.T) {
	ctx := WithProfile(context.Background(), mask.Profile{
		Role:   mask.RoleFinance,
		UserID: "fin-1",
		Branch: "jakarta",
	})

	prof, ok := FromContext(ctx)
	if !ok {
		t.Fatalf("expected profile with recognized role")
	}
	if prof.Role != mask.RoleFinance || prof.UserID != "fin-1" || prof.Branch != "jakarta" {
		t.Fatalf("unexpected profile: %+v", prof)
	}
}

func TestRoleRejectsUnrecognizedValue(t *testing.T) {
	ctx := WithRole(context.Background(), mask.Role("superuser"))

	if got := Role(ctx); got != "" {
		t.Fatalf("expected unrecognized role to come back empty, got %q", got)
	}
	if _, ok := FromContext(ctx); ok {
		t.Fatalf("expected FromContext to report missing role")
	}
}

func TestFromContextWithoutValues(t *testing.T) {
	prof, ok := FromContext(context.Background())
	if ok {
		t.Fatalf("expected no profile on empty context")
	}
	if prof != (mask.Profile{}) {
		t.Fatalf("expected zero profile, got %+v", prof)
	}
}

func TestIndividualAccessorsTrimValues(t *testing.T) {
	ctx := WithUserID(context.Background(), "  user-9  ")
	ctx = WithBranch(ctx, " surabaya ")

	if got := UserID(ctx); got != "user-9" {
		t.Fatalf("unexpected user id: %q", got)
	}
	if got := Branch(ctx); got != "surabaya" {
		t.Fatalf("unexpected branch: %q", got)
	}
}
