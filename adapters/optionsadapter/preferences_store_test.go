package optionsadapter

import (
	"context"
	"testing"

	"github.com/goliatone/go-admin/admin"
	"github.com/goliatone/go-options/pkg/state"

	"github.com/goliatone/go-fieldgate/mask"
	"github.com/goliatone/go-fieldgate/profile"
)

func TestPreferencesStoreAdapterSetAndGet(t *testing.T) {
	ctx := profile.WithBranch(context.Background(), "jakarta")
	prefs := admin.NewInMemoryPreferencesStore()
	stateStore := NewPreferencesStoreAdapter(prefs)
	store := NewStore(stateStore)

	key := mask.RuleKey{Role: mask.RoleFinance, Module: "invoices", Field: "margin"}
	if err := store.Set(ctx, key, true, mask.ActorRef{ID: "actor-1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decision, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.State != mask.RuleStateHidden {
		t.Fatalf("expected hidden decision, got %q", decision.State)
	}

	snapshot, err := prefs.Resolve(ctx, admin.PreferencesResolveInput{
		Scope:  admin.PreferenceScope{OrgID: "jakarta"},
		Levels: []admin.PreferenceLevel{admin.PreferenceLevelOrg},
		Keys:   []string{"visibility_rules.finance.invoices.margin"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.Effective["visibility_rules.finance.invoices.margin"] != true {
		t.Fatalf("expected stored preference value to be true")
	}
}

func TestPreferencesStoreAdapterSystemLevel(t *testing.T) {
	ctx := context.Background()
	prefs := admin.NewInMemoryPreferencesStore()
	stateStore := NewPreferencesStoreAdapter(prefs)
	store := NewStore(stateStore)

	key := mask.RuleKey{Role: mask.RoleViewer, Module: "invoices"}
	if err := store.Set(ctx, key, true, mask.ActorRef{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snapshot, err := prefs.Resolve(ctx, admin.PreferencesResolveInput{
		Scope:  admin.PreferenceScope{},
		Levels: []admin.PreferenceLevel{admin.PreferenceLevelSystem},
		Keys:   []string{"visibility_rules.viewer.invoices." + moduleLeaf},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snapshot.Effective["visibility_rules.viewer.invoices."+moduleLeaf] != true {
		t.Fatalf("expected stored module-wide rule")
	}
}

func TestPreferencesStoreAdapterUnsetDeletesKey(t *testing.T) {
	ctx := context.Background()
	prefs := admin.NewInMemoryPreferencesStore()
	stateStore := NewPreferencesStoreAdapter(prefs)
	store := NewStore(stateStore)

	key := mask.RuleKey{Role: mask.RoleFinance, Module: "invoices", Field: "margin"}
	if err := store.Set(ctx, key, true, mask.ActorRef{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Unset(ctx, key, mask.ActorRef{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decision, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.State != mask.RuleStateMissing {
		t.Fatalf("expected missing decision after unset, got %q", decision.State)
	}
}

func TestPreferencesStoreAdapterWithoutStore(t *testing.T) {
	adapter := NewPreferencesStoreAdapter(nil)

	ref := state.Ref{Domain: DefaultDomain, Scope: writeScope("")}
	if _, _, _, err := adapter.Load(context.Background(), ref); err != ErrPreferencesStoreRequired {
		t.Fatalf("expected preferences store required error, got %v", err)
	}
}
