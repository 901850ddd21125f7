package bunadapter

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-fieldgate/mask"
	"github.com/goliatone/go-fieldgate/rules"
)

// DefaultRulesTable is the default table name for visibility rules.
const DefaultRulesTable = "visibility_rules"

// ErrDBRequired indicates the underlying Bun DB is missing.
var ErrDBRequired = errors.New("bunadapter: db is required")

// ErrInvalidKey indicates a rule key with an unknown role or empty module.
var ErrInvalidKey = errors.New("bunadapter: valid role and module key required")

// Store adapts Bun DB operations to runtime visibility rules.
type Store struct {
	db        bun.IDB
	table     string
	now       func() time.Time
	updatedBy func(mask.ActorRef) string
}

// Option customizes the Bun store adapter.
type Option func(*Store)

// NewStore constructs a new Bun-backed rule store.
func NewStore(db bun.IDB, opts ...Option) *Store {
	adapter := &Store{
		db:        db,
		table:     DefaultRulesTable,
		now:       time.Now,
		updatedBy: defaultUpdatedBy,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}
	if adapter.table == "" {
		adapter.table = DefaultRulesTable
	}
	if adapter.now == nil {
		adapter.now = time.Now
	}
	if adapter.updatedBy == nil {
		adapter.updatedBy = defaultUpdatedBy
	}
	return adapter
}

// WithTable sets the table name used for rules.
func WithTable(table string) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.table = strings.TrimSpace(table)
	}
}

// WithNowFunc overrides the timestamp function used for updates.
func WithNowFunc(now func() time.Time) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.now = now
	}
}

// WithUpdatedByBuilder overrides the updated_by value builder.
func WithUpdatedByBuilder(builder func(mask.ActorRef) string) Option {
	return func(adapter *Store) {
		if adapter == nil {
			return
		}
		adapter.updatedBy = builder
	}
}

// VisibilityRuleRecord maps to the visibility_rules table.
type VisibilityRuleRecord struct {
	bun.BaseModel `bun:"table:visibility_rules"`
	Role          string    `bun:"role,pk"`
	Module        string    `bun:"module,pk"`
	Field         string    `bun:"field,pk"`
	Hidden        *bool     `bun:"hidden,nullzero"`
	UpdatedBy     string    `bun:"updated_by,nullzero"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero"`
}

// Get implements rules.Reader.
func (s *Store) Get(ctx context.Context, key mask.RuleKey) (rules.Decision, error) {
	if s == nil || s.db == nil {
		return rules.MissingDecision(), ErrDBRequired
	}
	normalized, err := normalizeKey(key)
	if err != nil {
		return rules.MissingDecision(), err
	}
	record := VisibilityRuleRecord{}
	query := s.db.NewSelect().Model(&record).
		Where("role = ?", string(normalized.Role)).
		Where("module = ?", normalized.Module).
		Where("field = ?", normalized.Field).
		Limit(1)
	if s.table != "" {
		query = query.TableExpr(s.table)
	}
	if err := query.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return rules.MissingDecision(), nil
		}
		return rules.MissingDecision(), err
	}
	return decisionFromRecord(record), nil
}

// Set implements rules.Writer.
func (s *Store) Set(ctx context.Context, key mask.RuleKey, hidden bool, actor mask.ActorRef) error {
	if s == nil || s.db == nil {
		return ErrDBRequired
	}
	normalized, err := normalizeKey(key)
	if err != nil {
		return err
	}
	return s.upsert(ctx, normalized, boolPtr(hidden), actor)
}

// Unset implements rules.Writer.
func (s *Store) Unset(ctx context.Context, key mask.RuleKey, actor mask.ActorRef) error {
	if s == nil || s.db == nil {
		return ErrDBRequired
	}
	normalized, err := normalizeKey(key)
	if err != nil {
		return err
	}
	return s.upsert(ctx, normalized, nil, actor)
}

// Delete removes a stored rule row.
func (s *Store) Delete(ctx context.Context, key mask.RuleKey) error {
	if s == nil || s.db == nil {
		return ErrDBRequired
	}
	normalized, err := normalizeKey(key)
	if err != nil {
		return err
	}
	query := s.db.NewDelete().
		Where("role = ?", string(normalized.Role)).
		Where("module = ?", normalized.Module).
		Where("field = ?", normalized.Field)
	if s.table != "" {
		query = query.TableExpr(s.table)
	}
	_, err = query.Exec(ctx)
	return err
}

func (s *Store) upsert(ctx context.Context, key mask.RuleKey, hidden *bool, actor mask.ActorRef) error {
	record := VisibilityRuleRecord{
		Role:      string(key.Role),
		Module:    key.Module,
		Field:     key.Field,
		Hidden:    hidden,
		UpdatedBy: s.updatedBy(actor),
		UpdatedAt: s.now(),
	}
	query := s.db.NewInsert().Model(&record).
		On("CONFLICT (role, module, field) DO UPDATE").
		Set("hidden = EXCLUDED.hidden").
		Set("updated_by = EXCLUDED.updated_by").
		Set("updated_at = EXCLUDED.updated_at")
	if s.table != "" {
		query = query.TableExpr(s.table)
	}
	_, err := query.Exec(ctx)
	return err
}

func defaultUpdatedBy(actor mask.ActorRef) string {
	if actor.ID != "" {
		return actor.ID
	}
	if actor.Name != "" {
		return actor.Name
	}
	if actor.Type != "" {
		return actor.Type
	}
	return ""
}

func normalizeKey(key mask.RuleKey) (mask.RuleKey, error) {
	role, ok := mask.ParseRole(string(key.Role))
	if !ok {
		return mask.RuleKey{}, ErrInvalidKey
	}
	module := mask.NormalizeModule(key.Module)
	if module == "" {
		return mask.RuleKey{}, ErrInvalidKey
	}
	return mask.RuleKey{Role: role, Module: module, Field: mask.NormalizeField(key.Field)}, nil
}

func boolPtr(value bool) *bool {
	return &value
}

func decisionFromRecord(record VisibilityRuleRecord) rules.Decision {
	if record.Hidden == nil {
		return rules.UnsetDecision()
	}
	if *record.Hidden {
		return rules.HiddenDecision()
	}
	return rules.VisibleDecision()
}

var _ rules.ReadWriter = (*Store)(nil)
