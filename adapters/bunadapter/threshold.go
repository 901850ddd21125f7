package bunadapter

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-fieldgate/fgerrors"
	"github.com/goliatone/go-fieldgate/market"
)

// DefaultSettingsTable is the default table name for market settings.
const DefaultSettingsTable = "market_settings"

// DefaultThresholdKey is the settings key holding the complex threshold.
const DefaultThresholdKey = "complex_min_threshold"

// ThresholdSource reads the complex-tier threshold from a Bun DB, fresh
// per classification.
type ThresholdSource struct {
	db    bun.IDB
	table string
	key   string
}

// ThresholdOption customizes the threshold source.
type ThresholdOption func(*ThresholdSource)

// NewThresholdSource constructs a Bun-backed threshold source.
func NewThresholdSource(db bun.IDB, opts ...ThresholdOption) *ThresholdSource {
	source := &ThresholdSource{
		db:    db,
		table: DefaultSettingsTable,
		key:   DefaultThresholdKey,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(source)
		}
	}
	if source.table == "" {
		source.table = DefaultSettingsTable
	}
	if source.key == "" {
		source.key = DefaultThresholdKey
	}
	return source
}

// WithSettingsTable sets the table name used for settings.
func WithSettingsTable(table string) ThresholdOption {
	return func(source *ThresholdSource) {
		if source == nil {
			return
		}
		source.table = strings.TrimSpace(table)
	}
}

// WithThresholdKey sets the settings key used for the threshold.
func WithThresholdKey(key string) ThresholdOption {
	return func(source *ThresholdSource) {
		if source == nil {
			return
		}
		source.key = strings.TrimSpace(key)
	}
}

// MarketSettingRecord maps to the market_settings table.
type MarketSettingRecord struct {
	bun.BaseModel `bun:"table:market_settings"`
	Key           string `bun:"key,pk"`
	Value         int    `bun:"value"`
}

// ComplexThreshold implements market.ThresholdSource. A missing row is a
// configuration error, never a silent default.
func (s *ThresholdSource) ComplexThreshold(ctx context.Context) (int, error) {
	if s == nil || s.db == nil {
		return 0, ErrDBRequired
	}
	record := MarketSettingRecord{}
	query := s.db.NewSelect().Model(&record).
		Where("key = ?", s.key).
		Limit(1)
	if s.table != "" {
		query = query.TableExpr(s.table)
	}
	if err := query.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fgerrors.WrapSentinel(fgerrors.ErrThresholdRequired, "", map[string]any{
				fgerrors.MetaTable:     s.table,
				fgerrors.MetaOperation: "threshold",
			})
		}
		return 0, err
	}
	if record.Value < 0 {
		return 0, fgerrors.WrapSentinel(fgerrors.ErrThresholdInvalid, "", map[string]any{
			fgerrors.MetaThreshold: record.Value,
			fgerrors.MetaTable:     s.table,
		})
	}
	return record.Value, nil
}

var _ market.ThresholdSource = (*ThresholdSource)(nil)
