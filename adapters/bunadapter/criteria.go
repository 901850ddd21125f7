package bunadapter

import (
	"context"
	"errors"
	"strings"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-fieldgate/market"
)

// DefaultCriteriaTable is the default table name for complexity criteria.
const DefaultCriteriaTable = "complexity_criteria"

// ErrAmbiguousValue indicates a criterion row with more than one value column set.
var ErrAmbiguousValue = errors.New("bunadapter: criterion row sets multiple value columns")

// CriteriaSource reads ordered complexity criteria from a Bun DB.
type CriteriaSource struct {
	db    bun.IDB
	table string
}

// CriteriaOption customizes the criteria source.
type CriteriaOption func(*CriteriaSource)

// NewCriteriaSource constructs a Bun-backed criteria source.
func NewCriteriaSource(db bun.IDB, opts ...CriteriaOption) *CriteriaSource {
	source := &CriteriaSource{
		db:    db,
		table: DefaultCriteriaTable,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(source)
		}
	}
	if source.table == "" {
		source.table = DefaultCriteriaTable
	}
	return source
}

// WithCriteriaTable sets the table name used for criteria.
func WithCriteriaTable(table string) CriteriaOption {
	return func(source *CriteriaSource) {
		if source == nil {
			return
		}
		source.table = strings.TrimSpace(table)
	}
}

// CriterionRecord maps to the complexity_criteria table. Exactly one of
// the value columns should be set for comparison operators.
type CriterionRecord struct {
	bun.BaseModel `bun:"table:complexity_criteria"`
	Code          string   `bun:"criteria_code,pk"`
	Name          string   `bun:"criteria_name"`
	Attribute     string   `bun:"attribute"`
	Operator      string   `bun:"operator"`
	ValueNum      *float64 `bun:"value_num,nullzero"`
	ValueBool     *bool    `bun:"value_bool,nullzero"`
	ValueText     *string  `bun:"value_text,nullzero"`
	Weight        int      `bun:"weight"`
	Position      int      `bun:"position"`
	Active        bool     `bun:"active"`
}

// Snapshot implements market.CriteriaSource. Rows come back ordered by
// position so the factor order of a classification is stable.
func (s *CriteriaSource) Snapshot(ctx context.Context) ([]market.Criterion, error) {
	if s == nil || s.db == nil {
		return nil, ErrDBRequired
	}
	records := []CriterionRecord{}
	query := s.db.NewSelect().Model(&records).
		Where("active = ?", true).
		Order("position ASC")
	if s.table != "" {
		query = query.TableExpr(s.table)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]market.Criterion, 0, len(records))
	for _, record := range records {
		criterion, err := criterionFromRecord(record)
		if err != nil {
			return nil, err
		}
		out = append(out, criterion)
	}
	return out, nil
}

func criterionFromRecord(record CriterionRecord) (market.Criterion, error) {
	value, err := recordValue(record)
	if err != nil {
		return market.Criterion{}, err
	}
	return market.Criterion{
		Code: record.Code,
		Name: record.Name,
		Condition: market.Condition{
			Attribute: record.Attribute,
			Operator:  market.Operator(record.Operator),
			Value:     value,
		},
		Weight: record.Weight,
	}, nil
}

func recordValue(record CriterionRecord) (any, error) {
	set := 0
	var value any
	if record.ValueNum != nil {
		set++
		value = *record.ValueNum
	}
	if record.ValueBool != nil {
		set++
		value = *record.ValueBool
	}
	if record.ValueText != nil {
		set++
		value = *record.ValueText
	}
	if set > 1 {
		return nil, ErrAmbiguousValue
	}
	return value, nil
}

var _ market.CriteriaSource = (*CriteriaSource)(nil)
