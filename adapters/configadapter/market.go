package configadapter

import (
	"strings"

	"github.com/goliatone/go-fieldgate/fgerrors"
	"github.com/goliatone/go-fieldgate/market"
)

// NewCriteria builds an ordered criteria list from config entries. Each
// entry is a map with code, name, attribute, operator, value, and weight
// keys. Order is preserved; malformed entries surface as configuration
// errors naming the criterion.
func NewCriteria(entries []map[string]any) ([]market.Criterion, error) {
	out := make([]market.Criterion, 0, len(entries))
	for _, entry := range entries {
		criterion := market.Criterion{
			Code: stringValue(entry["code"]),
			Name: stringValue(entry["name"]),
			Condition: market.Condition{
				Attribute: stringValue(entry["attribute"]),
				Operator:  market.Operator(stringValue(entry["operator"])),
				Value:     entry["value"],
			},
		}
		weight, ok := intFromValue(entry["weight"])
		if !ok {
			return nil, fgerrors.WrapSentinel(fgerrors.ErrMalformedCriterion, "criterion weight must be an integer", map[string]any{
				fgerrors.MetaCriterion: criterion.Code,
			})
		}
		criterion.Weight = weight
		if err := criterion.Validate(); err != nil {
			return nil, err
		}
		out = append(out, criterion)
	}
	return out, nil
}

// NewStaticCriteria builds a market.CriteriaSource from config entries.
func NewStaticCriteria(entries []map[string]any) (market.StaticCriteria, error) {
	criteria, err := NewCriteria(entries)
	if err != nil {
		return nil, err
	}
	return market.StaticCriteria(criteria), nil
}

// Threshold reads the complex-tier threshold from a nested config map at
// the delimited path. A missing or negative value is a configuration
// error, never a silent default.
func Threshold(data map[string]any, path string, opts ...Option) (market.StaticThreshold, error) {
	cfg := configOptions{delimiter: "."}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.delimiter == "" {
		cfg.delimiter = "."
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return 0, fgerrors.WrapSentinel(fgerrors.ErrPathRequired, "", map[string]any{
			fgerrors.MetaOperation: "threshold",
		})
	}

	segments := strings.Split(path, cfg.delimiter)
	current := any(data)
	for index, segment := range segments {
		node, ok := current.(map[string]any)
		if !ok {
			return 0, fgerrors.WrapSentinel(fgerrors.ErrPathInvalid, "", map[string]any{
				fgerrors.MetaPath: strings.Join(segments[:index+1], cfg.delimiter),
			})
		}
		current, ok = node[segment]
		if !ok {
			return 0, fgerrors.WrapSentinel(fgerrors.ErrThresholdRequired, "", map[string]any{
				fgerrors.MetaPath: path,
			})
		}
	}

	value, ok := intFromValue(current)
	if !ok {
		return 0, fgerrors.WrapSentinel(fgerrors.ErrThresholdInvalid, "", map[string]any{
			fgerrors.MetaPath:      path,
			fgerrors.MetaThreshold: current,
		})
	}
	if value < 0 {
		return 0, fgerrors.WrapSentinel(fgerrors.ErrThresholdInvalid, "", map[string]any{
			fgerrors.MetaPath:      path,
			fgerrors.MetaThreshold: value,
		})
	}
	return market.StaticThreshold(value), nil
}

func stringValue(value any) string {
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func intFromValue(value any) (int, bool) {
	switch typed := value.(type) {
	case int:
		return typed, true
	case int32:
		return int(typed), true
	case int64:
		return int(typed), true
	case float64:
		if typed == float64(int(typed)) {
			return int(typed), true
		}
		return 0, false
	default:
		return 0, false
	}
}
