package fgerrors

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	MetaRole       = "role"
	MetaModule     = "module"
	MetaModuleNorm = "module_norm"
	MetaField      = "field"
	MetaCriterion  = "criterion_code"
	MetaAttribute  = "attribute"
	MetaOperator   = "operator"
	MetaThreshold  = "threshold"
	MetaStore      = "store"
	MetaAdapter    = "adapter"
	MetaDomain     = "domain"
	MetaTable      = "table"
	MetaOperation  = "operation"
	MetaStrict     = "strict"
	MetaPath       = "path"
)

const (
	TextCodeInvalidModule          = "MODULE_KEY_REQUIRED"
	TextCodeInvalidRole            = "ROLE_INVALID"
	TextCodeRuleStoreUnavailable   = "RULE_STORE_REQUIRED"
	TextCodeStoreRequired          = "STORE_REQUIRED"
	TextCodeResolverRequired       = "RESOLVER_REQUIRED"
	TextCodeBuilderRequired        = "URL_BUILDER_REQUIRED"
	TextCodeProfileRequired        = "PROFILE_REQUIRED"
	TextCodeCriteriaUnavailable    = "CRITERIA_SOURCE_REQUIRED"
	TextCodeThresholdRequired      = "COMPLEX_THRESHOLD_REQUIRED"
	TextCodeThresholdInvalid       = "COMPLEX_THRESHOLD_INVALID"
	TextCodeMalformedCriterion     = "CRITERION_MALFORMED"
	TextCodePathRequired           = "PATH_REQUIRED"
	TextCodePathInvalid            = "PATH_INVALID"
	TextCodeRuleTypeInvalid        = "RULE_TYPE_INVALID"
	TextCodePreferencesStoreNeeded = "PREFERENCES_STORE_REQUIRED"
	TextCodeAdapterFailed          = "ADAPTER_FAILED"
	TextCodeStoreReadFailed        = "STORE_READ_FAILED"
	TextCodeStoreWriteFailed       = "STORE_WRITE_FAILED"
	TextCodeCriteriaFetchFailed    = "CRITERIA_FETCH_FAILED"
	TextCodeThresholdFetchFailed   = "THRESHOLD_FETCH_FAILED"
)

var (
	ErrInvalidModule          = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeInvalidModule, "module key required")
	ErrInvalidRole            = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeInvalidRole, "role is not recognized")
	ErrRuleStoreUnavailable   = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeRuleStoreUnavailable, "rule store not configured")
	ErrStoreRequired          = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeStoreRequired, "store is required")
	ErrResolverRequired       = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeResolverRequired, "resolver is required")
	ErrBuilderRequired        = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeBuilderRequired, "url builder is required")
	ErrProfileRequired        = newSentinel(goerrors.CategoryAuth, goerrors.CodeUnauthorized, TextCodeProfileRequired, "profile is required")
	ErrCriteriaUnavailable    = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeCriteriaUnavailable, "criteria source not configured")
	ErrThresholdRequired      = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeThresholdRequired, "complex threshold not configured")
	ErrThresholdInvalid       = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeThresholdInvalid, "complex threshold must be a non-negative integer")
	ErrMalformedCriterion     = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeMalformedCriterion, "criterion condition is malformed")
	ErrPathRequired           = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodePathRequired, "path is required")
	ErrPathInvalid            = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodePathInvalid, "path segment is not a map")
	ErrPreferencesStoreNeeded = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodePreferencesStoreNeeded, "preferences store is required")
)

func newSentinel(category goerrors.Category, code int, textCode, message string) *goerrors.Error {
	err := goerrors.New(message, category).WithTextCode(textCode)
	if code != 0 {
		err.WithCode(code)
	}
	return err
}

func IsSentinel(err error) bool {
	return err == ErrInvalidModule ||
		err == ErrInvalidRole ||
		err == ErrRuleStoreUnavailable ||
		err == ErrStoreRequired ||
		err == ErrResolverRequired ||
		err == ErrBuilderRequired ||
		err == ErrProfileRequired ||
		err == ErrCriteriaUnavailable ||
		err == ErrThresholdRequired ||
		err == ErrThresholdInvalid ||
		err == ErrMalformedCriterion ||
		err == ErrPathRequired ||
		err == ErrPathInvalid ||
		err == ErrPreferencesStoreNeeded
}

func WrapSentinel(sentinel *goerrors.Error, message string, meta map[string]any) *goerrors.Error {
	if sentinel == nil {
		return nil
	}
	if message == "" {
		message = sentinel.Message
	}
	err := goerrors.New(message, sentinel.Category).
		WithTextCode(sentinel.TextCode).
		WithCode(sentinel.Code).
		WithSeverity(sentinel.Severity)
	err.Source = sentinel
	if meta != nil {
		err.WithMetadata(meta)
	}
	return err
}

func Wrap(err error, category goerrors.Category, textCode, message string, meta map[string]any) *goerrors.Error {
	if err == nil {
		return nil
	}
	if IsSentinel(err) {
		if sentinel, ok := err.(*goerrors.Error); ok {
			return WrapSentinel(sentinel, "", meta)
		}
	}
	if rich, ok := err.(*goerrors.Error); ok {
		clone := rich.Clone()
		if clone.TextCode == "" && textCode != "" {
			clone.TextCode = textCode
		}
		if clone.Message == "" && message != "" {
			clone.Message = message
		}
		if meta != nil {
			clone.WithMetadata(meta)
		}
		return clone
	}
	if message == "" {
		message = err.Error()
	}
	wrapped := goerrors.New(message, category).WithTextCode(textCode)
	wrapped.Source = err
	if meta != nil {
		wrapped.WithMetadata(meta)
	}
	return wrapped
}

func New(category goerrors.Category, textCode, message string, meta map[string]any) *goerrors.Error {
	err := goerrors.New(message, category).WithTextCode(textCode)
	if meta != nil {
		err.WithMetadata(meta)
	}
	return err
}

func NewBadInput(textCode, message string, meta map[string]any) *goerrors.Error {
	return New(goerrors.CategoryBadInput, textCode, message, meta)
}

func WrapBadInput(err error, textCode, message string, meta map[string]any) *goerrors.Error {
	return Wrap(err, goerrors.CategoryBadInput, textCode, message, meta)
}

func NewOperation(textCode, message string, meta map[string]any) *goerrors.Error {
	return New(goerrors.CategoryOperation, textCode, message, meta)
}

func WrapOperation(err error, textCode, message string, meta map[string]any) *goerrors.Error {
	return Wrap(err, goerrors.CategoryOperation, textCode, message, meta)
}

func NewExternal(textCode, message string, meta map[string]any) *goerrors.Error {
	return New(goerrors.CategoryExternal, textCode, message, meta)
}

func WrapExternal(err error, textCode, message string, meta map[string]any) *goerrors.Error {
	return Wrap(err, goerrors.CategoryExternal, textCode, message, meta)
}

func NewInternal(textCode, message string, meta map[string]any) *goerrors.Error {
	return New(goerrors.CategoryInternal, textCode, message, meta)
}

func WrapInternal(err error, textCode, message string, meta map[string]any) *goerrors.Error {
	return Wrap(err, goerrors.CategoryInternal, textCode, message, meta)
}

func As(err error) (*goerrors.Error, bool) {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich, true
	}
	return nil, false
}
