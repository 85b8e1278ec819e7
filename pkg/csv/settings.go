package csv

import (
	"fmt"
	"unicode/utf8"

	"github.com/almaudoh/csvtools/internal/parser"
)

// NoLimit disables the MaxRecords cap.
const NoLimit = -1

// Setting names accepted by Settings.Get, Settings.Set and Settings.Unset.
const (
	SettingDelimiter      = "delimiter"
	SettingQuote          = "quote"
	SettingSeparatorIndex = "separator_index"
	SettingIndexBy        = "index_by"
	SettingOnCollision    = "on_collision"
	SettingHasHeader      = "has_header"
	SettingHeaderMap      = "header_map"
	SettingMaxRecords     = "max_records"
	SettingRecordLength   = "record_length"
	SettingSkipEmpty      = "skip_empty"
	SettingTrimSpace      = "trim_space"
	SettingLazyQuotes     = "lazy_quotes"
	SettingCheckStructure = "check_structure"
)

// CollisionPolicy decides what BuildIndex does with a duplicate key.
type CollisionPolicy int

const (
	// CollisionAbort stops the build with a *CollisionError (default).
	CollisionAbort CollisionPolicy = iota
	// CollisionOverwrite keeps the last record for a key.
	CollisionOverwrite
	// CollisionSkip keeps the first record for a key.
	CollisionSkip
)

// String returns the string representation of CollisionPolicy.
func (p CollisionPolicy) String() string {
	switch p {
	case CollisionAbort:
		return "abort"
	case CollisionOverwrite:
		return "overwrite"
	case CollisionSkip:
		return "skip"
	default:
		return fmt.Sprintf("CollisionPolicy(%d)", p)
	}
}

// ParseCollisionPolicy parses "abort", "overwrite" or "skip".
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch s {
	case "abort":
		return CollisionAbort, nil
	case "overwrite":
		return CollisionOverwrite, nil
	case "skip":
		return CollisionSkip, nil
	}
	return 0, fmt.Errorf("%w: on_collision %q", ErrInvalidSetting, s)
}

// IndexColumn selects one component of a composite index key.
type IndexColumn struct {
	Column ColumnRef
	// Transform, if set, normalizes the value before it becomes part of the key.
	Transform KeyTransform
}

// Settings configures parsing and index building.
//
// Use DefaultSettings and override fields; the zero value is not a usable
// configuration.
type Settings struct {
	// Delimiter is the field separator. Default: ','
	Delimiter rune
	// Quote wraps fields that embed the delimiter. 0 disables quoting.
	// Default: '"'
	Quote rune
	// SeparatorIndex joins the parts of a composite index key. Default: "|"
	SeparatorIndex string
	// IndexBy lists the key columns for BuildIndex, in key order.
	IndexBy []IndexColumn
	// OnCollision is the duplicate key policy for BuildIndex.
	// Default: CollisionAbort
	OnCollision CollisionPolicy
	// HasHeader treats the first non-blank record as the header. When false a
	// positional header "0", "1", ... is synthesized. Default: true
	HasHeader bool
	// HeaderMap projects every row into a new field order. Nil passes all
	// columns through unchanged.
	HeaderMap FieldMap
	// MaxRecords caps the number of rows returned, counted after blank rows
	// are dropped. Default: NoLimit
	MaxRecords int
	// RecordLength bounds the raw byte length of a record read by BuildIndex.
	// 0 means no limit.
	RecordLength int
	// SkipEmpty drops records whose fields are all empty. Default: false
	SkipEmpty bool
	// TrimSpace trims white space around every field. Default: true
	TrimSpace bool
	// LazyQuotes tolerates quotes inside unquoted fields. Default: false
	LazyQuotes bool
	// CheckStructure rejects input whose first ten non-blank records do not
	// share one column count. Default: true
	CheckStructure bool
}

// DefaultSettings returns the default configuration.
func DefaultSettings() Settings {
	return Settings{
		Delimiter:      ',',
		Quote:          '"',
		SeparatorIndex: "|",
		OnCollision:    CollisionAbort,
		HasHeader:      true,
		MaxRecords:     NoLimit,
		TrimSpace:      true,
		CheckStructure: true,
	}
}

// Get returns the value of the named setting.
func (s *Settings) Get(name string) (any, error) {
	switch name {
	case SettingDelimiter:
		return s.Delimiter, nil
	case SettingQuote:
		return s.Quote, nil
	case SettingSeparatorIndex:
		return s.SeparatorIndex, nil
	case SettingIndexBy:
		return s.IndexBy, nil
	case SettingOnCollision:
		return s.OnCollision, nil
	case SettingHasHeader:
		return s.HasHeader, nil
	case SettingHeaderMap:
		return s.HeaderMap, nil
	case SettingMaxRecords:
		return s.MaxRecords, nil
	case SettingRecordLength:
		return s.RecordLength, nil
	case SettingSkipEmpty:
		return s.SkipEmpty, nil
	case SettingTrimSpace:
		return s.TrimSpace, nil
	case SettingLazyQuotes:
		return s.LazyQuotes, nil
	case SettingCheckStructure:
		return s.CheckStructure, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSetting, name)
}

// Set assigns the named setting. Values must have the setting's type;
// delimiter and quote also accept a one-character string and on_collision
// accepts its string form.
func (s *Settings) Set(name string, value any) error {
	next := *s
	var err error
	switch name {
	case SettingDelimiter:
		next.Delimiter, err = runeValue(name, value)
	case SettingQuote:
		next.Quote, err = runeValue(name, value)
	case SettingSeparatorIndex:
		next.SeparatorIndex, err = typedValue[string](name, value)
	case SettingIndexBy:
		switch v := value.(type) {
		case []IndexColumn:
			next.IndexBy = v
		case IndexColumn:
			next.IndexBy = []IndexColumn{v}
		case ColumnRef:
			next.IndexBy = []IndexColumn{{Column: v}}
		default:
			err = invalidValue(name, value)
		}
	case SettingOnCollision:
		switch v := value.(type) {
		case CollisionPolicy:
			next.OnCollision = v
		case string:
			next.OnCollision, err = ParseCollisionPolicy(v)
		default:
			err = invalidValue(name, value)
		}
	case SettingHasHeader:
		next.HasHeader, err = typedValue[bool](name, value)
	case SettingHeaderMap:
		if value == nil {
			s.HeaderMap = nil
			return nil
		}
		next.HeaderMap, err = typedValue[FieldMap](name, value)
	case SettingMaxRecords:
		next.MaxRecords, err = typedValue[int](name, value)
	case SettingRecordLength:
		next.RecordLength, err = typedValue[int](name, value)
	case SettingSkipEmpty:
		next.SkipEmpty, err = typedValue[bool](name, value)
	case SettingTrimSpace:
		next.TrimSpace, err = typedValue[bool](name, value)
	case SettingLazyQuotes:
		next.LazyQuotes, err = typedValue[bool](name, value)
	case SettingCheckStructure:
		next.CheckStructure, err = typedValue[bool](name, value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSetting, name)
	}
	if err != nil {
		return err
	}
	*s = next
	return nil
}

// Unset restores the named setting to its default.
func (s *Settings) Unset(name string) error {
	defaults := DefaultSettings()
	value, err := defaults.Get(name)
	if err != nil {
		return err
	}
	return s.Set(name, value)
}

// Validate checks that the settings can drive a parse.
func (s Settings) Validate() error {
	if !validDelim(s.Delimiter) {
		return &OptionsError{Field: "Delimiter", Message: "invalid delimiter"}
	}
	if s.Quote != 0 {
		if !validDelim(s.Quote) && s.Quote != '"' {
			return &OptionsError{Field: "Quote", Message: "invalid quote character"}
		}
		if s.Quote == s.Delimiter {
			return &OptionsError{Field: "Quote", Message: "quote character same as delimiter"}
		}
	}
	if s.MaxRecords < NoLimit {
		return &OptionsError{Field: "MaxRecords", Message: "must be NoLimit or non-negative"}
	}
	if s.RecordLength < 0 {
		return &OptionsError{Field: "RecordLength", Message: "must be non-negative"}
	}
	if s.OnCollision < CollisionAbort || s.OnCollision > CollisionSkip {
		return &OptionsError{Field: "OnCollision", Message: s.OnCollision.String()}
	}
	return nil
}

// readerOptions maps the settings onto the record reader.
func (s Settings) readerOptions() parser.Options {
	return parser.Options{
		Delimiter:  s.Delimiter,
		Quote:      s.Quote,
		LazyQuotes: s.LazyQuotes,
		TrimSpace:  s.TrimSpace,
	}
}

// validDelim reports whether r can separate fields. The double quote is
// rejected here and allowed separately as a quote character.
func validDelim(r rune) bool {
	return r != 0 && r != '"' && r != '\r' && r != '\n' && utf8.ValidRune(r) && r != utf8.RuneError
}

func runeValue(name string, value any) (rune, error) {
	switch v := value.(type) {
	case rune:
		return v, nil
	case string:
		if v == "" && name == SettingQuote {
			return 0, nil
		}
		if utf8.RuneCountInString(v) == 1 {
			r, _ := utf8.DecodeRuneInString(v)
			return r, nil
		}
	}
	return 0, invalidValue(name, value)
}

func typedValue[T any](name string, value any) (T, error) {
	v, ok := value.(T)
	if !ok {
		var zero T
		return zero, invalidValue(name, value)
	}
	return v, nil
}

func invalidValue(name string, value any) error {
	return fmt.Errorf("%w: %s cannot be %T(%v)", ErrInvalidSetting, name, value, value)
}
