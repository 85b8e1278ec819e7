package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/almaudoh/csvtools/pkg/csv"
)

// EnvPrefix prefixes every environment override, e.g. CSVTOOLS_MAX_RECORDS.
const EnvPrefix = "CSVTOOLS_"

var envSettings = []string{
	csv.SettingDelimiter,
	csv.SettingQuote,
	csv.SettingSeparatorIndex,
	csv.SettingIndexBy,
	csv.SettingOnCollision,
	csv.SettingHasHeader,
	csv.SettingHeaderMap,
	csv.SettingMaxRecords,
	csv.SettingRecordLength,
	csv.SettingSkipEmpty,
	csv.SettingTrimSpace,
	csv.SettingLazyQuotes,
	csv.SettingCheckStructure,
}

// ApplyEnv overrides settings from the process environment.
func ApplyEnv(settings *csv.Settings) error {
	return applyEnv(settings, os.LookupEnv)
}

// applyEnv reads CSVTOOLS_<SETTING> for every setting and converts the value
// to the type the setting currently holds. List settings take comma
// separated entries.
func applyEnv(settings *csv.Settings, lookup func(string) (string, bool)) error {
	for _, name := range envSettings {
		envName := EnvPrefix + strings.ToUpper(name)
		raw, ok := lookup(envName)
		if !ok {
			continue
		}
		current, err := settings.Get(name)
		if err != nil {
			return err
		}
		value, err := convert(current, raw)
		if err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, raw, err)
		}
		if err := settings.Set(name, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, raw, err)
		}
	}
	return settings.Validate()
}

func convert(current any, raw string) (any, error) {
	switch current.(type) {
	case rune, string, csv.CollisionPolicy:
		return raw, nil
	case bool:
		return strconv.ParseBool(raw)
	case int:
		return strconv.Atoi(raw)
	case []csv.IndexColumn:
		var columns []csv.IndexColumn
		for _, part := range splitList(raw) {
			column, err := ParseIndexColumn(part)
			if err != nil {
				return nil, err
			}
			columns = append(columns, column)
		}
		return columns, nil
	case csv.FieldMap:
		parts := splitList(raw)
		if len(parts) == 0 {
			return csv.FieldMap(nil), nil
		}
		fm := csv.FieldMap{}
		for _, part := range parts {
			m, err := ParseMapping(part)
			if err != nil {
				return nil, err
			}
			fm = fm.Set(m.Name, m.Source)
		}
		return fm, nil
	}
	return nil, fmt.Errorf("unsupported setting type %T", current)
}

// splitList splits comma separated values and trims white space.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
