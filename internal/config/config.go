// Package config loads csvtools settings from a YAML file and CSVTOOLS_*
// environment variables.
package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/almaudoh/csvtools/pkg/csv"
	"github.com/pkg/errors"
	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

type (
	// Config is the on-disk configuration.
	Config struct {
		URL            string    `yaml:"-"`
		Delimiter      string    `yaml:"delimiter"`
		Quote          *string   `yaml:"quote"`
		SeparatorIndex string    `yaml:"separatorIndex"`
		IndexBy        []Column  `yaml:"indexBy"`
		OnCollision    string    `yaml:"onCollision"`
		HasHeader      *bool     `yaml:"hasHeader"`
		HeaderMap      []Mapping `yaml:"headerMap"`
		MaxRecords     *int      `yaml:"maxRecords"`
		RecordLength   int       `yaml:"recordLength"`
		SkipEmpty      bool      `yaml:"skipEmpty"`
		TrimSpace      *bool     `yaml:"trimSpace"`
		LazyQuotes     bool      `yaml:"lazyQuotes"`
		CheckStructure *bool     `yaml:"checkStructure"`
		Logging        Logging   `yaml:"logging"`
	}

	// Column references a source column by name or position, with an
	// optional key transform when used in indexBy.
	Column struct {
		Name      string `yaml:"name"`
		Index     *int   `yaml:"index"`
		Transform string `yaml:"transform"`
	}

	// Mapping is one headerMap entry.
	Mapping struct {
		Field  string `yaml:"field"`
		Column `yaml:",inline"`
	}

	// Logging configures the CLI logger.
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	}
)

// NewConfigFromURL downloads and decodes the YAML configuration at URL.
func NewConfigFromURL(ctx context.Context, fs afs.Service, URL string) (*Config, error) {
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to download config: %v", URL)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "failed to decode config: %v", URL)
	}
	cfg.URL = URL
	return cfg, nil
}

// Settings converts the configuration into parser settings, starting from
// csv.DefaultSettings. Unset optional fields keep their defaults.
func (c *Config) Settings() (csv.Settings, error) {
	s := csv.DefaultSettings()
	if c.Delimiter != "" {
		if err := s.Set(csv.SettingDelimiter, c.Delimiter); err != nil {
			return s, err
		}
	}
	if c.Quote != nil {
		if err := s.Set(csv.SettingQuote, *c.Quote); err != nil {
			return s, err
		}
	}
	if c.SeparatorIndex != "" {
		s.SeparatorIndex = c.SeparatorIndex
	}
	for _, col := range c.IndexBy {
		ic, err := col.indexColumn()
		if err != nil {
			return s, err
		}
		s.IndexBy = append(s.IndexBy, ic)
	}
	if c.OnCollision != "" {
		policy, err := csv.ParseCollisionPolicy(c.OnCollision)
		if err != nil {
			return s, err
		}
		s.OnCollision = policy
	}
	if c.HasHeader != nil {
		s.HasHeader = *c.HasHeader
	}
	if len(c.HeaderMap) > 0 {
		fm := csv.FieldMap{}
		for _, m := range c.HeaderMap {
			if m.Field == "" {
				return s, fmt.Errorf("%w: headerMap entry without field", csv.ErrInvalidSetting)
			}
			ref, err := m.Column.ref()
			if err != nil {
				return s, err
			}
			fm = fm.Set(m.Field, ref)
		}
		s.HeaderMap = fm
	}
	if c.MaxRecords != nil {
		s.MaxRecords = *c.MaxRecords
	}
	s.RecordLength = c.RecordLength
	s.SkipEmpty = c.SkipEmpty
	if c.TrimSpace != nil {
		s.TrimSpace = *c.TrimSpace
	}
	s.LazyQuotes = c.LazyQuotes
	if c.CheckStructure != nil {
		s.CheckStructure = *c.CheckStructure
	}
	return s, s.Validate()
}

func (c Column) ref() (csv.ColumnRef, error) {
	switch {
	case c.Index != nil && c.Name != "":
		return csv.ColumnRef{}, fmt.Errorf("%w: column has both name %q and index %d", csv.ErrInvalidSetting, c.Name, *c.Index)
	case c.Index != nil:
		return csv.Index(*c.Index), nil
	case c.Name != "":
		return csv.Name(c.Name), nil
	}
	return csv.ColumnRef{}, fmt.Errorf("%w: column needs a name or an index", csv.ErrInvalidSetting)
}

func (c Column) indexColumn() (csv.IndexColumn, error) {
	ref, err := c.ref()
	if err != nil {
		return csv.IndexColumn{}, err
	}
	ic := csv.IndexColumn{Column: ref}
	if c.Transform != "" {
		transform, ok := csv.LookupTransform(c.Transform)
		if !ok {
			return csv.IndexColumn{}, fmt.Errorf("%w: unknown transform %q", csv.ErrInvalidSetting, c.Transform)
		}
		ic.Transform = transform
	}
	return ic, nil
}

// ParseIndexColumn parses "column" or "column:transform". A non-negative
// integer column is positional.
func ParseIndexColumn(s string) (csv.IndexColumn, error) {
	column, transform, _ := strings.Cut(s, ":")
	c := Column{Transform: transform}
	if i, err := strconv.Atoi(column); err == nil && i >= 0 {
		c.Index = &i
	} else {
		c.Name = column
	}
	return c.indexColumn()
}

// ParseMapping parses "field=column" into a FieldMap entry.
func ParseMapping(s string) (csv.FieldMapping, error) {
	field, column, ok := strings.Cut(s, "=")
	if !ok || field == "" || column == "" {
		return csv.FieldMapping{}, fmt.Errorf("%w: mapping %q, want field=column", csv.ErrInvalidSetting, s)
	}
	return csv.FieldMapping{Name: field, Source: csv.ParseColumnRef(column)}, nil
}
