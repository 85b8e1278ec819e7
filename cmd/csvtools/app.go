package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/almaudoh/csvtools/internal/config"
	"github.com/almaudoh/csvtools/internal/logging"
	"github.com/almaudoh/csvtools/pkg/csv"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/viant/afs"
)

// sniffSampleSize is how much of a file --sniff reads.
const sniffSampleSize = 16 * 1024

var errInvalidStructure = errors.New("inconsistent column count")

type app struct {
	fs     afs.Service
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{fs: afs.New(), stdout: stdout, stderr: stderr}
}

// Run parses args and executes the selected subcommand.
func (a *app) Run(ctx context.Context, args []string) error {
	options := &Options{}
	parser := flags.NewParser(options, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			_, _ = io.WriteString(a.stdout, ferr.Message+"\n")
			return nil
		}
		return err
	}

	if err := godotenv.Load(options.EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	cfg := &config.Config{}
	if options.ConfigURL != "" {
		var err error
		if cfg, err = config.NewConfigFromURL(ctx, a.fs, options.ConfigURL); err != nil {
			return err
		}
	}
	level, format := cfg.Logging.Level, cfg.Logging.Format
	if options.LogLevel != "" {
		level = options.LogLevel
	}
	if options.LogFormat != "" {
		format = options.LogFormat
	}
	a.logger = logging.Setup(a.stderr, level, format)

	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(&settings); err != nil {
		return err
	}

	switch parser.Active.Name {
	case "parse":
		return a.parse(ctx, settings, options.Parse)
	case "index":
		return a.index(ctx, settings, options.Index)
	default:
		return a.check(ctx, settings, options.Check)
	}
}

func (a *app) newParser(settings csv.Settings) *csv.Parser {
	return csv.NewParser(
		csv.WithSettings(settings),
		csv.WithFileSystem(a.fs),
		csv.WithLogger(a.logger),
	)
}

// applySource overlays the dialect flags, after an optional sniff of path.
func (a *app) applySource(ctx context.Context, settings *csv.Settings, source Source, path string) error {
	if source.Sniff {
		sample, err := a.sample(ctx, path)
		if err != nil {
			return err
		}
		dialect := csv.Sniff(sample, settings.Quote)
		a.logger.Debug("sniffed dialect", "path", path, "delimiter", string(dialect.Delimiter), "has_header", dialect.HasHeader)
		dialect.Apply(settings)
	}
	if source.Delimiter != "" {
		if err := settings.Set(csv.SettingDelimiter, source.Delimiter); err != nil {
			return err
		}
	}
	if source.Quote != nil {
		if err := settings.Set(csv.SettingQuote, *source.Quote); err != nil {
			return err
		}
	}
	if source.NoHeader {
		settings.HasHeader = false
	}
	return nil
}

func (a *app) sample(ctx context.Context, path string) (string, error) {
	rc, err := a.fs.OpenURL(ctx, path)
	if err != nil {
		return "", &csv.SourceError{Source: path, Err: err}
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, sniffSampleSize))
	if err != nil {
		return "", &csv.SourceError{Source: path, Err: err}
	}
	return string(data), nil
}

type parseOutput struct {
	Header csv.Header `json:"header"`
	Rows   []csv.Row  `json:"rows"`
}

func (a *app) parse(ctx context.Context, settings csv.Settings, cmd *Parse) error {
	if err := a.applySource(ctx, &settings, cmd.Source, cmd.Args.File); err != nil {
		return err
	}
	if len(cmd.Fields) > 0 {
		fm := csv.FieldMap{}
		for _, field := range cmd.Fields {
			m, err := config.ParseMapping(field)
			if err != nil {
				return err
			}
			fm = fm.Set(m.Name, m.Source)
		}
		settings.HeaderMap = fm
	}
	if cmd.MaxRecords != nil {
		settings.MaxRecords = *cmd.MaxRecords
	}
	if cmd.SkipEmpty {
		settings.SkipEmpty = true
	}

	table, err := a.newParser(settings).ParseFile(ctx, cmd.Args.File)
	if err != nil {
		return err
	}
	a.logger.Info("parsed", "path", cmd.Args.File, "rows", table.Len())
	return a.write(parseOutput{Header: table.Header, Rows: table.Rows})
}

type indexOutput struct {
	Header csv.Header         `json:"header"`
	Keys   []string           `json:"keys"`
	Rows   map[string]csv.Row `json:"rows"`
}

func (a *app) index(ctx context.Context, settings csv.Settings, cmd *Index) error {
	if err := a.applySource(ctx, &settings, cmd.Source, cmd.Args.File); err != nil {
		return err
	}
	if len(cmd.Keys) > 0 {
		settings.IndexBy = nil
		for _, key := range cmd.Keys {
			column, err := config.ParseIndexColumn(key)
			if err != nil {
				return err
			}
			settings.IndexBy = append(settings.IndexBy, column)
		}
	}
	if cmd.OnCollision != "" {
		if err := settings.Set(csv.SettingOnCollision, cmd.OnCollision); err != nil {
			return err
		}
	}
	if cmd.Separator != "" {
		settings.SeparatorIndex = cmd.Separator
	}
	if cmd.RecordLength != nil {
		settings.RecordLength = *cmd.RecordLength
	}

	table, err := a.newParser(settings).BuildIndex(ctx, cmd.Args.File)
	if err != nil {
		return err
	}
	a.logger.Info("indexed", "path", cmd.Args.File, "keys", table.Len())
	keys := table.Keys
	if keys == nil {
		keys = []string{}
	}
	return a.write(indexOutput{Header: table.Header, Keys: keys, Rows: table.Rows})
}

type checkOutput struct {
	File  string `json:"file"`
	Valid bool   `json:"valid"`
}

func (a *app) check(ctx context.Context, settings csv.Settings, cmd *Check) error {
	if err := a.applySource(ctx, &settings, cmd.Source, cmd.Args.File); err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	valid := a.newParser(settings).IsStructurallyValid(ctx, cmd.Args.File)
	if err := a.write(checkOutput{File: cmd.Args.File, Valid: valid}); err != nil {
		return err
	}
	if !valid {
		return errInvalidStructure
	}
	return nil
}

func (a *app) write(v any) error {
	encoder := json.NewEncoder(a.stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
