package main

// Options are the global flags and subcommands.
type Options struct {
	ConfigURL string `short:"c" long:"config" description:"settings file URL (yaml)"`
	EnvFile   string `long:"env" description:"dotenv file with CSVTOOLS_* overrides" default:".env"`
	LogLevel  string `long:"log-level" description:"debug, info, warn or error"`
	LogFormat string `long:"log-format" description:"text or json"`

	Parse *Parse `command:"parse" description:"parse a file and print header and rows as JSON"`
	Index *Index `command:"index" description:"index a file by key columns and print it as JSON"`
	Check *Check `command:"check" description:"check that the leading records share one column count"`
}

// Source holds the dialect flags shared by every subcommand.
type Source struct {
	Delimiter string  `short:"d" long:"delimiter" description:"field delimiter"`
	Quote     *string `short:"q" long:"quote" description:"quote character, empty disables quoting"`
	NoHeader  bool    `long:"no-header" description:"first record is data; columns are named 0, 1, ..."`
	Sniff     bool    `long:"sniff" description:"guess delimiter and header from the start of the file"`
}

// Parse is the parse subcommand.
type Parse struct {
	Source
	Fields     []string `short:"f" long:"field" description:"output field as name=column (repeatable)"`
	MaxRecords *int     `short:"n" long:"max-records" description:"stop after n rows"`
	SkipEmpty  bool     `long:"skip-empty" description:"drop blank records"`
	Args       struct {
		File string `positional-arg-name:"file" required:"yes"`
	} `positional-args:"yes"`
}

// Index is the index subcommand.
type Index struct {
	Source
	Keys         []string `short:"k" long:"key" description:"key column as column[:transform] (repeatable)"`
	OnCollision  string   `long:"on-collision" description:"duplicate key policy" choice:"abort" choice:"overwrite" choice:"skip"`
	Separator    string   `long:"separator" description:"composite key separator"`
	RecordLength *int     `long:"record-length" description:"maximum record size in bytes"`
	Args         struct {
		File string `positional-arg-name:"file" required:"yes"`
	} `positional-args:"yes"`
}

// Check is the check subcommand.
type Check struct {
	Source
	Args struct {
		File string `positional-arg-name:"file" required:"yes"`
	} `positional-args:"yes"`
}
