package log

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags names the CLI flags read by [Config]. Hosts that already own a
// --log-level flag can pick other names and call [Flags.NewConfig].
type Flags struct {
	Level  string
	Format string
}

// NewConfig creates a [Config] bound to these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{Flags: f}
}

// Config holds the log level and format chosen on the command line.
//
// The level applies to every handler built from c. The format only shapes
// the host's own output from [Config.NewHandler]; entries read back by a log
// table through a [Publisher] are always JSON, see [Config.NewTailHandler].
//
// Create instances with [NewConfig] and register flags with
// [Config.RegisterFlags].
type Config struct {
	Level  string
	Format string
	Flags  Flags
}

// NewConfig returns a [Config] using the --log-level and --log-format flags.
// The zero values select [LevelInfo] and [FormatText].
func NewConfig() *Config {
	return Flags{
		Level:  "log-level",
		Format: "log-format",
	}.NewConfig()
}

// RegisterFlags adds the level and format flags to flags.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Level, c.Flags.Level, string(LevelInfo),
		"lowest level logged, including in the log table: "+strings.Join(GetAllLevelStrings(), ", "))
	flags.StringVar(&c.Format, c.Flags.Format, string(FormatText),
		"format of log output written outside the overlay: "+strings.Join(GetAllFormatStrings(), ", "))
}

// RegisterCompletions completes the level and format flags of cmd with their
// accepted values.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	completions := []struct {
		flag   string
		values []string
	}{
		{c.Flags.Level, GetAllLevelStrings()},
		{c.Flags.Format, GetAllFormatStrings()},
	}

	for _, comp := range completions {
		err := cmd.RegisterFlagCompletionFunc(comp.flag,
			cobra.FixedCompletions(comp.values, cobra.ShellCompDirectiveNoFileComp))
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", comp.flag, err)
		}
	}

	return nil
}

// NewHandler creates a [Handler] writing to w in the configured level and
// format. See [NewHandlerFromStrings] for the errors returned.
func (c *Config) NewHandler(w io.Writer) (Handler, error) {
	format := c.Format
	if format == "" {
		format = string(FormatText)
	}

	return NewHandlerFromStrings(w, c.level(), format)
}

// NewTailHandler creates a [FormatJSON] [Handler] writing to w at the
// configured level. Use it to feed a [Publisher] whose entries are parsed
// back into a table.
func (c *Config) NewTailHandler(w io.Writer) (Handler, error) {
	return NewHandlerFromStrings(w, c.level(), string(FormatJSON))
}

func (c *Config) level() string {
	if c.Level == "" {
		return string(LevelInfo)
	}

	return c.Level
}
