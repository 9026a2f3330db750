package viewer

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Flags holds CLI flag names for viewer configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	LogDir     string
	File       string
	Keymap     string
	MaxRows    string
	LineHeight string
	CharWidth  string
	Show       string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
	}
}

// Config holds CLI flag values for the profile viewer.
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags]. Use [Config.NewViewer] to create a [Viewer].
// Zero numeric values fall back to [DefaultLayout].
type Config struct {
	Flags Flags

	// Dump location.
	LogDir string
	File   string

	// Keymap file path (empty = built-in bindings).
	Keymap string

	// Root table shown at startup (empty = first root, hidden).
	Show string

	// Layout.
	MaxRows    int
	LineHeight int
	CharWidth  int
}

// NewConfig returns a new [Config] with default flag names.
// Use [Config.RegisterFlags] to add CLI flags, or set values directly.
func NewConfig() *Config {
	f := Flags{
		LogDir:     "profile-log-dir",
		File:       "profile-file",
		Keymap:     "profile-keymap",
		MaxRows:    "profile-max-rows",
		LineHeight: "profile-line-height",
		CharWidth:  "profile-char-width",
		Show:       "profile-show",
	}

	return f.NewConfig()
}

// RegisterFlags adds viewer flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	def := DefaultLayout()

	flags.StringVar(&c.LogDir, c.Flags.LogDir, "logs", "directory for profile table dumps")
	flags.StringVar(&c.File, c.Flags.File, "profile.txt", "file name for profile table dumps")
	flags.StringVar(&c.Keymap, c.Flags.Keymap, "", "YAML file with key bindings")
	flags.StringVar(&c.Show, c.Flags.Show, "", "name of the root table to show at startup")
	flags.IntVar(&c.MaxRows, c.Flags.MaxRows, def.MaxRows, "table rows shown at once")
	flags.IntVar(&c.LineHeight, c.Flags.LineHeight, def.LineHeight, "overlay line height in pixels")
	flags.IntVar(&c.CharWidth, c.Flags.CharWidth, def.CharWidth, "overlay character width in pixels")
}

// RegisterCompletions registers shell completions for viewer flags on cmd.
// The keymap flag completes YAML files; numeric flags disable file completion.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Keymap,
		cobra.FixedCompletions([]string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Keymap, err)
	}

	err = cmd.RegisterFlagCompletionFunc(c.Flags.LogDir,
		cobra.FixedCompletions(nil, cobra.ShellCompDirectiveFilterDirs))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.LogDir, err)
	}

	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, name := range []string{c.Flags.MaxRows, c.Flags.LineHeight, c.Flags.CharWidth, c.Flags.Show} {
		err = cmd.RegisterFlagCompletionFunc(name, noFileComp)
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", name, err)
		}
	}

	return nil
}

// DumpPath returns the file [Viewer.SaveToFile] appends to.
func (c *Config) DumpPath() string {
	if c.LogDir == "" && c.File == "" {
		return DefaultDumpPath
	}

	file := c.File
	if file == "" {
		file = filepath.Base(DefaultDumpPath)
	}

	return filepath.Join(c.LogDir, file)
}

// Layout returns the overlay geometry described by c.
func (c *Config) Layout() Layout {
	l := DefaultLayout()
	if c.MaxRows > 0 {
		l.MaxRows = c.MaxRows
	}

	if c.LineHeight > 0 {
		l.LineHeight = c.LineHeight
	}

	if c.CharWidth > 0 {
		l.CharWidth = c.CharWidth
	}

	return l
}

// NewViewer creates a [Viewer] from c. Options are applied after the
// configuration and take precedence.
func (c *Config) NewViewer(opts ...Option) (*Viewer, error) {
	km := DefaultKeymap()

	if c.Keymap != "" {
		var err error

		km, err = LoadKeymap(c.Keymap)
		if err != nil {
			return nil, err
		}
	}

	base := []Option{
		WithKeymap(km),
		WithLayout(c.Layout()),
		WithDumpPath(c.DumpPath()),
	}

	return New(append(base, opts...)...), nil
}
