package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	tea "charm.land/bubbletea/v2"

	"go.jacobcolvin.com/profview/canvas"
	"go.jacobcolvin.com/profview/version"
	"go.jacobcolvin.com/profview/viewer"
)

var errInvalidArgument = errors.New("invalid argument")

// snapshotBackground is painted under the overlay in PNG snapshots.
var snapshotBackground = color.RGBA{0x28, 0x2a, 0x36, 0xff}

func newRootCmd() *cobra.Command {
	o := newOptions()

	rootCmd := &cobra.Command{
		Use:   "profview [flags]",
		Short: "Browse live profile tables in a terminal overlay",
		Long: `profview hosts the profile table overlay in a terminal program. It shows
frame timings, Go runtime statistics, pprof capture state, recent log
entries, and the top functions of any pprof files given with --pprof.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			if f, ok := out.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
				return runDump(o, out, cmd.ErrOrStderr())
			}

			return runInteractive(o)
		},
	}

	flags := rootCmd.PersistentFlags()
	o.log.RegisterFlags(flags)
	o.profile.RegisterFlags(flags)
	o.viewer.RegisterFlags(flags)
	flags.StringSliceVar(&o.pprof, "pprof", nil, "pprof profile files to show as tables")
	flags.StringVar(&o.sample, "pprof-sample", "", "sample type to rank pprof functions by (default: last in file)")
	flags.IntVar(&o.top, "pprof-top", 30, "number of functions listed per pprof table")
	flags.IntVar(&o.fps, "fps", 10, "refresh rate of the interactive program")
	flags.DurationVar(&o.budget, "budget", 16*time.Millisecond, "frame section time that highlights a row")
	flags.IntVar(&o.logLines, "log-lines", 200, "number of log entries kept in the log table")

	rootCmd.AddCommand(
		newDumpCmd(o),
		newSnapshotCmd(o),
		newKeymapSchemaCmd(),
		newVersionCmd(),
	)

	err := registerCompletions(rootCmd, o)
	if err != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
	}

	return rootCmd
}

func registerCompletions(cmd *cobra.Command, o *options) error {
	err := o.log.RegisterCompletions(cmd)
	if err != nil {
		return err
	}

	err = o.profile.RegisterCompletions(cmd)
	if err != nil {
		return err
	}

	err = o.viewer.RegisterCompletions(cmd)
	if err != nil {
		return err
	}

	err = cmd.RegisterFlagCompletionFunc("pprof",
		cobra.FixedCompletions([]string{"pprof", "prof", "pb.gz"}, cobra.ShellCompDirectiveFilterFileExt))
	if err != nil {
		return fmt.Errorf("registering pprof completion: %w", err)
	}

	noFileComp := cobra.FixedCompletions(nil, cobra.ShellCompDirectiveNoFileComp)
	for _, name := range []string{"pprof-sample", "pprof-top", "fps", "budget", "log-lines"} {
		err = cmd.RegisterFlagCompletionFunc(name, noFileComp)
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", name, err)
		}
	}

	return nil
}

// withApp runs fn with a started [app] and stops profiling afterwards.
func withApp(o *options, echo io.Writer, fn func(a *app) error) error {
	a, err := newApp(o, echo)
	if err != nil {
		return err
	}

	defer a.close()

	err = a.profiler.Start()
	if err != nil {
		return err
	}

	runErr := fn(a)

	return errors.Join(runErr, a.profiler.Stop())
}

func runInteractive(o *options) error {
	if o.fps < 1 {
		return fmt.Errorf("%w: --fps must be at least 1", errInvalidArgument)
	}

	return withApp(o, nil, func(a *app) error {
		cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			return fmt.Errorf("detecting terminal size: %w", err)
		}

		a.logger.Info("starting", "version", version.Short(), "tables", len(a.viewer.Roots()))

		_, err = tea.NewProgram(newModel(a, o.fps, cols, rows)).Run()
		if err != nil {
			return fmt.Errorf("running program: %w", err)
		}

		return nil
	})
}

func runDump(o *options, out, logOut io.Writer) error {
	return withApp(o, logOut, func(a *app) error {
		return a.viewer.Dump(out)
	})
}

func newDumpCmd(o *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Write every table to a file or stdout",
		Long: `dump writes the same text dump as the overlay's save key. With --output
the dump is appended to the file, otherwise it is written to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" || output == "-" {
				return runDump(o, cmd.OutOrStdout(), cmd.ErrOrStderr())
			}

			return withApp(o, cmd.ErrOrStderr(), func(a *app) error {
				f, err := os.OpenFile(output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
				if err != nil {
					return fmt.Errorf("%w: %w", viewer.ErrWriteDump, err)
				}

				err = a.viewer.Dump(f)

				return errors.Join(err, f.Close())
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "file to append the dump to (default: stdout)")

	return cmd
}

func newSnapshotCmd(o *options) *cobra.Command {
	var (
		output string
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the overlay into a PNG image",
		Long: `snapshot renders the overlay, as shown right after it is opened, into a
PNG image. Use --profile-show to pick the table.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if width < 1 || height < 1 {
				return fmt.Errorf("%w: image size %dx%d", errInvalidArgument, width, height)
			}

			return withApp(o, cmd.ErrOrStderr(), func(a *app) error {
				a.viewer.SetVisible(true)

				img := canvas.NewImage(width, height, canvas.WithLineHeight(a.viewer.Layout().LineHeight))
				img.Paint(snapshotBackground)
				a.viewer.RenderProfile(img)

				f, err := os.Create(output) //nolint:gosec // Output path from CLI flag is expected.
				if err != nil {
					return fmt.Errorf("creating snapshot: %w", err)
				}

				err = img.EncodePNG(f)

				return errors.Join(err, f.Close())
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "PNG file to write")
	cmd.Flags().IntVar(&width, "width", 960, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 540, "image height in pixels")

	err := cmd.MarkFlagRequired("output")
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions([]string{"png"}, cobra.ShellCompDirectiveFilterFileExt))
	if err != nil {
		panic(err)
	}

	return cmd
}

func newKeymapSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keymap-schema",
		Short: "Print the JSON Schema of keymap files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			schema, err := viewer.KeymapSchema()
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding schema: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(append(out, '\n'))
			if err != nil {
				return fmt.Errorf("writing schema: %w", err)
			}

			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), version.Info())
			if err != nil {
				return fmt.Errorf("writing version: %w", err)
			}

			return nil
		},
	}
}
