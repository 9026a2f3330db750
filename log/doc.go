// Package log provides structured logging handler construction for use with
// [log/slog].
//
// It supports multiple output formats ([FormatJSON], [FormatLogfmt], and
// [FormatText]) and severity levels ([LevelError], [LevelWarn], [LevelInfo],
// and [LevelDebug]). [FormatText] renders colored lines through
// [charm.land/log/v2]. Use [NewHandler] to create a handler directly, or use
// [Config] with CLI flag integration via [github.com/spf13/pflag] and shell
// completion support via [github.com/spf13/cobra].
//
// Typical usage creates a [Config], registers flags, then builds a handler
// at startup:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	handler, err := cfg.NewHandler(os.Stderr)
//	slog.SetDefault(slog.New(handler))
//
// A [Publisher] fans out log output to multiple subscribers. The profile
// viewer uses one to show recent log lines as a table while the terminal is
// taken over by the overlay:
//
//	pub := log.NewPublisher(log.WithBacklog(256))
//	logger := slog.New(log.NewHandler(pub, log.LevelInfo, log.FormatJSON))
//
//	sub := pub.Subscribe()
//	for _, entry := range sub.Drain() {
//		// Append entry to a table.
//	}
//
// [Config.NewTailHandler] builds the JSON handler for such a publisher at the
// level chosen with --log-level.
package log
