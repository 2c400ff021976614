// Package log provides leveled, structured logging on top of [log/slog].
//
// A [Logger] is built once with functional options and is safe for
// concurrent use:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithTimeLayout("kitchen"),
//	)
//	logger.Info("processed line", slog.Int("line", 3))
//
// Besides the slog levels the package defines [LevelTrace], used for
// per-line and per-entry detail that is normally suppressed.
//
// With [WithPretty] (the default) records are colorized for a terminal;
// otherwise the standard slog JSON and text handlers are used.
//
// The zero [Logger] discards everything. Library packages accept a Logger
// through an option and log nothing unless one is given.
//
// A package-level logger writing to standard error backs the functions
// [Info], [Warn], and friends; [Config] reconfigures it.
package log
