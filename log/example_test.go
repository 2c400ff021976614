package log_test

import (
	"log/slog"
	"os"

	"github.com/ardnew/lispfront/log"
)

func Example() {
	logger := log.Make(os.Stdout,
		log.WithFormat(log.FormatText),
		log.WithPretty(false),
		log.WithTimeLayout("none"),
	)

	logger.Info("processed", slog.Int("line", 0), slog.Int("tokens", 6))
	logger.Debug("suppressed at the default level")

	// Output:
	// level=INFO msg=processed line=0 tokens=6
}

func ExampleLogger_With() {
	logger := log.Make(os.Stdout,
		log.WithPretty(false),
		log.WithTimeLayout("none"),
	).With(slog.String("component", "cache"))

	logger.Warn("capacity reached")

	// Output:
	// {"level":"WARN","msg":"capacity reached","component":"cache"}
}
