// Package cli contains the command line interface for lispfront.
//
// # Usage
//
//	lispfront [flags] <command> [<source>]
//
// Commands:
//   - tokens: print the tokens of each line
//   - check: validate and parse each line, failing if any line fails
//   - tree: print the processed lines as native text, JSON, or YAML,
//     optionally filtered with --where
//   - watch: re-process a file whenever it changes and print what was reused
//   - repl: enter lines interactively
//
// # Configuration
//
// Flags may also be set in config.json or config.yaml in the user
// configuration directory. The YAML form nests flag names:
//
//	lispfront:
//	  log:
//	    level: debug
//	  cache:
//	    ttl: 10m
//
// Command-line flags override configuration files.
//
// # Logging Options
//
//   - --log-level: minimum level (trace, debug, info, warn, error)
//   - --log-format: output format (json, text)
//   - --log-time-layout: timestamp layout (RFC3339, Kitchen, none, ...)
//   - --[no-]log-caller: include caller information
//   - --[no-]log-pretty: colorize output
//
// # Cache Options
//
//   - --cache-capacity: maximum number of cached lines, 0 for unbounded
//   - --cache-ttl: lifetime of a cached line, 0 to never expire
//   - --rebuild-threshold: unchanged fraction below which edits rebuild
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag
// (go build -tags pprof):
//
//   - --pprof-mode: enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: profile output directory (default: the pprof directory
//     under the user cache directory)
package cli
