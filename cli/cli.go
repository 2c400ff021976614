package cli

import (
	"context"
	"strconv"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lispfront/cli/cmd"
	"github.com/ardnew/lispfront/pkg"
	"github.com/ardnew/lispfront/session"
)

// CLI is the top-level command-line interface for lispfront.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`
	Cache cacheConfig `embed:"" group:"cache" prefix:"cache-"`

	RebuildThreshold float64          `default:"${rebuildThreshold}" help:"Rebuild from scratch when fewer than this fraction of processed lines is unchanged."`
	Version          kong.VersionFlag `                              help:"Print version and exit."                                                           short:"V"`

	Tokens cmd.Tokens `cmd:"" help:"Print the tokens of each line."`
	Check  cmd.Check  `cmd:"" help:"Validate and parse each line."`
	Tree   cmd.Tree   `cmd:"" help:"Process a program and print its tree."`
	Watch  cmd.Watch  `cmd:"" help:"Re-process a program whenever it changes."`
	Repl   cmd.Repl   `cmd:"" help:"Process lines interactively."`
}

// Run executes the lispfront CLI with the given context and arguments.
// The exit function is called with the appropriate exit code when kong
// exits early, for example after printing help.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	vars := kong.Vars{
		"version":             pkg.Version,
		"rebuildThreshold":    strconv.FormatFloat(session.DefaultRebuildThreshold, 'f', -1, 64),
		cmd.HistoryIdentifier: cachePath(baseHistory),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars()).
		CloneWith(cli.Cache.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so that the logger is configured before
	// kong reports anything, regardless of flag position.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), cli.Cache.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configPath(baseConfig+".json")),
		kong.Configuration(resolve(pkg.Name),
			configPath(baseConfig+".yaml"),
			configPath(baseConfig+".yml"),
		),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	if err := cli.Cache.validate(); err != nil {
		return err
	}

	cli.Log.start(ctx)

	// Stuff additional context values for use by commands. The provider
	// bound above is evaluated when the command runs and sees these.
	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithSessionOptions(ctx, cli.Cache.options(ctx, cli.RebuildThreshold)...)

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run()
}
