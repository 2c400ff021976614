package cli

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/alecthomas/kong"

	"github.com/ardnew/lispfront/cache"
	"github.com/ardnew/lispfront/lang"
	"github.com/ardnew/lispfront/log"
	"github.com/ardnew/lispfront/session"
)

type cacheConfig struct {
	Capacity int           `default:"${cacheCapacity}" help:"Maximum number of cached lines (0 for unbounded)."`
	TTL      time.Duration `default:"${cacheTTL}"      help:"How long a cached line lives (0 to never expire)."`
}

func (cacheConfig) vars() kong.Vars {
	return kong.Vars{
		"cacheCapacity": strconv.Itoa(cache.DefaultCapacity),
		"cacheTTL":      cache.DefaultTTL.String(),
	}
}

func (cacheConfig) group() kong.Group {
	var group kong.Group

	group.Key = "cache"
	group.Title = "Cache options"

	return group
}

// options returns the session options selected by the flags.
func (f cacheConfig) options(ctx context.Context, threshold float64) []session.Option {
	log.DebugContext(ctx, "cache configured",
		slog.Int("capacity", f.Capacity),
		slog.Duration("ttl", f.TTL),
		slog.Float64("rebuild_threshold", threshold),
	)

	return []session.Option{
		session.WithCapacity(f.Capacity),
		session.WithTTL(f.TTL),
		session.WithRebuildThreshold(threshold),
	}
}

var errNegative = lang.NewError("value must not be negative")

func (f cacheConfig) validate() error {
	if f.Capacity < 0 {
		return errNegative.With(slog.String("flag", "cache-capacity"))
	}

	if f.TTL < 0 {
		return errNegative.With(slog.String("flag", "cache-ttl"))
	}

	return nil
}
