// Package session drives incremental processing of a line-oriented Lisp
// program.
//
// A [Session] validates and parses one line at a time and caches each
// result under the content key of its tokens. After an edit, the caller
// asks [Session.ShouldRebuild] whether enough of the already processed
// prefix survived to continue, and either resumes with
// [Session.InvalidateFrom] or starts over with [Session.Reset].
// [Session.Sync] performs that whole cycle for a complete program.
//
// A Session has a single owner and is not safe for concurrent use. Its
// cache is, and may be shared with [WithCache].
package session

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/ardnew/lispfront/cache"
	"github.com/ardnew/lispfront/lang"
	"github.com/ardnew/lispfront/lang/sexpr"
	"github.com/ardnew/lispfront/lang/token"
	"github.com/ardnew/lispfront/log"
)

// DefaultRebuildThreshold is the prefix match ratio below which
// [Session.ShouldRebuild] asks for a full rebuild.
const DefaultRebuildThreshold = 0.5

// Cache is the content cache a session stores processed units in.
type Cache = cache.Cache[lang.Key, *lang.Unit]

// NewCache returns a cache suitable for [WithCache].
func NewCache(opts ...cache.Option) *Cache {
	return cache.New[lang.Key, *lang.Unit](opts...)
}

// State is the coarse progress of a session.
type State int

const (
	Empty      State = iota // empty
	Processing              // processing
	Complete                // complete
)

func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case Processing:
		return "processing"
	case Complete:
		return "complete"
	}

	return "unknown"
}

// Session tracks how far a program has been processed and caches the
// processed units.
type Session struct {
	parser    lang.Parser
	cache     *Cache
	logger    log.Logger
	threshold float64
	frontier  int
	total     int
}

// Option configures a [Session].
type Option func(*config)

type config struct {
	cache     *Cache
	logger    log.Logger
	cacheOpts []cache.Option
	threshold float64
}

// WithCache makes the session store units in c instead of a cache of its
// own. Capacity and TTL options are then ignored.
func WithCache(c *Cache) Option {
	return func(cfg *config) { cfg.cache = c }
}

// WithCapacity bounds the number of cached units. Zero means unbounded.
func WithCapacity(n int) Option {
	return func(cfg *config) {
		cfg.cacheOpts = append(cfg.cacheOpts, cache.WithCapacity(n))
	}
}

// WithTTL sets how long a cached unit lives.
func WithTTL(d time.Duration) Option {
	return func(cfg *config) {
		cfg.cacheOpts = append(cfg.cacheOpts, cache.WithTTL(d))
	}
}

// WithLogger sets the session's logger. It is also given to the session's
// own cache.
func WithLogger(l log.Logger) Option {
	return func(cfg *config) { cfg.logger = l }
}

// WithRebuildThreshold sets the prefix match ratio below which
// [Session.ShouldRebuild] reports true. Values outside (0, 1] are ignored.
func WithRebuildThreshold(ratio float64) Option {
	return func(cfg *config) {
		if ratio > 0 && ratio <= 1 {
			cfg.threshold = ratio
		}
	}
}

// New returns an empty session that parses lines with p. A nil p selects
// the default s-expression reader.
func New(p lang.Parser, opts ...Option) *Session {
	cfg := config{threshold: DefaultRebuildThreshold}

	for _, opt := range opts {
		opt(&cfg)
	}

	if p == nil {
		p = sexpr.New()
	}

	if cfg.cache == nil {
		cfg.cache = NewCache(append(cfg.cacheOpts,
			cache.WithLogger(cfg.logger.With(slog.String("component", "cache"))),
		)...)
	}

	return &Session{
		parser:    p,
		cache:     cfg.cache,
		logger:    cfg.logger,
		threshold: cfg.threshold,
	}
}

// Cache returns the session's cache.
func (s *Session) Cache() *Cache { return s.cache }

// State reports whether the session is empty, processing, or complete.
func (s *Session) State() State {
	switch {
	case s.IsComplete():
		return Complete
	case s.frontier == 0:
		return Empty
	default:
		return Processing
	}
}

// SetTotalLines records the number of lines the program is expected to
// have. It does not touch the cache.
func (s *Session) SetTotalLines(n int) {
	s.total = max(n, 0)
}

// Process validates and parses the tokens of source line and caches the
// result.
//
// A line containing a lexical error fails with [lang.ErrInvalidToken];
// a structurally invalid line fails with the validator's error; a parser
// failure is wrapped in [lang.ErrParse]. On failure neither the cache nor
// the frontier changes.
//
// On success the frontier becomes line+1, even when line is not the next
// line after the frontier.
func (s *Session) Process(ctx context.Context, tokens []token.Token, line int) error {
	return s.process(ctx, tokens, line, false)
}

// process implements Process. When gapOK is set the caller knows every line
// between the frontier and line is blank, and an out-of-order line is not
// reported.
func (s *Session) process(ctx context.Context, tokens []token.Token, line int, gapOK bool) error {
	for _, t := range tokens {
		if t.Kind == token.Error {
			return lang.ErrInvalidToken.Wrap(errors.New(t.Lexeme)).
				With(slog.Int("line", line))
		}
	}

	if err := lang.Validate(tokens); err != nil {
		return err
	}

	text := lang.Render(tokens)

	value, err := s.parser.Parse(ctx, text)
	if err != nil {
		return lang.ErrParse.Wrap(err).With(
			slog.Int("line", line),
			slog.String("text", text),
		)
	}

	key := lang.Hash(tokens)
	s.cache.Put(key, lang.NewUnit(tokens, line, value))

	if line != s.frontier && !gapOK {
		s.logger.WarnContext(ctx, "processed line out of order",
			slog.Int("line", line),
			slog.Int("frontier", s.frontier),
		)
	}

	s.frontier = line + 1

	s.logger.TraceContext(ctx, "processed line",
		slog.Int("line", line),
		slog.String("key", key.String()),
		slog.Int("tokens", len(tokens)),
	)

	return nil
}

// matchedPrefix counts the leading candidates, up to the frontier, whose
// content is cached. Counting stops at the first miss.
func (s *Session) matchedPrefix(candidates [][]token.Token) int {
	n := min(s.frontier, len(candidates))

	for i := range n {
		if !s.cache.Contains(lang.Hash(candidates[i])) {
			return i
		}
	}

	return n
}

// ShouldRebuild reports whether candidates, the tokens of every line of an
// edited program, differ from what was processed so much that starting over
// is preferable to resuming.
//
// It is true for an empty session or no candidates. Otherwise the leading
// candidates are looked up in the cache until the first miss, and the
// result is true when fewer than the threshold ratio (by default
// [DefaultRebuildThreshold]) of the frontier's lines matched.
func (s *Session) ShouldRebuild(candidates [][]token.Token) bool {
	if s.frontier == 0 || len(candidates) == 0 {
		return true
	}

	matches := s.matchedPrefix(candidates)
	ratio := float64(matches) / float64(s.frontier)

	s.logger.Trace("rebuild check",
		slog.Int("matches", matches),
		slog.Int("frontier", s.frontier),
		slog.Float64("ratio", ratio),
	)

	return ratio < s.threshold
}

// InvalidateFrom drops every cached unit built from a line at or after
// position, and moves the frontier back to position if it was beyond it.
func (s *Session) InvalidateFrom(position int) {
	position = max(position, 0)

	n := s.cache.InvalidateFunc(func(_ lang.Key, u *lang.Unit) bool {
		return u.Line() >= position
	})

	if position < s.frontier {
		s.frontier = position
	}

	s.logger.Trace("invalidated",
		slog.Int("from", position),
		slog.Int("removed", n),
	)
}

// Reset empties the cache and returns the session to its initial state.
// The expected line count is kept.
func (s *Session) Reset() {
	s.cache.InvalidateAll()
	s.frontier = 0

	s.logger.Trace("reset")
}

// Tree returns the cached units ordered by line. The tree is a snapshot:
// later changes to the session do not affect it.
func (s *Session) Tree() *lang.Tree {
	entries := s.cache.Entries()
	units := make([]*lang.Unit, 0, len(entries))

	// A line processed more than once keeps a unit per content. The most
	// recently stored one is current, and NewTree keeps the first per line.
	for _, e := range slices.Backward(entries) {
		units = append(units, e.Value)
	}

	return lang.NewTree(units...)
}

// Progress returns the frontier and the expected line count.
func (s *Session) Progress() (frontier, total int) {
	return s.frontier, s.total
}

// IsComplete reports whether every expected line has been passed.
func (s *Session) IsComplete() bool {
	return s.total > 0 && s.frontier >= s.total
}
