package profile

// Tag names the subdirectory of the cache directory that receives profiles.
const Tag = "pprof"

// Profiler configures a profiling run.
type Profiler struct {
	Mode  string
	Path  string
	Quiet bool
}

// Option sets a [Profiler] field.
type Option func(Profiler) Profiler

// Make returns a Profiler with the given options applied.
func Make(opts ...Option) Profiler {
	var p Profiler

	for _, opt := range opts {
		p = opt(p)
	}

	return p
}

// Start begins profiling and returns a handle for stopping it.
//
// Start returns a no-op when the binary was built without the pprof tag, when
// Mode is empty, or when Mode names no supported profile. Both Start and Stop
// are always safe to call.
func (p Profiler) Start() interface{ Stop() } {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p.Mode, p.Path, p.Quiet)
}

// WithMode sets the profiling mode, one of [Modes].
func WithMode(mode string) Option {
	return func(p Profiler) Profiler {
		p.Mode = mode

		return p
	}
}

// WithPath sets the output directory.
func WithPath(path string) Option {
	return func(p Profiler) Profiler {
		p.Path = path

		return p
	}
}

// WithQuiet suppresses the profiler's own log output.
func WithQuiet(quiet bool) Option {
	return func(p Profiler) Profiler {
		p.Quiet = quiet

		return p
	}
}

type ignore struct{}

func (ignore) Stop() {}
