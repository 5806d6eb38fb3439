package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Profiler describes a profiling session.
//
// Mode selects one of [Modes]. Path is the directory receiving the profile
// file and uses the working directory when empty. Quiet suppresses the
// profiler's own start and stop messages.
type Profiler struct {
	Mode  string
	Path  string
	Quiet bool
}

// Enabled reports whether the binary was built with [Tag].
func Enabled() bool { return enabled }

// Start begins profiling and returns a [Stopper] that ends it.
//
// If the binary was built without [Tag], or p.Mode is empty or unknown,
// Start returns a no-op [Stopper]. Both Start and Stop are always safely
// callable.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
