package mm

// Strategy selects the placement policy used by Heap.Malloc, per
// spec.md §4.5 and §9 ("the specification admits either first-fit or
// best-fit ... exposed as a configuration ... policy default of
// first-fit").
type Strategy int

const (
	// FirstFit walks the free list from the anchor and stops at the
	// first block large enough to satisfy the request.
	FirstFit Strategy = iota
	// BestFit walks the entire free list and selects the smallest
	// block that is still large enough, ties broken by first
	// encountered.
	BestFit
)

// Config holds the tunables of a Heap, patterned on the teacher
// repo's functional-options Config/Option pair.
type Config struct {
	Strategy       Strategy
	ArenaCapacity  uintptr
	MinRemainder   uintptr // split threshold: r + MinRemainder, spec.md §4.5
	EnableDebug    bool    // walk invariants after every public call
}

// Option mutates a Config at construction time.
type Option func(*Config)

func defaultConfig() *Config {
	return &Config{
		Strategy:      FirstFit,
		ArenaCapacity: 0, // 0 means internal/sbrk.DefaultCapacity
		MinRemainder:  minBlockUnits,
		EnableDebug:   false,
	}
}

// WithStrategy selects the placement policy.
func WithStrategy(s Strategy) Option {
	return func(c *Config) { c.Strategy = s }
}

// WithArenaCapacity caps the simulated sbrk ceiling.
func WithArenaCapacity(capacity uintptr) Option {
	return func(c *Config) { c.ArenaCapacity = capacity }
}

// WithMinRemainder overrides the split threshold (spec.md §4.5's
// "b.size >= r + 4"); exposed for tests that need to exercise both
// sides of the threshold without fighting the constant.
func WithMinRemainder(units uintptr) Option {
	return func(c *Config) { c.MinRemainder = units }
}

// WithDebugChecks enables an invariant walk after every public call.
// Off by default.
func WithDebugChecks(enabled bool) Option {
	return func(c *Config) { c.EnableDebug = enabled }
}
