package scan

// Flags holds per-scan settings. The zero value is the default behavior;
// flags travel by value through every call instead of living in shared
// mutable state.
type Flags struct {
	// FollowSymlinks resolves symlinks instead of skipping them.
	FollowSymlinks bool

	// IncludeHidden validates entries whose names start with a dot.
	IncludeHidden bool

	// Jobs bounds the full-scan worker pool: 0 auto-detects the CPU count,
	// 1 scans sequentially, N caps the pool at N workers.
	Jobs int
}

// DefaultFlags mirrors the embedded tool defaults.
func DefaultFlags() Flags {
	return Flags{IncludeHidden: true, Jobs: 1}
}
