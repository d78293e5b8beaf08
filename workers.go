package docpost

import "runtime"

// Worker sizing constants.
const (
	// MinWorkers ensures at least one worker is available.
	MinWorkers = 1

	// MaxWorkers caps parallelism; pages are small and the run is
	// bounded by disk I/O past this point.
	MaxWorkers = 32
)

// ResolveWorkers determines the worker count.
// Priority: explicit workers > GOMAXPROCS.
// Exported for use by CLIs.
func ResolveWorkers(workers int) int {
	if workers > 0 {
		if workers > MaxWorkers {
			return MaxWorkers
		}
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers.
	n := runtime.GOMAXPROCS(0)
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkers {
		return MaxWorkers
	}
	return n
}
