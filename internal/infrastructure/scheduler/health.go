package scheduler

import "sync"

// healthWindow tracks the outcomes of a platform's most recent runs in
// a fixed-size ring, so health reflects recent behavior rather than
// lifetime totals.
type healthWindow struct {
	mu       sync.Mutex
	outcomes []bool
	next     int
	filled   int
	// minSamples is how many outcomes are needed before the window can
	// declare a platform unhealthy
	minSamples int
	// failureThreshold is the failure ratio at which the platform turns
	// unhealthy
	failureThreshold float64
}

func newHealthWindow(size, minSamples int, failureThreshold float64) *healthWindow {
	if size <= 0 {
		size = 10
	}
	if minSamples <= 0 || minSamples > size {
		minSamples = 3
	}
	if failureThreshold <= 0 || failureThreshold > 1 {
		failureThreshold = 0.5
	}
	return &healthWindow{
		outcomes:         make([]bool, size),
		minSamples:       minSamples,
		failureThreshold: failureThreshold,
	}
}

func (w *healthWindow) record(success bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.outcomes[w.next] = success
	w.next = (w.next + 1) % len(w.outcomes)
	if w.filled < len(w.outcomes) {
		w.filled++
	}
}

// healthy reports whether the recent failure ratio stays below the
// threshold. A platform with too few samples is considered healthy.
func (w *healthWindow) healthy() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.filled < w.minSamples {
		return true
	}
	failures := 0
	for i := 0; i < w.filled; i++ {
		if !w.outcomes[i] {
			failures++
		}
	}
	return float64(failures)/float64(w.filled) < w.failureThreshold
}
