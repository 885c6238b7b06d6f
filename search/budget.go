package search

import (
	"math"
	"time"
)

// LastCall is the reserve margin: recursion stops descending once less than
// this remains before the deadline, so a search overruns its allotted time by
// at most this much.
const LastCall = 1 * time.Millisecond

const noDepthLimit = math.MaxInt32

// SearchBudget carries the cooperative cancellation state for one top-level
// search call. It is created fresh per call, threaded by reference through
// the whole recursion, and discarded when the call returns. Every recursive
// entry polls it before doing anything else.
type SearchBudget struct {
	deadline    time.Time
	hasDeadline bool
	maxDepth    int

	// terminated is set when the deadline expires mid-search; every ancestor
	// observing it unwinds immediately. reachedDepthLimit records that some
	// branch was cut off purely by the depth cap rather than a terminal
	// state, which is what tells iterative deepening to keep going.
	terminated        bool
	reachedDepthLimit bool
}

func newBudget(allotted time.Duration) *SearchBudget {
	b := &SearchBudget{maxDepth: noDepthLimit}
	if allotted > 0 {
		b.deadline = time.Now().Add(allotted)
		b.hasDeadline = true
	}
	return b
}

func (b *SearchBudget) outOfTime() bool {
	return b.hasDeadline && time.Until(b.deadline) < LastCall
}
