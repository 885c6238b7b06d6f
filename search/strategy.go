package search

import (
	"fmt"
	"time"

	"github.com/hextrap/hextrap/eval"
)

type strategyKind int

const (
	kindRandom strategyKind = iota
	kindMinimax
	kindAlphaBeta
	kindDepthLimited
	kindIterativeDeepening
)

// Strategy selects which move driver SelectMove runs. The zero value is the
// random driver; everything else comes from a constructor, so depth caps and
// pruning flags only exist on the kinds that use them.
type Strategy struct {
	kind         strategyKind
	maxDepth     int
	useAlphaBeta bool
}

func RandomStrategy() Strategy {
	return Strategy{kind: kindRandom}
}

// MinimaxStrategy searches the full tree without pruning. Only viable on
// small boards; anything bigger wants a deadline or a depth cap.
func MinimaxStrategy() Strategy {
	return Strategy{kind: kindMinimax}
}

// AlphaBetaStrategy is MinimaxStrategy with pruning. Same values, fewer nodes.
func AlphaBetaStrategy() Strategy {
	return Strategy{kind: kindAlphaBeta}
}

// DepthLimitedStrategy cuts every branch off at maxDepth plies and scores the
// frontier with the evaluator. maxDepth 0 evaluates the current position
// without expanding a single move.
func DepthLimitedStrategy(maxDepth int, useAlphaBeta bool) Strategy {
	if maxDepth < 0 {
		maxDepth = 0
	}
	return Strategy{kind: kindDepthLimited, maxDepth: maxDepth, useAlphaBeta: useAlphaBeta}
}

// IterativeDeepeningStrategy runs depth-limited searches at increasing caps
// until the tree is solved outright or the deadline cuts the run short, and
// answers with the deepest fully completed iteration.
func IterativeDeepeningStrategy(useAlphaBeta bool) Strategy {
	return Strategy{kind: kindIterativeDeepening, useAlphaBeta: useAlphaBeta}
}

func (st Strategy) String() string {
	switch st.kind {
	case kindRandom:
		return "random"
	case kindMinimax:
		return "minimax"
	case kindAlphaBeta:
		return "alphabeta"
	case kindDepthLimited:
		if st.useAlphaBeta {
			return fmt.Sprintf("depth-limited-ab(%d)", st.maxDepth)
		}
		return fmt.Sprintf("depth-limited(%d)", st.maxDepth)
	case kindIterativeDeepening:
		if st.useAlphaBeta {
			return "iterative-deepening-ab"
		}
		return "iterative-deepening"
	}
	return "unknown"
}

// FromFlags folds the four independent selector flags the wire protocol and
// the shell both speak into one Strategy. Precedence when several are set:
// random, then minimax, then depth-limited, then iterative deepening. The
// alphaBeta flag upgrades whichever search driver won. Returns false when no
// selector is set.
func FromFlags(random, minimax, depthLimited, iterative bool, maxDepth int, alphaBeta bool) (Strategy, bool) {
	switch {
	case random:
		return RandomStrategy(), true
	case minimax:
		if alphaBeta {
			return AlphaBetaStrategy(), true
		}
		return MinimaxStrategy(), true
	case depthLimited:
		return DepthLimitedStrategy(maxDepth, alphaBeta), true
	case iterative:
		return IterativeDeepeningStrategy(alphaBeta), true
	}
	return Strategy{}, false
}

// Options tunes a single SelectMove call.
type Options struct {
	// AllottedTime bounds the wall clock for every search driver; zero means
	// no deadline. The random driver ignores it.
	AllottedTime time.Duration

	// Evaluator scores cutoff positions. Nil defaults to eval.Proximity.
	Evaluator eval.Evaluator
}
