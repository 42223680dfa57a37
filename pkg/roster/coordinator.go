// Package roster keeps the denormalized team rosters in step with the
// canonical player records.
//
// Every player mutation is compiled into an ordered list of steps (player
// write, roster detach, roster attach). The atomic strategy commits all steps
// as one multi-path batch. The sequential strategy applies them one by one and
// reports a PartialConsistencyError when a later step fails after an earlier
// one was written.
package roster

import (
	"fmt"
	"sync"

	"github.com/tournamate/rosterd/pkg/store"
)

type Strategy string

const (
	StrategyAtomic     Strategy = "atomic"
	StrategySequential Strategy = "sequential"
)

// ParseStrategy maps the roster.writeMode config value to a Strategy
func ParseStrategy(mode string) (Strategy, error) {
	switch Strategy(mode) {
	case "", StrategyAtomic:
		return StrategyAtomic, nil
	case StrategySequential:
		return StrategySequential, nil
	default:
		return "", fmt.Errorf("unknown roster write mode %q", mode)
	}
}

type Coordinator struct {
	store    *store.Store
	strategy Strategy

	// mu is shared with the periodic jobs. Mutations hold the read side and
	// may interleave with each other; Reconcile holds the write side.
	mu *sync.RWMutex
}

// NewCoordinator wires the player and team stores of s. A nil mu gets a
// private mutex.
func NewCoordinator(s *store.Store, strategy Strategy, mu *sync.RWMutex) *Coordinator {
	if mu == nil {
		mu = &sync.RWMutex{}
	}
	if strategy == "" {
		strategy = StrategyAtomic
	}
	return &Coordinator{
		store:    s,
		strategy: strategy,
		mu:       mu,
	}
}

func (c *Coordinator) Strategy() Strategy {
	return c.strategy
}
