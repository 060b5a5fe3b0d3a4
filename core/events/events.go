// Package events defines the typed payloads published on the internal event
// bus by the epoch manager.
package events

import "time"

// StrategyEvent is emitted when the manager picks an assignment strategy.
// Action is one of "exact_attempt", "exact_failure" or "greedy_fallback".
type StrategyEvent struct {
	Action string
	Err    error
}

// EpochEvent summarizes one completed decision epoch.
type EpochEvent struct {
	Vehicles  int
	Requests  int
	Served    int
	Unserved  int
	Strategy  string
	Objective float64
	Duration  time.Duration
}
