package agent

import "fmt"

// Strategy selects the execution loop an Agent runs.
type Strategy string

// Available execution strategies.
const (
	StrategySimple  Strategy = "simple"
	StrategyReact   Strategy = "react"
	StrategyPlanner Strategy = "planner"
	StrategyHybrid  Strategy = "hybrid"
)

// ParseStrategy converts a string into a Strategy, returning
// ErrUnknownStrategy for anything outside the known set.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategySimple, StrategyReact, StrategyPlanner, StrategyHybrid:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("%w: %q (must be one of %q, %q, %q, %q)",
			ErrUnknownStrategy, s, StrategySimple, StrategyReact, StrategyPlanner, StrategyHybrid)
	}
}

// State describes the terminal or in-progress condition of a run.
type State string

// Run states.
const (
	StateWorking   State = "working"
	StateSuccess   State = "success"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)
