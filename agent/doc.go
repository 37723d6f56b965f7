// Package agent implements the goal-directed execution loop that drives a
// model toward a stated goal through repeated generate/act/verify cycles.
//
// An Agent binds a model capability, an optional tool host, and one of four
// execution strategies:
//
//   - simple: act, then check completion
//   - react: reason, act, check completion, bounded by a step limit
//   - planner: plan once up front, then act until complete
//   - hybrid: plan once, then reason, act, check completion
//
// All strategies share the same primitive steps. Steering prompts are
// appended to the conversation as temporary messages and removed once the
// step completes, so the retained history contains only the goal, the
// model's own output, and tool results.
package agent
