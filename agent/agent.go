package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"agentcore/core"
	"agentcore/logging"
	"agentcore/provider"
)

// Steering prompts appended as temporary messages during the primitive steps.
const (
	planPrompt   = "Create a plan for achieving the goal. Do NOT call any tools in this step - only provide a text-based plan."
	reasonPrompt = "Think about your next action. Do NOT call any tools in this step - only provide your reasoning in text."
	actPrompt    = "Perform an action by calling a tool"
	checkPrompt  = `Given the original goal, have you completed the entire task? Respond only "yes" or "no". Do NOT call any tools in this step.`

	// Appended permanently when the model answers an act step in prose so
	// later attempts can see the rejection.
	actRejection = "Response rejected: you MUST call a tool at this step.  Please try again."
)

const (
	// maxActAttempts bounds the act retry recursion. The step fails once the
	// model has answered in prose this many times in a row.
	maxActAttempts = 3

	// defaultMaxSteps bounds the react loop.
	defaultMaxSteps = 20
)

// ToolHost is the subset of the tool host client the agent depends on.
// *toolhost.Client satisfies it.
type ToolHost interface {
	ListTools(ctx context.Context) ([]core.ToolSpec, error)
	CallTool(ctx context.Context, name string, args map[string]any) (string, error)
	Close() error
}

// Options configures an Agent instance.
//
// Use functional options with New to override defaults.
type Options struct {
	// Strategy selects the execution loop. Defaults to StrategyReact.
	Strategy Strategy

	// SystemPrompt seeds the conversation history when non-empty.
	SystemPrompt string

	// ToolHost supplies tools to the model. The agent takes ownership and
	// closes it in Close. Nil means the agent runs without tools.
	ToolHost ToolHost

	// ModelTimeout bounds each model call. Zero disables the bound.
	ModelTimeout time.Duration

	// ToolTimeout bounds each tool call. Zero disables the bound.
	ToolTimeout time.Duration

	// DiscardActText drops any prose the model emits alongside tool calls
	// instead of retaining it on the assistant message.
	DiscardActText bool

	// MaxSteps bounds the react loop.
	MaxSteps int

	// Logger receives step-level diagnostics.
	Logger logging.Logger
}

// Result is the outcome of a single Run.
type Result struct {
	// History is a snapshot of the full conversation, temporary messages
	// already removed.
	History []core.Message `json:"history"`

	// State is the terminal state of the run.
	State State `json:"state"`

	// Strategy names the loop that produced the result.
	Strategy Strategy `json:"type"`

	// Error carries the failure description when State is failed or
	// cancelled, empty otherwise.
	Error string `json:"error,omitempty"`
}

// Agent drives a model toward a goal using one of the execution strategies.
//
// An Agent is not safe for concurrent Runs; each Run mutates the shared
// conversation history.
type Agent struct {
	provider provider.Provider
	model    string
	strategy Strategy
	host     ToolHost
	history  *core.History
	logger   logging.Logger

	modelTimeout   time.Duration
	toolTimeout    time.Duration
	discardActText bool
	maxSteps       int

	mu     sync.Mutex
	closed bool
}

// New creates an agent bound to a model capability and model name.
//
// The default configuration uses the react strategy, a 2-minute model call
// timeout, a 15-second tool call timeout, and a 20-step react bound.
func New(p provider.Provider, model string, optFns ...func(o *Options)) (*Agent, error) {
	opts := Options{
		Strategy:     StrategyReact,
		ModelTimeout: 2 * time.Minute,
		ToolTimeout:  15 * time.Second,
		MaxSteps:     defaultMaxSteps,
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if _, err := ParseStrategy(string(opts.Strategy)); err != nil {
		return nil, err
	}

	if opts.MaxSteps <= 0 {
		opts.MaxSteps = defaultMaxSteps
	}

	return &Agent{
		provider:       p,
		model:          model,
		strategy:       opts.Strategy,
		host:           opts.ToolHost,
		history:        core.NewHistory(opts.SystemPrompt),
		logger:         opts.Logger,
		modelTimeout:   opts.ModelTimeout,
		toolTimeout:    opts.ToolTimeout,
		discardActText: opts.DiscardActText,
		maxSteps:       opts.MaxSteps,
	}, nil
}

// Strategy returns the execution strategy the agent runs.
func (a *Agent) Strategy() Strategy { return a.strategy }

// History returns a snapshot of the current conversation.
func (a *Agent) History() []core.Message { return a.history.Snapshot() }

// Run executes the agent's strategy until the goal is complete, a step
// fails, or the context is done. It never returns an error; failures are
// reported through the Result state and error fields.
func (a *Agent) Run(ctx context.Context, goal string) *Result {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return &Result{History: a.history.Snapshot(), State: StateFailed, Strategy: a.strategy, Error: ErrClosed.Error()}
	}
	a.mu.Unlock()

	a.logger.Info("agent run starting", "strategy", string(a.strategy), "model", a.model)
	a.history.Append(core.Message{Role: core.RoleUser, Content: fmt.Sprintf("Your goal is: %s", goal)})

	state, err := a.runStrategy(ctx)
	if err != nil {
		// Probes from the failing step must not leak into the result.
		a.history.RemoveTemporary()
		state = StateFailed
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			state = StateCancelled
		}
		a.logger.Error("agent run failed", "strategy", string(a.strategy), "state", string(state), "error", err)
		return &Result{History: a.history.Snapshot(), State: state, Strategy: a.strategy, Error: err.Error()}
	}

	a.logger.Info("agent run completed", "strategy", string(a.strategy), "state", string(state))
	return &Result{History: a.history.Snapshot(), State: state, Strategy: a.strategy}
}

func (a *Agent) runStrategy(ctx context.Context) (State, error) {
	switch a.strategy {
	case StrategySimple:
		return a.runSimple(ctx)
	case StrategyReact:
		return a.runReact(ctx)
	case StrategyPlanner:
		return a.runPlanner(ctx)
	case StrategyHybrid:
		return a.runHybrid(ctx)
	default:
		return StateFailed, fmt.Errorf("%w: %q", ErrUnknownStrategy, a.strategy)
	}
}

func (a *Agent) runSimple(ctx context.Context) (State, error) {
	state := StateWorking
	for state == StateWorking {
		if err := a.act(ctx, 0); err != nil {
			return StateFailed, err
		}
		var err error
		state, err = a.checkCompletion(ctx)
		if err != nil {
			return StateFailed, err
		}
	}
	return state, nil
}

func (a *Agent) runReact(ctx context.Context) (State, error) {
	state := StateWorking
	for step := 0; state == StateWorking && step < a.maxSteps; step++ {
		a.logger.Debug("react step", "step", step+1)
		if err := a.reason(ctx); err != nil {
			return StateFailed, err
		}
		if err := a.act(ctx, 0); err != nil {
			return StateFailed, err
		}
		var err error
		state, err = a.checkCompletion(ctx)
		if err != nil {
			return StateFailed, err
		}
	}
	if state == StateWorking {
		a.logger.Warn("react loop hit step limit", "maxSteps", a.maxSteps)
		return StateFailed, fmt.Errorf("%w: %d", ErrMaxStepsExceeded, a.maxSteps)
	}
	return state, nil
}

func (a *Agent) runPlanner(ctx context.Context) (State, error) {
	if err := a.plan(ctx); err != nil {
		return StateFailed, err
	}
	return a.runSimple(ctx)
}

func (a *Agent) runHybrid(ctx context.Context) (State, error) {
	if err := a.plan(ctx); err != nil {
		return StateFailed, err
	}
	state := StateWorking
	for state == StateWorking {
		if err := a.reason(ctx); err != nil {
			return StateFailed, err
		}
		if err := a.act(ctx, 0); err != nil {
			return StateFailed, err
		}
		var err error
		state, err = a.checkCompletion(ctx)
		if err != nil {
			return StateFailed, err
		}
	}
	return state, nil
}

// plan asks the model for an upfront plan and retains it as an assistant
// message. The tool catalog stays visible; the prompt instructs abstention.
func (a *Agent) plan(ctx context.Context) error {
	a.history.Append(core.Message{Role: core.RoleUser, Content: planPrompt, Temporary: true})
	defer a.history.RemoveTemporary()

	resp, err := a.generate(ctx)
	if err != nil {
		return err
	}
	a.history.Append(core.Message{Role: core.RoleAssistant, Content: resp.Text})
	return nil
}

// reason asks the model to think ahead of the next act step and retains the
// reasoning as an assistant message.
func (a *Agent) reason(ctx context.Context) error {
	a.history.Append(core.Message{Role: core.RoleUser, Content: reasonPrompt, Temporary: true})
	defer a.history.RemoveTemporary()

	resp, err := a.generate(ctx)
	if err != nil {
		return err
	}
	a.history.Append(core.Message{Role: core.RoleAssistant, Content: resp.Text})
	return nil
}

// act prompts the model to call a tool and executes every returned call in
// order, appending one tool message per call. When the model answers in
// prose instead, the reply is retained, a permanent rejection message is
// appended, and the step recurses until maxActAttempts is reached.
func (a *Agent) act(ctx context.Context, attempt int) error {
	a.logger.Debug("act step", "attempt", attempt+1)
	a.history.Append(core.Message{Role: core.RoleUser, Content: actPrompt, Temporary: true})
	defer a.history.RemoveTemporary()

	resp, err := a.generate(ctx)
	if err != nil {
		return err
	}

	if len(resp.ToolCalls) == 0 {
		a.history.Append(core.Message{Role: core.RoleAssistant, Content: resp.Text})
		if attempt >= maxActAttempts-1 {
			return fmt.Errorf("%w after %d attempts", ErrActRetryExhausted, attempt+1)
		}
		a.logger.Warn("no tool calls in act step, retrying", "attempt", attempt+1)
		a.history.Append(core.Message{Role: core.RoleUser, Content: actRejection})
		return a.act(ctx, attempt+1)
	}

	text := resp.Text
	if a.discardActText {
		text = ""
	}
	a.history.Append(core.Message{Role: core.RoleAssistant, Content: text, ToolCalls: resp.ToolCalls})

	if a.host == nil {
		return ErrNoToolHost
	}

	for _, tc := range resp.ToolCalls {
		args, err := parseToolArguments(tc.Arguments)
		if err != nil {
			return fmt.Errorf("decode arguments for tool %q: %w", tc.Name, err)
		}
		result, err := a.callTool(ctx, tc.Name, args)
		if err != nil {
			return err
		}
		a.history.Append(core.Message{Role: core.RoleTool, Content: result, ToolCallID: tc.ID})
	}
	return nil
}

// checkCompletion asks the model whether the goal is done. Neither the probe
// nor the reply is retained.
func (a *Agent) checkCompletion(ctx context.Context) (State, error) {
	a.history.Append(core.Message{Role: core.RoleUser, Content: checkPrompt, Temporary: true})
	defer a.history.RemoveTemporary()

	resp, err := a.generate(ctx)
	if err != nil {
		return StateFailed, err
	}
	if strings.Contains(strings.ToLower(resp.Text), "yes") {
		return StateSuccess, nil
	}
	return StateWorking, nil
}

// generate issues one model call over the current history, attaching the
// tool catalog when a tool host is configured.
func (a *Agent) generate(ctx context.Context) (*provider.Response, error) {
	if a.modelTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.modelTimeout)
		defer cancel()
	}

	var tools []core.ToolSpec
	if a.host != nil {
		var err error
		tools, err = a.host.ListTools(ctx)
		if err != nil {
			return nil, err
		}
	}
	return a.provider.GenerateResponse(ctx, a.history.Messages(), a.model, tools)
}

func (a *Agent) callTool(ctx context.Context, name string, args map[string]any) (string, error) {
	if a.toolTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.toolTimeout)
		defer cancel()
	}
	a.logger.Debug("calling tool", "tool", name)
	return a.host.CallTool(ctx, name, args)
}

// parseToolArguments decodes a JSON argument payload into a map. An empty
// payload decodes to an empty map.
func parseToolArguments(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		return nil, err
	}
	return args, nil
}

// Close releases the agent's tool host connection. It is safe to call more
// than once; only the first call has an effect.
func (a *Agent) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true
	if a.host != nil {
		return a.host.Close()
	}
	return nil
}
