// Command agentcore is the CLI front end: chat with a model, run a
// goal-directed agent, or list the models every backend serves.
//
// Usage:
//
//	agentcore chat [-system-prompt S] [-provider P] [-config F] <model>
//	agentcore agent [-strategy S] [-system-prompt S] [-provider P] [-config F] <model> <goal>
//	agentcore list
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"agentcore"
	"agentcore/agent"
	"agentcore/config"
	"agentcore/logging"
	"agentcore/provider"
	"agentcore/toolhost"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "chat":
		err = chatCommand(os.Args[2:])
	case "agent":
		err = agentCommand(os.Args[2:])
	case "list":
		err = listCommand()
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: agentcore <chat|agent|list> [args]")
}

// loadConfig reads the file given by -config, falling back to defaults when
// the flag is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// resolveOptions translates config and flags into façade options. The
// -provider flag pins a backend by name through the registry, skipping model
// resolution, matching the explicit-override path of the original CLI.
func resolveOptions(cfg *config.Config, providerName, systemPrompt string, logger logging.Logger) (func(o *agentcore.Options), error) {
	var pinned provider.Provider
	if providerName != "" {
		registry := agentcore.DefaultRegistry()
		p, err := registry.Lookup(providerName)
		if err != nil {
			return nil, err
		}
		pinned = p
	}

	if systemPrompt == "" {
		systemPrompt = cfg.SystemPrompt
	}

	servers := make([]toolhost.ServerSpec, 0, len(cfg.ToolHosts))
	for _, th := range cfg.ToolHosts {
		servers = append(servers, th.Spec())
	}

	return func(o *agentcore.Options) {
		o.Provider = pinned
		o.SystemPrompt = systemPrompt
		o.ModelTimeout = cfg.ModelTimeout.Std()
		o.ToolTimeout = cfg.ToolTimeout.Std()
		o.ToolServers = servers
		o.Logger = logger
	}, nil
}

func chatCommand(args []string) error {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	systemPrompt := fs.String("system-prompt", "", "system prompt for the conversation")
	providerName := fs.String("provider", "", "force a specific provider")
	configPath := fs.String("config", "", "path to a TOML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	model := fs.Arg(0)
	if model == "" {
		return fmt.Errorf("chat: model argument is required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	logger := cfg.Logging.Logger()

	withOpts, err := resolveOptions(cfg, *providerName, *systemPrompt, logger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	c, err := agentcore.NewConversation(ctx, model, withOpts)
	if err != nil {
		return err
	}

	fmt.Printf("Starting chat with %s (ctrl-d to exit)\n", model)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		reply, err := c.Send(ctx, line)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			continue
		}
		fmt.Println(reply)
	}
}

func agentCommand(args []string) error {
	fs := flag.NewFlagSet("agent", flag.ExitOnError)
	strategy := fs.String("strategy", "", "agent strategy: simple, react, planner or hybrid")
	systemPrompt := fs.String("system-prompt", "", "system prompt for the agent")
	providerName := fs.String("provider", "", "force a specific provider")
	configPath := fs.String("config", "", "path to a TOML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	model, goal := fs.Arg(0), fs.Arg(1)
	if model == "" || goal == "" {
		return fmt.Errorf("agent: model and goal arguments are required")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	logger := cfg.Logging.Logger()

	if *strategy == "" {
		*strategy = cfg.Strategy
	}
	parsed, err := agent.ParseStrategy(*strategy)
	if err != nil {
		return err
	}

	withOpts, err := resolveOptions(cfg, *providerName, *systemPrompt, logger)
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := agentcore.New(ctx, model, withOpts, func(o *agentcore.Options) {
		o.Strategy = parsed
	})
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.Run(ctx, goal)

	fmt.Printf("state: %s\n", result.State)
	if result.Error != "" {
		fmt.Printf("error: %s\n", result.Error)
	}
	for _, msg := range result.History {
		for _, tc := range msg.ToolCalls {
			fmt.Printf("[%s] -> %s(%s)\n", msg.Role, tc.Name, tc.Arguments)
		}
		if msg.Content != "" {
			fmt.Printf("[%s] %s\n", msg.Role, msg.Content)
		}
	}
	if result.State != agent.StateSuccess {
		return fmt.Errorf("agent finished with state %s", result.State)
	}
	return nil
}

func listCommand() error {
	ctx := context.Background()
	registry := agentcore.DefaultRegistry()

	for _, p := range registry.Providers() {
		models, err := p.ListModels(ctx)
		if err != nil {
			fmt.Printf("%s: unavailable (%v)\n", p.Name(), err)
			continue
		}
		fmt.Printf("%s (%d models):\n", p.Name(), len(models))
		for _, m := range models {
			fmt.Printf("  %s\n", m)
		}
	}
	return nil
}
