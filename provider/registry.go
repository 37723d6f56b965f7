package provider

import (
	"context"
	"fmt"
	"sync"

	"agentcore/logging"
)

// defaultResolveWorkers bounds the concurrent ListModels queries issued by
// Resolve. Discovery is an I/O round trip per backend, so a small pool keeps
// resolution fast without flooding local services.
const defaultResolveWorkers = 4

// RegistryOptions configure a Registry.
type RegistryOptions struct {
	// ResolveWorkers is the worker pool width used by Resolve.
	ResolveWorkers int
	// Logger receives discovery diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Registry holds providers in registration order and resolves model
// identifiers to the provider owning them. Registration order is the
// deterministic tie-break when several providers list the same model.
type Registry struct {
	providers []Provider
	workers   int
	logger    logging.Logger
}

// NewRegistry creates a registry over the given providers.
func NewRegistry(providers []Provider, optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{
		ResolveWorkers: defaultResolveWorkers,
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.ResolveWorkers < 1 {
		opts.ResolveWorkers = 1
	}

	return &Registry{
		providers: providers,
		workers:   opts.ResolveWorkers,
		logger:    opts.Logger,
	}
}

// Providers returns the registered providers in registration order.
func (r *Registry) Providers() []Provider {
	out := make([]Provider, len(r.providers))
	copy(out, r.providers)
	return out
}

// Lookup returns the registered provider with the given name, or an error if
// none matches. It is the explicit-override path next to Resolve's inference.
func (r *Registry) Lookup(name string) (Provider, error) {
	for _, p := range r.providers {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown provider %q", name)
}

// Resolve determines which provider serves the given model by querying every
// provider's ListModels through a bounded worker pool. All queries run to
// completion (no fail-fast); a provider whose discovery fails contributes an
// empty list and never aborts resolution for the others. After the join,
// providers are scanned in registration order and the first one listing the
// model wins. Fails with ErrModelNotFound when no provider lists it.
func (r *Registry) Resolve(ctx context.Context, model string) (Provider, error) {
	listings := make([][]string, len(r.providers))

	var wg sync.WaitGroup
	sem := make(chan struct{}, r.workers)
	for i, p := range r.providers {
		wg.Add(1)
		go func(i int, p Provider) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			models, err := p.ListModels(ctx)
			if err != nil {
				r.logger.Debug("model discovery failed", "provider", p.Name(), "error", err)
				return
			}
			listings[i] = models
		}(i, p)
	}
	wg.Wait()

	for i, p := range r.providers {
		for _, m := range listings[i] {
			if m == model {
				r.logger.Debug("model resolved", "provider", p.Name(), "model", model)
				return p, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrModelNotFound, model)
}
