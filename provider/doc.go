// Package provider defines the backend-neutral model capability contract and
// the resolver that maps a model identifier to the backend owning it.
//
// Core goals:
//   - One Provider interface implemented per vendor (OpenAI, Anthropic,
//     Gemini, Ollama) so the agent controller never branches on vendors
//   - Normalized responses: every backend reduces its reply to canonical
//     tool calls plus visible text
//   - Advisory model discovery: ListModels failures never abort work that
//     other backends can complete
//
// Concrete adapters live in the subpackages provider/openai,
// provider/anthropic, provider/gemini and provider/ollama. Each adapter owns
// its idiosyncratic conversion rules between the canonical history and the
// vendor wire format.
package provider
