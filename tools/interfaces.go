package tools

import (
	"context"

	"github.com/firebase/genkit/go/genkit"
)

// ToolPlugin defines the interface for plugins that provide tools
type ToolPlugin interface {
	RegisterTools(gk *genkit.Genkit, registry *Registry)
}

// ToolExecutor is the function signature for executing a tool with loosely
// typed arguments, as decoded from a model's JSON tool call.
type ToolExecutor func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// Option adjusts tool metadata at registration.
type Option func(*toolMeta)

type toolMeta struct {
	requiresConfirmation bool
}

// RequiresConfirmation marks tools with side effects. The agent framework is
// expected to ask the user before running them; the registry only records it.
func RequiresConfirmation() Option {
	return func(m *toolMeta) {
		m.requiresConfirmation = true
	}
}
