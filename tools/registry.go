package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	reqctx "github.com/va6996/deskagent/context"
	"github.com/va6996/deskagent/log"
)

// Registry manages the registration of AI tools
type Registry struct {
	mu        sync.RWMutex
	tools     []ai.Tool
	executors map[string]ToolExecutor
	meta      map[string]toolMeta
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{
		tools:     make([]ai.Tool, 0),
		executors: make(map[string]ToolExecutor),
		meta:      make(map[string]toolMeta),
	}
}

// Register adds a tool to the registry with its executor
func (r *Registry) Register(tool ai.Tool, executor ToolExecutor, opts ...Option) {
	var m toolMeta
	for _, opt := range opts {
		opt(&m)
	}

	name := tool.Definition().Name
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools = append(r.tools, tool)
	r.executors[name] = executor
	r.meta[name] = m
}

// GetTools returns all registered tools
func (r *Registry) GetTools() []ai.Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]ai.Tool(nil), r.tools...)
}

// Names returns the registered tool names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.executors))
	for name := range r.executors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RequiresConfirmation reports whether the named tool was registered with
// the RequiresConfirmation option.
func (r *Registry) RequiresConfirmation(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.meta[name].requiresConfirmation
}

// ExecuteTool runs a registered tool by name
func (r *Registry) ExecuteTool(ctx context.Context, name string, args map[string]interface{}) (interface{}, error) {
	r.mu.RLock()
	executor, ok := r.executors[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("tool not found: %s", name)
	}
	return executor(reqctx.WithToolName(ctx, name), args)
}

// DecodeArgs converts map arguments into a typed tool input.
func DecodeArgs(args map[string]interface{}, out interface{}) error {
	b, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to encode arguments: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("failed to parse arguments: %w", err)
	}
	return nil
}

// Define registers fn both as a genkit tool and as a registry executor that
// accepts map arguments. It is a no-op when gk or registry is nil, which lets
// plugins be constructed standalone in tests.
func Define[In, Out any](gk *genkit.Genkit, registry *Registry, name, description string, fn func(ctx context.Context, input In) (Out, error), opts ...Option) {
	if gk == nil || registry == nil {
		return
	}

	tool := genkit.DefineTool[In, Out](
		gk,
		name,
		description,
		func(ctx *ai.ToolContext, input In) (Out, error) {
			return fn(reqctx.WithToolName(ctx, name), input)
		},
	)

	registry.Register(tool, func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
		var input In
		if err := DecodeArgs(args, &input); err != nil {
			return nil, err
		}
		return fn(ctx, input)
	}, opts...)

	log.Debugf(context.Background(), "Registered tool: %s", name)
}
