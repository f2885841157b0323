package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
)

// ErrUnknownCommand reports a dispatch against a key no handler claimed.
var ErrUnknownCommand = errors.New("unknown command")

// Registry holds the command handlers keyed by lowercased name. Handlers
// are registered once at container build; lookups happen per message.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Command
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Command)}
}

// Register stores a handler under its lowercased name. A later
// registration with the same name replaces the earlier one.
func (r *Registry) Register(handler Command) {
	if handler == nil {
		return
	}

	r.mu.Lock()
	r.handlers[strings.ToLower(handler.Name())] = handler
	r.mu.Unlock()
}

// Execute looks up the handler for key and runs it. Lookup is
// case-insensitive to match Register.
func (r *Registry) Execute(ctx context.Context, cmdCtx *domain.CommandContext, key string, params map[string]any) error {
	if r == nil {
		return fmt.Errorf("command registry is nil")
	}

	r.mu.RLock()
	handler := r.handlers[strings.ToLower(key)]
	r.mu.RUnlock()

	if handler == nil {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, key)
	}
	return handler.Execute(ctx, cmdCtx, params)
}

// Count reports how many handlers are registered.
func (r *Registry) Count() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers)
}
