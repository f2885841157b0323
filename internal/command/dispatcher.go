package command

import (
	"context"

	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
)

// NormalizeFunc maps a parsed command type and its raw params onto the
// registry key and the param shape the handler expects.
type NormalizeFunc func(domain.CommandType, map[string]any) (string, map[string]any)

// sequentialDispatcher runs events one at a time in arrival order. Chat
// replies must land in the order the user typed them, so there is no
// parallel variant.
type sequentialDispatcher struct {
	registry  *Registry
	normalize NormalizeFunc
}

// NewSequentialDispatcher wires a dispatcher over the given registry.
func NewSequentialDispatcher(registry *Registry, normalize NormalizeFunc) Dispatcher {
	return &sequentialDispatcher{registry: registry, normalize: normalize}
}

// Publish executes each event against the registry, stopping at the first
// handler error, and reports how many handlers ran. Unknown-type events
// are skipped rather than failed: the adapter emits them for chatter it
// could not parse.
func (d *sequentialDispatcher) Publish(ctx context.Context, cmdCtx *domain.CommandContext, events ...CommandEvent) (int, error) {
	if d == nil || d.registry == nil || d.normalize == nil {
		return 0, nil
	}

	executed := 0
	for _, event := range events {
		if event.Type == domain.CommandUnknown {
			continue
		}
		if err := d.dispatch(ctx, cmdCtx, event); err != nil {
			return executed, err
		}
		executed++
	}
	return executed, nil
}

// dispatch hands one event to its handler. Params are copied first so a
// handler mutating its map cannot leak the change back into the event.
func (d *sequentialDispatcher) dispatch(ctx context.Context, cmdCtx *domain.CommandContext, event CommandEvent) error {
	params := make(map[string]any, len(event.Params))
	for k, v := range event.Params {
		params[k] = v
	}

	key, normalized := d.normalize(event.Type, params)
	return d.registry.Execute(ctx, cmdCtx, key, normalized)
}
