package command

import (
	"context"
	"fmt"

	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

type CollectionCommand struct {
	deps *Dependencies
}

func NewCollectionCommand(deps *Dependencies) *CollectionCommand {
	return &CollectionCommand{deps: deps}
}

func (c *CollectionCommand) Name() string {
	return string(domain.CommandCollection)
}

func (c *CollectionCommand) Description() string {
	return "내가 잡은 포켓몬 목록"
}

func (c *CollectionCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if c.deps == nil || c.deps.Collection == nil || c.deps.Formatter == nil {
		return fmt.Errorf("collection command dependencies not satisfied")
	}
	if c.deps.SendMessage == nil {
		return fmt.Errorf("message callbacks not configured")
	}

	records := c.deps.Collection.Records(ctx, cmdCtx.Room, cmdCtx.UserKey())

	var stats domain.CollectorStats
	if c.deps.History != nil {
		loaded, err := c.deps.History.UserStats(ctx, cmdCtx.Room, cmdCtx.Sender)
		if err != nil {
			c.log().Warn("Failed to load collector stats",
				zap.String("sender", cmdCtx.Sender),
				zap.Error(err),
			)
		} else {
			stats = loaded
		}
	}

	return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatCollection(cmdCtx.Sender, records, stats))
}

func (c *CollectionCommand) log() *zap.Logger {
	if c.deps != nil && c.deps.Logger != nil {
		return c.deps.Logger
	}
	return zap.NewNop()
}
