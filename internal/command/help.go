package command

import (
	"context"
	"fmt"

	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
)

type HelpCommand struct {
	deps *Dependencies
}

func NewHelpCommand(deps *Dependencies) *HelpCommand {
	return &HelpCommand{deps: deps}
}

func (c *HelpCommand) Name() string {
	return string(domain.CommandHelp)
}

func (c *HelpCommand) Description() string {
	return "봇 사용법 안내"
}

func (c *HelpCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if c.deps == nil || c.deps.Formatter == nil {
		return fmt.Errorf("help command dependencies not satisfied")
	}
	if c.deps.SendMessage == nil {
		return fmt.Errorf("message callbacks not configured")
	}

	return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatHelp())
}
