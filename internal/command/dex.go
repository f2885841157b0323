package command

import (
	"context"
	"fmt"

	"github.com/kapu/pokedex-kakao-bot-go/internal/dex"
	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
	"github.com/kapu/pokedex-kakao-bot-go/pkg/errors"
	"go.uber.org/zap"
)

type DexCommand struct {
	deps *Dependencies
}

func NewDexCommand(deps *Dependencies) *DexCommand {
	return &DexCommand{deps: deps}
}

func (c *DexCommand) Name() string {
	return string(domain.CommandDex)
}

func (c *DexCommand) Description() string {
	return "포켓몬 도감 상세 조회"
}

func (c *DexCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if c.deps == nil || c.deps.Matcher == nil || c.deps.Formatter == nil {
		return fmt.Errorf("dex command dependencies not satisfied")
	}
	if c.deps.SendMessage == nil || c.deps.SendError == nil {
		return fmt.Errorf("message callbacks not configured")
	}

	name := getStringParam(params, "name")
	if name == "" {
		return c.deps.SendError(cmdCtx.Room, "포켓몬 이름이나 번호를 입력해주세요. 예) 도감 피카츄")
	}

	creature, err := c.deps.Matcher.FindCreature(ctx, name)
	if err != nil {
		if notFound, ok := err.(*errors.NotFoundError); ok {
			return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatNotFound(name, notFound.Suggestions))
		}
		c.log().Error("Creature lookup failed",
			zap.String("query", name),
			zap.Error(err),
		)
		return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatUpstreamError())
	}

	score := dex.PowerScore(creature.Stats)
	chance := dex.CatchChance(creature.HPBase())

	if err := c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatCreatureDetail(creature, score, chance)); err != nil {
		return err
	}

	c.sendSprite(ctx, cmdCtx.Room, creature)
	return nil
}

// sendSprite ships the creature artwork after the text detail. Best effort,
// a missing or failed image never fails the command.
func (c *DexCommand) sendSprite(ctx context.Context, room string, creature *domain.Creature) {
	if c.deps.Dex == nil || c.deps.SendImage == nil {
		return
	}

	spriteURL := creature.BestSprite()
	if spriteURL == "" {
		return
	}

	image, err := c.deps.Dex.GetSpriteImage(ctx, spriteURL)
	if err != nil {
		c.log().Debug("Failed to fetch sprite image",
			zap.String("url", spriteURL),
			zap.Error(err),
		)
		return
	}

	if err := c.deps.SendImage(room, image); err != nil {
		c.log().Debug("Failed to send sprite image",
			zap.Int("creature_id", creature.ID),
			zap.Error(err),
		)
	}
}

func (c *DexCommand) log() *zap.Logger {
	if c.deps != nil && c.deps.Logger != nil {
		return c.deps.Logger
	}
	return zap.NewNop()
}
