package command

import (
	"context"
	"fmt"

	"github.com/kapu/pokedex-kakao-bot-go/internal/dex"
	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
	"github.com/kapu/pokedex-kakao-bot-go/internal/util"
	"github.com/kapu/pokedex-kakao-bot-go/pkg/errors"
	"go.uber.org/zap"
)

type CatchCommand struct {
	deps *Dependencies
}

func NewCatchCommand(deps *Dependencies) *CatchCommand {
	return &CatchCommand{deps: deps}
}

func (c *CatchCommand) Name() string {
	return string(domain.CommandCatch)
}

func (c *CatchCommand) Description() string {
	return "포켓몬 포획 도전"
}

func (c *CatchCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if c.deps == nil || c.deps.Matcher == nil || c.deps.Collection == nil ||
		c.deps.Formatter == nil || c.deps.Rand == nil {
		return fmt.Errorf("catch command dependencies not satisfied")
	}
	if c.deps.SendMessage == nil || c.deps.SendError == nil {
		return fmt.Errorf("message callbacks not configured")
	}

	name := getStringParam(params, "name")
	if name == "" {
		return c.deps.SendError(cmdCtx.Room, "잡을 포켓몬 이름을 입력해주세요. 예) 잡기 피카츄")
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

	hp := creature.HPBase()
	chance := dex.CatchChance(hp)
	success := dex.AttemptCatch(hp, c.deps.Rand)

	isNew := false
	if success {
		record := domain.CaughtRecord{
			ID:     creature.ID,
			Name:   creature.DisplayName(),
			Sprite: creature.BestSprite(),
		}
		isNew = c.deps.Collection.Register(ctx, cmdCtx.Room, cmdCtx.UserKey(), record)
	}

	c.recordAttempt(ctx, cmdCtx, creature, chance, success)

	c.log().Info("Catch attempt",
		zap.String("room", cmdCtx.Room),
		zap.String("sender", cmdCtx.Sender),
		zap.Int("creature_id", creature.ID),
		zap.Float64("chance", chance),
		zap.Bool("success", success),
		zap.Bool("new", isNew),
	)

	return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatCatchResult(creature, chance, success, isNew))
}

// recordAttempt writes the throw into history. The game result already
// happened, so a failed insert is logged and swallowed.
func (c *CatchCommand) recordAttempt(ctx context.Context, cmdCtx *domain.CommandContext, creature *domain.Creature, chance float64, success bool) {
	if c.deps.History == nil {
		return
	}

	attempt := domain.CatchAttempt{
		Room:         cmdCtx.Room,
		Sender:       cmdCtx.Sender,
		CreatureID:   creature.ID,
		CreatureName: creature.DisplayName(),
		PowerScore:   dex.PowerScore(creature.Stats),
		CatchChance:  chance,
		Success:      success,
		CaughtAt:     util.NowKST(),
	}

	if err := c.deps.History.RecordAttempt(ctx, attempt); err != nil {
		c.log().Warn("Failed to record catch attempt",
			zap.Int("creature_id", creature.ID),
			zap.Error(err),
		)
	}
}

func (c *CatchCommand) log() *zap.Logger {
	if c.deps != nil && c.deps.Logger != nil {
		return c.deps.Logger
	}
	return zap.NewNop()
}
