package command

import (
	"context"
	"fmt"

	"github.com/kapu/pokedex-kakao-bot-go/internal/dex"
	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

type QuizCommand struct {
	deps *Dependencies
}

func NewQuizCommand(deps *Dependencies) *QuizCommand {
	return &QuizCommand{deps: deps}
}

func (c *QuizCommand) Name() string {
	return string(domain.CommandQuiz)
}

func (c *QuizCommand) Description() string {
	return "포켓몬 맞추기 퀴즈 시작"
}

func (c *QuizCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if c.deps == nil || c.deps.Quiz == nil || c.deps.Formatter == nil {
		return fmt.Errorf("quiz command dependencies not satisfied")
	}
	if c.deps.SendMessage == nil || c.deps.SendError == nil {
		return fmt.Errorf("message callbacks not configured")
	}

	pending, err := c.deps.Quiz.PendingRound(ctx, cmdCtx.Room)
	if err != nil {
		c.log().Warn("Failed to check pending quiz round",
			zap.String("room", cmdCtx.Room),
			zap.Error(err),
		)
	}
	if pending != nil {
		return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatQuizAlreadyRunning(pending))
	}

	round, err := c.deps.Quiz.StartRound(ctx, cmdCtx.Room)
	if err != nil {
		if poolErr, ok := err.(*dex.InsufficientPoolError); ok {
			return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatInsufficientPool(poolErr.Need, poolErr.Have))
		}
		c.log().Error("Failed to start quiz round",
			zap.String("room", cmdCtx.Room),
			zap.Error(err),
		)
		return c.deps.SendError(cmdCtx.Room, "퀴즈를 시작하지 못했어요. 잠시 후 다시 시도해주세요.")
	}

	// The sprite is the question, so it goes out ahead of the choices.
	c.sendQuizSprite(ctx, cmdCtx.Room, round)

	return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatQuizRound(round))
}

func (c *QuizCommand) sendQuizSprite(ctx context.Context, room string, round *domain.QuizRound) {
	if c.deps.Dex == nil || c.deps.SendImage == nil || round.Sprite == "" {
		return
	}

	image, err := c.deps.Dex.GetSpriteImage(ctx, round.Sprite)
	if err != nil {
		c.log().Debug("Failed to fetch quiz sprite",
			zap.String("url", round.Sprite),
			zap.Error(err),
		)
		return
	}

	if err := c.deps.SendImage(room, image); err != nil {
		c.log().Debug("Failed to send quiz sprite", zap.Error(err))
	}
}

func (c *QuizCommand) log() *zap.Logger {
	if c.deps != nil && c.deps.Logger != nil {
		return c.deps.Logger
	}
	return zap.NewNop()
}
