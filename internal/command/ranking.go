package command

import (
	"context"
	"fmt"

	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

const rankingLimit = 10

type RankingCommand struct {
	deps *Dependencies
}

func NewRankingCommand(deps *Dependencies) *RankingCommand {
	return &RankingCommand{deps: deps}
}

func (c *RankingCommand) Name() string {
	return string(domain.CommandRanking)
}

func (c *RankingCommand) Description() string {
	return "방 포획 순위"
}

func (c *RankingCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if c.deps == nil || c.deps.Formatter == nil {
		return fmt.Errorf("ranking command dependencies not satisfied")
	}
	if c.deps.SendMessage == nil || c.deps.SendError == nil {
		return fmt.Errorf("message callbacks not configured")
	}
	if c.deps.History == nil {
		return c.deps.SendError(cmdCtx.Room, "순위 기능이 활성화되지 않았습니다.")
	}

	ranks, err := c.deps.History.TopCollectors(ctx, cmdCtx.Room, rankingLimit)
	if err != nil {
		c.log().Error("Failed to load ranking",
			zap.String("room", cmdCtx.Room),
			zap.Error(err),
		)
		return c.deps.SendError(cmdCtx.Room, "순위를 불러오지 못했어요. 잠시 후 다시 시도해주세요.")
	}

	return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatRanking(ranks))
}

func (c *RankingCommand) log() *zap.Logger {
	if c.deps != nil && c.deps.Logger != nil {
		return c.deps.Logger
	}
	return zap.NewNop()
}
