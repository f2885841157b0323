package command

import (
	"context"
	"fmt"

	"github.com/kapu/pokedex-kakao-bot-go/internal/constants"
	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

type ListCommand struct {
	deps *Dependencies
}

func NewListCommand(deps *Dependencies) *ListCommand {
	return &ListCommand{deps: deps}
}

func (c *ListCommand) Name() string {
	return string(domain.CommandList)
}

func (c *ListCommand) Description() string {
	return "도감 목록 페이지 조회"
}

func (c *ListCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if c.deps == nil || c.deps.Dex == nil || c.deps.Formatter == nil {
		return fmt.Errorf("list command dependencies not satisfied")
	}
	if c.deps.SendMessage == nil || c.deps.SendError == nil {
		return fmt.Errorf("message callbacks not configured")
	}

	page := getIntParam(params, "page", 1)
	if page < 1 {
		page = 1
	}

	pageSize := constants.DexConfig.ListPageSize
	offset := (page - 1) * pageSize

	refs, total, err := c.deps.Dex.ListCreatureRefs(ctx, pageSize, offset)
	if err != nil {
		c.log().Error("Failed to list creatures",
			zap.Int("page", page),
			zap.Error(err),
		)
		return c.deps.SendError(cmdCtx.Room, "도감 목록을 불러오지 못했어요. 잠시 후 다시 시도해주세요.")
	}

	totalPages := (total + pageSize - 1) / pageSize
	if len(refs) == 0 {
		if total > 0 {
			return c.deps.SendError(cmdCtx.Room, fmt.Sprintf("페이지 범위를 벗어났어요. (1~%d 페이지)", totalPages))
		}
		return c.deps.SendMessage(cmdCtx.Room, "📖 표시할 포켓몬이 없습니다.")
	}

	// Each entry resolves independently: one slow or broken detail fetch
	// drops that entry instead of the whole page.
	results := c.deps.Dex.GetCreatureBatch(ctx, refs)

	creatures := make([]*domain.Creature, 0, len(results))
	failed := 0
	for _, result := range results {
		if result.Err != nil || result.Creature == nil {
			failed++
			continue
		}
		creatures = append(creatures, result.Creature)
	}

	if len(creatures) == 0 {
		c.log().Error("Every detail fetch in the page failed",
			zap.Int("page", page),
			zap.Int("requested", len(refs)),
		)
		return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatUpstreamError())
	}

	message := c.deps.Formatter.FormatCreaturePage(creatures, page, totalPages, total, failed)
	return c.deps.SendMessage(cmdCtx.Room, message)
}

func (c *ListCommand) log() *zap.Logger {
	if c.deps != nil && c.deps.Logger != nil {
		return c.deps.Logger
	}
	return zap.NewNop()
}
