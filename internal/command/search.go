package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
	"github.com/kapu/pokedex-kakao-bot-go/internal/util"
	"go.uber.org/zap"
)

const maxSearchResults = 10

type SearchCommand struct {
	deps *Dependencies
}

func NewSearchCommand(deps *Dependencies) *SearchCommand {
	return &SearchCommand{deps: deps}
}

func (c *SearchCommand) Name() string {
	return string(domain.CommandSearch)
}

func (c *SearchCommand) Description() string {
	return "이름으로 포켓몬 검색"
}

func (c *SearchCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if c.deps == nil || c.deps.Dex == nil || c.deps.Formatter == nil {
		return fmt.Errorf("search command dependencies not satisfied")
	}
	if c.deps.SendMessage == nil || c.deps.SendError == nil {
		return fmt.Errorf("message callbacks not configured")
	}

	query := getStringParam(params, "name")
	if query == "" {
		return c.deps.SendError(cmdCtx.Room, "검색어를 입력해주세요. 예) 검색 피카")
	}

	pool, err := c.deps.Dex.GetQuizPool(ctx)
	if err != nil {
		c.log().Error("Failed to load search pool",
			zap.String("query", query),
			zap.Error(err),
		)
		return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatUpstreamError())
	}

	matches := filterRefs(pool, query)
	return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatSearchResults(query, matches))
}

// filterRefs keeps refs whose slug or Korean name contains the query,
// capped at maxSearchResults in pool order.
func filterRefs(pool []domain.CreatureRef, query string) []domain.CreatureRef {
	normalized := util.Normalize(query)
	if normalized == "" {
		return nil
	}

	matches := make([]domain.CreatureRef, 0, maxSearchResults)
	for _, ref := range pool {
		if strings.Contains(util.Normalize(ref.Name), normalized) ||
			strings.Contains(util.Normalize(ref.KoreanName), normalized) {
			matches = append(matches, ref)
			if len(matches) == maxSearchResults {
				break
			}
		}
	}
	return matches
}

func (c *SearchCommand) log() *zap.Logger {
	if c.deps != nil && c.deps.Logger != nil {
		return c.deps.Logger
	}
	return zap.NewNop()
}
