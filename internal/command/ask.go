package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

// minParseConfidence is the floor below which a parsed command is treated
// as a miss rather than executed.
const minParseConfidence = 0.5

type AskCommand struct {
	deps *Dependencies
}

func NewAskCommand(deps *Dependencies) *AskCommand {
	return &AskCommand{deps: deps}
}

func (c *AskCommand) Name() string {
	return string(domain.CommandAsk)
}

func (c *AskCommand) Description() string {
	return "자연어 질의 처리"
}

func (c *AskCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if c.deps == nil || c.deps.Formatter == nil {
		return fmt.Errorf("ask command dependencies not satisfied")
	}
	if c.deps.SendMessage == nil || c.deps.SendError == nil {
		return fmt.Errorf("message callbacks not configured")
	}
	if c.deps.Parser == nil || c.deps.Dispatcher == nil {
		return c.deps.SendError(cmdCtx.Room, "AI 서비스가 설정되지 않았습니다. 명령어는 계속 사용할 수 있어요.")
	}

	rawQuestion, _ := params["question"].(string)
	question := strings.TrimSpace(rawQuestion)
	if question == "" {
		return c.deps.SendError(cmdCtx.Room, "질문을 이해하지 못했습니다. 다시 입력해주세요.")
	}

	c.log().Info("Processing natural language question", zap.String("question", question))

	result, metadata, err := c.deps.Parser.Parse(ctx, question)
	if err != nil {
		return c.deps.SendError(cmdCtx.Room, err.Error())
	}

	if !c.actionable(result, question) {
		return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatUnknownRequest())
	}

	forwardParams := make(map[string]any, len(result.Params))
	for k, v := range result.Params {
		forwardParams[k] = v
	}

	executed, err := c.deps.Dispatcher.Publish(ctx, cmdCtx, CommandEvent{
		Type:   result.Command,
		Params: forwardParams,
	})
	if err != nil {
		return err
	}
	if executed == 0 {
		return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatUnknownRequest())
	}

	if metadata != nil {
		c.log().Info("Natural language query processed",
			zap.String("provider", metadata.Provider),
			zap.String("model", metadata.Model),
			zap.Bool("used_fallback", metadata.UsedFallback),
			zap.String("command", result.Command.String()),
		)
	}

	return nil
}

// actionable filters out parse results that must not be re-dispatched:
// unknowns, low confidence, and ask itself (which would loop).
func (c *AskCommand) actionable(result *domain.ParseResult, question string) bool {
	if result == nil || !result.Command.IsValid() {
		return false
	}

	switch result.Command {
	case domain.CommandUnknown, domain.CommandAsk:
		c.log().Debug("Skipping non-actionable command",
			zap.String("command", result.Command.String()),
			zap.Float64("confidence", result.Confidence),
		)
		return false
	}

	if result.Confidence < minParseConfidence {
		c.log().Warn("Skipping low-confidence command",
			zap.String("question", question),
			zap.String("command", result.Command.String()),
			zap.Float64("confidence", result.Confidence),
		)
		return false
	}

	return true
}

func (c *AskCommand) log() *zap.Logger {
	if c.deps != nil && c.deps.Logger != nil {
		return c.deps.Logger
	}
	return zap.NewNop()
}
