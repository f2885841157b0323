package command

import (
	"context"
	"fmt"

	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

type AnswerCommand struct {
	deps *Dependencies
}

func NewAnswerCommand(deps *Dependencies) *AnswerCommand {
	return &AnswerCommand{deps: deps}
}

func (c *AnswerCommand) Name() string {
	return string(domain.CommandAnswer)
}

func (c *AnswerCommand) Description() string {
	return "퀴즈 정답 제출"
}

func (c *AnswerCommand) Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error {
	if c.deps == nil || c.deps.Quiz == nil || c.deps.Formatter == nil {
		return fmt.Errorf("answer command dependencies not satisfied")
	}
	if c.deps.SendMessage == nil || c.deps.SendError == nil {
		return fmt.Errorf("message callbacks not configured")
	}

	guess := getStringParam(params, "guess")
	if guess == "" {
		guess = getStringParam(params, "name")
	}
	if guess == "" {
		return c.deps.SendError(cmdCtx.Room, "정답을 입력해주세요. 예) 정답 1 또는 정답 피카츄")
	}

	judgement, err := c.deps.Quiz.Judge(ctx, cmdCtx.Room, guess)
	if err != nil {
		c.log().Error("Failed to judge quiz answer",
			zap.String("room", cmdCtx.Room),
			zap.String("guess", guess),
			zap.Error(err),
		)
		return c.deps.SendError(cmdCtx.Room, "정답을 확인하지 못했어요. 잠시 후 다시 시도해주세요.")
	}

	if judgement == nil {
		return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatQuizNoRound())
	}

	if judgement.Matched == nil {
		return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatQuizUnmatchedGuess(len(judgement.Round.Choices)))
	}

	if judgement.Correct {
		return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatQuizCorrect(cmdCtx.Sender, judgement.Round.Answer))
	}

	return c.deps.SendMessage(cmdCtx.Room, c.deps.Formatter.FormatQuizWrong(judgement.Round.Answer))
}

func (c *AnswerCommand) log() *zap.Logger {
	if c.deps != nil && c.deps.Logger != nil {
		return c.deps.Logger
	}
	return zap.NewNop()
}
