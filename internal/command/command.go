package command

import (
	"context"

	"github.com/kapu/pokedex-kakao-bot-go/internal/adapter"
	"github.com/kapu/pokedex-kakao-bot-go/internal/dex"
	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
	"github.com/kapu/pokedex-kakao-bot-go/internal/service"
	"go.uber.org/zap"
)

type Command interface {
	Name() string
	Description() string
	Execute(ctx context.Context, cmdCtx *domain.CommandContext, params map[string]any) error
}

// CommandEvent is one parsed command ready for dispatch.
type CommandEvent struct {
	Type   domain.CommandType
	Params map[string]any
}

// Dispatcher routes command events to their registered handlers.
type Dispatcher interface {
	Publish(ctx context.Context, cmdCtx *domain.CommandContext, events ...CommandEvent) (int, error)
}

// DexClient is the upstream dex API surface the commands consume.
type DexClient interface {
	GetCreature(ctx context.Context, idOrName string) (*domain.Creature, error)
	ListCreatureRefs(ctx context.Context, limit, offset int) ([]domain.CreatureRef, int, error)
	GetCreatureBatch(ctx context.Context, refs []domain.CreatureRef) []service.CreatureResult
	GetQuizPool(ctx context.Context) ([]domain.CreatureRef, error)
	GetSpriteImage(ctx context.Context, spriteURL string) ([]byte, error)
}

// CreatureFinder resolves free-form user queries to creatures.
type CreatureFinder interface {
	FindCreature(ctx context.Context, query string) (*domain.Creature, error)
}

// CollectionStore holds per-user caught collections.
type CollectionStore interface {
	Register(ctx context.Context, room, user string, record domain.CaughtRecord) bool
	Records(ctx context.Context, room, user string) []domain.CaughtRecord
}

// QuizRunner manages the per-room quiz lifecycle.
type QuizRunner interface {
	StartRound(ctx context.Context, room string) (*domain.QuizRound, error)
	PendingRound(ctx context.Context, room string) (*domain.QuizRound, error)
	Judge(ctx context.Context, room, guess string) (*service.QuizJudgement, error)
}

// CatchHistory records catch attempts and serves leaderboard queries.
type CatchHistory interface {
	RecordAttempt(ctx context.Context, attempt domain.CatchAttempt) error
	TopCollectors(ctx context.Context, room string, limit int) ([]domain.CollectorRank, error)
	UserStats(ctx context.Context, room, sender string) (domain.CollectorStats, error)
}

// NaturalLanguageParser turns free-form questions into structured commands.
type NaturalLanguageParser interface {
	Parse(ctx context.Context, query string) (*domain.ParseResult, *service.GenerateMetadata, error)
}

type Dependencies struct {
	Dex        DexClient
	Matcher    CreatureFinder
	Collection CollectionStore
	Quiz       QuizRunner
	History    CatchHistory
	Parser     NaturalLanguageParser
	Formatter  *adapter.ResponseFormatter
	Rand       dex.Source

	SendMessage func(room, message string) error
	SendImage   func(room string, image []byte) error
	SendError   func(room, message string) error

	Dispatcher Dispatcher
	Logger     *zap.Logger
}
