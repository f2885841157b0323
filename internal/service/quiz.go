package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/kapu/pokedex-kakao-bot-go/internal/constants"
	"github.com/kapu/pokedex-kakao-bot-go/internal/dex"
	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
	"github.com/kapu/pokedex-kakao-bot-go/internal/util"
	"go.uber.org/zap"
)

// QuizJudgement is the outcome of judging one guess. Matched is nil when
// the guess named no choice at all; such guesses do not consume the round.
type QuizJudgement struct {
	Round   *domain.QuizRound
	Matched *domain.CreatureRef
	Correct bool
}

// QuizService runs the "who's that creature" rounds. Round state lives in
// Redis under one key per room with a TTL, so an unanswered quiz simply
// expires.
type QuizService struct {
	pokeapi *PokeAPIService
	cache   *CacheService
	rng     dex.Source
	logger  *zap.Logger
}

func NewQuizService(pokeapi *PokeAPIService, cache *CacheService, rng dex.Source, logger *zap.Logger) *QuizService {
	return &QuizService{
		pokeapi: pokeapi,
		cache:   cache,
		rng:     rng,
		logger:  logger,
	}
}

func quizKey(room string) string {
	return "pokedex:quiz:" + room
}

// StartRound draws an answer and its decoys from the listing pool and
// stores the round. A pool too small for the choice count surfaces
// *dex.InsufficientPoolError so the caller can abort cleanly.
func (q *QuizService) StartRound(ctx context.Context, room string) (*domain.QuizRound, error) {
	pool, err := q.pokeapi.GetQuizPool(ctx)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, &dex.InsufficientPoolError{Need: constants.QuizConfig.ChoiceCount, Have: 0}
	}

	answerRef := pool[q.rng.IntN(len(pool))]

	// Full detail for the answer: sprite for the question, Korean name for
	// judging.
	creature, err := q.pokeapi.GetCreature(ctx, strconv.Itoa(answerRef.ID))
	if err != nil {
		return nil, err
	}
	answerRef = domain.CreatureRef{
		ID:         creature.ID,
		Name:       creature.Name,
		KoreanName: creature.KoreanName,
	}

	choices, err := dex.PickDistractors(pool, answerRef, constants.QuizConfig.ChoiceCount, q.rng)
	if err != nil {
		return nil, err
	}

	choices = q.localizeChoices(ctx, choices, answerRef)

	round := &domain.QuizRound{
		Room:      room,
		Answer:    answerRef,
		Choices:   choices,
		Sprite:    creature.BestSprite(),
		CreatedAt: time.Now(),
	}

	if err := q.cache.Set(ctx, quizKey(room), round, constants.QuizConfig.RoundTTL); err != nil {
		q.logger.Error("Failed to store quiz round", zap.String("room", room), zap.Error(err))
		return nil, err
	}

	q.logger.Info("Quiz round started",
		zap.String("room", room),
		zap.Int("answer_id", answerRef.ID),
		zap.Int("choices", len(choices)),
	)

	return round, nil
}

// localizeChoices swaps Korean names into the choices where the detail
// fetch succeeds. Failures keep the original refs; the quiz still works
// with English labels.
func (q *QuizService) localizeChoices(ctx context.Context, choices []domain.CreatureRef, answer domain.CreatureRef) []domain.CreatureRef {
	missing := make([]domain.CreatureRef, 0, len(choices))
	for _, c := range choices {
		if c.ID != answer.ID && c.KoreanName == "" {
			missing = append(missing, c)
		}
	}
	if len(missing) == 0 {
		return choices
	}

	byID := make(map[int]domain.CreatureRef, len(missing))
	for _, result := range q.pokeapi.GetCreatureBatch(ctx, missing) {
		if result.Err != nil {
			q.logger.Debug("Choice localization failed",
				zap.Int("id", result.Ref.ID),
				zap.Error(result.Err),
			)
			continue
		}
		byID[result.Ref.ID] = domain.CreatureRef{
			ID:         result.Creature.ID,
			Name:       result.Creature.Name,
			KoreanName: result.Creature.KoreanName,
		}
	}

	localized := make([]domain.CreatureRef, len(choices))
	for i, c := range choices {
		if c.ID == answer.ID {
			localized[i] = answer
			continue
		}
		if enriched, ok := byID[c.ID]; ok {
			localized[i] = enriched
			continue
		}
		localized[i] = c
	}

	return localized
}

// PendingRound returns the room's active round, nil when there is none.
func (q *QuizService) PendingRound(ctx context.Context, room string) (*domain.QuizRound, error) {
	var round domain.QuizRound
	if err := q.cache.Get(ctx, quizKey(room), &round); err != nil {
		return nil, err
	}
	if round.Answer.ID == 0 {
		return nil, nil
	}
	return &round, nil
}

// Judge resolves a guess against the room's round. A guess that matches a
// choice, right or wrong, consumes the round. Returns nil when no round
// is active.
func (q *QuizService) Judge(ctx context.Context, room, guess string) (*QuizJudgement, error) {
	round, err := q.PendingRound(ctx, room)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, nil
	}

	matched := matchChoice(round, guess)
	judgement := &QuizJudgement{Round: round, Matched: matched}

	if matched == nil {
		return judgement, nil
	}

	judgement.Correct = matched.ID == round.Answer.ID

	if err := q.cache.Del(ctx, quizKey(room)); err != nil {
		q.logger.Warn("Failed to clear quiz round", zap.String("room", room), zap.Error(err))
	}

	q.logger.Info("Quiz round judged",
		zap.String("room", room),
		zap.Bool("correct", judgement.Correct),
		zap.Int("answer_id", round.Answer.ID),
	)

	return judgement, nil
}

func matchChoice(round *domain.QuizRound, guess string) *domain.CreatureRef {
	trimmed := strings.TrimSpace(guess)
	if trimmed == "" {
		return nil
	}

	if n, err := strconv.Atoi(trimmed); err == nil {
		if round.IsChoice(n) {
			choice := round.Choice(n)
			return &choice
		}
		return nil
	}

	normalized := util.Normalize(trimmed)
	for i := range round.Choices {
		c := &round.Choices[i]
		if util.Normalize(c.Name) == normalized || util.Normalize(c.KoreanName) == normalized {
			return c
		}
	}

	return nil
}
