package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/agnivade/levenshtein"
	"github.com/kapu/pokedex-kakao-bot-go/internal/constants"
	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
	"github.com/kapu/pokedex-kakao-bot-go/internal/util"
	"github.com/kapu/pokedex-kakao-bot-go/pkg/errors"
	"go.uber.org/zap"
)

const (
	exactMatchScore     = 1.0
	prefixMatchScore    = 0.9
	substringMatchScore = 0.8
	editBaseScore       = 0.72
	editPenaltyPerStep  = 0.08
	minAcceptScore      = 0.55
	minSuggestionScore  = 0.4
	maxSuggestions      = 3
)

// MatchCacheEntry holds one resolved (or definitively missed) lookup.
type MatchCacheEntry struct {
	Creature    *domain.Creature
	Suggestions []string
	Timestamp   time.Time
}

// CreatureMatcher resolves free-form user queries to creatures.
// Matching strategy:
//  1. Numeric dex number → direct API lookup
//  2. Learned Korean name map (Redis hash) → canonical lookup
//  3. Slugified query → direct API lookup (English names)
//  4. Fuzzy match against the listing pool and learned names
type CreatureMatcher struct {
	pokeapi       *PokeAPIService
	cache         *CacheService
	logger        *zap.Logger
	matchCache    map[string]*MatchCacheEntry
	matchCacheMu  sync.RWMutex
	matchCacheTTL time.Duration
}

func NewCreatureMatcher(pokeapi *PokeAPIService, cache *CacheService, logger *zap.Logger) *CreatureMatcher {
	return &CreatureMatcher{
		pokeapi:       pokeapi,
		cache:         cache,
		logger:        logger,
		matchCache:    make(map[string]*MatchCacheEntry),
		matchCacheTTL: constants.CacheTTL.MatchResult,
	}
}

// FindCreature resolves a query to a creature. A miss returns
// *errors.NotFoundError carrying up to three suggestions; other errors
// mean the upstream is unavailable.
func (cm *CreatureMatcher) FindCreature(ctx context.Context, query string) (*domain.Creature, error) {
	normalized := util.Normalize(query)
	if normalized == "" {
		return nil, errors.NewValidationError("query must not be empty", "query", query)
	}

	cacheKey := "match:" + normalized

	cm.matchCacheMu.RLock()
	cached, found := cm.matchCache[cacheKey]
	cm.matchCacheMu.RUnlock()

	if found {
		age := time.Since(cached.Timestamp)
		if age < cm.matchCacheTTL {
			cm.logger.Debug("Match cache hit",
				zap.String("query", query),
				zap.Duration("age", age),
			)
			if cached.Creature == nil {
				return nil, cm.notFound(normalized, cached.Suggestions)
			}
			return cached.Creature, nil
		}

		cm.matchCacheMu.Lock()
		delete(cm.matchCache, cacheKey)
		cm.matchCacheMu.Unlock()
	}

	cm.logger.Debug("Match cache miss", zap.String("query", query))
	creature, suggestions, err := cm.findCreatureImpl(ctx, normalized)

	// Only settled outcomes are cached; transient upstream failures are not.
	if err == nil || isNotFound(err) {
		cm.matchCacheMu.Lock()
		cm.matchCache[cacheKey] = &MatchCacheEntry{
			Creature:    creature,
			Suggestions: suggestions,
			Timestamp:   time.Now(),
		}
		cm.matchCacheMu.Unlock()

		go func() {
			time.Sleep(cm.matchCacheTTL)
			cm.matchCacheMu.Lock()
			delete(cm.matchCache, cacheKey)
			cm.matchCacheMu.Unlock()
		}()
	}

	return creature, err
}

func (cm *CreatureMatcher) findCreatureImpl(ctx context.Context, query string) (*domain.Creature, []string, error) {
	// 1. Numeric dex number
	if id, err := strconv.Atoi(query); err == nil {
		if id <= 0 {
			return nil, nil, cm.notFound(query, nil)
		}
		creature, err := cm.pokeapi.GetCreature(ctx, query)
		if err != nil {
			if isNotFound(err) {
				return nil, nil, cm.notFound(query, nil)
			}
			return nil, nil, err
		}
		return creature, nil, nil
	}

	// 2. Learned Korean name
	if canonical, err := cm.cache.LookupKoreanName(ctx, query); err == nil && canonical != "" {
		creature, err := cm.pokeapi.GetCreature(ctx, canonical)
		if err == nil {
			cm.logger.Debug("Matched via learned Korean name",
				zap.String("query", query),
				zap.String("canonical", canonical),
			)
			return creature, nil, nil
		}
		if !isNotFound(err) {
			return nil, nil, err
		}
		// Stale mapping, keep going.
	}

	// 3. Direct slug lookup for Latin-script queries
	slug := util.Slugify(query)
	if slug != "" && !hasHangul(slug) {
		creature, err := cm.pokeapi.GetCreature(ctx, slug)
		if err == nil {
			return creature, nil, nil
		}
		if !isNotFound(err) {
			return nil, nil, err
		}
	}

	// 4. Fuzzy match
	candidates, err := cm.candidatePool(ctx)
	if err != nil {
		cm.logger.Warn("Candidate pool unavailable for fuzzy match", zap.Error(err))
		return nil, nil, cm.notFound(query, nil)
	}

	scored := scoreCandidates(query, candidates)
	if len(scored) == 0 {
		return nil, nil, cm.notFound(query, nil)
	}

	best := scored[0]
	suggestions := suggestionNames(scored)

	if best.score < minAcceptScore {
		return nil, suggestions, cm.notFound(query, suggestions)
	}

	cm.logger.Debug("Fuzzy match accepted",
		zap.String("query", query),
		zap.String("matched", best.display),
		zap.Float64("score", best.score),
	)

	creature, err := cm.pokeapi.GetCreature(ctx, best.query)
	if err != nil {
		if isNotFound(err) {
			return nil, suggestions, cm.notFound(query, suggestions)
		}
		return nil, nil, err
	}

	return creature, nil, nil
}

type matchCandidate struct {
	display string
	query   string
	names   []string
}

type scoredCandidate struct {
	display string
	query   string
	score   float64
}

// candidatePool merges the listing pool with every Korean name learned so
// far. Failure here only degrades fuzzy matching, not direct lookups.
func (cm *CreatureMatcher) candidatePool(ctx context.Context) ([]matchCandidate, error) {
	refs, err := cm.pokeapi.GetQuizPool(ctx)
	if err != nil {
		return nil, err
	}

	candidates := make([]matchCandidate, 0, len(refs))
	for _, ref := range refs {
		names := make([]string, 0, 2)
		if ref.Name != "" {
			names = append(names, ref.Name)
		}
		if ref.KoreanName != "" {
			names = append(names, ref.KoreanName)
		}
		if len(names) == 0 {
			continue
		}
		candidates = append(candidates, matchCandidate{
			display: ref.DisplayName(),
			query:   strconv.Itoa(ref.ID),
			names:   names,
		})
	}

	learned, err := cm.cache.KnownKoreanNames(ctx)
	if err != nil {
		cm.logger.Warn("Failed to load learned Korean names", zap.Error(err))
	} else {
		for koName, canonical := range learned {
			candidates = append(candidates, matchCandidate{
				display: koName,
				query:   canonical,
				names:   []string{koName},
			})
		}
	}

	return candidates, nil
}

func scoreCandidates(query string, candidates []matchCandidate) []scoredCandidate {
	scored := make([]scoredCandidate, 0, len(candidates))
	for _, cand := range candidates {
		best := 0.0
		for _, name := range cand.names {
			if s := matchScore(query, name); s > best {
				best = s
			}
		}
		if best >= minSuggestionScore {
			scored = append(scored, scoredCandidate{
				display: cand.display,
				query:   cand.query,
				score:   best,
			})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	return scored
}

func suggestionNames(scored []scoredCandidate) []string {
	names := make([]string, 0, len(scored))
	for _, s := range scored {
		names = append(names, s.display)
	}

	names = util.Unique(names)
	if len(names) > maxSuggestions {
		names = names[:maxSuggestions]
	}
	return names
}

func matchScore(query, candidate string) float64 {
	q := util.Normalize(query)
	c := util.Normalize(candidate)
	if q == "" || c == "" {
		return 0
	}
	if q == c {
		return exactMatchScore
	}
	// Separator and punctuation variants ("mr mime" vs "mr-mime") are exact.
	if util.NormalizeKey(q) == util.NormalizeKey(c) {
		return exactMatchScore
	}
	if strings.HasPrefix(c, q) {
		return prefixMatchScore
	}
	if strings.Contains(c, q) {
		return substringMatchScore
	}

	dist := levenshtein.ComputeDistance(q, c)
	if dist > editDistanceLimit(len([]rune(c))) {
		return 0
	}
	score := editBaseScore - editPenaltyPerStep*float64(dist)
	if score < 0 {
		return 0
	}
	return score
}

// editDistanceLimit scales the tolerated edit distance with candidate
// length so short names do not match everything.
func editDistanceLimit(candidateLen int) int {
	switch {
	case candidateLen <= 4:
		return 1
	case candidateLen <= 7:
		return 2
	default:
		return 3
	}
}

func (cm *CreatureMatcher) notFound(query string, suggestions []string) error {
	return errors.NewNotFoundError(fmt.Sprintf("creature %q not found", query), query, suggestions)
}

func isNotFound(err error) bool {
	_, ok := err.(*errors.NotFoundError)
	return ok
}

func hasHangul(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Hangul, r) {
			return true
		}
	}
	return false
}
