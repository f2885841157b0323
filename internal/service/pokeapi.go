package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/kapu/pokedex-kakao-bot-go/internal/constants"
	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
	"github.com/kapu/pokedex-kakao-bot-go/pkg/errors"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// PokeAPICreatureRaw is the raw /pokemon/{id} response, reduced to the
// fields the bot consumes.
type PokeAPICreatureRaw struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Height int    `json:"height"`
	Weight int    `json:"weight"`
	Stats  []struct {
		BaseStat int `json:"base_stat"`
		Stat     struct {
			Name string `json:"name"`
		} `json:"stat"`
	} `json:"stats"`
	Types []struct {
		Slot int `json:"slot"`
		Type struct {
			Name string `json:"name"`
		} `json:"type"`
	} `json:"types"`
	Abilities []struct {
		Ability struct {
			Name string `json:"name"`
		} `json:"ability"`
		IsHidden bool `json:"is_hidden"`
	} `json:"abilities"`
	Moves []struct {
		Move struct {
			Name string `json:"name"`
		} `json:"move"`
	} `json:"moves"`
	Sprites struct {
		FrontDefault *string `json:"front_default"`
		Other        struct {
			OfficialArtwork struct {
				FrontDefault *string `json:"front_default"`
			} `json:"official-artwork"`
		} `json:"other"`
	} `json:"sprites"`
}

// PokeAPISpeciesRaw is the raw /pokemon-species/{id} response, reduced to
// the localized name list.
type PokeAPISpeciesRaw struct {
	Names []struct {
		Name     string `json:"name"`
		Language struct {
			Name string `json:"name"`
		} `json:"language"`
	} `json:"names"`
}

// PokeAPIRefPageRaw is the raw paginated /pokemon listing.
type PokeAPIRefPageRaw struct {
	Count   int `json:"count"`
	Results []struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"results"`
}

// CreatureResult is one entry of a batch fetch: either Creature or Err is
// set. The batch itself always completes; partial failure is the caller's
// decision to handle.
type CreatureResult struct {
	Ref      domain.CreatureRef
	Creature *domain.Creature
	Err      error
}

// PokeAPIService provides access to the public PokéAPI dex with Redis
// caching, retry with backoff and an inline circuit breaker. The API is
// keyless, so rate limiting is handled purely by backing off.
type PokeAPIService struct {
	httpClient       *http.Client
	spriteClient     *http.Client
	cache            *CacheService
	scraper          *ScraperService // fallback for the listing endpoint
	logger           *zap.Logger
	failureCount     int
	failureMu        sync.Mutex
	circuitOpenUntil *time.Time
	circuitMu        sync.RWMutex
}

func NewPokeAPIService(cache *CacheService, scraper *ScraperService, logger *zap.Logger) *PokeAPIService {
	return &PokeAPIService{
		httpClient: &http.Client{
			Timeout: constants.APIConfig.PokeAPITimeout,
		},
		spriteClient: &http.Client{
			Timeout: constants.APIConfig.SpriteTimeout,
		},
		cache:   cache,
		scraper: scraper,
		logger:  logger,
	}
}

func (p *PokeAPIService) isCircuitOpen() bool {
	p.circuitMu.RLock()
	defer p.circuitMu.RUnlock()

	if p.circuitOpenUntil == nil {
		return false
	}
	return time.Now().Before(*p.circuitOpenUntil)
}

func (p *PokeAPIService) openCircuit() {
	p.circuitMu.Lock()
	defer p.circuitMu.Unlock()

	resetTime := time.Now().Add(constants.CircuitBreakerConfig.ResetTimeout)
	p.circuitOpenUntil = &resetTime

	p.failureMu.Lock()
	p.failureCount = 0
	p.failureMu.Unlock()

	p.logger.Error("PokeAPI circuit breaker opened",
		zap.Duration("reset_timeout", constants.CircuitBreakerConfig.ResetTimeout),
	)
}

func (p *PokeAPIService) resetCircuit() {
	p.circuitMu.Lock()
	defer p.circuitMu.Unlock()

	p.failureMu.Lock()
	p.failureCount = 0
	p.failureMu.Unlock()

	p.circuitOpenUntil = nil
}

func (p *PokeAPIService) incrementFailureCount() int {
	p.failureMu.Lock()
	defer p.failureMu.Unlock()
	p.failureCount++
	return p.failureCount
}

func (p *PokeAPIService) computeDelay(attempt int) time.Duration {
	jitter := time.Duration(rand.Float64() * float64(constants.RetryConfig.Jitter))
	base := constants.RetryConfig.BaseDelay * time.Duration(math.Pow(2, float64(attempt)))
	return base + jitter
}

// doRequest performs a GET with retry, backoff and circuit breaker.
func (p *PokeAPIService) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if p.isCircuitOpen() {
		p.circuitMu.RLock()
		var remainingMs int64
		if p.circuitOpenUntil != nil {
			remainingMs = time.Until(*p.circuitOpenUntil).Milliseconds()
		}
		p.circuitMu.RUnlock()

		p.logger.Warn("Circuit breaker is open", zap.Int64("retry_after_ms", remainingMs))
		return nil, errors.NewAPIError("circuit breaker open", 503, map[string]any{
			"retry_after_ms": remainingMs,
		})
	}

	reqURL := constants.APIConfig.PokeAPIBaseURL + path
	if params != nil {
		reqURL += "?" + params.Encode()
	}

	maxAttempts := constants.RetryConfig.MaxAttempts
	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := p.httpClient.Do(req)
		if err != nil {
			lastErr = err
			count := p.incrementFailureCount()

			if count >= constants.CircuitBreakerConfig.FailureThreshold {
				p.openCircuit()
				break
			}

			if attempt < maxAttempts-1 {
				delay := p.computeDelay(attempt)
				p.logger.Warn("Request failed, retrying",
					zap.Error(err),
					zap.Int("attempt", attempt+1),
					zap.Duration("delay", delay),
				)
				time.Sleep(delay)
				continue
			}
			break
		}

		// Read and close inside the loop; defer would pile up across retries.
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()

		if err != nil {
			lastErr = err
			continue
		}

		// Rate limited or server error: back off and retry.
		if resp.StatusCode == 429 || resp.StatusCode >= 500 {
			count := p.incrementFailureCount()
			p.logger.Warn("Upstream error",
				zap.Int("status", resp.StatusCode),
				zap.Int("failure_count", count),
			)

			if count >= constants.CircuitBreakerConfig.FailureThreshold {
				p.openCircuit()
				break
			}

			if attempt < maxAttempts-1 {
				time.Sleep(p.computeDelay(attempt))
				continue
			}

			return nil, errors.NewAPIError(fmt.Sprintf("upstream error: %d", resp.StatusCode), resp.StatusCode, map[string]any{
				"url": reqURL,
			})
		}

		if resp.StatusCode >= 400 {
			return nil, errors.NewAPIError(fmt.Sprintf("client error: %d", resp.StatusCode), resp.StatusCode, map[string]any{
				"url": reqURL,
			})
		}

		p.resetCircuit()
		return body, nil
	}

	if lastErr != nil {
		return nil, lastErr
	}

	return nil, errors.NewAPIError("PokeAPI request failed after all retries", 502, nil)
}

// GetCreature fetches one creature by numeric id or name slug,
// cache-first. The Korean species name is attached best-effort.
func (p *PokeAPIService) GetCreature(ctx context.Context, idOrName string) (*domain.Creature, error) {
	query := strings.ToLower(strings.TrimSpace(idOrName))
	if query == "" {
		return nil, errors.NewValidationError("creature query must not be empty", "idOrName", idOrName)
	}

	cacheKey := "pokedex:creature:" + query

	var cached domain.Creature
	if err := p.cache.Get(ctx, cacheKey, &cached); err == nil && cached.ID != 0 {
		return &cached, nil
	}

	body, err := p.doRequest(ctx, "/pokemon/"+url.PathEscape(query), nil)
	if err != nil {
		if apiErr, ok := err.(*errors.APIError); ok && apiErr.StatusCode == 404 {
			return nil, errors.NewNotFoundError(fmt.Sprintf("creature %q not found", query), query, nil)
		}
		p.logger.Error("Failed to get creature", zap.String("query", query), zap.Error(err))
		return nil, err
	}

	var raw PokeAPICreatureRaw
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, errors.NewAPIError("failed to decode creature response", 502, map[string]any{
			"query": query,
		}).WithCause(err)
	}

	creature := p.mapCreatureResponse(&raw)

	if koName, err := p.GetSpeciesKoreanName(ctx, creature.ID); err != nil {
		p.logger.Warn("Korean species name unavailable",
			zap.Int("id", creature.ID),
			zap.Error(err),
		)
	} else if koName != "" {
		creature.KoreanName = koName
		_ = p.cache.LearnKoreanName(ctx, koName, creature.Name)
	}

	_ = p.cache.Set(ctx, cacheKey, creature, constants.CacheTTL.Creature)

	return creature, nil
}

// GetSpeciesKoreanName resolves the Korean localized species name,
// empty when the upstream has none.
func (p *PokeAPIService) GetSpeciesKoreanName(ctx context.Context, id int) (string, error) {
	cacheKey := fmt.Sprintf("pokedex:species:ko:%d", id)

	var cached string
	if err := p.cache.Get(ctx, cacheKey, &cached); err == nil && cached != "" {
		return cached, nil
	}

	body, err := p.doRequest(ctx, fmt.Sprintf("/pokemon-species/%d", id), nil)
	if err != nil {
		return "", err
	}

	var raw PokeAPISpeciesRaw
	if err := json.Unmarshal(body, &raw); err != nil {
		return "", errors.NewAPIError("failed to decode species response", 502, map[string]any{
			"id": id,
		}).WithCause(err)
	}

	var koName string
	for _, n := range raw.Names {
		if n.Language.Name == "ko" {
			koName = n.Name
			break
		}
	}

	if koName != "" {
		_ = p.cache.Set(ctx, cacheKey, koName, constants.CacheTTL.SpeciesName)
	}

	return koName, nil
}

// ListCreatureRefs returns one listing page plus the total count.
// When the listing endpoint fails entirely the scraper fallback supplies
// refs so the bot keeps limping along.
func (p *PokeAPIService) ListCreatureRefs(ctx context.Context, limit, offset int) ([]domain.CreatureRef, int, error) {
	cacheKey := fmt.Sprintf("pokedex:refs:%d:%d", limit, offset)

	var cached struct {
		Refs  []domain.CreatureRef `json:"refs"`
		Total int                  `json:"total"`
	}
	if err := p.cache.Get(ctx, cacheKey, &cached); err == nil && cached.Refs != nil {
		return cached.Refs, cached.Total, nil
	}

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))

	body, err := p.doRequest(ctx, "/pokemon", params)
	if err != nil {
		if p.shouldUseFallback(err) && p.scraper != nil {
			p.logger.Warn("Using scraper fallback for creature listing", zap.Error(err))

			refs, scrapeErr := p.scraper.FetchCreatureRefs(ctx)
			if scrapeErr != nil {
				if IsStructureError(scrapeErr) {
					p.logger.Error("Dex site layout changed, scraper selectors need updating", zap.Error(scrapeErr))
				} else {
					p.logger.Error("Scraper fallback failed", zap.Error(scrapeErr))
				}
				return nil, 0, err
			}
			return sliceRefs(refs, offset, limit), len(refs), nil
		}
		p.logger.Error("Failed to list creatures", zap.Error(err))
		return nil, 0, err
	}

	var raw PokeAPIRefPageRaw
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, 0, errors.NewAPIError("failed to decode listing response", 502, nil).WithCause(err)
	}

	refs := make([]domain.CreatureRef, 0, len(raw.Results))
	for _, r := range raw.Results {
		id, ok := parseRefID(r.URL)
		if !ok {
			p.logger.Debug("Skipping ref without parseable id", zap.String("url", r.URL))
			continue
		}
		refs = append(refs, domain.CreatureRef{ID: id, Name: r.Name})
	}

	cached.Refs = refs
	cached.Total = raw.Count
	_ = p.cache.Set(ctx, cacheKey, cached, constants.CacheTTL.RefPage)

	return refs, raw.Count, nil
}

// GetQuizPool returns the fixed pool quiz rounds draw from.
func (p *PokeAPIService) GetQuizPool(ctx context.Context) ([]domain.CreatureRef, error) {
	cacheKey := "pokedex:refs:pool"

	var cached []domain.CreatureRef
	if err := p.cache.Get(ctx, cacheKey, &cached); err == nil && cached != nil {
		return cached, nil
	}

	refs, _, err := p.ListCreatureRefs(ctx, constants.DexConfig.QuizPoolLimit, 0)
	if err != nil {
		return nil, err
	}

	_ = p.cache.Set(ctx, cacheKey, refs, constants.CacheTTL.RefPool)

	return refs, nil
}

// GetCreatureBatch fans out detail fetches for the given refs and joins on
// an all-complete barrier. Each entry carries its own error; the batch
// never fails as a whole.
func (p *PokeAPIService) GetCreatureBatch(ctx context.Context, refs []domain.CreatureRef) []CreatureResult {
	results := make([]CreatureResult, len(refs))

	workers := pool.New().WithMaxGoroutines(constants.DexConfig.BatchWorkers)
	for i, ref := range refs {
		workers.Go(func() {
			creature, err := p.GetCreature(ctx, strconv.Itoa(ref.ID))
			results[i] = CreatureResult{Ref: ref, Creature: creature, Err: err}
		})
	}
	workers.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		p.logger.Warn("Batch fetch completed with failures",
			zap.Int("total", len(refs)),
			zap.Int("failed", failed),
		)
	}

	return results
}

// GetSpriteImage fetches raw sprite bytes for image replies, cache-first.
// Sprites live on a different host than the API, so the call is a plain
// GET without the circuit breaker.
func (p *PokeAPIService) GetSpriteImage(ctx context.Context, spriteURL string) ([]byte, error) {
	if spriteURL == "" {
		return nil, errors.NewValidationError("sprite URL must not be empty", "spriteURL", spriteURL)
	}

	cacheKey := "pokedex:sprite:" + spriteURL

	var cached []byte
	if err := p.cache.Get(ctx, cacheKey, &cached); err == nil && len(cached) > 0 {
		return cached, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, spriteURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.spriteClient.Do(req)
	if err != nil {
		return nil, errors.NewAPIError("sprite fetch failed", 502, map[string]any{
			"url": spriteURL,
		}).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewAPIError(fmt.Sprintf("sprite fetch failed: %d", resp.StatusCode), resp.StatusCode, map[string]any{
			"url": spriteURL,
		})
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	_ = p.cache.Set(ctx, cacheKey, data, constants.CacheTTL.Sprite)

	return data, nil
}

func (p *PokeAPIService) mapCreatureResponse(raw *PokeAPICreatureRaw) *domain.Creature {
	creature := &domain.Creature{
		ID:     raw.ID,
		Name:   raw.Name,
		Height: raw.Height,
		Weight: raw.Weight,
	}

	creature.Stats = make([]domain.StatEntry, 0, len(raw.Stats))
	for _, s := range raw.Stats {
		creature.Stats = append(creature.Stats, domain.StatEntry{
			Name: s.Stat.Name,
			Base: s.BaseStat,
		})
	}

	sort.SliceStable(raw.Types, func(i, j int) bool {
		return raw.Types[i].Slot < raw.Types[j].Slot
	})
	creature.Types = make([]string, 0, len(raw.Types))
	for _, t := range raw.Types {
		creature.Types = append(creature.Types, t.Type.Name)
	}

	creature.Abilities = make([]string, 0, len(raw.Abilities))
	for _, a := range raw.Abilities {
		if a.IsHidden {
			continue
		}
		creature.Abilities = append(creature.Abilities, a.Ability.Name)
	}

	maxMoves := constants.DexConfig.MaxMoves
	creature.Moves = make([]string, 0, maxMoves)
	for _, m := range raw.Moves {
		if len(creature.Moves) >= maxMoves {
			break
		}
		creature.Moves = append(creature.Moves, m.Move.Name)
	}

	if raw.Sprites.FrontDefault != nil {
		creature.Sprite = *raw.Sprites.FrontDefault
	}
	if raw.Sprites.Other.OfficialArtwork.FrontDefault != nil {
		creature.Artwork = *raw.Sprites.Other.OfficialArtwork.FrontDefault
	}

	return creature
}

func (p *PokeAPIService) shouldUseFallback(err error) bool {
	if err == nil {
		return false
	}

	if p.isCircuitOpen() {
		return true
	}

	if apiErr, ok := err.(*errors.APIError); ok {
		return apiErr.StatusCode >= 500 || apiErr.StatusCode == 429
	}

	// Transport-level failures (timeouts, DNS) also warrant the fallback.
	return true
}

// parseRefID extracts the trailing numeric id from a resource URL like
// "https://pokeapi.co/api/v2/pokemon/25/".
func parseRefID(resourceURL string) (int, bool) {
	trimmed := strings.TrimRight(resourceURL, "/")
	idx := strings.LastIndex(trimmed, "/")
	if idx < 0 {
		return 0, false
	}
	id, err := strconv.Atoi(trimmed[idx+1:])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func sliceRefs(refs []domain.CreatureRef, offset, limit int) []domain.CreatureRef {
	if offset >= len(refs) {
		return []domain.CreatureRef{}
	}
	end := offset + limit
	if end > len(refs) {
		end = len(refs)
	}
	return refs[offset:end]
}
