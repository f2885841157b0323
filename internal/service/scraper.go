package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/kapu/pokedex-kakao-bot-go/internal/constants"
	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
	"go.uber.org/zap"
)

// ScraperService scrapes the official Korean Pokédex site as a fallback
// when the API listing is unavailable. It only yields dex numbers and
// Korean names; detail lookups still go through the API by id.
type ScraperService struct {
	httpClient *http.Client
	cache      *CacheService
	logger     *zap.Logger
	baseURL    string
}

const (
	scraperRefsCacheKey = "pokedex:scraper:refs"
	scraperCacheExpiry  = 30 * time.Minute
)

var dexNumberPattern = regexp.MustCompile(`No\.\s*0*(\d+)`)

func NewScraperService(cache *CacheService, logger *zap.Logger) *ScraperService {
	return &ScraperService{
		httpClient: &http.Client{
			Timeout: constants.APIConfig.ScraperTimeout,
		},
		cache:   cache,
		logger:  logger,
		baseURL: constants.APIConfig.ScraperBaseURL,
	}
}

// FetchCreatureRefs returns the scraped dex listing, cache-first.
func (s *ScraperService) FetchCreatureRefs(ctx context.Context) ([]domain.CreatureRef, error) {
	var cached []domain.CreatureRef
	if err := s.cache.Get(ctx, scraperRefsCacheKey, &cached); err == nil && len(cached) > 0 {
		s.logger.Debug("Scraper cache hit", zap.Int("refs", len(cached)))
		return cached, nil
	}

	s.logger.Info("Fetching from official pokedex site (FALLBACK MODE)",
		zap.String("url", s.baseURL))

	refs, err := s.fetchAllRefs(ctx)
	if err != nil {
		return nil, fmt.Errorf("scraper failed: %w", err)
	}

	_ = s.cache.Set(ctx, scraperRefsCacheKey, refs, scraperCacheExpiry)

	for _, ref := range refs {
		if ref.KoreanName != "" {
			_ = s.cache.LearnKoreanName(ctx, ref.KoreanName, strconv.Itoa(ref.ID))
		}
	}

	s.logger.Info("Scraper completed", zap.Int("refs", len(refs)))

	return refs, nil
}

func (s *ScraperService) fetchAllRefs(ctx context.Context) ([]domain.CreatureRef, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"/pokedex", nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; PokedexBot/1.0)")
	req.Header.Set("Accept-Language", "ko")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("HTML parse failed: %w", err)
	}

	refs := make([]domain.CreatureRef, 0)
	seen := make(map[int]bool)
	parseErrors := 0

	doc.Find("ul.list-result li, ul.pokemon-list li").Each(func(i int, sel *goquery.Selection) {
		ref, err := s.parseEntry(sel)
		if err != nil {
			parseErrors++
			s.logger.Debug("Failed to parse pokedex entry", zap.Error(err))
			return
		}

		// Regional forms repeat the dex number; keep the first.
		if seen[ref.ID] {
			return
		}
		seen[ref.ID] = true
		refs = append(refs, ref)
	})

	if len(refs) == 0 {
		return nil, &StructureChangedError{
			Message:     "No pokedex entries found - HTML structure may have changed",
			ParseErrors: parseErrors,
		}
	}

	if parseErrors > len(refs)/2 {
		s.logger.Warn("High parse error rate detected",
			zap.Int("successes", len(refs)),
			zap.Int("errors", parseErrors))
	}

	s.logger.Info("Scraper fetched pokedex listing",
		zap.Int("total", len(refs)),
		zap.Int("parse_errors", parseErrors))

	return refs, nil
}

func (s *ScraperService) parseEntry(sel *goquery.Selection) (domain.CreatureRef, error) {
	numText := strings.TrimSpace(sel.Find("p.t-no, .bx-txt p").First().Text())
	match := dexNumberPattern.FindStringSubmatch(numText)
	if match == nil {
		match = dexNumberPattern.FindStringSubmatch(sel.Text())
	}
	if match == nil {
		return domain.CreatureRef{}, fmt.Errorf("no dex number in %q", numText)
	}

	id, err := strconv.Atoi(match[1])
	if err != nil || id <= 0 {
		return domain.CreatureRef{}, fmt.Errorf("invalid dex number %q", match[1])
	}

	name := strings.TrimSpace(sel.Find("h3.t-name, .bx-txt h3").First().Text())
	if name == "" {
		name = strings.TrimSpace(sel.Find("strong").First().Text())
	}
	if name == "" {
		return domain.CreatureRef{}, fmt.Errorf("no name for dex number %d", id)
	}

	return domain.CreatureRef{ID: id, KoreanName: name}, nil
}

// StructureChangedError signals that the dex site markup no longer matches
// the selectors this scraper expects.
type StructureChangedError struct {
	Message     string
	ParseErrors int
}

func (e *StructureChangedError) Error() string {
	return fmt.Sprintf("%s (parse errors: %d)", e.Message, e.ParseErrors)
}

// IsStructureError reports whether err (or anything it wraps) is a
// StructureChangedError.
func IsStructureError(err error) bool {
	var structureErr *StructureChangedError
	return errors.As(err, &structureErr)
}
