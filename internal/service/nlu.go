package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/kapu/pokedex-kakao-bot-go/internal/constants"
	"github.com/kapu/pokedex-kakao-bot-go/internal/domain"
	"github.com/kapu/pokedex-kakao-bot-go/internal/prompt"
	"github.com/kapu/pokedex-kakao-bot-go/internal/util"
	"go.uber.org/zap"
)

// ModelInvoker is what the parse engine needs from the model manager.
type ModelInvoker interface {
	GenerateJSON(ctx context.Context, prompt string, preset ModelPreset, dest any, opts *GenerateOptions) (*GenerateMetadata, error)
}

type ParseCacheEntry struct {
	Result    *domain.ParseResult
	Metadata  *GenerateMetadata
	Timestamp time.Time
}

type ParseCache struct {
	mu      sync.RWMutex
	entries map[string]*ParseCacheEntry
	ttl     time.Duration
}

func NewParseCache(ttl time.Duration) *ParseCache {
	return &ParseCache{
		entries: make(map[string]*ParseCacheEntry),
		ttl:     ttl,
	}
}

func (c *ParseCache) Get(key string) (*ParseCacheEntry, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if time.Since(entry.Timestamp) >= c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	return entry, true
}

func (c *ParseCache) Set(key string, result *domain.ParseResult, metadata *GenerateMetadata) {
	c.mu.Lock()
	c.entries[key] = &ParseCacheEntry{
		Result:    result,
		Metadata:  metadata,
		Timestamp: time.Now(),
	}
	c.mu.Unlock()
}

// ParseEngine turns free-form questions into structured bot commands.
type ParseEngine struct {
	invoker     ModelInvoker
	cache       *ParseCache
	prefix      string
	logger      *zap.Logger
	parsePreset ModelPreset
}

func NewParseEngine(invoker ModelInvoker, commandPrefix string, logger *zap.Logger) *ParseEngine {
	return &ParseEngine{
		invoker:     invoker,
		cache:       NewParseCache(5 * time.Minute),
		prefix:      commandPrefix,
		logger:      logger,
		parsePreset: PresetPrecise,
	}
}

// Parse maps one query onto a command. Model failures degrade to an
// unknown-command result; only a circuit-open condition propagates so the
// user sees the outage notice.
func (e *ParseEngine) Parse(ctx context.Context, query string) (*domain.ParseResult, *GenerateMetadata, error) {
	normalizedQuery := util.Normalize(query)
	cacheKey := fmt.Sprintf("parse:%s", normalizedQuery)

	if entry, ok := e.cache.Get(cacheKey); ok {
		return entry.Result, entry.Metadata, nil
	}

	sanitized := sanitizeInput(query)
	if sanitized == "" {
		e.logger.Warn("Empty query after sanitization")
		result := unknownParseResult("입력된 질문이 비어 있습니다.")
		metadata := &GenerateMetadata{
			Provider: "None",
			Model:    "n/a",
		}
		e.cache.Set(cacheKey, result, metadata)
		return result, metadata, nil
	}

	promptText := prompt.BuildParserPrompt(prompt.ParserPromptVars{
		CommandPrefix: e.prefix,
		UserQuery:     sanitized,
	})

	var rawResult any
	metadata, err := e.invoker.GenerateJSON(ctx, promptText, e.parsePreset, &rawResult, nil)
	if err != nil {
		if strings.Contains(err.Error(), "외부 AI 서비스 장애") {
			return nil, nil, err
		}

		e.logger.Error("Failed to parse natural language", zap.Error(err))
		result := unknownParseResult("자연어 처리 중 오류가 발생했습니다.")
		metadata = &GenerateMetadata{
			Provider: "Unknown",
			Model:    "error",
		}
		e.cache.Set(cacheKey, result, metadata)
		return result, metadata, nil
	}

	parseResult, err := parseAIResponse(rawResult)
	if err != nil {
		e.logger.Error("Failed to parse AI response", zap.Error(err))
		result := unknownParseResult("AI 응답 형식이 올바르지 않습니다.")
		e.cache.Set(cacheKey, result, metadata)
		return result, metadata, nil
	}

	if !parseResult.Command.IsValid() {
		parseResult.Command = domain.CommandUnknown
	}

	e.cache.Set(cacheKey, parseResult, metadata)
	return parseResult, metadata, nil
}

// parseAIResponse accepts either a single object or, defensively, an
// array of which the first valid entry wins.
func parseAIResponse(rawResult any) (*domain.ParseResult, error) {
	if arr, ok := rawResult.([]any); ok {
		for _, item := range arr {
			if pr, err := parseResultObject(item); err == nil {
				return pr, nil
			}
		}
		return nil, fmt.Errorf("no valid results in array")
	}

	return parseResultObject(rawResult)
}

func parseResultObject(obj any) (*domain.ParseResult, error) {
	m, ok := obj.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected object, got %T", obj)
	}

	pr := &domain.ParseResult{
		Params: make(map[string]any),
	}

	if cmd, ok := m["command"].(string); ok {
		pr.Command = domain.CommandType(strings.ToLower(cmd))
	} else {
		return nil, fmt.Errorf("missing command field")
	}

	if params, ok := m["params"].(map[string]any); ok {
		pr.Params = params
	}

	if conf, ok := m["confidence"].(float64); ok {
		pr.Confidence = conf
	}

	if reasoning, ok := m["reasoning"].(string); ok {
		pr.Reasoning = reasoning
	}

	return pr, nil
}

func unknownParseResult(reason string) *domain.ParseResult {
	return &domain.ParseResult{
		Command:    domain.CommandUnknown,
		Params:     make(map[string]any),
		Confidence: 0,
		Reasoning:  reason,
	}
}

var controlCharsPattern = regexp.MustCompile(`[\x00-\x1F\x7F]`)
var whitespacePattern = regexp.MustCompile(`\s+`)

func sanitizeInput(input string) string {
	withoutControl := controlCharsPattern.ReplaceAllString(input, " ")
	normalized := whitespacePattern.ReplaceAllString(withoutControl, " ")
	trimmed := strings.TrimSpace(normalized)

	if trimmed == "" {
		return ""
	}

	if len(trimmed) > constants.AIInputLimits.MaxQueryLength {
		return trimmed[:constants.AIInputLimits.MaxQueryLength]
	}

	return trimmed
}
