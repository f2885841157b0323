package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kapu/pokedex-kakao-bot-go/internal/constants"
	"github.com/kapu/pokedex-kakao-bot-go/internal/util"
	"go.uber.org/zap"
)

// ModelManager routes structured generation to the primary provider with
// optional fallback, behind a shared circuit breaker. Providers are only
// reached through the JSONProvider interface.
type ModelManager struct {
	primary        JSONProvider
	fallback       JSONProvider
	logger         *zap.Logger
	circuitBreaker *util.CircuitBreaker
}

type ModelManagerConfig struct {
	GeminiAPIKey       string
	OpenAIAPIKey       string
	DefaultGeminiModel string
	DefaultOpenAIModel string
	EnableFallback     bool
}

func NewModelManager(ctx context.Context, cfg ModelManagerConfig, logger *zap.Logger) (*ModelManager, error) {
	defaultGemini := cfg.DefaultGeminiModel
	if defaultGemini == "" {
		defaultGemini = "gemini-2.0-flash"
	}

	defaultOpenAI := cfg.DefaultOpenAIModel
	if defaultOpenAI == "" {
		defaultOpenAI = "gpt-4o-mini"
	}

	primary, err := NewGeminiProvider(ctx, cfg.GeminiAPIKey, defaultGemini, logger)
	if err != nil {
		return nil, err
	}

	mm := &ModelManager{
		primary: primary,
		logger:  logger,
	}

	if cfg.EnableFallback && cfg.OpenAIAPIKey != "" {
		if fallback := NewOpenAIProvider(cfg.OpenAIAPIKey, defaultOpenAI, logger); fallback != nil {
			mm.fallback = fallback
			logger.Info("OpenAI fallback enabled", zap.String("model", defaultOpenAI))
		}
	} else {
		logger.Info("OpenAI fallback disabled (no API key)")
	}

	mm.circuitBreaker = util.NewCircuitBreaker(
		constants.CircuitBreakerConfig.FailureThreshold,
		constants.CircuitBreakerConfig.ResetTimeout,
		constants.CircuitBreakerConfig.HealthCheckInterval,
		mm.healthCheckPing,
		logger,
	)

	return mm, nil
}

// GenerateJSON produces a JSON response and unmarshals it into dest.
func (mm *ModelManager) GenerateJSON(ctx context.Context, prompt string, preset ModelPreset, dest any, opts *GenerateOptions) (*GenerateMetadata, error) {
	if !mm.circuitBreaker.CanExecute() {
		status := mm.circuitBreaker.GetStatus()
		nextRetry := "알 수 없음"
		if status.NextRetryTime != nil {
			nextRetry = util.FormatKST(*status.NextRetryTime, "15:04")
		}

		mm.logger.Error("AI service unavailable (Circuit OPEN)",
			zap.String("state", status.State.String()),
			zap.Int("failure_count", status.FailureCount),
			zap.String("next_retry", nextRetry),
		)

		return nil, fmt.Errorf("⚠️ 외부 AI 서비스 장애 감지\nGoogle/OpenAI API에 일시적인 문제가 발생했습니다.\n\n🔄 자동 복구 대기 중 (%s 재확인 → 복구 시 자동 재개)", nextRetry)
	}

	if opts == nil {
		opts = &GenerateOptions{}
	}
	opts.JSONMode = true

	result, metadata, err := mm.generate(ctx, prompt, preset, opts)
	if err != nil {
		return nil, err
	}

	cleaned := stripCodeFences(result.Text)
	if cleaned == "" {
		return nil, fmt.Errorf("%s API returned empty response", metadata.Provider)
	}

	if err := json.Unmarshal([]byte(cleaned), dest); err != nil {
		preview := cleaned[:min(len(cleaned), 200)]
		mm.logger.Error("Failed to unmarshal JSON response",
			zap.String("provider", metadata.Provider),
			zap.Error(err),
			zap.String("response_preview", preview),
		)
		return nil, fmt.Errorf("invalid JSON from %s: %w", metadata.Provider, err)
	}

	return metadata, nil
}

func (mm *ModelManager) generate(ctx context.Context, prompt string, preset ModelPreset, opts *GenerateOptions) (ProviderResult, *GenerateMetadata, error) {
	primaryResult, primaryErr := mm.primary.Generate(ctx, prompt, preset, opts)
	if primaryErr == nil {
		mm.circuitBreaker.RecordSuccess()
		return primaryResult, &GenerateMetadata{
			Provider:     mm.primary.Name(),
			Model:        primaryResult.Model,
			UsedFallback: false,
		}, nil
	}

	if mm.fallback == nil {
		mm.recordFailure(primaryErr, nil)
		return ProviderResult{}, nil, primaryErr
	}

	fallbackResult, fallbackErr := mm.fallback.Generate(ctx, prompt, preset, opts)
	if fallbackErr == nil {
		mm.circuitBreaker.RecordSuccess()
		return fallbackResult, &GenerateMetadata{
			Provider:     mm.fallback.Name(),
			Model:        fallbackResult.Model,
			UsedFallback: true,
		}, nil
	}

	mm.recordFailure(primaryErr, fallbackErr)
	return ProviderResult{}, nil, fmt.Errorf("AI 서비스에 일시적인 문제가 발생했습니다. 잠시 후 다시 시도해주세요")
}

func (mm *ModelManager) recordFailure(primaryErr, fallbackErr error) {
	if !isServiceFailure(primaryErr) && !isServiceFailure(fallbackErr) {
		return
	}

	timeout := constants.CircuitBreakerConfig.ResetTimeout
	if isRateLimitError(primaryErr) || isRateLimitError(fallbackErr) {
		timeout = constants.CircuitBreakerConfig.RateLimitTimeout
	}
	mm.circuitBreaker.RecordFailure(timeout)
}

func (mm *ModelManager) healthCheckPing() bool {
	mm.logger.Info("Health Check: Testing AI services...")

	ctx, cancel := context.WithTimeout(context.Background(), constants.CircuitBreakerConfig.HealthCheckTimeout)
	defer cancel()

	primaryOK := mm.primary.Ping(ctx)
	fallbackOK := false

	if mm.fallback != nil {
		fallbackOK = mm.fallback.Ping(ctx)
	}

	isHealthy := primaryOK || fallbackOK

	mm.logger.Info("Health Check: Result",
		zap.Bool("primary", primaryOK),
		zap.Bool("fallback", fallbackOK),
		zap.Bool("healthy", isHealthy),
	)

	return isHealthy
}

func stripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "```json"))
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, "```"))
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, "```"))
	}
	return cleaned
}

func isServiceFailure(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	if strings.Contains(msg, "timeout") || strings.Contains(msg, "ETIMEDOUT") {
		return true
	}

	if isRateLimitError(err) {
		return true
	}

	statusRegex := regexp.MustCompile(`\b(5\d{2})\b`)
	if statusRegex.MatchString(msg) {
		return true
	}

	if code, ok := embeddedStatusCode(msg); ok {
		return code >= 500 && code < 600
	}

	return false
}

func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}

	msg := err.Error()

	if strings.Contains(msg, "429") || strings.Contains(msg, "Rate limit") || strings.Contains(msg, "quota") {
		return true
	}

	if code, ok := embeddedStatusCode(msg); ok {
		return code == 429
	}

	return false
}

// embeddedStatusCode digs an HTTP status out of provider error strings,
// either Gemini's `"code":NNN` JSON or OpenAI's leading "NNN " prefix.
func embeddedStatusCode(msg string) (int, bool) {
	geminiCodeRegex := regexp.MustCompile(`"code":(\d{3})`)
	if matches := geminiCodeRegex.FindStringSubmatch(msg); len(matches) > 1 {
		if code, err := strconv.Atoi(matches[1]); err == nil {
			return code, true
		}
	}

	openaiCodeRegex := regexp.MustCompile(`^(\d{3})\s`)
	if matches := openaiCodeRegex.FindStringSubmatch(msg); len(matches) > 1 {
		if code, err := strconv.Atoi(matches[1]); err == nil {
			return code, true
		}
	}

	return 0, false
}
