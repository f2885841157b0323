package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/kapu/pokedex-kakao-bot-go/internal/util"
	"go.uber.org/zap"
)

type fakeProvider struct {
	name   string
	result ProviderResult
	err    error
	calls  int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(ctx context.Context, prompt string, preset ModelPreset, opts *GenerateOptions) (ProviderResult, error) {
	f.calls++
	if f.err != nil {
		return ProviderResult{}, f.err
	}
	return f.result, nil
}

func (f *fakeProvider) Ping(ctx context.Context) bool { return f.err == nil }

func newTestManager(primary, fallback JSONProvider) *ModelManager {
	return &ModelManager{
		primary:        primary,
		fallback:       fallback,
		logger:         zap.NewNop(),
		circuitBreaker: util.NewCircuitBreaker(3, time.Minute, time.Minute, nil, zap.NewNop()),
	}
}

func TestGenerateJSONUnmarshalsFencedResponse(t *testing.T) {
	primary := &fakeProvider{
		name:   "Gemini",
		result: ProviderResult{Text: "```json\n{\"command\": \"dex\"}\n```", Model: "test-model"},
	}
	mm := newTestManager(primary, nil)

	var dest map[string]any
	metadata, err := mm.GenerateJSON(context.Background(), "prompt", PresetPrecise, &dest, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dest["command"] != "dex" {
		t.Fatalf("expected fenced JSON to unmarshal, got %v", dest)
	}
	if metadata.Provider != "Gemini" || metadata.UsedFallback {
		t.Fatalf("unexpected metadata: %+v", metadata)
	}
}

func TestGenerateJSONFallsBackWhenPrimaryFails(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", err: fmt.Errorf("boom")}
	fallback := &fakeProvider{
		name:   "OpenAI",
		result: ProviderResult{Text: `{"ok": true}`, Model: "fallback-model"},
	}
	mm := newTestManager(primary, fallback)

	var dest map[string]any
	metadata, err := mm.GenerateJSON(context.Background(), "prompt", PresetPrecise, &dest, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !metadata.UsedFallback || metadata.Provider != "OpenAI" {
		t.Fatalf("expected fallback metadata, got %+v", metadata)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Fatalf("expected both providers tried once, got %d/%d", primary.calls, fallback.calls)
	}
}

func TestGenerateJSONBothProvidersFailing(t *testing.T) {
	primary := &fakeProvider{name: "Gemini", err: fmt.Errorf("boom")}
	fallback := &fakeProvider{name: "OpenAI", err: fmt.Errorf("also boom")}
	mm := newTestManager(primary, fallback)

	var dest map[string]any
	_, err := mm.GenerateJSON(context.Background(), "prompt", PresetPrecise, &dest, nil)
	if err == nil {
		t.Fatal("expected error when both providers fail")
	}
	if !strings.Contains(err.Error(), "일시적인 문제") {
		t.Fatalf("expected user-facing notice, got %v", err)
	}
}

func TestGenerateJSONCircuitOpenShortCircuits(t *testing.T) {
	primary := &fakeProvider{
		name:   "Gemini",
		result: ProviderResult{Text: `{}`, Model: "test-model"},
	}
	mm := newTestManager(primary, nil)

	for i := 0; i < 3; i++ {
		mm.circuitBreaker.RecordFailure(0)
	}

	var dest map[string]any
	_, err := mm.GenerateJSON(context.Background(), "prompt", PresetPrecise, &dest, nil)
	if err == nil {
		t.Fatal("expected circuit-open error")
	}
	if !strings.Contains(err.Error(), "외부 AI 서비스 장애") {
		t.Fatalf("expected outage notice, got %v", err)
	}
	if primary.calls != 0 {
		t.Fatalf("expected provider untouched while circuit open, got %d calls", primary.calls)
	}
}

func TestGenerateJSONRejectsInvalidJSON(t *testing.T) {
	primary := &fakeProvider{
		name:   "Gemini",
		result: ProviderResult{Text: "definitely not json", Model: "test-model"},
	}
	mm := newTestManager(primary, nil)

	var dest map[string]any
	_, err := mm.GenerateJSON(context.Background(), "prompt", PresetPrecise, &dest, nil)
	if err == nil {
		t.Fatal("expected unmarshal error")
	}
	if !strings.Contains(err.Error(), "invalid JSON from Gemini") {
		t.Fatalf("expected provider named in error, got %v", err)
	}
}

func TestGenerateJSONEmptyResponse(t *testing.T) {
	primary := &fakeProvider{
		name:   "Gemini",
		result: ProviderResult{Text: "```\n```", Model: "test-model"},
	}
	mm := newTestManager(primary, nil)

	var dest map[string]any
	_, err := mm.GenerateJSON(context.Background(), "prompt", PresetPrecise, &dest, nil)
	if err == nil {
		t.Fatal("expected empty response error")
	}
	if !strings.Contains(err.Error(), "empty response") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
		{"trailing fence only", "{\"a\":1}\n```", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripCodeFences(tt.in); got != tt.want {
				t.Fatalf("stripCodeFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestIsServiceFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"timeout", fmt.Errorf("connection timeout"), true},
		{"http 503", fmt.Errorf("503 Service Unavailable"), true},
		{"rate limit", fmt.Errorf("429 Too Many Requests"), true},
		{"gemini embedded 500", fmt.Errorf(`{"error":{"code":500,"message":"internal"}}`), true},
		{"client error", fmt.Errorf("404 not found"), false},
		{"plain failure", fmt.Errorf("bad prompt"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isServiceFailure(tt.err); got != tt.want {
				t.Fatalf("isServiceFailure(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsRateLimitError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"status prefix", fmt.Errorf("429 Too Many Requests"), true},
		{"rate limit text", fmt.Errorf("Rate limit exceeded"), true},
		{"quota text", fmt.Errorf("quota exhausted for project"), true},
		{"gemini embedded", fmt.Errorf(`{"error":{"code":429}}`), true},
		{"server error", fmt.Errorf("500 internal"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isRateLimitError(tt.err); got != tt.want {
				t.Fatalf("isRateLimitError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestEmbeddedStatusCode(t *testing.T) {
	if code, ok := embeddedStatusCode(`{"error":{"code":503,"status":"UNAVAILABLE"}}`); !ok || code != 503 {
		t.Fatalf("expected gemini code 503, got %d %v", code, ok)
	}
	if code, ok := embeddedStatusCode("502 Bad Gateway from upstream"); !ok || code != 502 {
		t.Fatalf("expected openai prefix 502, got %d %v", code, ok)
	}
	if _, ok := embeddedStatusCode("no status in here"); ok {
		t.Fatal("expected no code")
	}
}
