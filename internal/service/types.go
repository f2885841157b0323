package service

// ModelPreset selects a generation tuning profile. Callers state the
// intent; providers map it onto their SDK's knobs.
type ModelPreset string

const (
	PresetPrecise  ModelPreset = "precise"  // 명령 해석용, 낮은 온도
	PresetBalanced ModelPreset = "balanced" // 기본값
	PresetCreative ModelPreset = "creative" // 자유 서술형 응답
)

// ModelConfig holds provider-neutral generation parameters.
type ModelConfig struct {
	Temperature      float32
	TopP             float32
	TopK             int
	MaxOutputTokens  int
	ResponseMimeType string // "application/json" when JSON mode is forced
}

// presetConfigs is the single tuning table. The OpenAI view is projected
// from it so the two providers cannot drift apart.
var presetConfigs = map[ModelPreset]ModelConfig{
	PresetPrecise: {
		Temperature:     0.1,
		TopP:            0.9,
		TopK:            20,
		MaxOutputTokens: 512,
	},
	PresetBalanced: {
		Temperature:     0.1,
		TopP:            0.95,
		TopK:            40,
		MaxOutputTokens: 4096,
	},
	PresetCreative: {
		Temperature:     0.7,
		TopP:            0.95,
		TopK:            40,
		MaxOutputTokens: 2048,
	},
}

// GetPresetConfig returns the tuning for a preset, falling back to the
// balanced profile for unknown values.
func GetPresetConfig(preset ModelPreset) ModelConfig {
	if config, ok := presetConfigs[preset]; ok {
		return config
	}
	return presetConfigs[PresetBalanced]
}

// OpenAIPresetConfig is the subset of ModelConfig the OpenAI chat API
// accepts.
type OpenAIPresetConfig struct {
	Temperature float32
	TopP        float32
	MaxTokens   int
}

// GetOpenAIPresetConfig projects the preset tuning onto OpenAI parameters.
func GetOpenAIPresetConfig(preset ModelPreset) OpenAIPresetConfig {
	config := GetPresetConfig(preset)
	return OpenAIPresetConfig{
		Temperature: config.Temperature,
		TopP:        config.TopP,
		MaxTokens:   config.MaxOutputTokens,
	}
}

// GenerateMetadata reports which provider and model served a request.
type GenerateMetadata struct {
	Provider     string
	Model        string
	UsedFallback bool
}

// GenerateOptions tweaks a single generation call.
type GenerateOptions struct {
	Model     string       // override the provider's default model
	JSONMode  bool         // force a JSON response body
	Overrides *ModelConfig // per-call parameter overrides
}
