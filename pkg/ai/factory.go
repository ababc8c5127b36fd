package ai

import (
	"context"
	"fmt"

	"calotrack-backend/pkg/gemini"
)

// Config holds classifier provider configuration
type Config struct {
	Provider ProviderType

	HuggingFaceAPIKey   string
	HuggingFaceModelURL string

	GeminiAPIKey string

	// Ollama settings are read through getters so the settings endpoint can change them
	OllamaBaseURL func() string
	OllamaModel   func() string

	AWSRegion string
}

// NewClassifier builds the ImageClassifier for cfg.Provider. Every provider is
// wrapped with metrics; "auto" chains every provider that is configured.
func NewClassifier(ctx context.Context, cfg Config) (ImageClassifier, error) {
	switch cfg.Provider {
	case ProviderHuggingFace, "":
		return Instrument(string(ProviderHuggingFace), NewHuggingFaceClassifier(cfg.HuggingFaceAPIKey, cfg.HuggingFaceModelURL)), nil

	case ProviderOllama:
		return Instrument(string(ProviderOllama), newOllama(cfg)), nil

	case ProviderGemini:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required for Gemini provider")
		}
		return Instrument(string(ProviderGemini), NewGeminiClassifier(gemini.NewGeminiService(cfg.GeminiAPIKey))), nil

	case ProviderRekognition:
		if cfg.AWSRegion == "" {
			return nil, fmt.Errorf("AWS_REGION is required for Rekognition provider")
		}
		rek, err := NewRekognitionClassifier(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, err
		}
		return Instrument(string(ProviderRekognition), rek), nil

	case ProviderAuto:
		return NewFallbackClassifier(autoChain(ctx, cfg)...), nil

	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}

func newOllama(cfg Config) *OllamaClassifier {
	if cfg.OllamaBaseURL != nil && cfg.OllamaModel != nil {
		return NewOllamaClassifierWithGetters(cfg.OllamaBaseURL, cfg.OllamaModel)
	}
	return NewOllamaClassifier("", "")
}

func autoChain(ctx context.Context, cfg Config) []NamedClassifier {
	var chain []NamedClassifier
	add := func(p ProviderType, c ImageClassifier) {
		chain = append(chain, NamedClassifier{Name: string(p), Classifier: Instrument(string(p), c)})
	}

	if cfg.HuggingFaceAPIKey != "" {
		add(ProviderHuggingFace, NewHuggingFaceClassifier(cfg.HuggingFaceAPIKey, cfg.HuggingFaceModelURL))
	}
	if cfg.GeminiAPIKey != "" {
		add(ProviderGemini, NewGeminiClassifier(gemini.NewGeminiService(cfg.GeminiAPIKey)))
	}
	if cfg.AWSRegion != "" {
		if rek, err := NewRekognitionClassifier(ctx, cfg.AWSRegion); err == nil {
			add(ProviderRekognition, rek)
		}
	}
	add(ProviderOllama, newOllama(cfg))
	return chain
}
