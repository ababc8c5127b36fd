package ai

import (
	"context"
	"errors"
)

// Classification is the top prediction for a food photo
type Classification struct {
	FoodLabel         string `json:"food_label"`
	ConfidencePercent int    `json:"confidence"` // 0-100
}

// ImageClassifier identifies the food in an image.
// Implement this interface to add new providers (Hugging Face, Ollama, Gemini, Rekognition, etc.)
type ImageClassifier interface {
	ClassifyImage(ctx context.Context, image []byte) (*Classification, error)
}

// ProviderType represents the classifier provider
type ProviderType string

const (
	ProviderHuggingFace ProviderType = "huggingface"
	ProviderOllama      ProviderType = "ollama"
	ProviderGemini      ProviderType = "gemini"
	ProviderRekognition ProviderType = "rekognition"
	ProviderAuto        ProviderType = "auto"
)

// ErrNoPrediction is returned when a provider answered without any usable label
var ErrNoPrediction = errors.New("no prediction returned")

// toPercent converts a 0..1 score to a clamped integer percentage
func toPercent(score float64) int {
	p := int(score*100 + 0.5)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
