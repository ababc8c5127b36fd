package ai

import (
	"context"
	"strings"

	"calotrack-backend/pkg/gemini"
)

// GeminiClassifier adapts the Gemini vision call to ImageClassifier
type GeminiClassifier struct {
	service *gemini.GeminiService
}

func NewGeminiClassifier(service *gemini.GeminiService) *GeminiClassifier {
	return &GeminiClassifier{service: service}
}

func (g *GeminiClassifier) ClassifyImage(ctx context.Context, image []byte) (*Classification, error) {
	p, err := g.service.IdentifyFood(ctx, image)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Food) == "" {
		return nil, ErrNoPrediction
	}
	conf := p.Confidence
	if conf > 1 {
		conf /= 100
	}
	return &Classification{FoodLabel: strings.TrimSpace(p.Food), ConfidencePercent: toPercent(conf)}, nil
}
