package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultHuggingFaceModelURL is the food-101 image classification model
const DefaultHuggingFaceModelURL = "https://api-inference.huggingface.co/models/nateraw/food"

// HuggingFaceClassifier posts raw image bytes to the inference API
type HuggingFaceClassifier struct {
	apiKey   string
	modelURL string
	client   *http.Client
}

func NewHuggingFaceClassifier(apiKey, modelURL string) *HuggingFaceClassifier {
	if modelURL == "" {
		modelURL = DefaultHuggingFaceModelURL
	}
	return &HuggingFaceClassifier{
		apiKey:   apiKey,
		modelURL: modelURL,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (h *HuggingFaceClassifier) ClassifyImage(ctx context.Context, image []byte) (*Classification, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.modelURL, bytes.NewReader(image))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("huggingface API error (%d): %s", resp.StatusCode, string(respBody))
	}

	// Predictions come sorted by score, best first.
	var predictions []struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal(respBody, &predictions); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(predictions) == 0 || strings.TrimSpace(predictions[0].Label) == "" {
		return nil, ErrNoPrediction
	}

	return &Classification{
		FoodLabel:         predictions[0].Label,
		ConfidencePercent: toPercent(predictions[0].Score),
	}, nil
}
