package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const classifyPrompt = `You are a nutrition assistant. Look at the photo and name the main food or dish.

Reply with JSON only, no other text:
{"food": "<short dish name in English>", "confidence": <number between 0 and 1>}

If there is no food in the photo reply {"food": "", "confidence": 0}.`

// OllamaClassifier asks a local vision model (llava, bakllava, ...) to name the dish
type OllamaClassifier struct {
	getBaseURL func() string
	getModel   func() string
	client     *http.Client
}

// NewOllamaClassifier creates a classifier with static settings
func NewOllamaClassifier(baseURL, model string) *OllamaClassifier {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if model == "" {
		model = "llava"
	}
	return NewOllamaClassifierWithGetters(
		func() string { return baseURL },
		func() string { return model },
	)
}

// NewOllamaClassifierWithGetters reads the base URL and model on every call so
// they can be changed at runtime from the settings endpoint
func NewOllamaClassifierWithGetters(getBaseURL, getModel func() string) *OllamaClassifier {
	return &OllamaClassifier{
		getBaseURL: getBaseURL,
		getModel:   getModel,
		client:     &http.Client{Timeout: 120 * time.Second},
	}
}

func (o *OllamaClassifier) ClassifyImage(ctx context.Context, image []byte) (*Classification, error) {
	url := strings.TrimRight(o.getBaseURL(), "/") + "/api/generate"

	payload := map[string]interface{}{
		"model":  o.getModel(),
		"prompt": classifyPrompt,
		"images": []string{base64.StdEncoding.EncodeToString(image)},
		"stream": false,
		"format": "json",
		"options": map[string]interface{}{
			"temperature": 0.1,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return parseModelAnswer(result.Response)
}

// Ping checks that the Ollama server answers and lists the installed models
func (o *OllamaClassifier) Ping(ctx context.Context) ([]string, error) {
	url := strings.TrimRight(o.getBaseURL(), "/") + "/api/tags"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama API error (%d)", resp.StatusCode)
	}

	var tags struct {
		Models []struct {
			Name string `json:"name"`
		} `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// parseModelAnswer pulls {"food": ..., "confidence": ...} out of an LLM reply,
// tolerating code fences and surrounding prose
func parseModelAnswer(text string) (*Classification, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, fmt.Errorf("unexpected model answer: %q", text)
	}

	var answer struct {
		Food       string  `json:"food"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &answer); err != nil {
		return nil, fmt.Errorf("failed to parse model answer: %w", err)
	}
	if strings.TrimSpace(answer.Food) == "" {
		return nil, ErrNoPrediction
	}

	// Some models answer in percent despite the prompt.
	if answer.Confidence > 1 {
		answer.Confidence /= 100
	}
	return &Classification{
		FoodLabel:         strings.TrimSpace(answer.Food),
		ConfidencePercent: toPercent(answer.Confidence),
	}, nil
}
