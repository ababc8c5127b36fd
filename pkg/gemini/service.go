package gemini

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

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type GeminiService struct {
	ApiKey  string
	BaseURL string
	Model   string
	client  *http.Client
}

// Prediction is Gemini's answer about a food photo
type Prediction struct {
	Food       string  `json:"food"`
	Confidence float64 `json:"confidence"`
}

func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{
		ApiKey:  apiKey,
		BaseURL: defaultBaseURL,
		Model:   "gemini-2.5-flash",
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// IdentifyFood sends the image inline and asks for a JSON answer
func (g *GeminiService) IdentifyFood(ctx context.Context, image []byte) (*Prediction, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.BaseURL, g.Model, g.ApiKey)

	prompt := `Identify the main food or dish in this photo.
Return JSON only: {"food": "<short dish name in English>", "confidence": <0..1>}.
If there is no food, return {"food": "", "confidence": 0}.`

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]interface{}{
				{"text": prompt},
				{"inline_data": map[string]string{
					"mime_type": http.DetectContentType(image),
					"data":      base64.StdEncoding.EncodeToString(image),
				}},
			}},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
			"temperature":      0.1,
		},
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Gemini API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, err
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no prediction returned")
	}

	text := strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text)
	text = strings.TrimSuffix(strings.TrimPrefix(text, "```json"), "```")

	var p Prediction
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &p); err != nil {
		return nil, fmt.Errorf("failed to parse prediction: %w", err)
	}
	return &p, nil
}
