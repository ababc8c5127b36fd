package api

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"calotrack-backend/internal/common"
	"calotrack-backend/pkg/ai"

	"github.com/gin-gonic/gin"
)

// ClassifierSettings holds the runtime-configurable Ollama settings read by
// the vision classifier on every call
type ClassifierSettings struct {
	mu            sync.RWMutex
	ollamaBaseURL string
	ollamaModel   string
}

func NewClassifierSettings(ollamaBaseURL, ollamaModel string) *ClassifierSettings {
	return &ClassifierSettings{ollamaBaseURL: ollamaBaseURL, ollamaModel: ollamaModel}
}

// OllamaBaseURL returns the current runtime Ollama base URL
func (s *ClassifierSettings) OllamaBaseURL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ollamaBaseURL
}

// OllamaModel returns the current runtime Ollama model
func (s *ClassifierSettings) OllamaModel() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ollamaModel
}

func (s *ClassifierSettings) update(baseURL, model string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ollamaBaseURL = strings.TrimRight(baseURL, "/")
	if model != "" {
		s.ollamaModel = model
	}
}

// UpdateClassifierSettingsRequest is the body of PUT /api/settings/classifier
type UpdateClassifierSettingsRequest struct {
	OllamaBaseURL string `json:"ollama_base_url" binding:"required,url"`
	OllamaModel   string `json:"ollama_model,omitempty"`
}

type SettingsHandler struct {
	settings *ClassifierSettings
	provider string
}

func NewSettingsHandler(settings *ClassifierSettings, provider string) *SettingsHandler {
	return &SettingsHandler{settings: settings, provider: provider}
}

// GetSettings returns the current classifier configuration
// GET /api/settings/classifier
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"provider":        h.provider,
		"ollama_base_url": h.settings.OllamaBaseURL(),
		"ollama_model":    h.settings.OllamaModel(),
	})
}

// UpdateSettings changes the Ollama endpoint at runtime
// PUT /api/settings/classifier
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	var req UpdateClassifierSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.Validation("ollama_base_url must be a valid URL"))
		return
	}

	h.settings.update(req.OllamaBaseURL, req.OllamaModel)

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"message":         "Classifier settings updated successfully",
		"ollama_base_url": h.settings.OllamaBaseURL(),
		"ollama_model":    h.settings.OllamaModel(),
	})
}

// TestConnection checks that the configured Ollama server is reachable and
// has the model. Only the stored URL is contacted; change it with PUT first.
// POST /api/settings/classifier/test
func (h *SettingsHandler) TestConnection(c *gin.Context) {
	baseURL := h.settings.OllamaBaseURL()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	models, err := ai.NewOllamaClassifier(baseURL, h.settings.OllamaModel()).Ping(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success":   false,
			"connected": false,
			"error":     err.Error(),
		})
		return
	}

	model := h.settings.OllamaModel()
	hasModel := false
	for _, m := range models {
		if m == model || strings.HasPrefix(m, model+":") {
			hasModel = true
			break
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"connected":       true,
		"ollama_base_url": baseURL,
		"models":          models,
		"model_available": hasModel,
	})
}
