package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	authdomain "calotrack-backend/internal/auth/domain"
	authUsecase "calotrack-backend/internal/auth/usecase"
	"calotrack-backend/internal/common"
	mealUsecase "calotrack-backend/internal/meal/usecase"
	"calotrack-backend/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuth struct {
	authUsecase.AuthUsecase
}

func (stubAuth) ValidateToken(_ context.Context, token string) (*authdomain.User, error) {
	switch token {
	case "good":
		return &authdomain.User{ID: "u1", Email: "jane@example.com", DailyCalorieGoal: 2000}, nil
	case "admin":
		return &authdomain.User{ID: "u2", Email: "Ops@Example.com", DailyCalorieGoal: 2000}, nil
	}
	return nil, common.ErrUnauthorized
}

type stubMeals struct {
	mealUsecase.MealUsecase
}

func newTestEngine(t *testing.T) *gin.Engine {
	return newTestEngineFor(t, "development")
}

func newTestEngineFor(t *testing.T, env string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		Env:              env,
		AIProvider:       "huggingface",
		OllamaBaseURL:    "http://localhost:11434",
		OllamaModel:      "llava",
		DefaultDailyGoal: 2000,
		AIRateLimitRPS:   1,
		AIRateLimitBurst: 1,
		AdminEmails:      []string{"ops@example.com"},
	}
	h, err := NewHandler(context.Background(), stubAuth{}, stubMeals{}, nil, cfg)
	require.NoError(t, err)
	return h.Engine()
}

func request(r http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestEngine(t)

	w := request(r, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = request(r, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "calotrack_http_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	r := newTestEngine(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/meals/today", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestEngine(t)

	for _, path := range []string{"/api/meals/today", "/api/meals/history", "/api/settings/classifier"} {
		w := request(r, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
	w := request(r, http.MethodPost, "/api/ai/identify-only", "bad", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestClassifierSettings(t *testing.T) {
	r := newTestEngine(t)

	w := request(r, http.MethodGet, "/api/settings/classifier", "admin", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "llava", body["ollama_model"])
	assert.Equal(t, "huggingface", body["provider"])

	w = request(r, http.MethodPut, "/api/settings/classifier", "admin", `{"ollama_base_url":"http://gpu-box:11434/","ollama_model":"bakllava"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "http://gpu-box:11434", body["ollama_base_url"])
	assert.Equal(t, "bakllava", body["ollama_model"])

	w = request(r, http.MethodPut, "/api/settings/classifier", "admin", `{"ollama_base_url":"not a url"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClassifierSettings_NonAdminForbidden(t *testing.T) {
	r := newTestEngine(t)

	tests := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/api/settings/classifier", ""},
		{http.MethodPut, "/api/settings/classifier", `{"ollama_base_url":"http://169.254.169.254"}`},
		{http.MethodPost, "/api/settings/classifier/test", ""},
	}
	for _, tt := range tests {
		w := request(r, tt.method, tt.path, "good", tt.body)
		assert.Equal(t, http.StatusForbidden, w.Code, tt.method+" "+tt.path)
		assert.Contains(t, w.Body.String(), "admin access required")
	}

	w := request(r, http.MethodGet, "/api/settings/classifier", "admin", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ollama_base_url":"http://localhost:11434"`)
}

func TestClassifierSettings_TestConnection(t *testing.T) {
	ollama := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"models":[{"name":"llava:latest"}]}`))
	}))
	defer ollama.Close()

	other := false
	elsewhere := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		other = true
	}))
	defer elsewhere.Close()

	r := newTestEngine(t)
	w := request(r, http.MethodPut, "/api/settings/classifier", "admin", `{"ollama_base_url":"`+ollama.URL+`"}`)
	require.Equal(t, http.StatusOK, w.Code)

	// a URL in the body is ignored; only the stored one is checked
	w = request(r, http.MethodPost, "/api/settings/classifier/test", "admin", `{"ollama_base_url":"`+elsewhere.URL+`"}`)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(bytes.NewReader(w.Body.Bytes())).Decode(&body))
	assert.Equal(t, true, body["connected"])
	assert.Equal(t, true, body["model_available"])
	assert.Equal(t, ollama.URL, body["ollama_base_url"])
	assert.False(t, other)
}

func TestRecoveryReturnsJSON(t *testing.T) {
	r := newTestEngine(t)
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := request(r, http.MethodGet, "/boom", "", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "panic: kaboom")
}

func TestErrorDetailByEnvironment(t *testing.T) {
	tests := []struct {
		env        string
		showDetail bool
	}{
		{"development", true},
		{"staging", true},
		{"production", false},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			r := newTestEngineFor(t, tt.env)
			gin.SetMode(gin.TestMode)
			r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

			w := request(r, http.MethodGet, "/boom", "", "")

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			if tt.showDetail {
				assert.Contains(t, w.Body.String(), "panic: kaboom")
			} else {
				assert.NotContains(t, w.Body.String(), "kaboom")
				assert.Contains(t, w.Body.String(), "Internal server error")
			}
		})
	}
}
