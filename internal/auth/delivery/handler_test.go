package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	authdomain "calotrack-backend/internal/auth/domain"
	authdto "calotrack-backend/internal/auth/dto"
	"calotrack-backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthUsecase struct {
	user       *authdomain.User
	registerFn func(req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	goalErr    error
}

func (s *stubAuthUsecase) Register(_ context.Context, req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	return s.registerFn(req)
}

func (s *stubAuthUsecase) Login(context.Context, *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	return nil, fmt.Errorf("%w: invalid email or password", common.ErrUnauthorized)
}

func (s *stubAuthUsecase) RefreshToken(context.Context, string) (*authdto.TokenResponse, error) {
	return nil, nil
}

func (s *stubAuthUsecase) Logout(context.Context, string) error { return nil }

func (s *stubAuthUsecase) ValidateToken(_ context.Context, token string) (*authdomain.User, error) {
	if token != "good" {
		return nil, common.ErrUnauthorized
	}
	return s.user, nil
}

func (s *stubAuthUsecase) GetUserByEmail(context.Context, string) (*authdomain.User, error) {
	return s.user, nil
}

func (s *stubAuthUsecase) UpdateDailyGoal(_ context.Context, _ string, goal int) (*authdomain.User, error) {
	if s.goalErr != nil {
		return nil, s.goalErr
	}
	u := *s.user
	u.DailyCalorieGoal = goal
	return &u, nil
}

func (s *stubAuthUsecase) RegisterDevice(context.Context, string, string, string) error { return nil }
func (s *stubAuthUsecase) UnregisterDevice(context.Context, string, string) error       { return nil }

func setupRouter(uc *stubAuthUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAuthHandler(uc)
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	protected := r.Group("/api/auth", AuthMiddleware(uc))
	protected.GET("/me", h.Me)
	protected.PUT("/update-goal", h.UpdateGoal)
	return r
}

func doJSON(r http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestRegister_Created(t *testing.T) {
	uc := &stubAuthUsecase{registerFn: func(req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
		return &authdto.TokenResponse{AccessToken: "a", RefreshToken: "r", User: &authdomain.User{ID: "u1", Email: req.Email, DailyCalorieGoal: 2000}}, nil
	}}

	w, body := doJSON(setupRouter(uc), http.MethodPost, "/api/auth/register", "", gin.H{"email": "a@example.com", "password": "secret1"})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "a", body["access_token"])
	assert.NotContains(t, w.Body.String(), "password")
}

func TestRegister_ShortPassword(t *testing.T) {
	uc := &stubAuthUsecase{}

	w, body := doJSON(setupRouter(uc), http.MethodPost, "/api/auth/register", "", gin.H{"email": "a@example.com", "password": "123"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
}

func TestLogin_BadCredentials(t *testing.T) {
	w, body := doJSON(setupRouter(&stubAuthUsecase{}), http.MethodPost, "/api/auth/login", "", gin.H{"email": "a@example.com", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid email or password", body["error"])
}

func TestMe_RequiresBearer(t *testing.T) {
	uc := &stubAuthUsecase{user: &authdomain.User{ID: "u1", Email: "a@example.com"}}
	r := setupRouter(uc)

	w, _ := doJSON(r, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(r, http.MethodGet, "/api/auth/me", "bad", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body := doJSON(r, http.MethodGet, "/api/auth/me", "good", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a@example.com", body["user"].(map[string]interface{})["email"])
}

func TestUpdateGoal(t *testing.T) {
	uc := &stubAuthUsecase{user: &authdomain.User{ID: "u1", DailyCalorieGoal: 2000}}
	r := setupRouter(uc)

	w, body := doJSON(r, http.MethodPut, "/api/auth/update-goal", "good", gin.H{"daily_calorie_goal": 1800})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1800), body["daily_calorie_goal"])

	w, _ = doJSON(r, http.MethodPut, "/api/auth/update-goal", "good", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	uc.goalErr = common.Validation("daily calorie goal must be between 500 and 10000")
	w, body = doJSON(r, http.MethodPut, "/api/auth/update-goal", "good", gin.H{"daily_calorie_goal": 20000})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "daily calorie goal must be between 500 and 10000", body["error"])
}
