package delivery

import (
	"net/http"

	authdto "calotrack-backend/internal/auth/dto"
	"calotrack-backend/internal/auth/usecase"
	"calotrack-backend/internal/common"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// Register creates an account and signs it in
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req authdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.Validation("%s", err.Error()))
		return
	}

	resp, err := h.authUsecase.Register(c.Request.Context(), &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"access_token":  resp.AccessToken,
		"refresh_token": resp.RefreshToken,
		"user":          resp.User,
	})
}

// Login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.Validation("%s", err.Error()))
		return
	}

	resp, err := h.authUsecase.Login(c.Request.Context(), &req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"access_token":  resp.AccessToken,
		"refresh_token": resp.RefreshToken,
		"user":          resp.User,
	})
}

// RefreshToken exchanges a refresh token for a new token pair
// POST /api/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req authdto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.Validation("%s", err.Error()))
		return
	}

	resp, err := h.authUsecase.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"access_token":  resp.AccessToken,
		"refresh_token": resp.RefreshToken,
		"user":          resp.User,
	})
}

// Logout
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req authdto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.Validation("%s", err.Error()))
		return
	}

	if err := h.authUsecase.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out successfully"})
}

// Me returns the authenticated user
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "user": CurrentUser(c)})
}

// UpdateGoal
// PUT /api/auth/update-goal
func (h *AuthHandler) UpdateGoal(c *gin.Context) {
	var req authdto.UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.Validation("daily calorie goal is required"))
		return
	}

	user, err := h.authUsecase.UpdateDailyGoal(c.Request.Context(), c.GetString(userIDKey), req.DailyCalorieGoal)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"message":            "Daily calorie goal updated",
		"daily_calorie_goal": user.DailyCalorieGoal,
	})
}

// RegisterDevice stores a push token for the authenticated user
// POST /api/devices
func (h *AuthHandler) RegisterDevice(c *gin.Context) {
	var req authdto.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.Validation("%s", err.Error()))
		return
	}

	if err := h.authUsecase.RegisterDevice(c.Request.Context(), c.GetString(userIDKey), req.Token, req.DeviceInfo); err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Device registered"})
}

// UnregisterDevice
// DELETE /api/devices/:token
func (h *AuthHandler) UnregisterDevice(c *gin.Context) {
	if err := h.authUsecase.UnregisterDevice(c.Request.Context(), c.GetString(userIDKey), c.Param("token")); err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Device unregistered"})
}
