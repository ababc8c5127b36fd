package delivery

import (
	"net/http"
	"strconv"
	"time"

	authdelivery "calotrack-backend/internal/auth/delivery"
	"calotrack-backend/internal/common"
	"calotrack-backend/internal/meal/dto"
	"calotrack-backend/internal/meal/usecase"

	"github.com/gin-gonic/gin"
)

// MealHandler handles meal-related HTTP requests
type MealHandler struct {
	mealUsecase usecase.MealUsecase
	defaultGoal int
	now         func() time.Time
}

// NewMealHandler creates a new MealHandler. defaultGoal is used when the
// authenticated user carries no goal.
func NewMealHandler(mealUsecase usecase.MealUsecase, defaultGoal int) *MealHandler {
	return &MealHandler{
		mealUsecase: mealUsecase,
		defaultGoal: defaultGoal,
		now:         time.Now,
	}
}

func (h *MealHandler) dailyGoal(c *gin.Context) int {
	if user := authdelivery.CurrentUser(c); user != nil && user.DailyCalorieGoal > 0 {
		return user.DailyCalorieGoal
	}
	return h.defaultGoal
}

// clientTime parses ?client_time=, falling back to the server clock
func (h *MealHandler) clientTime(c *gin.Context) (time.Time, error) {
	raw := c.Query("client_time")
	if raw == "" {
		return h.now(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, common.Validation("client_time must be RFC3339")
	}
	return t, nil
}

// CreateManualMeal
// POST /api/meals/manual
func (h *MealHandler) CreateManualMeal(c *gin.Context) {
	var req dto.CreateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.Validation("meal name and calories are required"))
		return
	}

	meal, err := h.mealUsecase.CreateManualMeal(c.Request.Context(), c.GetString("userID"), req)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "meal": meal})
}

// GetToday returns meals between the server's midnights
// GET /api/meals/today
func (h *MealHandler) GetToday(c *gin.Context) {
	overview, err := h.mealUsecase.GetToday(c.Request.Context(), c.GetString("userID"), h.dailyGoal(c))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	respondOverview(c, overview)
}

// GetLogicalToday applies the 4 AM cutoff to the client's clock
// GET /api/meals/logical-today?client_time=2024-03-10T02:30:00-05:00
func (h *MealHandler) GetLogicalToday(c *gin.Context) {
	now, err := h.clientTime(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	overview, err := h.mealUsecase.GetLogicalToday(c.Request.Context(), c.GetString("userID"), h.dailyGoal(c), now)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	respondOverview(c, overview)
}

func respondOverview(c *gin.Context, o *dto.DailyOverview) {
	c.JSON(http.StatusOK, gin.H{
		"success":            true,
		"date":               o.Date,
		"meals":              o.Meals,
		"total_calories":     o.TotalCalories,
		"daily_goal":         o.DailyGoal,
		"remaining_calories": o.RemainingCalories,
		"progress":           o.Progress,
	})
}

// GetHistory
// GET /api/meals/history?startDate=2024-03-01&endDate=2024-03-31
func (h *MealHandler) GetHistory(c *gin.Context) {
	days, err := h.mealUsecase.GetHistory(c.Request.Context(), c.GetString("userID"), c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"history":    days,
		"total_days": len(days),
	})
}

// GetCalendar returns the 42-cell grid of a month. Defaults to the current month.
// GET /api/meals/calendar?year=2024&month=9
func (h *MealHandler) GetCalendar(c *gin.Context) {
	today, err := h.clientTime(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(today.Year())))
	if err != nil {
		common.RespondError(c, common.Validation("year must be a number"))
		return
	}
	month, err := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(today.Month()))))
	if err != nil {
		common.RespondError(c, common.Validation("month must be a number"))
		return
	}

	grid, err := h.mealUsecase.GetCalendar(c.Request.Context(), c.GetString("userID"), year, time.Month(month), today)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"year":          grid.Year,
		"month":         grid.Month,
		"leading_days":  grid.Leading(),
		"days_in_month": grid.DaysInMonth(),
		"cells":         grid.Cells,
	})
}

// GetCalendarDay
// GET /api/meals/calendar/day?date=2024-09-14
func (h *MealHandler) GetCalendarDay(c *gin.Context) {
	date := c.Query("date")
	lookup, err := h.mealUsecase.GetCalendarDay(c.Request.Context(), c.GetString("userID"), date)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	if !lookup.HasData() {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "No meals logged on this day",
			"date":    lookup.Date,
			"status":  lookup.Status,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"date":    lookup.Date,
		"status":  lookup.Status,
		"summary": lookup.Summary,
	})
}

// SearchMeals
// GET /api/meals/search?q=piza&limit=20
func (h *MealHandler) SearchMeals(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	meals, err := h.mealUsecase.SearchMeals(c.Request.Context(), c.GetString("userID"), c.Query("q"), limit)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "meals": meals, "count": len(meals)})
}

// GetMeal
// GET /api/meals/:mealId
func (h *MealHandler) GetMeal(c *gin.Context) {
	meal, err := h.mealUsecase.GetMealByID(c.Request.Context(), c.GetString("userID"), c.Param("mealId"))
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "meal": meal})
}

// UpdateMeal
// PUT /api/meals/:mealId
func (h *MealHandler) UpdateMeal(c *gin.Context) {
	var req dto.UpdateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, common.Validation("%s", err.Error()))
		return
	}

	meal, err := h.mealUsecase.UpdateMeal(c.Request.Context(), c.GetString("userID"), c.Param("mealId"), req)
	if err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "meal": meal})
}

// DeleteMeal
// DELETE /api/meals/:mealId
func (h *MealHandler) DeleteMeal(c *gin.Context) {
	if err := h.mealUsecase.DeleteMeal(c.Request.Context(), c.GetString("userID"), c.Param("mealId")); err != nil {
		common.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Meal deleted"})
}

// RegisterRoutes mounts the meal routes on an authenticated group
func (h *MealHandler) RegisterRoutes(meals *gin.RouterGroup) {
	meals.POST("/manual", h.CreateManualMeal)
	meals.GET("/today", h.GetToday)
	meals.GET("/logical-today", h.GetLogicalToday)
	meals.GET("/history", h.GetHistory)
	meals.GET("/calendar", h.GetCalendar)
	meals.GET("/calendar/day", h.GetCalendarDay)
	meals.GET("/search", h.SearchMeals)
	meals.GET("/:mealId", h.GetMeal)
	meals.PUT("/:mealId", h.UpdateMeal)
	meals.DELETE("/:mealId", h.DeleteMeal)
}
