package domain

import "time"

const (
	MinDailyGoal     = 500
	MaxDailyGoal     = 10000
	DefaultDailyGoal = 2000
)

type User struct {
	ID               string    `json:"id" gorm:"primaryKey"`
	Email            string    `json:"email" gorm:"uniqueIndex;not null"`
	Password         string    `json:"-" gorm:"not null"` // Never return password in JSON
	DailyCalorieGoal int       `json:"daily_calorie_goal" gorm:"not null;default:2000"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type RefreshToken struct {
	Token     string    `json:"token" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"index;not null"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ValidGoal reports whether goal is inside the accepted daily range.
func ValidGoal(goal int) bool {
	return goal >= MinDailyGoal && goal <= MaxDailyGoal
}
