package domain

import "time"

// DetectionMethod records how a meal entered the system
type DetectionMethod string

const (
	DetectionManual  DetectionMethod = "manual"
	DetectionAIImage DetectionMethod = "ai_image"
)

// Valid reports whether m is one of the known detection methods
func (m DetectionMethod) Valid() bool {
	return m == DetectionManual || m == DetectionAIImage
}

// Meal is a single logged meal. Only MealName, Calories and Notes change after creation.
type Meal struct {
	ID              string          `json:"id" gorm:"primaryKey"`
	UserID          string          `json:"user_id" gorm:"index:idx_meals_user_date,priority:1;not null"`
	MealName        string          `json:"meal_name" gorm:"not null"`
	Calories        int             `json:"calories" gorm:"not null"`
	DetectionMethod DetectionMethod `json:"detection_method" gorm:"not null"`
	ConfidenceScore *int            `json:"confidence_score,omitempty"` // 0-100, AI meals only
	ImageURL        *string         `json:"image_url,omitempty"`
	DateEaten       time.Time       `json:"date_eaten" gorm:"index:idx_meals_user_date,priority:2,sort:desc;not null"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (Meal) TableName() string {
	return "meals"
}

// OwnedBy reports whether the meal belongs to userID
func (m *Meal) OwnedBy(userID string) bool {
	return m.UserID == userID
}

// IsAIDetected is derived from DetectionMethod only
func (m *Meal) IsAIDetected() bool {
	return m.DetectionMethod == DetectionAIImage
}
