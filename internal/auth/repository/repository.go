package repository

import (
	"context"

	authdomain "calotrack-backend/internal/auth/domain"
)

// UserRepository defines data access for users and their refresh tokens.
// Finders return (nil, nil) when nothing matches.
type UserRepository interface {
	Create(ctx context.Context, user *authdomain.User) error
	FindByEmail(ctx context.Context, email string) (*authdomain.User, error)
	FindByID(ctx context.Context, id string) (*authdomain.User, error)
	UpdateDailyGoal(ctx context.Context, userID string, goal int) error

	SaveRefreshToken(ctx context.Context, token *authdomain.RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*authdomain.RefreshToken, error)
	DeleteRefreshToken(ctx context.Context, token string) error
}

// DeviceTokenRepository stores push notification tokens per user
type DeviceTokenRepository interface {
	SaveToken(ctx context.Context, userID, token, deviceInfo string) error
	GetTokensByUserID(ctx context.Context, userID string) ([]authdomain.DeviceToken, error)
	DeleteToken(ctx context.Context, userID, token string) error
	DeleteTokens(ctx context.Context, tokens []string) error
}
