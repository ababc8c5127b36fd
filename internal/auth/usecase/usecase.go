package usecase

import (
	"context"

	authdomain "calotrack-backend/internal/auth/domain"
	authdto "calotrack-backend/internal/auth/dto"
)

// AuthUsecase defines account, session and device-token operations
type AuthUsecase interface {
	Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error

	// ValidateToken parses an access token and loads its user
	ValidateToken(ctx context.Context, accessToken string) (*authdomain.User, error)

	GetUserByEmail(ctx context.Context, email string) (*authdomain.User, error)
	UpdateDailyGoal(ctx context.Context, userID string, goal int) (*authdomain.User, error)

	RegisterDevice(ctx context.Context, userID, token, deviceInfo string) error
	UnregisterDevice(ctx context.Context, userID, token string) error
}
