package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	authdomain "calotrack-backend/internal/auth/domain"
	authdto "calotrack-backend/internal/auth/dto"
	"calotrack-backend/internal/auth/repository"
	"calotrack-backend/internal/common"
	"calotrack-backend/pkg/config"
	"calotrack-backend/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var errInvalidCredentials = fmt.Errorf("%w: invalid email or password", common.ErrUnauthorized)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo   repository.UserRepository
	deviceRepo repository.DeviceTokenRepository
	config     *config.Config
	log        *logrus.Entry
	now        func() time.Time
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, deviceRepo repository.DeviceTokenRepository, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		userRepo:   userRepo,
		deviceRepo: deviceRepo,
		config:     cfg,
		log:        logger.For("AuthUsecase"),
		now:        time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *authUsecase) Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	email := normalizeEmail(req.Email)

	goal := u.config.DefaultDailyGoal
	if req.DailyCalorieGoal != nil {
		goal = *req.DailyCalorieGoal
	}
	if !authdomain.ValidGoal(goal) {
		return nil, common.Validation("daily calorie goal must be between %d and %d", authdomain.MinDailyGoal, authdomain.MaxDailyGoal)
	}

	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", common.ErrConflict)
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &authdomain.User{
		Email:            email,
		Password:         hashedPassword,
		DailyCalorieGoal: goal,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	u.log.WithField("user_id", user.ID).Info("user registered")

	return u.generateTokens(ctx, user)
}

func (u *authUsecase) Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, errInvalidCredentials
	}

	return u.generateTokens(ctx, user)
}

func (u *authUsecase) RefreshToken(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error) {
	userID, err := u.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid refresh token", common.ErrUnauthorized)
	}

	storedToken, err := u.userRepo.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if storedToken == nil || storedToken.ExpiresAt.Before(u.now()) {
		return nil, fmt.Errorf("%w: refresh token expired", common.ErrUnauthorized)
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user not found", common.ErrUnauthorized)
	}

	// Rotate: the presented token is single use.
	if err := u.userRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}
	return u.generateTokens(ctx, user)
}

func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	return u.userRepo.DeleteRefreshToken(ctx, refreshToken)
}

func (u *authUsecase) ValidateToken(ctx context.Context, accessToken string) (*authdomain.User, error) {
	userID, err := u.parseToken(accessToken, tokenTypeAccess)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid token", common.ErrUnauthorized)
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user not found", common.ErrUnauthorized)
	}
	return user, nil
}

func (u *authUsecase) GetUserByEmail(ctx context.Context, email string) (*authdomain.User, error) {
	user, err := u.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.NotFound("user")
	}
	return user, nil
}

func (u *authUsecase) UpdateDailyGoal(ctx context.Context, userID string, goal int) (*authdomain.User, error) {
	if !authdomain.ValidGoal(goal) {
		return nil, common.Validation("daily calorie goal must be between %d and %d", authdomain.MinDailyGoal, authdomain.MaxDailyGoal)
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, common.NotFound("user")
	}

	if err := u.userRepo.UpdateDailyGoal(ctx, userID, goal); err != nil {
		return nil, err
	}
	user.DailyCalorieGoal = goal
	return user, nil
}

func (u *authUsecase) RegisterDevice(ctx context.Context, userID, token, deviceInfo string) error {
	if strings.TrimSpace(token) == "" {
		return common.Validation("device token is required")
	}
	return u.deviceRepo.SaveToken(ctx, userID, token, deviceInfo)
}

func (u *authUsecase) UnregisterDevice(ctx context.Context, userID, token string) error {
	return u.deviceRepo.DeleteToken(ctx, userID, token)
}

func (u *authUsecase) generateTokens(ctx context.Context, user *authdomain.User) (*authdto.TokenResponse, error) {
	accessToken, err := u.signToken(user, tokenTypeAccess, u.config.JWTAccessExpiry)
	if err != nil {
		return nil, err
	}

	refreshToken, err := u.signToken(user, tokenTypeRefresh, u.config.JWTRefreshExpiry)
	if err != nil {
		return nil, err
	}

	refreshTokenEntity := &authdomain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: u.now().Add(u.config.JWTRefreshExpiry),
	}
	if err := u.userRepo.SaveRefreshToken(ctx, refreshTokenEntity); err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (u *authUsecase) signToken(user *authdomain.User, typ string, ttl time.Duration) (string, error) {
	now := u.now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"typ":     typ,
		"exp":     now.Add(ttl).Unix(),
		"iat":     now.Unix(),
	}
	if typ == tokenTypeRefresh {
		claims["token_id"] = uuid.New().String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

// parseToken verifies signature, expiry and token type, returning the user id.
func (u *authUsecase) parseToken(tokenString, wantType string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(u.now))
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token: %v", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	if typ, _ := claims["typ"].(string); typ != wantType {
		return "", fmt.Errorf("unexpected token type %q", typ)
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("invalid token claims")
	}
	return userID, nil
}
