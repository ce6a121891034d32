package service

import (
	"context"

	"coach-portal-api/core/cache"
	"coach-portal-api/core/constants"
	"coach-portal-api/core/errors"
	"coach-portal-api/core/logger"
	"coach-portal-api/core/utils"
	"coach-portal-api/modules/auth/dto"
	"coach-portal-api/modules/auth/entity"
	"coach-portal-api/modules/auth/repository"

	"github.com/google/uuid"
)

type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError)
	Logout(ctx context.Context, token string) *errors.AppError
	RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, *errors.AppError)
	Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError)
}

type authService struct {
	repo  repository.AuthRepository
	cache cache.Cache
}

func NewAuthService(repo repository.AuthRepository, cache cache.Cache) AuthService {
	return &authService{repo: repo, cache: cache}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError) {
	existing, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to check existing user", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "Email is already registered", nil)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to hash password", err)
	}

	user := &entity.User{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         entity.RoleClient,
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to create user", err)
	}

	logger.Info("AuthService:Register", "user_id", user.ID, "email", user.Email)
	return s.issueTokens(user)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError) {
	blocked, err := s.cache.IsLoginBlocked(ctx, req.Email)
	if err != nil {
		logger.Error("AuthService:Login block check failed", "email", req.Email, "error", err)
	}
	if blocked {
		return nil, errors.NewAppError(errors.ErrTooManyRequests, "Too many failed login attempts, try again later", nil)
	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load user", err)
	}
	if user == nil || !utils.ComparePassword(user.PasswordHash, req.Password) {
		if cacheErr := s.cache.IncrementLoginAttempt(ctx, req.Email); cacheErr != nil {
			logger.Error("AuthService:Login attempt tracking failed", "email", req.Email, "error", cacheErr)
		}
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid email or password", nil)
	}
	if !user.IsActive {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Account is disabled", nil)
	}

	if err := s.cache.Del(ctx, req.Email); err != nil {
		logger.Error("AuthService:Login attempt reset failed", "email", req.Email, "error", err)
	}
	return s.issueTokens(user)
}

// Logout blacklists the presented access token for the remainder of its life.
func (s *authService) Logout(ctx context.Context, token string) *errors.AppError {
	if _, err := utils.ValidateAndParseToken(token); err != nil {
		return errors.NewAppError(errors.ErrUnauthorized, "Invalid token", err)
	}
	if err := s.cache.AddToTokenBlacklist(ctx, token); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "Failed to revoke token", err)
	}
	return nil
}

func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*dto.AuthResponse, *errors.AppError) {
	tokenData, err := utils.ValidateAndParseToken(refreshToken)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Invalid refresh token", err)
	}
	if tokenData.Scope != constants.ScopeTokenRefresh {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Token is not a refresh token", nil)
	}

	blacklisted, err := s.cache.IsTokenBlacklisted(ctx, refreshToken)
	if err != nil {
		logger.Error("AuthService:RefreshToken blacklist check failed", "error", err)
	}
	if blacklisted {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "Token has been revoked", nil)
	}

	user, err := s.repo.GetUserByID(ctx, tokenData.UserID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "User no longer exists", nil)
	}

	// Rotate: the used refresh token is burned.
	if err := s.cache.AddToTokenBlacklist(ctx, refreshToken); err != nil {
		logger.Error("AuthService:RefreshToken blacklist write failed", "error", err)
	}
	return s.issueTokens(user)
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to load user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "User not found", nil)
	}
	return userToResponse(user), nil
}

func (s *authService) issueTokens(user *entity.User) (*dto.AuthResponse, *errors.AppError) {
	accessToken, err := utils.GenerateToken(user.ID, user.Email, user.Role, constants.ScopeTokenAccess)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to generate access token", err)
	}
	refreshToken, err := utils.GenerateToken(user.ID, user.Email, user.Role, constants.ScopeTokenRefresh)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "Failed to generate refresh token", err)
	}
	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *userToResponse(user),
	}, nil
}

func userToResponse(user *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:       user.ID.String(),
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	}
}
