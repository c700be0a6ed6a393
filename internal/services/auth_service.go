// internal/services/auth_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/techshopvn/techshop-backend/internal/config"
	"github.com/techshopvn/techshop-backend/internal/models"
	"github.com/techshopvn/techshop-backend/internal/utils"
)

type AuthService struct {
	db  *gorm.DB
	jwt config.JWTConfig
}

func NewAuthService(db *gorm.DB, jwt config.JWTConfig) *AuthService {
	return &AuthService{db: db, jwt: jwt}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=2,max=100"`
	Avatar *string `json:"avatar" validate:"omitempty,max=500"`
}

// TokenPair is what login and refresh hand back to the client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Register creates a new customer account.
func (s *AuthService) Register(req *RegisterRequest) (*models.User, *TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var count int64
	if err := s.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, nil, ErrEmailTaken
	}

	user := &models.User{
		Name:  req.Name,
		Email: email,
		Role:  models.UserRoleCustomer,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	tokens, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("User registered")
	return user, tokens, nil
}

// Login verifies credentials and issues a token pair. Wrong email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(req *LoginRequest) (*models.User, *TokenPair, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrInvalidCredential
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, nil, ErrInvalidCredential
	}

	now := time.Now()
	if err := s.db.Model(&user).UpdateColumn("last_login_at", now).Error; err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("Failed to record login time")
	}
	user.LastLoginAt = &now

	tokens, err := s.issueTokens(&user)
	if err != nil {
		return nil, nil, err
	}
	return &user, tokens, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	subject, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredential
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, ErrInvalidCredential
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(user)
}

// GetUserByID loads one user.
func (s *AuthService) GetUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Resource: "user", ID: id.String()}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// UpdateProfile applies the non-nil fields of req to the user.
func (s *AuthService) UpdateProfile(id uuid.UUID, req *UpdateProfileRequest) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}
	return user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	access, err := utils.GenerateJWT(user.ID, user.Name, string(user.Role), s.jwt.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := utils.GenerateRefreshToken(user.ID, s.jwt.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
