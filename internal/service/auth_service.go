package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tindahan-pos/internal/model"
	"tindahan-pos/internal/repository"
	"tindahan-pos/pkg/jwt"
	"tindahan-pos/pkg/logger"
)

type AuthService interface {
	Login(ctx context.Context, username, password string) (*LoginResponse, error)
	ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error
	ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error)
}

type LoginResponse struct {
	Token      string             `json:"token"`
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type TokenValidationResponse struct {
	User       model.UserResponse `json:"user"`
	Role       *model.Role        `json:"role"`
	Privileges []string           `json:"privileges"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	log      *logrus.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, log *logrus.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		log:      log,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// Single session: a new token version invalidates tokens issued before this login
	tokenVersion := uuid.NewString()
	now := time.Now().UTC()
	if err := s.userRepo.StartSession(ctx, user.ID, tokenVersion, now); err != nil {
		logger.LogError(s.log, "auth", "Login", "start session", user.ID, err)
		return nil, err
	}
	user.TokenVersion = tokenVersion
	user.LastLoginAt = &now

	token, err := s.tokens.GenerateToken(user.ID, user.Username, user.RoleCode(), user.GetPrivilegeCodes(), tokenVersion)
	if err != nil {
		logger.LogError(s.log, "auth", "Login", "sign token", user.ID, err)
		return nil, err
	}

	return &LoginResponse{
		Token:      token,
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}

// ChangePassword replaces the password and ends the current session
func (s *authService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return invalid("new password must be at least 6 characters")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return notFoundOr(err, "user", userID)
	}
	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, user.Password); err != nil {
		logger.LogError(s.log, "auth", "ChangePassword", "update password", userID, err)
		return err
	}
	return s.userRepo.StartSession(ctx, user.ID, uuid.NewString(), time.Now().UTC())
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, notFoundOr(err, "user", claims.UserID)
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionReplaced
	}

	return &TokenValidationResponse{
		User:       user.ToResponse(),
		Role:       user.Role,
		Privileges: user.GetPrivilegeCodes(),
	}, nil
}
