package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"casaligan-admin-server/models"
	"casaligan-admin-server/types"
	"casaligan-admin-server/utils"
)

// AdminDirectory looks up console accounts.
type AdminDirectory interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	FindAdminByUserID(ctx context.Context, userID uint) (*models.Admin, error)
}

type AdminProfile struct {
	AdminID     uint   `json:"admin_id"`
	UserID      uint   `json:"user_id"`
	Email       string `json:"email"`
	Name        string `json:"name"`
	PhoneNumber string `json:"phone_number"`
}

type AdminSession struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	Admin     AdminProfile `json:"admin"`
}

// AdminAuthService handles console sign-in and token checks
type AdminAuthService struct {
	directory AdminDirectory
}

func NewAdminAuthService(directory AdminDirectory) *AdminAuthService {
	return &AdminAuthService{directory: directory}
}

func newAdminProfile(user *models.User, admin *models.Admin) AdminProfile {
	return AdminProfile{
		AdminID:     admin.AdminID,
		UserID:      user.ID,
		Email:       user.Email,
		Name:        user.FullName(),
		PhoneNumber: user.PhoneNumber,
	}
}

// Login checks the password and that the account has an admins row.
func (s *AdminAuthService) Login(ctx context.Context, email, password string) (*AdminSession, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.directory.FindUserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if user.Status == models.UserStatusSuspended {
		return nil, ErrAccountInactive
	}

	admin, err := s.directory.FindAdminByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := utils.GenerateToken(user.ID, admin.AdminID)
	if err != nil {
		return nil, err
	}

	return &AdminSession{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt,
		Admin:     newAdminProfile(user, admin),
	}, nil
}

// Authenticate validates a session token and returns its claims.
func (s *AdminAuthService) Authenticate(token string) (*types.Claims, error) {
	claims, err := utils.VerifyToken(token)
	if err != nil {
		return nil, err
	}
	if claims.AdminID == 0 {
		return nil, ErrNotAdmin
	}
	return claims, nil
}

func (s *AdminAuthService) Profile(ctx context.Context, claims *types.Claims) (*AdminProfile, error) {
	user, err := s.directory.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	admin, err := s.directory.FindAdminByUserID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if admin.AdminID != claims.AdminID {
		return nil, ErrNotAdmin
	}
	profile := newAdminProfile(user, admin)
	return &profile, nil
}
