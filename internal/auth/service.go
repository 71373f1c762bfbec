// Package auth owns accounts and sessions. Users live in the relational
// store; sessions are a short-lived access JWT plus a rotated refresh JWT
// whose jti is tracked server-side so logout and rotation can revoke it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/galwaybites/storefront/internal/hash"
	"github.com/galwaybites/storefront/pkg/logging"
	"github.com/galwaybites/storefront/pkg/tokens"
)

const (
	accessTTL  = 15 * time.Minute
	refreshTTL = 7 * 24 * time.Hour
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRefresh     = errors.New("refresh token invalid or revoked")
)

type Service struct {
	DB            *gorm.DB
	JWTSecret     []byte
	RefreshSecret []byte
}

type Session struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
	User         User
}

func (s *Service) Register(ctx context.Context, email, password, name, city, address, phone string) (*User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register failed", "reason", "cannot hash password", "error", err)
		return nil, err
	}

	user := User{
		Email:        email,
		Name:         name,
		PasswordHash: pwHash,
		Role:         "user",
		City:         city,
		Address:      address,
		Phone:        phone,
	}

	var count int64
	if err := s.DB.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	if err := s.DB.Create(&user).Error; err != nil {
		l.Error("register failed", "error", err)
		return nil, err
	}
	return &user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	var user User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login failed", "reason", "bad password")
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(user)
}

// Refresh rotates the session: the presented refresh token is revoked and a
// fresh pair is issued. A revoked or expired token yields ErrInvalidRefresh.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*Session, error) {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRefresh, err)
	}

	var stored RefreshToken
	if err := s.DB.Where("jti = ?", claims.ID).First(&stored).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}
	if stored.Revoked || time.Now().After(stored.ExpiresAt) {
		return nil, ErrInvalidRefresh
	}

	var user User
	if err := s.DB.First(&user, stored.UserID).Error; err != nil {
		return nil, err
	}

	if err := s.DB.Model(&stored).Update("revoked", true).Error; err != nil {
		return nil, err
	}
	return s.issueSession(user)
}

// Logout revokes the refresh token if it is still known. Unknown tokens are
// ignored so logout is idempotent.
func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		return nil
	}
	return s.DB.Model(&RefreshToken{}).Where("jti = ?", claims.ID).Update("revoked", true).Error
}

func (s *Service) GetUser(ctx context.Context, userID string) (*User, error) {
	id, err := strconv.ParseUint(userID, 10, 64)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	var user User
	if err := s.DB.First(&user, uint(id)).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Service) issueSession(user User) (*Session, error) {
	now := time.Now()
	accessExp := now.Add(accessTTL)
	refreshExp := now.Add(refreshTTL)
	userID := strconv.FormatUint(uint64(user.ID), 10)

	accessToken, err := tokens.NewAccessToken(s.JWTSecret, userID, user.Role, accessExp)
	if err != nil {
		return nil, err
	}

	jti := uuid.NewString()
	refreshToken, err := tokens.NewRefreshToken(s.RefreshSecret, userID, jti, refreshExp)
	if err != nil {
		return nil, err
	}

	record := RefreshToken{UserID: user.ID, JTI: jti, ExpiresAt: refreshExp}
	if err := s.DB.Create(&record).Error; err != nil {
		return nil, err
	}

	return &Session{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
		User:         user,
	}, nil
}
