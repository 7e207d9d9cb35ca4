// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/poetpiece/internal/core/notification"
	"github.com/taibuivan/poetpiece/internal/platform/apperr"
	"github.com/taibuivan/poetpiece/internal/platform/sec"
	"github.com/taibuivan/poetpiece/internal/platform/validate"
	"github.com/taibuivan/poetpiece/pkg/uuid"
)

// TokenProvider signs access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, username, role string, timeToLive time.Duration) (string, error)
}

// Notifier is the side channel sign-ups report to.
type Notifier interface {
	Notify(ctx context.Context, content string, tag notification.Tag, userID *string)
}

type Service struct {
	users    UserRepository
	sessions SessionRepository
	tokens   TokenProvider
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(users UserRepository, sessions SessionRepository, tokens TokenProvider, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		users:    users,
		sessions: sessions,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// ValidatePassword applies the password rules to value under field.
func ValidatePassword(validator *validate.Validator, field, value string) *validate.Validator {
	return validator.Required(field, value).
		MinLen(field, value, MinPasswordLength).
		Custom(field, len(value) > MaxPasswordLength, fmt.Sprintf("Maximum %d bytes", MaxPasswordLength))
}

// ValidateUsername applies the username rules to value.
func ValidateUsername(validator *validate.Validator, value string) *validate.Validator {
	validator.Required(FieldUsername, value).
		MinLen(FieldUsername, value, MinUsernameLength).
		MaxLen(FieldUsername, value, MaxUsernameLength)
	if value != "" {
		validator.Pattern(FieldUsername, value, UsernamePattern, "Only letters, digits and underscores")
	}
	return validator
}

// ParseBirthDate validates an optional YYYY-MM-DD birth date.
func ParseBirthDate(validator *validate.Validator, value string, now time.Time) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	validator.PastDate(FieldBirthDate, value, now)
	parsed, err := time.Parse(validate.DateLayout, value)
	if err != nil {
		return nil
	}
	return &parsed
}

// # Registration

// Register creates a member account and announces it.
func (service *Service) Register(context context.Context, input RegisterRequest) (*User, error) {
	username := strings.TrimSpace(input.Username)

	validator := &validate.Validator{}
	ValidateUsername(validator, username)
	ValidatePassword(validator, FieldPassword, input.Password)
	birthDate := ParseBirthDate(validator, input.BirthDate, service.now())
	if err := validator.Err(); err != nil {
		return nil, err
	}

	hash, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	user := &User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		BirthDate:    birthDate,
		Role:         sec.RoleMember,
	}

	if err := service.users.Create(context, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_registered",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)
	service.notifier.Notify(context, fmt.Sprintf("%s just signed up!", user.Username), notification.TagAuth, nil)

	return user, nil
}

// # Sessions

// Login checks credentials and opens a refresh session.
func (service *Service) Login(context context.Context, input LoginRequest, userAgent, ipAddress string) (*LoginSession, error) {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	user, err := service.users.FindByUsername(context, strings.TrimSpace(input.Username))
	if err != nil {
		if apperr.IsCode(err, apperr.CodeNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	session, err := service.openSession(context, user, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	service.logger.Info("user_logged_in", slog.String("user_id", user.ID))
	return session, nil
}

// Refresh rotates a refresh token: the old one stops working and a new pair
// is issued.
func (service *Service) Refresh(context context.Context, refreshToken, userAgent, ipAddress string) (*LoginSession, error) {
	if refreshToken == "" {
		return nil, ErrSessionNotFound
	}

	session, err := service.sessions.FindByTokenHash(context, sec.HashToken(refreshToken))
	if err != nil {
		return nil, err
	}

	if err := service.sessions.Revoke(context, session); err != nil {
		return nil, err
	}

	user, err := service.users.FindByID(context, session.UserID)
	if err != nil {
		if apperr.IsCode(err, apperr.CodeNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}

	return service.openSession(context, user, userAgent, ipAddress)
}

// Logout drops the session behind refreshToken. Unknown tokens are ignored.
func (service *Service) Logout(context context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	session, err := service.sessions.FindByTokenHash(context, sec.HashToken(refreshToken))
	if err != nil {
		if err == ErrSessionNotFound {
			return nil
		}
		return err
	}

	return service.sessions.Revoke(context, session)
}

/*
ChangePassword replaces the password of userID after checking the current one.

Every other session of the user is revoked; the session behind
currentRefreshToken survives. With no current token all sessions go.
*/
func (service *Service) ChangePassword(context context.Context, userID string, input ChangePasswordRequest, currentRefreshToken string) error {
	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, input.CurrentPassword)
	ValidatePassword(validator, FieldNewPassword, input.NewPassword)
	if err := validator.Err(); err != nil {
		return err
	}

	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(input.CurrentPassword, user.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	hash, err := sec.HashPassword(input.NewPassword)
	if err != nil {
		return apperr.Internal(err)
	}

	if err := service.users.UpdatePassword(context, user.ID, hash); err != nil {
		return err
	}

	keep := ""
	if currentRefreshToken != "" {
		keep = sec.HashToken(currentRefreshToken)
	}
	if err := service.sessions.RevokeOthers(context, user.ID, keep); err != nil {
		return err
	}

	service.logger.Info("user_password_changed", slog.String("user_id", user.ID))
	return nil
}

func (service *Service) openSession(context context.Context, user *User, userAgent, ipAddress string) (*LoginSession, error) {
	accessToken, err := service.tokens.GenerateAccessToken(user.ID, user.Username, string(user.Role), AccessTokenTTL)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	refreshToken, err := sec.GenerateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	now := service.now()
	session := &Session{
		TokenHash: sec.HashToken(refreshToken),
		UserID:    user.ID,
		UserAgent: userAgent,
		IPAddress: ipAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(RefreshTokenTTL),
	}

	if err := service.sessions.Create(context, session); err != nil {
		return nil, err
	}

	return &LoginSession{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: session.ExpiresAt,
		User:                  user,
	}, nil
}
