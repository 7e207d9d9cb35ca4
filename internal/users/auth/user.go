// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements sign-up, sign-in and refresh sessions.

Access tokens are short-lived RS256 JWTs. Refresh tokens are opaque random
strings; only their SHA-256 hash is stored, in Redis, under a key that
expires with the session. Every refresh rotates the token.
*/
package auth

import (
	"regexp"
	"time"

	"github.com/taibuivan/poetpiece/internal/platform/apperr"
	"github.com/taibuivan/poetpiece/internal/platform/sec"
)

const (
	// AccessTokenTTL is how long a JWT access token stays valid.
	AccessTokenTTL = 15 * time.Minute

	// RefreshTokenTTL is how long an unused refresh session lives.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// RefreshTokenLength is the byte length of a refresh token before encoding.
	RefreshTokenLength = 32

	MinUsernameLength = 3
	MaxUsernameLength = 100
	MinPasswordLength = 8

	// MaxPasswordLength is the bcrypt input limit.
	MaxPasswordLength = 72
)

// UsernamePattern is the character set allowed in usernames.
var UsernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

const (
	FieldUsername        = "username"
	FieldPassword        = "password"
	FieldBirthDate       = "birth_date"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldAccessToken     = "access_token"
	FieldTokenType       = "token_type"
	FieldExpiresIn       = "expires_in"
	FieldUser            = "user"
	FieldMessage         = "message"
)

var (
	ErrUserNotFound       = apperr.NotFound("User")
	ErrSessionNotFound    = apperr.Unauthorized("Invalid or expired refresh token")
	ErrInvalidCredentials = apperr.Unauthorized("Invalid login credentials")
	ErrUsernameTaken      = apperr.Conflict("Username is already taken")
)

// User is a registered account.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"`
	BirthDate    *time.Time   `json:"birth_date,omitempty"`
	Role         sec.UserRole `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Session is a live refresh token. TokenHash is its identity.
type Session struct {
	TokenHash string    `json:"-"`
	UserID    string    `json:"user_id"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// # Request DTOs

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	BirthDate string `json:"birth_date"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChangePasswordRequest is the body of POST /auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// LoginSession is what a successful login or refresh hands back.
type LoginSession struct {
	AccessToken           string
	RefreshToken          string
	RefreshTokenExpiresAt time.Time
	User                  *User
}
