// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/poetpiece/internal/core/notification"
	"github.com/taibuivan/poetpiece/internal/platform/apperr"
	"github.com/taibuivan/poetpiece/internal/platform/sec"
	"github.com/taibuivan/poetpiece/internal/users/auth"
)

type memoryUsers struct {
	byID map[string]*auth.User
}

func (m *memoryUsers) FindByID(_ context.Context, id string) (*auth.User, error) {
	if u, ok := m.byID[id]; ok {
		return u, nil
	}
	return nil, auth.ErrUserNotFound
}

func (m *memoryUsers) FindByUsername(_ context.Context, username string) (*auth.User, error) {
	for _, u := range m.byID {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, auth.ErrUserNotFound
}

func (m *memoryUsers) Create(ctx context.Context, user *auth.User) error {
	if _, err := m.FindByUsername(ctx, user.Username); err == nil {
		return auth.ErrUsernameTaken
	}
	m.byID[user.ID] = user
	return nil
}

func (m *memoryUsers) UpdatePassword(_ context.Context, userID, hash string) error {
	u, ok := m.byID[userID]
	if !ok {
		return auth.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

type memorySessions struct {
	byHash map[string]*auth.Session
}

func (m *memorySessions) Create(_ context.Context, session *auth.Session) error {
	m.byHash[session.TokenHash] = session
	return nil
}

func (m *memorySessions) FindByTokenHash(_ context.Context, hash string) (*auth.Session, error) {
	if s, ok := m.byHash[hash]; ok {
		return s, nil
	}
	return nil, auth.ErrSessionNotFound
}

func (m *memorySessions) Revoke(_ context.Context, session *auth.Session) error {
	delete(m.byHash, session.TokenHash)
	return nil
}

func (m *memorySessions) RevokeAll(ctx context.Context, userID string) error {
	return m.RevokeOthers(ctx, userID, "")
}

func (m *memorySessions) RevokeOthers(_ context.Context, userID, keep string) error {
	for hash, s := range m.byHash {
		if s.UserID == userID && hash != keep {
			delete(m.byHash, hash)
		}
	}
	return nil
}

type fakeTokens struct{}

func (fakeTokens) GenerateAccessToken(userID, _, role string, _ time.Duration) (string, error) {
	return "access-" + userID + "-" + role, nil
}

type recordingNotifier struct {
	contents []string
}

func (n *recordingNotifier) Notify(_ context.Context, content string, tag notification.Tag, userID *string) {
	if tag == notification.TagAuth && userID == nil {
		n.contents = append(n.contents, content)
	}
}

func newService() (*auth.Service, *memorySessions, *recordingNotifier) {
	sessions := &memorySessions{byHash: map[string]*auth.Session{}}
	notifier := &recordingNotifier{}
	service := auth.NewService(
		&memoryUsers{byID: map[string]*auth.User{}},
		sessions,
		fakeTokens{},
		notifier,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return service, sessions, notifier
}

/*
TestRegister verifies the account rules and the sign-up announcement.
*/
func TestRegister(t *testing.T) {
	service, _, notifier := newService()
	ctx := context.Background()

	tests := []struct {
		name  string
		input auth.RegisterRequest
		code  string
	}{
		{"short_username", auth.RegisterRequest{Username: "ab", Password: "longenough"}, apperr.CodeValidation},
		{"bad_characters", auth.RegisterRequest{Username: "ba sho!", Password: "longenough"}, apperr.CodeValidation},
		{"short_password", auth.RegisterRequest{Username: "basho", Password: "short"}, apperr.CodeValidation},
		{"future_birth_date", auth.RegisterRequest{Username: "basho", Password: "longenough", BirthDate: "2999-01-01"}, apperr.CodeValidation},
		{"malformed_birth_date", auth.RegisterRequest{Username: "basho", Password: "longenough", BirthDate: "01/01/1990"}, apperr.CodeValidation},
		{"registered", auth.RegisterRequest{Username: "basho", Password: "longenough", BirthDate: "1990-05-01"}, ""},
		{"taken", auth.RegisterRequest{Username: "basho", Password: "longenough"}, apperr.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := service.Register(ctx, tt.input)
			if tt.code != "" {
				assert.True(t, apperr.IsCode(err, tt.code), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, sec.RoleMember, user.Role)
			assert.NotEqual(t, "longenough", user.PasswordHash)
			require.NotNil(t, user.BirthDate)
			assert.Equal(t, 1990, user.BirthDate.Year())
		})
	}

	assert.Equal(t, []string{"basho just signed up!"}, notifier.contents)
}

/*
TestSessionLifecycle verifies login, rotation on refresh and logout.
*/
func TestSessionLifecycle(t *testing.T) {
	service, sessions, _ := newService()
	ctx := context.Background()

	_, err := service.Register(ctx, auth.RegisterRequest{Username: "issa", Password: "snail-on-fuji"})
	require.NoError(t, err)

	// 1. Wrong password and unknown user look the same
	_, err = service.Login(ctx, auth.LoginRequest{Username: "issa", Password: "wrong-password"}, "ua", "127.0.0.1")
	assert.Equal(t, auth.ErrInvalidCredentials, err)

	_, err = service.Login(ctx, auth.LoginRequest{Username: "nobody", Password: "snail-on-fuji"}, "ua", "127.0.0.1")
	assert.Equal(t, auth.ErrInvalidCredentials, err)

	// 2. Login
	first, err := service.Login(ctx, auth.LoginRequest{Username: "issa", Password: "snail-on-fuji"}, "ua", "127.0.0.1")
	require.NoError(t, err)
	assert.Contains(t, first.AccessToken, "member")
	assert.Len(t, sessions.byHash, 1)

	// 3. Refresh rotates
	second, err := service.Refresh(ctx, first.RefreshToken, "ua", "127.0.0.1")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.Len(t, sessions.byHash, 1)

	_, err = service.Refresh(ctx, first.RefreshToken, "ua", "127.0.0.1")
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))

	// 4. Logout, then logout again
	require.NoError(t, service.Logout(ctx, second.RefreshToken))
	assert.Empty(t, sessions.byHash)
	require.NoError(t, service.Logout(ctx, second.RefreshToken))
}

/*
TestChangePassword verifies other sessions are revoked and the caller's kept.
*/
func TestChangePassword(t *testing.T) {
	service, sessions, _ := newService()
	ctx := context.Background()

	user, err := service.Register(ctx, auth.RegisterRequest{Username: "buson", Password: "spring-sea"})
	require.NoError(t, err)

	phone, err := service.Login(ctx, auth.LoginRequest{Username: "buson", Password: "spring-sea"}, "phone", "10.0.0.1")
	require.NoError(t, err)
	laptop, err := service.Login(ctx, auth.LoginRequest{Username: "buson", Password: "spring-sea"}, "laptop", "10.0.0.2")
	require.NoError(t, err)

	// 1. Wrong current password
	err = service.ChangePassword(ctx, user.ID, auth.ChangePasswordRequest{CurrentPassword: "autumn-sea", NewPassword: "winter-sea"}, laptop.RefreshToken)
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))
	assert.Len(t, sessions.byHash, 2)

	// 2. Weak new password
	err = service.ChangePassword(ctx, user.ID, auth.ChangePasswordRequest{CurrentPassword: "spring-sea", NewPassword: "short"}, laptop.RefreshToken)
	assert.True(t, apperr.IsCode(err, apperr.CodeValidation))

	// 3. Changed
	err = service.ChangePassword(ctx, user.ID, auth.ChangePasswordRequest{CurrentPassword: "spring-sea", NewPassword: "winter-sea"}, laptop.RefreshToken)
	require.NoError(t, err)

	_, err = service.Refresh(ctx, phone.RefreshToken, "phone", "10.0.0.1")
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))

	_, err = service.Refresh(ctx, laptop.RefreshToken, "laptop", "10.0.0.2")
	require.NoError(t, err)

	_, err = service.Login(ctx, auth.LoginRequest{Username: "buson", Password: "winter-sea"}, "phone", "10.0.0.1")
	require.NoError(t, err)
}
