// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/poetpiece/internal/core/access"
	"github.com/taibuivan/poetpiece/internal/core/notification"
	"github.com/taibuivan/poetpiece/internal/core/poet"
	"github.com/taibuivan/poetpiece/internal/platform/apperr"
	"github.com/taibuivan/poetpiece/internal/platform/sec"
	"github.com/taibuivan/poetpiece/internal/users/account"
	"github.com/taibuivan/poetpiece/internal/users/auth"
	"github.com/taibuivan/poetpiece/pkg/pointer"
)

type memoryRepository struct {
	users map[string]*auth.User
	poems map[string]int
}

func (m *memoryRepository) FindByID(_ context.Context, id string) (*auth.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memoryRepository) Update(_ context.Context, user *auth.User) error {
	for id, u := range m.users {
		if id != user.ID && u.Username == user.Username {
			return auth.ErrUsernameTaken
		}
	}
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memoryRepository) Delete(_ context.Context, userID string) (int, error) {
	if n := m.poems[userID]; n > 0 {
		return n, nil
	}
	delete(m.users, userID)
	return 0, nil
}

type poetFinder map[string]*poet.Poet

func (f poetFinder) GetPoetByUserID(_ context.Context, userID string) (*poet.Poet, error) {
	if p, ok := f[userID]; ok {
		return p, nil
	}
	return nil, poet.ErrNotFound
}

type revoker struct {
	revoked []string
}

func (r *revoker) RevokeAll(_ context.Context, userID string) error {
	r.revoked = append(r.revoked, userID)
	return nil
}

type countingNotifier struct {
	tags []notification.Tag
}

func (n *countingNotifier) Notify(_ context.Context, _ string, tag notification.Tag, _ *string) {
	n.tags = append(n.tags, tag)
}

type fixture struct {
	service  *account.Service
	repo     *memoryRepository
	sessions *revoker
	notifier *countingNotifier
}

func newFixture() fixture {
	repo := &memoryRepository{
		users: map[string]*auth.User{
			"u-1": {ID: "u-1", Username: "basho", Role: sec.RoleMember},
			"u-2": {ID: "u-2", Username: "issa", Role: sec.RoleMember},
		},
		poems: map[string]int{"u-1": 2},
	}
	poets := poetFinder{"u-1": {ID: "p-1", UserID: "u-1", Username: "basho"}}
	sessions := &revoker{}
	notifier := &countingNotifier{}

	return fixture{
		service:  account.NewService(repo, poets, sessions, notifier, slog.New(slog.NewTextHandler(io.Discard, nil))),
		repo:     repo,
		sessions: sessions,
		notifier: notifier,
	}
}

/*
TestGetProfile verifies the poet capability is attached when present.
*/
func TestGetProfile(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	profile, err := f.service.GetProfile(ctx, access.Actor{UserID: "u-1"})
	require.NoError(t, err)
	require.NotNil(t, profile.Poet)
	assert.Equal(t, "p-1", profile.Poet.ID)

	profile, err = f.service.GetProfile(ctx, access.Actor{UserID: "u-2"})
	require.NoError(t, err)
	assert.Nil(t, profile.Poet)

	_, err = f.service.GetProfile(ctx, access.Anonymous)
	assert.True(t, apperr.IsCode(err, apperr.CodeUnauthorized))
}

/*
TestUpdateProfile verifies partial updates and their validation.
*/
func TestUpdateProfile(t *testing.T) {
	tests := []struct {
		name  string
		input account.UpdateRequest
		code  string
	}{
		{"rename", account.UpdateRequest{Username: pointer.To("kobayashi_issa")}, ""},
		{"birth_date", account.UpdateRequest{BirthDate: pointer.To("1763-06-15")}, ""},
		{"taken", account.UpdateRequest{Username: pointer.To("basho")}, apperr.CodeConflict},
		{"bad_username", account.UpdateRequest{Username: pointer.To("no spaces")}, apperr.CodeValidation},
		{"future_birth_date", account.UpdateRequest{BirthDate: pointer.To("2999-01-01")}, apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()

			profile, err := f.service.UpdateProfile(context.Background(), access.Actor{UserID: "u-2"}, tt.input)
			if tt.code != "" {
				assert.True(t, apperr.IsCode(err, tt.code), "got %v", err)
				assert.Equal(t, "issa", f.repo.users["u-2"].Username)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, f.repo.users["u-2"].Username, profile.User.Username)
		})
	}

	t.Run("clear_birth_date", func(t *testing.T) {
		f := newFixture()
		ctx := context.Background()

		_, err := f.service.UpdateProfile(ctx, access.Actor{UserID: "u-2"}, account.UpdateRequest{BirthDate: pointer.To("1763-06-15")})
		require.NoError(t, err)

		profile, err := f.service.UpdateProfile(ctx, access.Actor{UserID: "u-2"}, account.UpdateRequest{BirthDate: pointer.To("")})
		require.NoError(t, err)
		assert.Nil(t, profile.User.BirthDate)
	})
}

/*
TestDeleteAccount verifies a poet with poems cannot leave and everyone else
is signed out on deletion.
*/
func TestDeleteAccount(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// 1. Poet with poems
	err := f.service.DeleteAccount(ctx, access.Actor{UserID: "u-1", PoetID: "p-1"})
	assert.True(t, apperr.IsCode(err, apperr.CodeConflict))
	assert.Contains(t, f.repo.users, "u-1")
	assert.Empty(t, f.sessions.revoked)

	// 2. Reader
	require.NoError(t, f.service.DeleteAccount(ctx, access.Actor{UserID: "u-2"}))
	assert.NotContains(t, f.repo.users, "u-2")
	assert.Equal(t, []string{"u-2"}, f.sessions.revoked)
	assert.Equal(t, []notification.Tag{notification.TagUser}, f.notifier.tags)
}
