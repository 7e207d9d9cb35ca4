// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/poetpiece/internal/core/access"
	"github.com/taibuivan/poetpiece/internal/core/notification"
	"github.com/taibuivan/poetpiece/internal/core/poet"
	"github.com/taibuivan/poetpiece/internal/platform/apperr"
)

// PoetFinder looks up the poet capability of a user.
type PoetFinder interface {
	GetPoetByUserID(context context.Context, userID string) (*poet.Poet, error)
}

// SessionRevoker signs a user out everywhere.
type SessionRevoker interface {
	RevokeAll(context context.Context, userID string) error
}

// Notifier is the side channel account deletions report to.
type Notifier interface {
	Notify(ctx context.Context, content string, tag notification.Tag, userID *string)
}

type Service struct {
	repo     Repository
	poets    PoetFinder
	sessions SessionRevoker
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
}

func NewService(repo Repository, poets PoetFinder, sessions SessionRevoker, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		poets:    poets,
		sessions: sessions,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

var errSignInRequired = apperr.Unauthorized("Authentication required")

// GetProfile returns the caller's account and poet capability, if any.
func (service *Service) GetProfile(context context.Context, actor access.Actor) (*Profile, error) {
	if !actor.Authenticated() {
		return nil, errSignInRequired
	}

	user, err := service.repo.FindByID(context, actor.UserID)
	if err != nil {
		return nil, err
	}

	profile := &Profile{User: user}

	p, err := service.poets.GetPoetByUserID(context, user.ID)
	switch {
	case err == nil:
		profile.Poet = p
	case !apperr.IsCode(err, apperr.CodeNotFound):
		return nil, err
	}

	return profile, nil
}

func (service *Service) UpdateProfile(context context.Context, actor access.Actor, input UpdateRequest) (*Profile, error) {
	profile, err := service.GetProfile(context, actor)
	if err != nil {
		return nil, err
	}

	if err := input.ApplyTo(profile.User, service.now()); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, profile.User); err != nil {
		return nil, err
	}

	if profile.Poet != nil {
		profile.Poet.Username = profile.User.Username
	}

	service.logger.Info("account_updated", slog.String("user_id", profile.User.ID))
	return profile, nil
}

// DeleteAccount removes the caller's account and signs them out everywhere.
func (service *Service) DeleteAccount(context context.Context, actor access.Actor) error {
	profile, err := service.GetProfile(context, actor)
	if err != nil {
		return err
	}

	poems, err := service.repo.Delete(context, profile.User.ID)
	if err != nil {
		return err
	}
	if poems > 0 {
		return apperr.Conflict(fmt.Sprintf("Delete or hand over your %d poem(s) before deleting your account", poems))
	}

	if err := service.sessions.RevokeAll(context, profile.User.ID); err != nil {
		service.logger.Error("account_sessions_not_revoked",
			slog.String("user_id", profile.User.ID),
			slog.Any("error", err),
		)
	}

	service.logger.Warn("account_deleted", slog.String("user_id", profile.User.ID))
	service.notifier.Notify(context, fmt.Sprintf("%s left PoetPiece", profile.User.Username), notification.TagUser, nil)

	return nil
}
