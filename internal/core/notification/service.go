// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import (
	"context"
	"log/slog"

	"github.com/taibuivan/poetpiece/internal/core/access"
	"github.com/taibuivan/poetpiece/internal/platform/apperr"
)

// Service serves the inbox of the calling actor.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func requireUser(actor access.Actor) error {
	if !actor.Authenticated() {
		return apperr.Unauthorized("Authentication required")
	}
	return nil
}

// List returns unread notifications first, newest first, excluding trash.
func (service *Service) List(context context.Context, actor access.Actor, filter Filter, limit, offset int) ([]*Notification, int, error) {
	if err := requireUser(actor); err != nil {
		return nil, 0, err
	}
	return service.repo.ListNotifications(context, actor, filter, limit, offset)
}

func (service *Service) UnreadCount(context context.Context, actor access.Actor) (int, error) {
	if err := requireUser(actor); err != nil {
		return 0, err
	}
	return service.repo.CountUnread(context, actor)
}

func (service *Service) MarkRead(context context.Context, actor access.Actor, id string) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	return service.repo.MarkRead(context, actor, id)
}

func (service *Service) MarkAllRead(context context.Context, actor access.Actor) (int, error) {
	if err := requireUser(actor); err != nil {
		return 0, err
	}

	updated, err := service.repo.MarkAllRead(context, actor)
	if err != nil {
		return 0, err
	}

	service.logger.Info("notifications_read", slog.String("user_id", actor.UserID), slog.Int("count", updated))
	return updated, nil
}

func (service *Service) Trash(context context.Context, actor access.Actor, id string) error {
	if err := requireUser(actor); err != nil {
		return err
	}
	return service.repo.Trash(context, actor, id)
}
