// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import (
	"context"

	"github.com/taibuivan/poetpiece/internal/core/access"
)

// Writer persists new notifications.
type Writer interface {
	CreateNotification(context context.Context, notification *Notification) error
}

// Repository is the full inbox storage. Every read and update is scoped to
// the notifications the owner may see.
type Repository interface {
	Writer
	ListNotifications(context context.Context, owner access.Actor, filter Filter, limit, offset int) ([]*Notification, int, error)
	CountUnread(context context.Context, owner access.Actor) (int, error)
	MarkRead(context context.Context, owner access.Actor, id string) error
	MarkAllRead(context context.Context, owner access.Actor) (int, error)
	Trash(context context.Context, owner access.Actor, id string) error
}
