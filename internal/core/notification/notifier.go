// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/poetpiece/internal/platform/ctxutil"
	"github.com/taibuivan/poetpiece/pkg/uuid"
)

// DefaultTimeout bounds a single delivery when none is configured.
const DefaultTimeout = 5 * time.Second

/*
Notifier delivers notifications off the request path.

Notify returns immediately. The write runs on its own goroutine with a
context detached from the request, so a client disconnect does not cancel it.
Errors and panics are logged as notification_dropped and never surface.
*/
type Notifier struct {
	store   Writer
	logger  *slog.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewNotifier creates a Notifier writing to store.
func NewNotifier(store Writer, logger *slog.Logger, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Notifier{store: store, logger: logger, timeout: timeout}
}

/*
Notify schedules a notification.

Parameters:
  - ctx: request context, used for correlation only
  - content: message text, truncated to [MaxContentLength]
  - tag: what the message is about
  - userID: addressee, nil for the site activity feed
*/
func (notifier *Notifier) Notify(ctx context.Context, content string, tag Tag, userID *string) {
	notification := &Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Content: truncate(content, MaxContentLength),
		Tag:     tag,
	}

	logger := notifier.logger.With(
		slog.String("request_id", ctxutil.GetRequestID(ctx)),
		slog.String("tag", string(tag)),
	)
	detached := context.WithoutCancel(ctx)

	notifier.wg.Add(1)
	go func() {
		defer notifier.wg.Done()
		defer func() {
			if recovered := recover(); recovered != nil {
				logger.Error("notification_dropped", slog.Any("panic", recovered))
			}
		}()

		deliveryCtx, cancel := context.WithTimeout(detached, notifier.timeout)
		defer cancel()

		if err := notifier.store.CreateNotification(deliveryCtx, notification); err != nil {
			logger.Warn("notification_dropped", slog.Any("error", err))
			return
		}

		logger.Debug("notification_stored", slog.String("notification_id", notification.ID))
	}()
}

// Wait blocks until every scheduled delivery has finished.
func (notifier *Notifier) Wait() {
	notifier.wg.Wait()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
