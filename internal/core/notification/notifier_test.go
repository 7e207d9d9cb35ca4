// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/poetpiece/internal/core/notification"
	"github.com/taibuivan/poetpiece/pkg/pointer"
)

type recordingWriter struct {
	mu       sync.Mutex
	stored   []*notification.Notification
	err      error
	panicMsg string
	ctxErr   error
}

func (w *recordingWriter) CreateNotification(ctx context.Context, n *notification.Notification) error {
	if w.panicMsg != "" {
		panic(w.panicMsg)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.ctxErr = ctx.Err()
	if w.err != nil {
		return w.err
	}
	w.stored = append(w.stored, n)
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

/*
TestNotifier_Delivers verifies a notification is stored in the background.
*/
func TestNotifier_Delivers(t *testing.T) {
	writer := &recordingWriter{}
	notifier := notification.NewNotifier(writer, discard(), time.Second)

	// 1. Deliver and drain
	notifier.Notify(context.Background(), "emily just signed up!", notification.TagAuth, nil)
	notifier.Wait()

	// 2. Inspect the stored row
	require.Len(t, writer.stored, 1)
	stored := writer.stored[0]
	assert.Equal(t, "emily just signed up!", stored.Content)
	assert.Equal(t, notification.TagAuth, stored.Tag)
	assert.Nil(t, stored.UserID)
	assert.NotEmpty(t, stored.ID)
}

/*
TestNotifier_FailuresNeverSurface verifies that store errors and panics are
swallowed and that Notify returns without waiting on the store.
*/
func TestNotifier_FailuresNeverSurface(t *testing.T) {
	tests := []struct {
		name   string
		writer *recordingWriter
	}{
		{"store_error", &recordingWriter{err: errors.New("relation does not exist")}},
		{"store_panic", &recordingWriter{panicMsg: "nil map"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := notification.NewNotifier(tt.writer, discard(), time.Second)

			assert.NotPanics(t, func() {
				notifier.Notify(context.Background(), "A new poem 'Ode' was just published", notification.TagPoem, nil)
				notifier.Wait()
			})
			assert.Empty(t, tt.writer.stored)
		})
	}
}

/*
TestNotifier_DetachedFromRequest verifies a cancelled request context does not
cancel the delivery.
*/
func TestNotifier_DetachedFromRequest(t *testing.T) {
	writer := &recordingWriter{}
	notifier := notification.NewNotifier(writer, discard(), time.Second)

	// 1. Request is already gone when the goroutine runs
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	notifier.Notify(ctx, "Someone commented on your poem", notification.TagComment, pointer.To("u-1"))
	notifier.Wait()

	// 2. The write saw a live context
	require.Len(t, writer.stored, 1)
	assert.NoError(t, writer.ctxErr)
	assert.Equal(t, "u-1", *writer.stored[0].UserID)
}

/*
TestNotifier_TruncatesContent verifies content is clipped to the column width.
*/
func TestNotifier_TruncatesContent(t *testing.T) {
	writer := &recordingWriter{}
	notifier := notification.NewNotifier(writer, discard(), 0)

	notifier.Notify(context.Background(), strings.Repeat("é", notification.MaxContentLength+10), notification.TagUser, nil)
	notifier.Wait()

	require.Len(t, writer.stored, 1)
	assert.Equal(t, notification.MaxContentLength, len([]rune(writer.stored[0].Content)))
}
