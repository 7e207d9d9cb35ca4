// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package notification records activity messages and serves the inbox.

Producers call [Notifier.Notify] after a successful mutation. Delivery runs
in the background and never fails the caller: a notification that cannot be
stored is logged and dropped.

Inbox ownership:

  - A notification addressed to a user is visible to that user.
  - A notification without a user belongs to the site activity feed, which
    only admins read.
*/
package notification

import (
	"time"

	"github.com/taibuivan/poetpiece/internal/platform/apperr"
)

// Tag classifies what a notification is about.
type Tag string

const (
	TagAuth     Tag = "AUTH"
	TagPoet     Tag = "POET"
	TagUser     Tag = "USER"
	TagPoem     Tag = "POEM"
	TagResource Tag = "RESOURCE"
	TagCategory Tag = "CATEGORY"
	TagComment  Tag = "COMMENT"
)

// ErrNotFound is returned for ids outside the caller's inbox.
var ErrNotFound = apperr.NotFound("Notification")

// MaxContentLength matches the column width of the content field.
const MaxContentLength = 500

// Notification is a single inbox message.
type Notification struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id,omitempty"`
	Content   string    `json:"content"`
	Tag       Tag       `json:"tag"`
	Read      bool      `json:"read"`
	Trashed   bool      `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Filter narrows an inbox listing.
type Filter struct {
	UnreadOnly bool
	Query      string
}
