// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SocialNotificationTable represents the 'social.notification' table
type SocialNotificationTable struct {
	Table     string
	ID        string
	UserID    string
	Content   string
	Tag       string
	IsRead    string
	IsTrashed string
	CreatedAt string
}

// SocialNotification is the schema definition for social.notification
var SocialNotification = SocialNotificationTable{
	Table:     "social.notification",
	ID:        "id",
	UserID:    "userid",
	Content:   "content",
	Tag:       "tag",
	IsRead:    "isread",
	IsTrashed: "istrashed",
	CreatedAt: "createdat",
}

func (t SocialNotificationTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Content, t.Tag, t.IsRead, t.IsTrashed, t.CreatedAt}
}
