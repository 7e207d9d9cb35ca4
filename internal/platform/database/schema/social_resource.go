// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SocialResourceTable represents the 'social.resource' table
type SocialResourceTable struct {
	Table       string
	ID          string
	AuthorID    string
	Type        string
	Title       string
	Body        string
	IsPublished string
	CreatedAt   string
	UpdatedAt   string
}

// SocialResource is the schema definition for social.resource
var SocialResource = SocialResourceTable{
	Table:       "social.resource",
	ID:          "id",
	AuthorID:    "authorid",
	Type:        "type",
	Title:       "title",
	Body:        "body",
	IsPublished: "ispublished",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t SocialResourceTable) Columns() []string {
	return []string{t.ID, t.AuthorID, t.Type, t.Title, t.Body, t.IsPublished, t.CreatedAt, t.UpdatedAt}
}
