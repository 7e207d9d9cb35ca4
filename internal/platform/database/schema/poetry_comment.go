// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// PoetryCommentTable represents the 'poetry.comment' table
type PoetryCommentTable struct {
	Table      string
	ID         string
	PoemID     string
	UserID     string
	Body       string
	IsApproved string
	CreatedAt  string
	UpdatedAt  string
}

// PoetryComment is the schema definition for poetry.comment
var PoetryComment = PoetryCommentTable{
	Table:      "poetry.comment",
	ID:         "id",
	PoemID:     "poemid",
	UserID:     "userid",
	Body:       "body",
	IsApproved: "isapproved",
	CreatedAt:  "createdat",
	UpdatedAt:  "updatedat",
}

func (t PoetryCommentTable) Columns() []string {
	return []string{t.ID, t.PoemID, t.UserID, t.Body, t.IsApproved, t.CreatedAt, t.UpdatedAt}
}
