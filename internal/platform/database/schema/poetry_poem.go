// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// PoetryPoemTable represents the 'poetry.poem' table
type PoetryPoemTable struct {
	Table       string
	ID          string
	AuthorID    string
	CategoryID  string
	Title       string
	Slug        string
	Description string
	Rating      string
	IsPremium   string
	IsCompleted string
	IsPublished string
	CreatedAt   string
	UpdatedAt   string
}

// PoetryPoem is the schema definition for poetry.poem
var PoetryPoem = PoetryPoemTable{
	Table:       "poetry.poem",
	ID:          "id",
	AuthorID:    "authorid",
	CategoryID:  "categoryid",
	Title:       "title",
	Slug:        "slug",
	Description: "description",
	Rating:      "rating",
	IsPremium:   "ispremium",
	IsCompleted: "iscompleted",
	IsPublished: "ispublished",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t PoetryPoemTable) Columns() []string {
	return []string{
		t.ID, t.AuthorID, t.CategoryID, t.Title, t.Slug, t.Description, t.Rating,
		t.IsPremium, t.IsCompleted, t.IsPublished, t.CreatedAt, t.UpdatedAt,
	}
}
