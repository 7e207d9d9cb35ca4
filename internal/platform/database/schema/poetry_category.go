// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// PoetryCategoryTable represents the 'poetry.category' table
type PoetryCategoryTable struct {
	Table       string
	ID          string
	Name        string
	Description string
	CreatedAt   string
}

// PoetryCategory is the schema definition for poetry.category
var PoetryCategory = PoetryCategoryTable{
	Table:       "poetry.category",
	ID:          "id",
	Name:        "name",
	Description: "description",
	CreatedAt:   "createdat",
}

func (t PoetryCategoryTable) Columns() []string {
	return []string{t.ID, t.Name, t.Description, t.CreatedAt}
}
