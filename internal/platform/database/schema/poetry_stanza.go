// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// PoetryStanzaTable represents the 'poetry.stanza' table
type PoetryStanzaTable struct {
	Table     string
	ID        string
	PoemID    string
	Index     string
	Content   string
	CreatedAt string
	UpdatedAt string

	// IndexKey is the unique (poemid, index) constraint.
	IndexKey string
}

// PoetryStanza is the schema definition for poetry.stanza
var PoetryStanza = PoetryStanzaTable{
	Table:     "poetry.stanza",
	ID:        "id",
	PoemID:    "poemid",
	Index:     "index",
	Content:   "content",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
	IndexKey:  "stanza_poem_index_key",
}

func (t PoetryStanzaTable) Columns() []string {
	return []string{t.ID, t.PoemID, t.Index, t.Content, t.CreatedAt, t.UpdatedAt}
}
