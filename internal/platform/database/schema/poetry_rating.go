// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// PoetryRatingTable represents the 'poetry.rating' table
type PoetryRatingTable struct {
	Table   string
	PoemID  string
	UserID  string
	Score   string
	RatedAt string
}

// PoetryRating is the schema definition for poetry.rating
var PoetryRating = PoetryRatingTable{
	Table:   "poetry.rating",
	PoemID:  "poemid",
	UserID:  "userid",
	Score:   "score",
	RatedAt: "ratedat",
}
