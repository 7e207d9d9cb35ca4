// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// SocialResourceVoteTable represents the 'social.resourcevote' table
type SocialResourceVoteTable struct {
	Table      string
	ResourceID string
	UserID     string
	Reaction   string
	CreatedAt  string
}

// SocialResourceVote is the schema definition for social.resourcevote
var SocialResourceVote = SocialResourceVoteTable{
	Table:      "social.resourcevote",
	ResourceID: "resourceid",
	UserID:     "userid",
	Reaction:   "reaction",
	CreatedAt:  "createdat",
}
