// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserPoetTable represents the 'users.poet' table
type UserPoetTable struct {
	Table      string
	ID         string
	UserID     string
	Email      string
	Gender     string
	Bio        string
	IsVerified string
	CreatedAt  string
}

// UserPoet is the schema definition for users.poet
var UserPoet = UserPoetTable{
	Table:      "users.poet",
	ID:         "id",
	UserID:     "userid",
	Email:      "email",
	Gender:     "gender",
	Bio:        "bio",
	IsVerified: "isverified",
	CreatedAt:  "createdat",
}

func (t UserPoetTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Email, t.Gender, t.Bio, t.IsVerified, t.CreatedAt}
}
