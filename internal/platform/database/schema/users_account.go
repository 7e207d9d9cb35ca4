// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table     string
	ID        string
	Username  string
	Password  string
	BirthDate string
	Role      string
	CreatedAt string
	UpdatedAt string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:     "users.account",
	ID:        "id",
	Username:  "username",
	Password:  "passwordhash",
	BirthDate: "birthdate",
	Role:      "role",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns all standard column names
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Username, t.Password, t.BirthDate, t.Role, t.CreatedAt, t.UpdatedAt}
}
