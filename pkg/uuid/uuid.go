// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the time-ordered identifiers used as primary keys.

Version 7 values sort by creation time, which keeps B-tree inserts local.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		// entropy failure is not recoverable
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}

// IsValid reports whether s parses as a UUID of any version.
func IsValid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
