// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert implements the permissive coercion rules used for query
string filters: a value that cannot be parsed is treated as absent instead of
failing the whole request.
*/
package convert

import (
	"strconv"
	"strings"
)

// FormTrue is the only literal that parses as boolean true in filter parameters.
const FormTrue = "True"

// OptionalInt parses s as an integer. Empty or malformed input yields nil.
func OptionalInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// FormBool parses a filter flag. "True" yields true, any other non-empty
// value yields false, and an empty value yields nil (filter not applied).
func FormBool(s string) *bool {
	if s == "" {
		return nil
	}
	v := s == FormTrue
	return &v
}

// OptionalString returns nil for a blank string and a trimmed copy otherwise.
func OptionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// ToBool parses a conventional boolean ("true", "1", "false", "0"), false on error.
func ToBool(s string) bool {
	v, _ := strconv.ParseBool(s)
	return v
}
