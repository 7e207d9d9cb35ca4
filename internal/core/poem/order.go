// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poem

import "strings"

// Sortable fields. The Postgres repository maps each to a column.
const (
	SortCreatedAt    = "created_at"
	SortUpdatedAt    = "updated_at"
	SortRating       = "rating"
	SortCategoryName = "category_name"
	SortTitle        = "title"
	SortAuthorID     = "author_id"
	SortPremium      = "premium"
)

// Order names accepted by the "order" query parameter.
const (
	OrderRecent  = "RECENT"
	OrderPopular = "POPULAR"
	OrderAZ      = "A-Z"
	OrderZA      = "Z-A"
	OrderAuthors = "AUTHORS"
)

// SortKey is one term of an ORDER BY.
type SortKey struct {
	Field string `json:"field"`
	Desc  bool   `json:"desc"`
}

var orders = map[string][]SortKey{
	OrderRecent:  {{SortCreatedAt, true}, {SortUpdatedAt, true}},
	OrderPopular: {{SortRating, true}, {SortCategoryName, false}},
	OrderAZ:      {{SortTitle, false}, {SortUpdatedAt, true}},
	OrderZA:      {{SortTitle, true}, {SortUpdatedAt, false}},
	OrderAuthors: {{SortAuthorID, false}, {SortRating, true}, {SortPremium, false}},
}

var orderNames = []string{OrderRecent, OrderPopular, OrderAZ, OrderZA, OrderAuthors}

// byPoet lists a poet's other poems on their profile.
var byPoet = []SortKey{{SortRating, true}, {SortUpdatedAt, true}}

// ResolveOrder maps an order name to its sort keys, ignoring case.
// Unknown names sort A-Z.
func ResolveOrder(name string) []SortKey {
	keys, ok := orders[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		keys = orders[OrderAZ]
	}
	out := make([]SortKey, len(keys))
	copy(out, keys)
	return out
}

// OrderNames lists the accepted order names.
func OrderNames() []string {
	out := make([]string, len(orderNames))
	copy(out, orderNames)
	return out
}
