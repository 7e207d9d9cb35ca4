// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poem

import (
	"net/url"
	"strings"

	"github.com/taibuivan/poetpiece/internal/core/access"
	"github.com/taibuivan/poetpiece/pkg/convert"
	"github.com/taibuivan/poetpiece/pkg/uuid"
)

// # Criteria

// Criteria is the search as the reader typed it. Fields that could not be
// parsed are left empty so that the filter is skipped, never rejected.
type Criteria struct {
	Query      string
	Rating     *int
	AuthorID   string
	Completed  *bool
	Premium    *bool
	Poet       string
	CategoryID string
	Order      string
}

/*
ParseCriteria reads search parameters from a query string.

Parameters:
  - q: substring of title or description
  - rating: bucket selector, see [BucketFor]
  - author_id, category: identifiers, dropped when not a UUID
  - completed, premium: the literal "True" is true, any other value is false
  - poet: author username
  - order: one of [OrderNames]
*/
func ParseCriteria(values url.Values) Criteria {
	criteria := Criteria{
		Query:     strings.TrimSpace(values.Get("q")),
		Rating:    convert.OptionalInt(values.Get("rating")),
		Completed: convert.FormBool(values.Get("completed")),
		Premium:   convert.FormBool(values.Get("premium")),
		Poet:      strings.TrimSpace(values.Get("poet")),
		Order:     strings.TrimSpace(values.Get("order")),
	}

	if id := values.Get("author_id"); uuid.IsValid(id) {
		criteria.AuthorID = id
	}
	if id := values.Get("category"); uuid.IsValid(id) {
		criteria.CategoryID = id
	}

	return criteria
}

// # Rating Buckets

// RatingBucket is an inclusive rating range.
type RatingBucket struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether rating lies in the bucket, bounds included.
func (b RatingBucket) Contains(rating float64) bool {
	return b.Min <= rating && rating <= b.Max
}

// RatingBuckets are the ranges a rating selector picks from, in order.
var RatingBuckets = []RatingBucket{{0, 1}, {1, 3}, {3, 5}}

// BucketFor returns the first bucket whose upper bound reaches the selector.
// Negative selectors and selectors above every bucket select nothing.
func BucketFor(selector int) (RatingBucket, bool) {
	if selector < 0 {
		return RatingBucket{}, false
	}
	for _, bucket := range RatingBuckets {
		if bucket.Max >= float64(selector) {
			return bucket, true
		}
	}
	return RatingBucket{}, false
}

// # Filter

// Filter is a resolved search handed to the repository.
type Filter struct {
	Query      string
	Rating     *RatingBucket
	AuthorID   *string
	CategoryID *string
	Completed  *bool
	Premium    *bool

	// Viewer decides the visibility clause.
	Viewer access.Actor

	Order []SortKey
}
