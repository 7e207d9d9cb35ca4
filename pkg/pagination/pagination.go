// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination parses page/limit query parameters and builds the
// metadata block of paginated responses.
//
// Pages are 1-based. A page past the end is not an error; it is simply empty.
package pagination

import (
	"math"
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is used when neither the caller nor the endpoint picks a size.
	DefaultLimit = 20
	// MaxLimit is the upper bound for items per page.
	MaxLimit = 100
	// DefaultPage is the starting page.
	DefaultPage = 1
)

// Params holds the parsed page and limit.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET value derived from Page and Limit.
func (p Params) Offset() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination metadata included in list responses.
type Meta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewMeta constructs pagination metadata for a response.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// FromRequest parses "page" and "limit" with [DefaultLimit] as the fallback size.
func FromRequest(r *http.Request) Params {
	return FromRequestWithLimit(r, DefaultLimit)
}

// FromRequestWithLimit parses "page" and "limit" with an endpoint-specific default size.
//
// Invalid or out-of-range values fall back to the defaults rather than failing.
// Huge pages are capped so that the offset never overflows; they still land
// past the end and yield an empty page.
func FromRequestWithLimit(r *http.Request, defaultLimit int) Params {
	if defaultLimit < 1 || defaultLimit > MaxLimit {
		defaultLimit = DefaultLimit
	}

	page := parseIntParam(r, "page", DefaultPage)
	limit := parseIntParam(r, "limit", defaultLimit)

	if page < 1 {
		page = DefaultPage
	}

	if limit < 1 || limit > MaxLimit {
		limit = defaultLimit
	}

	// Keeps Offset within a Postgres-safe int.
	if maxPage := math.MaxInt32 / limit; page > maxPage {
		page = maxPage
	}

	return Params{Page: page, Limit: limit}
}

func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
