// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package category manages the categories poems are filed under.
package category

import (
	"time"

	"github.com/taibuivan/poetpiece/internal/platform/apperr"
)

const (
	MaxNameLength        = 100
	MaxDescriptionLength = 1000

	FieldName        = "name"
	FieldDescription = "description"
)

var (
	ErrNotFound    = apperr.NotFound("Category")
	ErrNotVerified = apperr.Forbidden("Only verified poets can manage categories")
)

// Category groups poems by theme or form.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PoemCount   int       `json:"poem_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateRequest is the body of POST /categories.
type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
