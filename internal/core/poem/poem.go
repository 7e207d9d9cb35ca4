// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package poem implements the poem catalogue: poems, their stanzas, reader
comments and ratings, together with the search that lists them.

Visibility:

Every read goes through the access policy. Listings always carry the
visibility clause in SQL so that a draft never leaves the database for a
reader who may not see it, whatever other filters are applied.
*/
package poem

import (
	"time"

	"github.com/taibuivan/poetpiece/internal/core/access"
	"github.com/taibuivan/poetpiece/internal/platform/apperr"
)

// # Limits

const (
	MaxTitleLength   = 255
	MaxCommentLength = 1000
	MinStanzaIndex   = 1
	MaxStanzaIndex   = 20
	MinScore         = 0.0
	MaxScore         = 5.0
)

// # Validation Fields

const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldCategoryID  = "category_id"
	FieldIndex       = "index"
	FieldContent     = "content"
	FieldBody        = "body"
	FieldScore       = "score"
)

// # Errors

var (
	ErrPoemNotFound    = apperr.NotFound("Poem")
	ErrStanzaNotFound  = apperr.NotFound("Stanza")
	ErrCommentNotFound = apperr.NotFound("Comment")
	ErrNotPoet         = apperr.Forbidden("Only poets can write poems")
	ErrNotOwner        = apperr.Forbidden("You do not own this poem")
)

// # Entities

// Poem is a titled, optionally categorised piece owned by a poet.
//
// AuthorID is nil once the poet capability of its author has been removed.
type Poem struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	CategoryID     *string   `json:"category_id"`
	CategoryName   *string   `json:"category_name,omitempty"`
	AuthorID       *string   `json:"author_id"`
	AuthorUsername *string   `json:"author_username,omitempty"`
	AuthorUserID   *string   `json:"-"`
	Rating         float64   `json:"rating"`
	Premium        bool      `json:"premium"`
	Completed      bool      `json:"completed"`
	Published      bool      `json:"published"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Subject returns the view of the poem the access policy works on.
func (p *Poem) Subject() access.Subject {
	return access.Subject{AuthorID: p.AuthorID, Published: p.Published, Premium: p.Premium}
}

// Stanza is one numbered verse of a poem.
type Stanza struct {
	ID        string    `json:"id"`
	PoemID    string    `json:"poem_id"`
	Index     int       `json:"index"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Comment is a reader's remark on a poem. New comments await approval by the
// poem's owner.
type Comment struct {
	ID        string    `json:"id"`
	PoemID    string    `json:"poem_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Body      string    `json:"body"`
	Approved  bool      `json:"approved"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Rating is the result of a rate call: the caller's score and the new average.
type Rating struct {
	PoemID  string  `json:"poem_id"`
	Score   float64 `json:"score"`
	Average float64 `json:"average"`
}
