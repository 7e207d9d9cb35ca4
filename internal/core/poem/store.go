// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poem

import "context"

// PoemRepository stores poems and their ratings.
type PoemRepository interface {
	ListPoems(context context.Context, filter Filter, limit, offset int) ([]*Poem, int, error)
	GetPoem(context context.Context, id string) (*Poem, error)
	GetPoemBySlug(context context.Context, slug string) (*Poem, error)
	CreatePoem(context context.Context, poem *Poem) error
	UpdatePoem(context context.Context, poem *Poem) error
	DeletePoem(context context.Context, id string) error

	// RatePoem upserts the user's score and returns the new average.
	RatePoem(context context.Context, poemID, userID string, score float64) (float64, error)
}

// StanzaRepository stores the stanzas of a poem.
type StanzaRepository interface {
	ListStanzas(context context.Context, poemID string) ([]*Stanza, error)
	GetStanza(context context.Context, poemID string, index int) (*Stanza, error)
	CreateStanza(context context.Context, stanza *Stanza) error
	UpdateStanza(context context.Context, stanza *Stanza, oldIndex int) error
	DeleteStanza(context context.Context, poemID string, index int) error
}

// CommentRepository stores reader comments.
type CommentRepository interface {
	// ListComments returns approved comments, plus the viewer's own, plus
	// everything when includeAll is set.
	ListComments(context context.Context, poemID, viewerUserID string, includeAll bool) ([]*Comment, error)
	GetComment(context context.Context, id string) (*Comment, error)
	CreateComment(context context.Context, comment *Comment) error
	ApproveComment(context context.Context, id string) error
	DeleteComment(context context.Context, id string) error
}

// Repository is everything the poem service needs from storage.
type Repository interface {
	PoemRepository
	StanzaRepository
	CommentRepository
}
