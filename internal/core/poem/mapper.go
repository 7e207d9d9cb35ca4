// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poem

import (
	"strings"

	"github.com/taibuivan/poetpiece/pkg/slug"
	"github.com/taibuivan/poetpiece/pkg/uuid"
)

// # Request DTOs

// CreatePoemRequest is the body of POST /poems.
type CreatePoemRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CategoryID  *string `json:"category_id"`
	Premium     bool    `json:"premium"`
	Completed   bool    `json:"completed"`
}

// UpdatePoemRequest is the body of PATCH /poems/{id}. Absent fields are kept;
// an empty category_id clears the category.
type UpdatePoemRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	CategoryID  *string `json:"category_id"`
	Premium     *bool   `json:"premium"`
	Completed   *bool   `json:"completed"`
}

// StanzaRequest is the body of POST /poems/{id}/stanzas.
type StanzaRequest struct {
	Index   int    `json:"index"`
	Content string `json:"content"`
}

// UpdateStanzaRequest is the body of PATCH /poems/{id}/stanzas/{index}.
type UpdateStanzaRequest struct {
	Index   *int    `json:"index"`
	Content *string `json:"content"`
}

// CommentRequest is the body of POST /poems/{id}/comments.
type CommentRequest struct {
	Body string `json:"body"`
}

// RatingRequest is the body of PUT /poems/{id}/rating.
type RatingRequest struct {
	Score float64 `json:"score"`
}

// # Mappers

// ToPoem builds a draft poem owned by authorID.
func (r CreatePoemRequest) ToPoem(authorID string) *Poem {
	title := strings.TrimSpace(r.Title)
	return &Poem{
		ID:          uuid.New(),
		Title:       title,
		Slug:        slug.From(title),
		Description: strings.TrimSpace(r.Description),
		CategoryID:  normaliseID(r.CategoryID),
		AuthorID:    &authorID,
		Premium:     r.Premium,
		Completed:   r.Completed,
	}
}

// ApplyTo copies the present fields onto p. A new title also renames the slug.
func (r UpdatePoemRequest) ApplyTo(p *Poem) {
	if r.Title != nil {
		p.Title = strings.TrimSpace(*r.Title)
		p.Slug = slug.From(p.Title)
	}
	if r.Description != nil {
		p.Description = strings.TrimSpace(*r.Description)
	}
	if r.CategoryID != nil {
		p.CategoryID = normaliseID(r.CategoryID)
		p.CategoryName = nil
	}
	if r.Premium != nil {
		p.Premium = *r.Premium
	}
	if r.Completed != nil {
		p.Completed = *r.Completed
	}
}

// ToStanza builds a stanza of poemID.
func (r StanzaRequest) ToStanza(poemID string) *Stanza {
	return &Stanza{
		ID:      uuid.New(),
		PoemID:  poemID,
		Index:   r.Index,
		Content: strings.TrimSpace(r.Content),
	}
}

// ApplyTo copies the present fields onto s.
func (r UpdateStanzaRequest) ApplyTo(s *Stanza) {
	if r.Index != nil {
		s.Index = *r.Index
	}
	if r.Content != nil {
		s.Content = strings.TrimSpace(*r.Content)
	}
}

// ToComment builds an unapproved comment by userID.
func (r CommentRequest) ToComment(poemID, userID string) *Comment {
	return &Comment{
		ID:     uuid.New(),
		PoemID: poemID,
		UserID: userID,
		Body:   strings.TrimSpace(r.Body),
	}
}

func normaliseID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
