// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package resource manages the links, images, briefs and courses poets share.

The body of a resource depends on its type: a URL for [TypeLink], [TypeImage]
and [TypeCourse], free text for [TypeBrief]. Readers vote resources up or
down; voting the same way twice withdraws the vote.
*/
package resource

import (
	"strings"
	"time"

	"github.com/taibuivan/poetpiece/internal/core/access"
	"github.com/taibuivan/poetpiece/internal/platform/apperr"
	"github.com/taibuivan/poetpiece/pkg/slice"
	"github.com/taibuivan/poetpiece/pkg/uuid"
)

// Type is the kind of a resource.
type Type string

const (
	TypeLink   Type = "LINK"
	TypeImage  Type = "IMAGE"
	TypeBrief  Type = "BRIEF"
	TypeCourse Type = "COURSE"
)

// Types lists every resource type.
var Types = slice.Map([]Type{TypeLink, TypeImage, TypeBrief, TypeCourse}, func(t Type) string { return string(t) })

// HasURLBody reports whether the body of this type is a URL.
func (t Type) HasURLBody() bool {
	return t != TypeBrief
}

// Reaction is a reader's vote.
type Reaction string

const (
	Upvote   Reaction = "UPVOTE"
	Downvote Reaction = "DOWNVOTE"
)

const (
	MaxTitleLength = 255
	MaxBriefLength = 755

	FieldType     = "type"
	FieldTitle    = "title"
	FieldBody     = "body"
	FieldReaction = "reaction"

	// SortTitle lists resources A-Z; anything else lists newest first.
	SortTitle = "title"
)

var (
	ErrNotFound = apperr.NotFound("Resource")
	ErrNotPoet  = apperr.Forbidden("Only poets can share resources")
	ErrNotOwner = apperr.Forbidden("You do not own this resource")
)

// Resource is a shareable item owned by a poet.
type Resource struct {
	ID             string    `json:"id"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username"`
	Type           Type      `json:"type"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	Published      bool      `json:"published"`
	Upvotes        int       `json:"upvotes"`
	Downvotes      int       `json:"downvotes"`
	MyVote         *Reaction `json:"my_vote,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Subject returns the view of the resource the access policy works on.
func (r *Resource) Subject() access.Subject {
	return access.Subject{AuthorID: &r.AuthorID, Published: r.Published}
}

// Filter narrows a resource listing.
type Filter struct {
	Type   Type
	Sort   string
	Viewer access.Actor
}

// # Request DTOs

// CreateRequest is the body of POST /resources.
type CreateRequest struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// UpdateRequest is the body of PATCH /resources/{id}. The type is fixed at
// creation.
type UpdateRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

// VoteRequest is the body of PUT /resources/{id}/vote.
type VoteRequest struct {
	Reaction string `json:"reaction"`
}

// ToResource builds an unpublished resource owned by authorID.
func (r CreateRequest) ToResource(authorID string) *Resource {
	return &Resource{
		ID:       uuid.New(),
		AuthorID: authorID,
		Type:     Type(strings.ToUpper(strings.TrimSpace(r.Type))),
		Title:    strings.TrimSpace(r.Title),
		Body:     strings.TrimSpace(r.Body),
	}
}

// ApplyTo copies the present fields onto res.
func (r UpdateRequest) ApplyTo(res *Resource) {
	if r.Title != nil {
		res.Title = strings.TrimSpace(*r.Title)
	}
	if r.Body != nil {
		res.Body = strings.TrimSpace(*r.Body)
	}
}
