// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package poet manages the poet capability of a user account.

A user becomes a poet once, with a contact email and gender. Poets author
poems, categories and resources; admins verify them. The package also
resolves the [access.Actor] of every request (see [ActorMiddleware]).
*/
package poet

import (
	"time"

	"github.com/taibuivan/poetpiece/internal/core/poem"
	"github.com/taibuivan/poetpiece/internal/platform/apperr"
	"github.com/taibuivan/poetpiece/pkg/pagination"
)

const (
	GenderFemale = "FEMALE"
	GenderMale   = "MALE"
	GenderOther  = "OTHER"

	MaxBioLength = 1000

	FieldEmail  = "email"
	FieldGender = "gender"
	FieldBio    = "bio"
)

var (
	ErrNotFound       = apperr.NotFound("Poet")
	ErrAlreadyPoet    = apperr.Conflict("You are already a poet")
	ErrLimitReached   = apperr.Conflict("PoetPiece is not accepting new poets at the moment")
	ErrAdminOnly      = apperr.Forbidden("Only admins can verify poets")
	ErrSignInRequired = apperr.Unauthorized("Sign in to become a poet")
)

// Poet is the authoring profile attached to a user.
type Poet struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Gender    string    `json:"gender"`
	Bio       string    `json:"bio"`
	Verified  bool      `json:"verified"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the public page of a poet with a page of their poems.
type Profile struct {
	Poet  *Poet           `json:"poet"`
	Poems []*poem.Poem    `json:"poems"`
	Meta  pagination.Meta `json:"poems_meta"`
}

// BecomePoetRequest is the body of POST /poets.
type BecomePoetRequest struct {
	Email  string `json:"email"`
	Gender string `json:"gender"`
	Bio    string `json:"bio"`
}
