// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account lets a signed-in user read, edit and delete their account.

Deleting an account also removes its poet capability. It is refused while
that poet still owns poems, so nothing published is orphaned.
*/
package account

import (
	"context"
	"strings"
	"time"

	"github.com/taibuivan/poetpiece/internal/core/poet"
	"github.com/taibuivan/poetpiece/internal/platform/validate"
	"github.com/taibuivan/poetpiece/internal/users/auth"
)

// Profile is the private view of the caller's account.
type Profile struct {
	User *auth.User `json:"user"`
	Poet *poet.Poet `json:"poet"`
}

// UpdateRequest is the body of PATCH /account. Absent fields are kept; an
// empty birth date clears it.
type UpdateRequest struct {
	Username  *string `json:"username"`
	BirthDate *string `json:"birth_date"`
}

// ApplyTo validates the present fields and copies them onto user.
func (r UpdateRequest) ApplyTo(user *auth.User, now time.Time) error {
	validator := &validate.Validator{}

	username := user.Username
	if r.Username != nil {
		username = strings.TrimSpace(*r.Username)
		auth.ValidateUsername(validator, username)
	}

	birthDate := user.BirthDate
	if r.BirthDate != nil {
		birthDate = auth.ParseBirthDate(validator, *r.BirthDate, now)
	}

	if err := validator.Err(); err != nil {
		return err
	}

	user.Username = username
	user.BirthDate = birthDate
	return nil
}

type Repository interface {
	FindByID(context context.Context, id string) (*auth.User, error)

	// Update stores username and birth date. A taken username yields
	// [auth.ErrUsernameTaken].
	Update(context context.Context, user *auth.User) error

	// Delete removes the account and its poet capability unless the poet
	// owns poems, in which case nothing changes and the count is returned.
	Delete(context context.Context, userID string) (poems int, err error)
}
