// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// UserRepository is the account storage used by sign-in flows.
type UserRepository interface {
	FindByID(context context.Context, id string) (*User, error)
	FindByUsername(context context.Context, username string) (*User, error)

	// Create stores a new account. A taken username yields [ErrUsernameTaken].
	Create(context context.Context, user *User) error
	UpdatePassword(context context.Context, userID, passwordHash string) error
}

// SessionRepository stores refresh sessions by token hash.
type SessionRepository interface {
	Create(context context.Context, session *Session) error

	// FindByTokenHash returns [ErrSessionNotFound] for unknown or expired hashes.
	FindByTokenHash(context context.Context, tokenHash string) (*Session, error)
	Revoke(context context.Context, session *Session) error
	RevokeAll(context context.Context, userID string) error

	// RevokeOthers drops every session of userID except keepHash.
	RevokeOthers(context context.Context, userID, keepHash string) error
}
