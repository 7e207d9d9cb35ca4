// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access decides who may see and who may change poems and resources.

The predicates are pure: they take an [Actor] and a [Subject] and never touch
storage. Handlers resolve the actor once per request (see [FromContext]) and
services ask the policy before reading or writing.
*/
package access

import (
	"context"

	"github.com/taibuivan/poetpiece/internal/platform/ctxkey"
)

// # Identity

// Actor is the identity a request acts as.
//
// The zero value is an anonymous reader. PoetID is set only when the signed-in
// user has taken on the poet capability.
type Actor struct {
	UserID   string
	Username string
	PoetID   string

	// Verified is set for poets confirmed by an admin.
	Verified bool
	Admin    bool
}

// Anonymous is the actor of a request without a valid access token.
var Anonymous = Actor{}

// Authenticated reports whether the request carries a signed-in user.
func (a Actor) Authenticated() bool {
	return a.UserID != ""
}

// IsPoet reports whether the signed-in user can author content.
func (a Actor) IsPoet() bool {
	return a.Authenticated() && a.PoetID != ""
}

// # Subjects

// Subject is the slice of a poem or resource the policy needs.
type Subject struct {
	AuthorID  *string
	Published bool
	Premium   bool
}

// # Poems

// CanManagePoem reports whether the actor owns the poem.
//
// A poem whose author was removed has no owner and cannot be managed.
func CanManagePoem(poem Subject, actor Actor) bool {
	if !actor.IsPoet() || poem.AuthorID == nil {
		return false
	}
	return *poem.AuthorID == actor.PoetID
}

// CanViewPoem reports whether the actor may read the poem.
func CanViewPoem(poem Subject, actor Actor) bool {
	if CanManagePoem(poem, actor) {
		return true
	}
	return poem.Published && (!poem.Premium || actor.Authenticated())
}

// # Resources

// CanManageResource reports whether the actor owns the resource.
func CanManageResource(resource Subject, actor Actor) bool {
	if !actor.IsPoet() || resource.AuthorID == nil {
		return false
	}
	return *resource.AuthorID == actor.PoetID
}

// CanViewResource reports whether the actor may read the resource.
func CanViewResource(resource Subject, actor Actor) bool {
	return resource.Published || CanManageResource(resource, actor)
}

// # Context

// WithActor returns a copy of ctx carrying the actor.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, ctxkey.KeyActor, actor)
}

// FromContext returns the actor stored by the actor middleware, or [Anonymous].
func FromContext(ctx context.Context) Actor {
	actor, ok := ctx.Value(ctxkey.KeyActor).(Actor)
	if !ok {
		return Anonymous
	}
	return actor
}
