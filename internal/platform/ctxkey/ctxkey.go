// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey defines typed context keys used by middleware and handlers.
//
// The unexported key type keeps these keys from colliding with string keys
// set by third-party packages.
package ctxkey

type key string

const (
	// KeyRequestID is the context key for the X-Request-ID correlation value.
	KeyRequestID key = "request_id"

	// KeyUser is the context key for the verified access token claims.
	KeyUser key = "user"

	// KeyLogger is the context key for the per-request [*log/slog.Logger].
	KeyLogger key = "logger"

	// KeyActor is the context key for the resolved reader/poet identity.
	KeyActor key = "actor"

	// KeyRetryTicket is the context key for the retry guard ticket of a mutating request.
	KeyRetryTicket key = "retry_ticket"
)
