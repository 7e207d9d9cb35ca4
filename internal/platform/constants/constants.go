// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants holds values shared across layers of the PoetPiece API.

Categories:

  - Server timing for the HTTP server and shutdown.
  - Rate limiting per client IP.
  - Authentication cookie and issuer names.
  - Header names, JSON field names and Redis key prefixes.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "poetpiece-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	DefaultReadTimeout       = 5 * time.Second
	DefaultWriteTimeout      = 10 * time.Second
	DefaultIdleTimeout       = 120 * time.Second
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long in-flight requests get during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	DefaultRateLimitRPS      = 50.0
	DefaultRateLimitBurst    = 100
	RateLimitCleanupInterval = 1 * time.Minute
	RateLimitClientTTL       = 3 * time.Minute
)

// # Request Bodies

// MaxRequestBodyBytes caps JSON bodies buffered by the retry guard.
const MaxRequestBodyBytes = 1 << 20

// TransientRetryAfterSeconds is advertised on 503 transient failures.
const TransientRetryAfterSeconds = 5

// # Authentication

const (
	// AuthIssuer is the 'iss' claim in access tokens.
	AuthIssuer = "poetpiece.app"

	RefreshTokenCookieName = "refresh_token"
	RefreshTokenCookiePath = "/api/v1/auth"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderRetryAfter    = "Retry-After"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
	FieldCount   = "count"
)

// # Redis Prefixes

const (
	RedisPrefixSession     = "auth:session:"
	RedisPrefixUserSession = "auth:user_sessions:"
)
