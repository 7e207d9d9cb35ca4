// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package retryguard

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/taibuivan/poetpiece/internal/platform/constants"
	"github.com/taibuivan/poetpiece/internal/platform/ctxkey"
	"github.com/taibuivan/poetpiece/internal/platform/ctxutil"
)

// Ticket binds one mutating request to the guard.
//
// The fingerprint is computed up front, but the guard is only touched when
// the request actually fails transiently and the error path calls Observe.
type Ticket struct {
	guard       *Guard
	fingerprint string

	once    sync.Once
	outcome Outcome
}

// NewTicket creates a ticket for a precomputed fingerprint.
func (g *Guard) NewTicket(fingerprint string) *Ticket {
	return &Ticket{guard: g, fingerprint: fingerprint}
}

// Fingerprint returns the request fingerprint.
func (t *Ticket) Fingerprint() string {
	return t.fingerprint
}

// Observe consults the guard once per request and memoises the outcome.
func (t *Ticket) Observe() Outcome {
	t.once.Do(func() {
		t.outcome = t.guard.Observe(t.fingerprint)
	})
	return t.outcome
}

// WithTicket attaches a ticket to ctx.
func WithTicket(ctx context.Context, ticket *Ticket) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRetryTicket, ticket)
}

// TicketFrom returns the ticket attached to ctx, or nil for non-mutating requests.
func TicketFrom(ctx context.Context) *Ticket {
	ticket, _ := ctx.Value(ctxkey.KeyRetryTicket).(*Ticket)
	return ticket
}

// Middleware fingerprints POST, PUT, PATCH and DELETE bodies and attaches a [Ticket].
//
// The body is buffered and restored so handlers decode it as usual. Bodies
// that are not JSON objects fingerprint as an empty field set. The signed-in
// user is part of the domain, so identical submissions by two users never
// share an entry.
func (g *Guard) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			if !isMutating(request.Method) {
				next.ServeHTTP(writer, request)
				return
			}

			body, err := bufferBody(request)
			if err != nil {
				ctxutil.GetLogger(request.Context()).Warn("retry_guard_body_unreadable")
				next.ServeHTTP(writer, request)
				return
			}

			fields, err := FieldsFromJSON(body)
			if err != nil {
				fields = map[string][]string{}
			}

			ticket := g.NewTicket(Fingerprint(requestDomain(request), fields))

			next.ServeHTTP(writer, request.WithContext(WithTicket(request.Context(), ticket)))
		})
	}
}

// requestDomain is "METHOD path" for anonymous callers and "METHOD path user" otherwise.
func requestDomain(request *http.Request) string {
	domain := request.Method + " " + request.URL.Path
	if claims := ctxutil.GetAuthUser(request.Context()); claims != nil {
		domain += " " + claims.UserID
	}
	return domain
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// bufferBody reads at most MaxRequestBodyBytes for hashing and replays the full body downstream.
func bufferBody(request *http.Request) ([]byte, error) {
	if request.Body == nil || request.Body == http.NoBody {
		return nil, nil
	}

	original := request.Body
	head, err := io.ReadAll(io.LimitReader(original, constants.MaxRequestBodyBytes))
	if err != nil {
		return nil, err
	}

	request.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), original), original}

	return head, nil
}
