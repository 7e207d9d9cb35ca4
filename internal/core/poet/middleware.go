// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poet

import (
	"context"
	"net/http"

	"github.com/taibuivan/poetpiece/internal/core/access"
	"github.com/taibuivan/poetpiece/internal/platform/ctxutil"
	"github.com/taibuivan/poetpiece/internal/platform/respond"
	"github.com/taibuivan/poetpiece/internal/platform/sec"
)

// ActorResolver turns token claims into an actor. Implemented by [Service].
type ActorResolver interface {
	Resolve(context context.Context, claims *sec.AuthClaims) (access.Actor, error)
}

// ActorMiddleware stores the request's [access.Actor] in the context.
// Mount after the token middleware.
func ActorMiddleware(resolver ActorResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			claims := ctxutil.GetAuthUser(request.Context())
			if claims == nil {
				next.ServeHTTP(writer, request.WithContext(access.WithActor(request.Context(), access.Anonymous)))
				return
			}

			actor, err := resolver.Resolve(request.Context(), claims)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			next.ServeHTTP(writer, request.WithContext(access.WithActor(request.Context(), actor)))
		})
	}
}
