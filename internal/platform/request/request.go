// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request extracts typed values from HTTP requests.

It hides chi's parameter lookup and the body decoding pattern so every
handler fails the same way on bad input.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/poetpiece/internal/platform/apperr"
	"github.com/taibuivan/poetpiece/internal/platform/ctxutil"
	"github.com/taibuivan/poetpiece/internal/platform/sec"
	"github.com/taibuivan/poetpiece/internal/platform/validate"
)

/*
DecodeJSON reads the request body into target.

An empty body decodes to the zero value so that endpoints with only
optional fields accept a bare POST.
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}
	return nil
}

// ID retrieves a named URL parameter holding an identifier (UUID or slug).
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// IntParam retrieves a named integer URL parameter.
func IntParam(request *http.Request, name string) (int, error) {
	value, err := strconv.Atoi(chi.URLParam(request, name))
	if err != nil {
		return 0, validate.RequiredError(name, "Must be an integer")
	}
	return value, nil
}

// Claims returns the verified token claims, or nil for anonymous requests.
func Claims(request *http.Request) *sec.AuthClaims {
	return ctxutil.GetAuthUser(request.Context())
}

// RequiredClaims returns the verified claims or an Unauthorized error.
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}

// RequiredUserID returns the ID of the signed-in user or an Unauthorized error.
func RequiredUserID(request *http.Request) (string, error) {
	claims, err := RequiredClaims(request)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}
