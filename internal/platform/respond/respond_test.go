// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/poetpiece/internal/platform/apperr"
	"github.com/taibuivan/poetpiece/internal/platform/respond"
	"github.com/taibuivan/poetpiece/internal/platform/retryguard"
	"github.com/taibuivan/poetpiece/pkg/pagination"
)

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) respond.ErrorEnvelope {
	t.Helper()
	var envelope respond.ErrorEnvelope
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	return envelope
}

/*
TestError_AppError renders status, code and message.
*/
func TestError_AppError(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/poems/x", nil), apperr.NotFound("Poem"))

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	envelope := decodeError(t, recorder)
	assert.Equal(t, "Poem not found", envelope.Error)
	assert.Equal(t, apperr.CodeNotFound, envelope.Code)
}

/*
TestError_PlainError hides internal details behind a 500.
*/
func TestError_PlainError(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("pq: syntax error"))

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "syntax")
}

/*
TestError_TransientRetry walks a form submitted twice after a transient
failure through the guard middleware.
*/
func TestError_TransientRetry(t *testing.T) {
	guard := retryguard.New(retryguard.Options{})
	failing := guard.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, r, apperr.Transient(errors.New("connection reset by peer")))
	}))

	submit := func(body string) respond.ErrorEnvelope {
		recorder := httptest.NewRecorder()
		failing.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/poems", strings.NewReader(body)))
		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
		assert.Equal(t, "5", recorder.Header().Get("Retry-After"))
		return decodeError(t, recorder)
	}

	// 1. First failure
	first := submit(`{"title":"Ode","description":"Autumn"}`)
	assert.Equal(t, respond.MessageTransientFirst, first.Error)

	// 2. Same fields, reordered
	second := submit(`{"description":"Autumn","title":"Ode"}`)
	assert.Equal(t, respond.MessageAlreadyRetried, second.Error)
	assert.Equal(t, 1, guard.Len())

	// 3. GET transient failures never touch the guard
	recorder := httptest.NewRecorder()
	failing.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/poems", nil))
	assert.Equal(t, respond.MessageTransientFirst, decodeError(t, recorder).Error)
	assert.Equal(t, 1, guard.Len())
}

/*
TestPaginated writes data and meta.
*/
func TestPaginated(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Paginated(recorder, []string{"a"}, pagination.NewMeta(2, 6, 7))

	var envelope struct {
		Data []string        `json:"data"`
		Meta pagination.Meta `json:"meta"`
	}
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&envelope))
	assert.Equal(t, []string{"a"}, envelope.Data)
	assert.Equal(t, 2, envelope.Meta.TotalPages)
}
