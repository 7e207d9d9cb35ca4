// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/poetpiece/internal/platform/apperr"
	"github.com/taibuivan/poetpiece/internal/platform/dberr"
)

/*
TestWrap_Classification maps driver errors onto application error codes.
*/
func TestWrap_Classification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"no_rows", pgx.ErrNoRows, apperr.CodeNotFound},
		{"unique", &pgconn.PgError{Code: "23505", ConstraintName: "poem_title_key"}, apperr.CodeConflict},
		{"foreign_key", &pgconn.PgError{Code: "23503"}, apperr.CodeConflict},
		{"check", &pgconn.PgError{Code: "23514"}, apperr.CodeValidation},
		{"connection_failure", &pgconn.PgError{Code: "08006"}, apperr.CodeTransient},
		{"serialization", &pgconn.PgError{Code: "40001"}, apperr.CodeTransient},
		{"admin_shutdown", &pgconn.PgError{Code: "57P01"}, apperr.CodeTransient},
		{"deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), apperr.CodeTransient},
		{"syntax", &pgconn.PgError{Code: "42601"}, apperr.CodeInternal},
		{"unknown", errors.New("boom"), apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ae := apperr.As(dberr.Wrap(tt.err, "test_action"))
			require.NotNil(t, ae)
			assert.Equal(t, tt.code, ae.Code)
		})
	}
}

/*
TestWrap_Passthrough keeps nil and existing app errors untouched.
*/
func TestWrap_Passthrough(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "noop"))

	original := apperr.Forbidden("not yours")
	assert.Same(t, original, dberr.Wrap(original, "noop"))
}

/*
TestIsUniqueViolation matches by constraint name.
*/
func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "stanza_poem_index_key"})

	assert.True(t, dberr.IsUniqueViolation(err, ""))
	assert.True(t, dberr.IsUniqueViolation(err, "stanza_poem_index_key"))
	assert.False(t, dberr.IsUniqueViolation(err, "poem_title_key"))
	assert.False(t, dberr.IsUniqueViolation(errors.New("other"), ""))
}

/*
TestWrapAs substitutes the resource error for a missing row only.
*/
func TestWrapAs(t *testing.T) {
	poemNotFound := apperr.NotFound("Poem")

	assert.Same(t, poemNotFound, dberr.WrapAs(pgx.ErrNoRows, "get_poem", poemNotFound))
	assert.NoError(t, dberr.WrapAs(nil, "get_poem", poemNotFound))
	assert.True(t, apperr.IsTransient(dberr.WrapAs(&pgconn.PgError{Code: "40P01"}, "get_poem", poemNotFound)))
}
