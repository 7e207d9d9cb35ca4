// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/poetpiece/internal/platform/apperr"
	"github.com/taibuivan/poetpiece/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field rule.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		hasError bool
	}{
		{"valid_string", "Ozymandias", false},
		{"empty_string", "", true},
		{"whitespace_only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required("title", tt.value)

			if !tt.hasError {
				assert.Nil(t, v.Err())
				return
			}

			ae := apperr.As(v.Err())
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeValidation, ae.Code)
			assert.Equal(t, "title", ae.Details[0].Field)
		})
	}
}

/*
TestValidator_URL accepts only absolute http(s) URLs.
*/
func TestValidator_URL(t *testing.T) {
	tests := []struct {
		value   string
		isValid bool
	}{
		{"https://poetry.org/poems/ode", true},
		{"http://example.com", true},
		{"ftp://example.com/file", false},
		{"/relative/path", false},
		{"not a url", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			v := &validate.Validator{}
			v.URL("body", tt.value)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_PastDate checks format and future rejection.
*/
func TestValidator_PastDate(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	assert.False(t, (&validate.Validator{}).PastDate("birth_date", "1990-04-12", now).HasErrors())
	assert.True(t, (&validate.Validator{}).PastDate("birth_date", "2030-01-01", now).HasErrors())
	assert.True(t, (&validate.Validator{}).PastDate("birth_date", "12/04/1990", now).HasErrors())
}

/*
TestValidator_Chain collects every failure in order.
*/
func TestValidator_Chain(t *testing.T) {
	username := regexp.MustCompile(`^[A-Za-z0-9_]+$`)

	v := &validate.Validator{}
	v.Required("title", "").
		MaxLen("description", "abcdef", 3).
		Range("index", 21, 1, 20).
		FloatRange("rating", 5.5, 0, 5).
		Pattern("username", "bad name!", username, "Letters, digits and underscores only").
		OneOf("type", "VIDEO", "LINK", "IMAGE")

	ae := apperr.As(v.Err())
	require.NotNil(t, ae)
	require.Len(t, ae.Details, 6)
	assert.Equal(t, "title", ae.Details[0].Field)
	assert.Equal(t, "type", ae.Details[5].Field)
}
