// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer provides generic helpers for optional values.
package pointer

// To returns a pointer to v.
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, returning the zero value when p is nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// Equal reports whether both pointers are nil or point to equal values.
func Equal[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
