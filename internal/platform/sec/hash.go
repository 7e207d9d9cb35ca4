// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain-text password with bcrypt at the default cost.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash reports whether the plain-text password matches the bcrypt hash.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword)) == nil
}
