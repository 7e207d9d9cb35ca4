// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr translates pgx errors into [apperr.AppError] values.
//
// The classification matters beyond status codes: a Transient result is
// what routes a failed mutating request through the retry guard.
package dberr

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/poetpiece/internal/platform/apperr"
)

// SQLSTATE codes inspected by [Wrap].
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeTooManyConnections   = "53300"
	codeAdminShutdown        = "57P01"
	codeCrashShutdown        = "57P02"
	codeCannotConnectNow     = "57P03"
	classConnection          = "08"
)

// ErrNotFound is returned when a queried row does not exist.
var ErrNotFound = apperr.NotFound("Resource")

// Wrap classifies a database error. action names the failed operation and is
// kept in the cause for server-side logs.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	if apperr.IsAppError(err) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	cause := &actionError{action: action, err: err}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeUniqueViolation:
			conflict := apperr.Conflict("A record with the same value already exists")
			conflict.Cause = cause
			return conflict
		case pgErr.Code == codeForeignKeyViolation:
			conflict := apperr.Conflict("The record is referenced by or references a missing record")
			conflict.Cause = cause
			return conflict
		case pgErr.Code == codeCheckViolation:
			invalid := apperr.ValidationError("Value rejected by a storage constraint")
			invalid.Cause = cause
			return invalid
		case isTransientCode(pgErr.Code):
			return apperr.Transient(cause)
		}
		return apperr.Internal(cause)
	}

	if IsTransient(err) {
		return apperr.Transient(cause)
	}

	return apperr.Internal(cause)
}

// WrapAs is [Wrap] with a resource-specific error for a missing row.
func WrapAs(err error, action string, notFound error) error {
	err = Wrap(err, action)
	if err == ErrNotFound {
		return notFound
	}
	return err
}

// IsTransient reports whether err is worth retrying: a dropped or refused
// connection, a timeout, or an error pgx itself marks as safe to retry.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return isTransientCode(pgErr.Code)
	}

	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var connectErr *pgconn.ConnectError
	return errors.As(err, &connectErr)
}

func isTransientCode(code string) bool {
	switch code {
	case codeSerializationFailure, codeDeadlockDetected, codeTooManyConnections,
		codeAdminShutdown, codeCrashShutdown, codeCannotConnectNow:
		return true
	}
	return strings.HasPrefix(code, classConnection)
}

// IsUniqueViolation reports whether err is a unique constraint violation,
// optionally restricted to a named constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != codeUniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

type actionError struct {
	action string
	err    error
}

func (e *actionError) Error() string { return e.action + ": " + e.err.Error() }
func (e *actionError) Unwrap() error { return e.err }
