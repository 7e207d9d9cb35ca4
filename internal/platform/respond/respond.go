// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package respond writes the JSON envelopes every PoetPiece endpoint returns.
//
//	success:   {"data": ...}
//	paginated: {"data": [...], "meta": {...}}
//	error:     {"error": "...", "code": "...", "details": [...]}
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/taibuivan/poetpiece/internal/platform/apperr"
	"github.com/taibuivan/poetpiece/internal/platform/constants"
	"github.com/taibuivan/poetpiece/internal/platform/ctxutil"
	"github.com/taibuivan/poetpiece/internal/platform/retryguard"
	"github.com/taibuivan/poetpiece/pkg/pagination"
)

// Client messages for transient failures of mutating requests.
const (
	MessageTransientFirst = "Temporary failure, please try again"
	MessageAlreadyRetried = "Your original request is being retried"
)

// SuccessEnvelope is the JSON envelope for successful single-resource responses.
type SuccessEnvelope struct {
	Data interface{} `json:"data"`
}

// PaginatedEnvelope is the JSON envelope for paginated list responses.
type PaginatedEnvelope struct {
	Data interface{}     `json:"data"`
	Meta pagination.Meta `json:"meta"`
}

// ErrorEnvelope is the JSON envelope for error responses.
type ErrorEnvelope struct {
	Error   string              `json:"error"`
	Code    string              `json:"code"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 response.
func OK(writer http.ResponseWriter, data interface{}) {
	JSON(writer, http.StatusOK, SuccessEnvelope{Data: data})
}

// Created writes a 201 response.
func Created(writer http.ResponseWriter, data interface{}) {
	JSON(writer, http.StatusCreated, SuccessEnvelope{Data: data})
}

// Paginated writes a 200 response with pagination metadata.
func Paginated(writer http.ResponseWriter, data interface{}, metadata pagination.Meta) {
	JSON(writer, http.StatusOK, PaginatedEnvelope{Data: data, Meta: metadata})
}

// NoContent writes a 204 response.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// Error converts any error into the JSON error envelope.
//
// Transient failures of mutating requests consult the request's retry ticket:
// the first failure tells the client to try again, a resubmission of the same
// fields within the retention window is told that the original is being retried.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	logger := ctxutil.GetLogger(request.Context())

	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		appError = apperr.Internal(err)
	}

	if appError.Code == apperr.CodeTransient {
		appError = transient(writer, request, appError, logger)
	}

	if appError.HTTPStatus >= 500 {
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	JSON(writer, appError.HTTPStatus, ErrorEnvelope{
		Error:   appError.Message,
		Code:    appError.Code,
		Details: appError.Details,
	})
}

func transient(writer http.ResponseWriter, request *http.Request, appError *apperr.AppError, logger *slog.Logger) *apperr.AppError {
	writer.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(constants.TransientRetryAfterSeconds))

	ticket := retryguard.TicketFrom(request.Context())
	if ticket == nil {
		return appError.WithMessage(MessageTransientFirst)
	}

	outcome := ticket.Observe()
	logger.WarnContext(request.Context(), "retry_guard_observed",
		slog.String("outcome", outcome.String()),
		slog.String("fingerprint", ticket.Fingerprint()),
	)

	if outcome == retryguard.AlreadyRetrying {
		return appError.WithMessage(MessageAlreadyRetried)
	}
	return appError.WithMessage(MessageTransientFirst)
}
