// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/poetpiece/internal/platform/constants"
	"github.com/taibuivan/poetpiece/internal/platform/respond"
)

const readinessTimeout = 3 * time.Second

// Check pings one dependency.
type Check func(ctx context.Context) error

// HealthDependencies holds the checks behind /ready, keyed by dependency name.
type HealthDependencies map[string]Check

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// NewHealthHandlers creates the /health and /ready handlers.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health. It answers as long as the process runs.
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{constants.FieldStatus: "ok"})
}

type checkResult struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// readiness handles GET /ready. Any failing dependency turns it into a 503.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), readinessTimeout)
	defer cancel()

	results := make([]checkResult, 0, len(handler.dependencies))
	ready := true

	for name, check := range handler.dependencies {
		result := checkResult{Name: name, OK: true}
		if err := check(ctx); err != nil {
			result.OK = false
			result.Error = err.Error()
			ready = false
			handler.logger.Error("readiness_check_failed", slog.String("dependency", name), slog.Any("error", err))
		}
		results = append(results, result)
	}

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	respond.JSON(writer, code, respond.SuccessEnvelope{Data: map[string]any{
		constants.FieldStatus: status,
		constants.FieldChecks: results,
	}})
}
