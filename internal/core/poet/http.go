// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poet

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/poetpiece/internal/core/access"
	"github.com/taibuivan/poetpiece/internal/platform/middleware"
	requestutil "github.com/taibuivan/poetpiece/internal/platform/request"
	"github.com/taibuivan/poetpiece/internal/platform/respond"
	"github.com/taibuivan/poetpiece/internal/platform/sec"
	"github.com/taibuivan/poetpiece/pkg/pagination"
)

type Handler struct {
	service  *Service
	pageSize int
}

func NewHandler(service *Service, pageSize int) *Handler {
	return &Handler{service: service, pageSize: pageSize}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/{id}", handler.getProfile)

	// Signed in
	router.With(middleware.RequireAuth).Post("/", handler.becomePoet)

	// Admin only
	router.With(middleware.RequireRole(sec.RoleAdmin)).Post("/{id}/verify", handler.verify)
}

/*
becomePoet handles POST /api/v1/poets

Request Body: email, gender (FEMALE, MALE, OTHER), bio

Response:
  - 201: the poet profile
  - 409: already a poet, email taken, or poet limit reached
*/
func (handler *Handler) becomePoet(writer http.ResponseWriter, request *http.Request) {
	var input BecomePoetRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	poet, err := handler.service.BecomePoet(request.Context(), access.FromContext(request.Context()), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, poet)
}

// getProfile handles GET /api/v1/poets/{id}?page=&limit=
func (handler *Handler) getProfile(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequestWithLimit(request, handler.pageSize)

	profile, err := handler.service.GetProfile(request.Context(), access.FromContext(request.Context()), requestutil.ID(request, "id"), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

// verify handles POST /api/v1/poets/{id}/verify
func (handler *Handler) verify(writer http.ResponseWriter, request *http.Request) {
	poet, err := handler.service.Verify(request.Context(), access.FromContext(request.Context()), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, poet)
}
