// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/poetpiece/internal/core/access"
	"github.com/taibuivan/poetpiece/internal/platform/middleware"
	requestutil "github.com/taibuivan/poetpiece/internal/platform/request"
	"github.com/taibuivan/poetpiece/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Public
	router.Get("/", handler.listCategories)
	router.Get("/{id}", handler.getCategory)

	// Verified poets
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Post("/", handler.createCategory)
		authed.Delete("/{id}", handler.deleteCategory)
	})
}

func (handler *Handler) listCategories(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.ListCategories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) getCategory(writer http.ResponseWriter, request *http.Request) {
	category, err := handler.service.GetCategory(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

func (handler *Handler) createCategory(writer http.ResponseWriter, request *http.Request) {
	var input CreateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	category, err := handler.service.CreateCategory(request.Context(), access.FromContext(request.Context()), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, category)
}

/*
deleteCategory handles DELETE /api/v1/categories/{id}

Response:
  - 204: deleted
  - 403: caller is not a verified poet
  - 409: poems still reference the category
*/
func (handler *Handler) deleteCategory(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteCategory(request.Context(), access.FromContext(request.Context()), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
