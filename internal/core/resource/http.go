// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package resource

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/poetpiece/internal/core/access"
	"github.com/taibuivan/poetpiece/internal/platform/middleware"
	requestutil "github.com/taibuivan/poetpiece/internal/platform/request"
	"github.com/taibuivan/poetpiece/internal/platform/respond"
	"github.com/taibuivan/poetpiece/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted at /api/v1/resources.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.listResources)
	router.Get("/{id}", handler.getResource)

	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Post("/", handler.createResource)
		authed.Patch("/{id}", handler.updateResource)
		authed.Delete("/{id}", handler.deleteResource)
		authed.Post("/{id}/publish", handler.setPublished(true))
		authed.Post("/{id}/unpublish", handler.setPublished(false))
		authed.Put("/{id}/vote", handler.vote)
	})

	return router
}

/*
listResources handles GET /api/v1/resources

Query: type (LINK, IMAGE, BRIEF, COURSE), sort (title or newest), page, limit.
*/
func (handler *Handler) listResources(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)
	query := request.URL.Query()

	resources, total, err := handler.service.ListResources(request.Context(), access.FromContext(request.Context()),
		query.Get("type"), query.Get("sort"), page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, resources, pagination.NewMeta(page.Page, page.Limit, total))
}

func (handler *Handler) getResource(writer http.ResponseWriter, request *http.Request) {
	r, err := handler.service.GetResource(request.Context(), access.FromContext(request.Context()), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, r)
}

func (handler *Handler) createResource(writer http.ResponseWriter, request *http.Request) {
	var input CreateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	r, err := handler.service.CreateResource(request.Context(), access.FromContext(request.Context()), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, r)
}

func (handler *Handler) updateResource(writer http.ResponseWriter, request *http.Request) {
	var input UpdateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	r, err := handler.service.UpdateResource(request.Context(), access.FromContext(request.Context()), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, r)
}

func (handler *Handler) deleteResource(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteResource(request.Context(), access.FromContext(request.Context()), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

func (handler *Handler) setPublished(published bool) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		r, err := handler.service.SetPublished(request.Context(), access.FromContext(request.Context()), requestutil.ID(request, "id"), published)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, r)
	}
}

/*
vote handles PUT /api/v1/resources/{id}/vote

Request: {"reaction": "UPVOTE" | "DOWNVOTE"}. Sending the current reaction
again withdraws it.

Response:
  - 200: resource with updated counts
  - 404: resource missing or hidden
*/
func (handler *Handler) vote(writer http.ResponseWriter, request *http.Request) {
	var input VoteRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	r, err := handler.service.Vote(request.Context(), access.FromContext(request.Context()), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, r)
}
