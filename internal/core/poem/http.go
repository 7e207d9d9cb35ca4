// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poem

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
	service  *Service
	pageSize int
}

// NewHandler creates the poem handler. pageSize is the default number of
// poems per listing page.
func NewHandler(service *Service, pageSize int) *Handler {
	return &Handler{service: service, pageSize: pageSize}
}

// Routes returns the router mounted at /api/v1/poems.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public
	router.Get("/", handler.listPoems)
	router.Get("/search", handler.searchPoems)
	router.Get("/orders", handler.listOrders)
	router.Get("/{id}", handler.getPoem)
	router.Get("/{id}/stanzas", handler.listStanzas)
	router.Get("/{id}/comments", handler.listComments)

	// Signed in
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Get("/mine", handler.listMine)
		authed.Post("/", handler.createPoem)
		authed.Patch("/{id}", handler.updatePoem)
		authed.Delete("/{id}", handler.deletePoem)

		authed.Post("/{id}/publish", handler.setPublished(true))
		authed.Post("/{id}/unpublish", handler.setPublished(false))
		authed.Post("/{id}/complete", handler.setCompleted(true))
		authed.Post("/{id}/reopen", handler.setCompleted(false))

		authed.Put("/{id}/rating", handler.ratePoem)

		authed.Post("/{id}/stanzas", handler.addStanza)
		authed.Patch("/{id}/stanzas/{index}", handler.updateStanza)
		authed.Delete("/{id}/stanzas/{index}", handler.deleteStanza)

		authed.Post("/{id}/comments", handler.addComment)
	})

	return router
}

// CommentRoutes returns the router mounted at /api/v1/comments.
func (handler *Handler) CommentRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Post("/{id}/approve", handler.approveComment)
	router.Delete("/{id}", handler.deleteComment)

	return router
}

// # Listings

/*
listPoems handles GET /api/v1/poems

Query: q, rating, author_id, completed, premium, poet, category, order
(default RECENT), page, limit.
*/
func (handler *Handler) listPoems(writer http.ResponseWriter, request *http.Request) {
	handler.find(writer, request, OrderRecent)
}

// searchPoems handles GET /api/v1/poems/search. Same filters, A-Z by default.
func (handler *Handler) searchPoems(writer http.ResponseWriter, request *http.Request) {
	handler.find(writer, request, OrderAZ)
}

func (handler *Handler) find(writer http.ResponseWriter, request *http.Request, defaultOrder string) {
	page := pagination.FromRequestWithLimit(request, handler.pageSize)

	criteria := ParseCriteria(request.URL.Query())
	if criteria.Order == "" {
		criteria.Order = defaultOrder
	}

	poems, total, err := handler.service.FindPoems(request.Context(), access.FromContext(request.Context()), criteria, page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, poems, pagination.NewMeta(page.Page, page.Limit, total))
}

// listOrders handles GET /api/v1/poems/orders
func (handler *Handler) listOrders(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, OrderNames())
}

// listMine handles GET /api/v1/poems/mine
func (handler *Handler) listMine(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequestWithLimit(request, handler.pageSize)

	poems, total, err := handler.service.ListMine(request.Context(), access.FromContext(request.Context()), page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, poems, pagination.NewMeta(page.Page, page.Limit, total))
}

// # Poems

// getPoem handles GET /api/v1/poems/{id} where id may also be a slug.
func (handler *Handler) getPoem(writer http.ResponseWriter, request *http.Request) {
	p, err := handler.service.GetPoem(request.Context(), access.FromContext(request.Context()), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, p)
}

/*
createPoem handles POST /api/v1/poems

Request Body: title, description, category_id, premium, completed

Response:
  - 201: the new draft poem
  - 403: caller is not a poet
  - 409: title already taken
*/
func (handler *Handler) createPoem(writer http.ResponseWriter, request *http.Request) {
	var input CreatePoemRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	p, err := handler.service.CreatePoem(request.Context(), access.FromContext(request.Context()), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, p)
}

// updatePoem handles PATCH /api/v1/poems/{id}
func (handler *Handler) updatePoem(writer http.ResponseWriter, request *http.Request) {
	var input UpdatePoemRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	p, err := handler.service.UpdatePoem(request.Context(), access.FromContext(request.Context()), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, p)
}

// deletePoem handles DELETE /api/v1/poems/{id}
func (handler *Handler) deletePoem(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeletePoem(request.Context(), access.FromContext(request.Context()), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// setPublished handles POST /api/v1/poems/{id}/publish and /unpublish
func (handler *Handler) setPublished(published bool) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		p, err := handler.service.SetPublished(request.Context(), access.FromContext(request.Context()), requestutil.ID(request, "id"), published)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, p)
	}
}

// setCompleted handles POST /api/v1/poems/{id}/complete and /reopen
func (handler *Handler) setCompleted(completed bool) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		p, err := handler.service.SetCompleted(request.Context(), access.FromContext(request.Context()), requestutil.ID(request, "id"), completed)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}
		respond.OK(writer, p)
	}
}

// ratePoem handles PUT /api/v1/poems/{id}/rating
func (handler *Handler) ratePoem(writer http.ResponseWriter, request *http.Request) {
	var input RatingRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	rating, err := handler.service.RatePoem(request.Context(), access.FromContext(request.Context()), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, rating)
}

// # Stanzas

// listStanzas handles GET /api/v1/poems/{id}/stanzas
func (handler *Handler) listStanzas(writer http.ResponseWriter, request *http.Request) {
	stanzas, err := handler.service.ListStanzas(request.Context(), access.FromContext(request.Context()), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stanzas)
}

/*
addStanza handles POST /api/v1/poems/{id}/stanzas

Response:
  - 201: the stanza
  - 400: index outside 1..20 or empty content
  - 409: index already used in this poem
*/
func (handler *Handler) addStanza(writer http.ResponseWriter, request *http.Request) {
	var input StanzaRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	stanza, err := handler.service.AddStanza(request.Context(), access.FromContext(request.Context()), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, stanza)
}

// updateStanza handles PATCH /api/v1/poems/{id}/stanzas/{index}
func (handler *Handler) updateStanza(writer http.ResponseWriter, request *http.Request) {
	index, err := requestutil.IntParam(request, "index")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input UpdateStanzaRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	stanza, err := handler.service.UpdateStanza(request.Context(), access.FromContext(request.Context()), requestutil.ID(request, "id"), index, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, stanza)
}

// deleteStanza handles DELETE /api/v1/poems/{id}/stanzas/{index}
func (handler *Handler) deleteStanza(writer http.ResponseWriter, request *http.Request) {
	index, err := requestutil.IntParam(request, "index")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteStanza(request.Context(), access.FromContext(request.Context()), requestutil.ID(request, "id"), index); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// # Comments

// listComments handles GET /api/v1/poems/{id}/comments
func (handler *Handler) listComments(writer http.ResponseWriter, request *http.Request) {
	comments, err := handler.service.ListComments(request.Context(), access.FromContext(request.Context()), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, comments)
}

// addComment handles POST /api/v1/poems/{id}/comments
func (handler *Handler) addComment(writer http.ResponseWriter, request *http.Request) {
	var input CommentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.service.AddComment(request.Context(), access.FromContext(request.Context()), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, comment)
}

// approveComment handles POST /api/v1/comments/{id}/approve
func (handler *Handler) approveComment(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.ApproveComment(request.Context(), access.FromContext(request.Context()), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// deleteComment handles DELETE /api/v1/comments/{id}
func (handler *Handler) deleteComment(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteComment(request.Context(), access.FromContext(request.Context()), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
