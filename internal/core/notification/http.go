// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package notification

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/poetpiece/internal/core/access"
	"github.com/taibuivan/poetpiece/internal/platform/constants"
	"github.com/taibuivan/poetpiece/internal/platform/middleware"
	requestutil "github.com/taibuivan/poetpiece/internal/platform/request"
	"github.com/taibuivan/poetpiece/internal/platform/respond"
	"github.com/taibuivan/poetpiece/pkg/convert"
	"github.com/taibuivan/poetpiece/pkg/pagination"
	"github.com/taibuivan/poetpiece/pkg/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the inbox router. Every route requires a signed-in user.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.list)
	router.Get("/unread-count", handler.unreadCount)
	router.Post("/read-all", handler.readAll)
	router.Post("/{id}/read", handler.markRead)
	router.Delete("/{id}", handler.trash)

	return router
}

/*
list handles GET /api/v1/notifications

Query: page, limit, unread=true, q
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)
	query := request.URL.Query()

	filter := Filter{
		UnreadOnly: convert.ToBool(query.Get("unread")),
		Query:      query.Get("q"),
	}

	items, total, err := handler.service.List(request.Context(), access.FromContext(request.Context()), filter, page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, items, pagination.NewMeta(page.Page, page.Limit, total))
}

// unreadCount handles GET /api/v1/notifications/unread-count
func (handler *Handler) unreadCount(writer http.ResponseWriter, request *http.Request) {
	count, err := handler.service.UnreadCount(request.Context(), access.FromContext(request.Context()))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]int{constants.FieldCount: count})
}

// readAll handles POST /api/v1/notifications/read-all
func (handler *Handler) readAll(writer http.ResponseWriter, request *http.Request) {
	count, err := handler.service.MarkAllRead(request.Context(), access.FromContext(request.Context()))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, map[string]int{constants.FieldCount: count})
}

// markRead handles POST /api/v1/notifications/{id}/read
func (handler *Handler) markRead(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")
	if !uuid.IsValid(id) {
		respond.Error(writer, request, ErrNotFound)
		return
	}

	if err := handler.service.MarkRead(request.Context(), access.FromContext(request.Context()), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// trash handles DELETE /api/v1/notifications/{id}
func (handler *Handler) trash(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.ID(request, "id")
	if !uuid.IsValid(id) {
		respond.Error(writer, request, ErrNotFound)
		return
	}

	if err := handler.service.Trash(request.Context(), access.FromContext(request.Context()), id); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
