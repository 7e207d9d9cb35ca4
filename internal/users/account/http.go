// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/poetpiece/internal/core/access"
	"github.com/taibuivan/poetpiece/internal/platform/constants"
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

// Routes returns the router mounted at /api/v1/account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireAuth)

	router.Get("/", handler.getAccount)
	router.Patch("/", handler.updateAccount)
	router.Delete("/", handler.deleteAccount)

	return router
}

func (handler *Handler) getAccount(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.service.GetProfile(request.Context(), access.FromContext(request.Context()))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

func (handler *Handler) updateAccount(writer http.ResponseWriter, request *http.Request) {
	var input UpdateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	profile, err := handler.service.UpdateProfile(request.Context(), access.FromContext(request.Context()), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, profile)
}

/*
deleteAccount handles DELETE /api/v1/account

Response:
  - 204: account deleted, refresh cookie cleared
  - 409: the caller's poet still owns poems
*/
func (handler *Handler) deleteAccount(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteAccount(request.Context(), access.FromContext(request.Context())); err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    "",
		Path:     constants.RefreshTokenCookiePath,
		MaxAge:   -1,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	respond.NoContent(writer)
}
