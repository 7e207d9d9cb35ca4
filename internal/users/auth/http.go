// Copyright (c) 2026 PoetPiece. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

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

// Routes returns the router mounted at /api/v1/auth.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public
	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/refresh", handler.refresh)

	// Signed in
	router.Group(func(authed chi.Router) {
		authed.Use(middleware.RequireAuth)

		authed.Post("/logout", handler.logout)
		authed.Post("/change-password", handler.changePassword)
	})

	return router
}

func setRefreshCookie(writer http.ResponseWriter, value string, expires time.Time) {
	cookie := &http.Cookie{
		Name:     constants.RefreshTokenCookieName,
		Value:    value,
		Path:     constants.RefreshTokenCookiePath,
		Secure:   true,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}

	if value == "" {
		cookie.MaxAge = -1
	} else {
		cookie.Expires = expires
	}
	http.SetCookie(writer, cookie)
}

func refreshToken(request *http.Request) string {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func sessionBody(session *LoginSession) map[string]any {
	return map[string]any{
		FieldAccessToken: session.AccessToken,
		FieldTokenType:   "Bearer",
		FieldExpiresIn:   int(AccessTokenTTL / time.Second),
		FieldUser:        session.User,
	}
}

/*
register handles POST /api/v1/auth/register

Request: {"username", "password", "birth_date"?}

Response:
  - 201: the new account
  - 400: validation failure
  - 409: username taken
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input RegisterRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, user)
}

/*
login handles POST /api/v1/auth/login

The refresh token is set as an HttpOnly cookie scoped to /api/v1/auth.

Response:
  - 200: access token and user
  - 401: invalid credentials
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input LoginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.service.Login(request.Context(), input, request.UserAgent(), middleware.RealIP(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, session.RefreshToken, session.RefreshTokenExpiresAt)
	respond.OK(writer, sessionBody(session))
}

// refresh handles POST /api/v1/auth/refresh and rotates the refresh cookie.
func (handler *Handler) refresh(writer http.ResponseWriter, request *http.Request) {
	session, err := handler.service.Refresh(request.Context(), refreshToken(request), request.UserAgent(), middleware.RealIP(request))
	if err != nil {
		setRefreshCookie(writer, "", time.Time{})
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, session.RefreshToken, session.RefreshTokenExpiresAt)
	respond.OK(writer, sessionBody(session))
}

func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Logout(request.Context(), refreshToken(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	setRefreshCookie(writer, "", time.Time{})
	respond.NoContent(writer)
}

/*
changePassword handles POST /api/v1/auth/change-password

Other sessions of the user are signed out; the caller's stays.

Response:
  - 200: password changed
  - 401: current password incorrect
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input ChangePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.ChangePassword(request.Context(), userID, input, refreshToken(request)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{
		FieldMessage: "Password changed successfully",
	})
}
