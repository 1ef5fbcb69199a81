// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/duybui/inkwell/internal/platform/middleware"
	requestutil "github.com/duybui/inkwell/internal/platform/request"
	"github.com/duybui/inkwell/internal/platform/respond"
	"github.com/duybui/inkwell/pkg/pagination"
)

// Handler implements profile HTTP endpoints.
type Handler struct {
	accountService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{accountService: service}
}

// MeRoutes returns the routes mounted under /me.
//
// # Endpoints
//   - GET / : The caller's own profile (auth).
func (handler *Handler) MeRoutes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", handler.me)
	})

	return router
}

// UserRoutes returns the routes mounted under /users.
//
// # Endpoints
//   - GET /{userID}       : A user's public profile.
//   - GET /{userID}/posts : A user's posts, visibility applied.
func (handler *Handler) UserRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/{userID}", handler.profile)
	router.Get("/{userID}/posts", handler.posts)

	return router
}

/*
Me returns the caller's full profile.

GET /api/v1/me

Response:
  - 200: The authenticated user, email included
  - 401: ErrUnauthorized
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.GetOwn(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
Profile returns a user's public profile.

GET /api/v1/users/{userID}

Response:
  - 200: PublicProfile
  - 404: ErrNotFound
*/
func (handler *Handler) profile(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.accountService.GetPublic(request.Context(), requestutil.ID(request, FieldUserID))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
Posts returns a user's posts as seen by the caller.

GET /api/v1/users/{userID}/posts

Response:
  - 200: Paginated posts
  - 404: ErrNotFound: Unknown user
*/
func (handler *Handler) posts(writer http.ResponseWriter, request *http.Request) {
	viewerID := ""
	if claims := requestutil.Claims(request); claims != nil {
		viewerID = claims.UserID
	}

	posts, meta, err := handler.accountService.ListPosts(
		request.Context(),
		requestutil.ID(request, FieldUserID),
		viewerID,
		pagination.FromRequest(request),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, meta)
}
