// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package favorite

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/duybui/inkwell/internal/platform/middleware"
	requestutil "github.com/duybui/inkwell/internal/platform/request"
	"github.com/duybui/inkwell/internal/platform/respond"
	"github.com/duybui/inkwell/pkg/pagination"
)

// Handler implements favorite-related HTTP endpoints.
type Handler struct {
	favoriteService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{favoriteService: service}
}

// PostRoutes returns the routes mounted under /posts/{postID}/favorite.
//
// # Endpoints
//   - POST   / : Favorite a post (auth).
//   - DELETE / : Unfavorite a post (auth).
func (handler *Handler) PostRoutes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.add)
		r.Delete("/", handler.remove)
	})

	return router
}

// MeRoutes returns the routes mounted under /me/favorites.
//
// # Endpoints
//   - GET / : List the caller's favorited posts (auth).
func (handler *Handler) MeRoutes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/", handler.list)
	})

	return router
}

/*
Add favorites a post for the caller.

POST /api/v1/posts/{postID}/favorite

Response:
  - 204: No Content
  - 404: ErrNotFound: Post invisible or absent
  - 409: ErrConflict: Already favorited
*/
func (handler *Handler) add(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.favoriteService.Add(request.Context(), userID, requestutil.ID(request, FieldPostID)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
Remove unfavorites a post for the caller.

DELETE /api/v1/posts/{postID}/favorite

Response:
  - 204: No Content, including when no favorite existed
*/
func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.favoriteService.Remove(request.Context(), userID, requestutil.ID(request, FieldPostID)); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
List returns the caller's favorited posts, most recently favorited first.

GET /api/v1/me/favorites

Response:
  - 200: Paginated posts
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	posts, meta, err := handler.favoriteService.ListPosts(request.Context(), userID, pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, meta)
}
