// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/duybui/inkwell/internal/platform/middleware"
	requestutil "github.com/duybui/inkwell/internal/platform/request"
	"github.com/duybui/inkwell/internal/platform/respond"
	"github.com/duybui/inkwell/internal/platform/validate"
	"github.com/duybui/inkwell/pkg/pagination"
)

// Handler implements post-related HTTP endpoints.
type Handler struct {
	postService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{postService: service}
}

// Routes returns a [chi.Router] configured with post routes.
//
// # Endpoints
//   - GET    /          : List public posts (optional ?tag= filter).
//   - GET    /{postID}  : Get one post (private ones visible to the author).
//   - POST   /          : Create a post (auth).
//   - PUT    /{postID}  : Update a post (owner).
//   - DELETE /{postID}  : Delete a post (owner).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{postID}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.create)
		r.Put("/{postID}", handler.update)
		r.Delete("/{postID}", handler.delete)
	})

	return router
}

// # Request Payloads

type postRequest struct {
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	IsPublic *bool    `json:"is_public"`
	Tags     []string `json:"tags"`
}

// validatePayload runs shared field checks for create/update.
func validatePayload(input postRequest) error {
	v := &validate.Validator{}
	v.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, MaxTitleLength).
		Required(FieldBody, input.Body)

	for _, rawTag := range input.Tags {
		v.MaxLen(FieldTags, rawTag, MaxTagLength)
	}

	return v.Err()
}

/*
List returns a page of public posts, newest first.

GET /api/v1/posts?page=&limit=&tag=

Response:
  - 200: Paginated posts
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	rawTag := request.URL.Query().Get("tag")

	posts, meta, err := handler.postService.ListPublic(request.Context(), rawTag, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, posts, meta)
}

/*
Get returns a single post.

GET /api/v1/posts/{postID}

Description: Private posts resolve only for their author; everyone else sees
404 (existence is not leaked).

Response:
  - 200: Post
  - 404: ErrNotFound
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	postID := requestutil.ID(request, FieldPostID)

	viewerID := ""
	if claims := requestutil.Claims(request); claims != nil {
		viewerID = claims.UserID
	}

	post, err := handler.postService.Get(request.Context(), postID, viewerID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, post)
}

/*
Create persists a new post for the authenticated user.

POST /api/v1/posts

Request:
  - Body: postRequest (Title, Body, IsPublic, Tags)

Response:
  - 201: Post
  - 400: ErrInvalidJSON or validation failure
  - 401: ErrUnauthorized
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input postRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := validatePayload(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	isPublic := true
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}

	post, err := handler.postService.Create(request.Context(), CreateInput{
		AuthorID: userID,
		Title:    input.Title,
		Body:     input.Body,
		IsPublic: isPublic,
		Tags:     input.Tags,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, post)
}

/*
Update overwrites a post's mutable fields.

PUT /api/v1/posts/{postID}

Request:
  - Body: postRequest (Title, Body, IsPublic, Tags; omitted Tags keeps the set)

Response:
  - 200: Post
  - 403: ErrForbidden: Not the author
  - 404: ErrNotFound
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input postRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if err := validatePayload(input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	isPublic := true
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}

	post, err := handler.postService.Update(request.Context(), requestutil.ID(request, FieldPostID), userID, UpdateInput{
		Title:    input.Title,
		Body:     input.Body,
		IsPublic: isPublic,
		Tags:     input.Tags,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, post)
}

/*
Delete removes a post.

DELETE /api/v1/posts/{postID}

Response:
  - 204: No Content
  - 403: ErrForbidden: Not the author
  - 404: ErrNotFound
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.postService.Delete(request.Context(), requestutil.ID(request, FieldPostID), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
