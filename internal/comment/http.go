// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/duybui/inkwell/internal/platform/middleware"
	requestutil "github.com/duybui/inkwell/internal/platform/request"
	"github.com/duybui/inkwell/internal/platform/respond"
	"github.com/duybui/inkwell/internal/platform/validate"
	"github.com/duybui/inkwell/pkg/pagination"
)

// Handler implements comment-related HTTP endpoints.
type Handler struct {
	commentService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{commentService: service}
}

// PostRoutes returns the routes mounted under /posts/{postID}/comments.
//
// # Endpoints
//   - GET  / : List a post's comments.
//   - POST / : Add a comment (auth).
func (handler *Handler) PostRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", handler.create)
	})

	return router
}

// Routes returns the routes mounted under /comments.
//
// # Endpoints
//   - DELETE /{commentID} : Delete a comment (owner).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Delete("/{commentID}", handler.delete)
	})

	return router
}

type commentRequest struct {
	Body string `json:"body"`
}

/*
List returns a page of a post's comments, oldest first.

GET /api/v1/posts/{postID}/comments

Response:
  - 200: Paginated comments
  - 404: ErrNotFound: Post invisible or absent
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	postID := requestutil.ID(request, FieldPostID)
	params := pagination.FromRequest(request)

	viewerID := ""
	if claims := requestutil.Claims(request); claims != nil {
		viewerID = claims.UserID
	}

	comments, meta, err := handler.commentService.ListByPost(request.Context(), postID, viewerID, params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, comments, meta)
}

/*
Create adds a comment to a post.

POST /api/v1/posts/{postID}/comments

Request:
  - Body: commentRequest (Body)

Response:
  - 201: Comment
  - 400: ErrInvalidJSON or validation failure
  - 404: ErrNotFound: Post invisible or absent
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input commentRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldBody, input.Body).MaxLen(FieldBody, input.Body, MaxBodyLength)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	comment, err := handler.commentService.Create(request.Context(), requestutil.ID(request, FieldPostID), userID, input.Body)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, comment)
}

/*
Delete removes a comment.

DELETE /api/v1/comments/{commentID}

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

	if err := handler.commentService.Delete(request.Context(), requestutil.ID(request, FieldCommentID), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
