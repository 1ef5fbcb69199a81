// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package comment

import (
	"context"

	"github.com/duybui/inkwell/internal/platform/apperr"
	"github.com/duybui/inkwell/internal/post"
	"github.com/duybui/inkwell/pkg/pagination"
	"github.com/duybui/inkwell/pkg/uuidv7"
)

// PostGetter resolves a post with visibility rules applied. Satisfied by the
// post service; declared here so comment logic can be tested in isolation.
type PostGetter interface {
	Get(context context.Context, id, viewerID string) (*post.Post, error)
}

// Service implements comment use cases.
type Service struct {
	commentRepository CommentRepository
	posts             PostGetter
}

// NewService constructs a new [Service].
func NewService(commentRepo CommentRepository, posts PostGetter) *Service {
	return &Service{commentRepository: commentRepo, posts: posts}
}

/*
Create adds a comment to a post the author can see.

Description: The post is resolved with the commenting user as viewer, so
commenting on an invisible private post reports the same NotFound a read
would.

Parameters:
  - context: context.Context
  - postID: string
  - authorID: string
  - body: string

Returns:
  - *Comment: Created entity
  - error: apperr.NotFound or persistence failures
*/
func (service *Service) Create(context context.Context, postID, authorID, body string) (*Comment, error) {
	if _, err := service.posts.Get(context, postID, authorID); err != nil {
		return nil, err
	}

	comment := &Comment{
		ID:       uuidv7.New(),
		PostID:   postID,
		AuthorID: authorID,
		Body:     body,
	}

	if err := service.commentRepository.Create(context, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

/*
Delete removes a comment. Owner-only.

Parameters:
  - context: context.Context
  - commentID: string
  - actorID: string

Returns:
  - error: apperr.Forbidden, apperr.NotFound, or deletion failures
*/
func (service *Service) Delete(context context.Context, commentID, actorID string) error {
	comment, err := service.commentRepository.FindByID(context, commentID)
	if err != nil {
		return err
	}

	if comment.AuthorID != actorID {
		return apperr.Forbidden("Only the author can delete this comment")
	}

	return service.commentRepository.Delete(context, commentID)
}

/*
ListByPost returns a page of a visible post's comments, oldest first.

Parameters:
  - context: context.Context
  - postID: string
  - viewerID: string
  - params: pagination.Params

Returns:
  - []*Comment: Page of comments
  - pagination.Meta: Page metadata
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) ListByPost(context context.Context, postID, viewerID string, params pagination.Params) ([]*Comment, pagination.Meta, error) {
	if _, err := service.posts.Get(context, postID, viewerID); err != nil {
		return nil, pagination.Meta{}, err
	}

	comments, total, err := service.commentRepository.ListByPost(context, postID, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return comments, pagination.NewMeta(params.Page, params.Limit, total), nil
}
