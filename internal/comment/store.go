// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package comment

import (
	"context"

	"github.com/duybui/inkwell/pkg/pagination"
)

// CommentRepository defines the data access contract for comments.
type CommentRepository interface {

	/*
		Create persists a new comment.

		Parameters:
		  - context: context.Context
		  - comment: *Comment

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, comment *Comment) error

	/*
		FindByID returns the comment with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Comment: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*Comment, error)

	/*
		Delete removes a comment.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Deletion failures
	*/
	Delete(context context.Context, id string) error

	/*
		ListByPost returns a post's comments, oldest first.

		Parameters:
		  - context: context.Context
		  - postID: string
		  - params: pagination.Params

		Returns:
		  - []*Comment: Page of comments
		  - int: Total count for the post
		  - error: Retrieval failures
	*/
	ListByPost(context context.Context, postID string, params pagination.Params) ([]*Comment, int, error)
}
