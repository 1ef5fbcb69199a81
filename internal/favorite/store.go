// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package favorite

import (
	"context"

	"github.com/duybui/inkwell/internal/post"
	"github.com/duybui/inkwell/pkg/pagination"
)

// FavoriteRepository defines the data access contract for favorites.
type FavoriteRepository interface {

	/*
		Add persists a favorite. A duplicate (user, post) pair surfaces as a
		typed 409 conflict.

		Parameters:
		  - context: context.Context
		  - favorite: *Favorite

		Returns:
		  - error: apperr.Conflict or persistence failures
	*/
	Add(context context.Context, favorite *Favorite) error

	/*
		Remove deletes a favorite by its (user, post) pair.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - postID: string

		Returns:
		  - bool: Whether a row was deleted
		  - error: Deletion failures
	*/
	Remove(context context.Context, userID, postID string) (bool, error)

	/*
		ListPosts returns the user's favorited posts, most recently
		favorited first.

		Parameters:
		  - context: context.Context
		  - userID: string
		  - params: pagination.Params

		Returns:
		  - []*post.Post: Page of posts
		  - int: Total favorite count
		  - error: Retrieval failures
	*/
	ListPosts(context context.Context, userID string, params pagination.Params) ([]*post.Post, int, error)
}
