// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package post

import (
	"context"

	"github.com/duybui/inkwell/pkg/pagination"
)

// PostRepository defines the data access contract for posts and their tags.
//
// Tag slugs travel inside [Post.Tags]; implementations own the tag and
// post_tag tables and keep them consistent with the post row.
type PostRepository interface {

	/*
		Create persists a new post together with its tag associations.

		Parameters:
		  - context: context.Context
		  - post: *Post

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, post *Post) error

	/*
		FindByID returns the post with the given ID, tags included.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Post: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*Post, error)

	/*
		Update persists changes to a post's mutable fields. When replaceTags
		is true the tag set is replaced wholesale with post.Tags.

		Parameters:
		  - context: context.Context
		  - post: *Post
		  - replaceTags: bool

		Returns:
		  - error: Persistence failures
	*/
	Update(context context.Context, post *Post, replaceTags bool) error

	/*
		Delete removes a post and (via cascade) its tag links.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, id string) error

	/*
		ListPublic returns public posts, newest first, optionally filtered by
		a tag slug.

		Parameters:
		  - context: context.Context
		  - tagSlug: string (empty for no filter)
		  - params: pagination.Params

		Returns:
		  - []*Post: Page of posts
		  - int: Total matching count
		  - error: Retrieval failures
	*/
	ListPublic(context context.Context, tagSlug string, params pagination.Params) ([]*Post, int, error)

	/*
		ListByAuthor returns an author's posts, newest first. Private posts
		are included only when includePrivate is true (self view).

		Parameters:
		  - context: context.Context
		  - authorID: string
		  - includePrivate: bool
		  - params: pagination.Params

		Returns:
		  - []*Post: Page of posts
		  - int: Total matching count
		  - error: Retrieval failures
	*/
	ListByAuthor(context context.Context, authorID string, includePrivate bool, params pagination.Params) ([]*Post, int, error)
}
