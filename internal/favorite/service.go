// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package favorite

import (
	"context"
	"fmt"

	"github.com/duybui/inkwell/internal/post"
	"github.com/duybui/inkwell/pkg/pagination"
	"github.com/duybui/inkwell/pkg/uuidv7"
)

// PostGetter resolves a post with visibility rules applied. Satisfied by the
// post service so favoriting an invisible post fails the same way reading it does.
type PostGetter interface {
	Get(context context.Context, id string, viewerID string) (*post.Post, error)
}

// Service implements the favorite business logic.
type Service struct {
	favoriteRepository FavoriteRepository
	posts              PostGetter
}

// NewService creates a new favorite service.
func NewService(favoriteRepository FavoriteRepository, posts PostGetter) *Service {
	return &Service{
		favoriteRepository: favoriteRepository,
		posts:              posts,
	}
}

/*
Add favorites a post for a user.

Description: The post must be visible to the user; favoriting a private post
you cannot read reports not-found, never the post's existence. Favoriting the
same post twice returns a conflict.

Parameters:
  - context: context.Context
  - userID: string
  - postID: string

Returns:
  - error: apperr.NotFound, apperr.Conflict, or persistence failures
*/
func (service *Service) Add(context context.Context, userID, postID string) error {
	if _, err := service.posts.Get(context, postID, userID); err != nil {
		return err
	}

	favorite := &Favorite{
		ID:     uuidv7.New(),
		UserID: userID,
		PostID: postID,
	}

	if err := service.favoriteRepository.Add(context, favorite); err != nil {
		return err
	}

	return nil
}

/*
Remove unfavorites a post for a user.

Description: Removing a favorite that does not exist is a no-op, so the
operation is idempotent.

Parameters:
  - context: context.Context
  - userID: string
  - postID: string

Returns:
  - error: Persistence failures
*/
func (service *Service) Remove(context context.Context, userID, postID string) error {
	if _, err := service.favoriteRepository.Remove(context, userID, postID); err != nil {
		return fmt.Errorf("favorite_remove_failed: %w", err)
	}

	return nil
}

/*
ListPosts returns the user's favorited posts with pagination metadata.

Parameters:
  - context: context.Context
  - userID: string
  - params: pagination.Params

Returns:
  - []*post.Post: Page of posts
  - pagination.Meta: Pagination metadata
  - error: Retrieval failures
*/
func (service *Service) ListPosts(context context.Context, userID string, params pagination.Params) ([]*post.Post, pagination.Meta, error) {
	posts, total, err := service.favoriteRepository.ListPosts(context, userID, params)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("favorite_list_failed: %w", err)
	}

	return posts, pagination.NewMeta(params.Page, params.Limit, total), nil
}
