// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

// Package account exposes user profile reads on top of the auth user store.
package account

import (
	"context"
	"time"

	"github.com/duybui/inkwell/internal/auth"
	"github.com/duybui/inkwell/internal/post"
	"github.com/duybui/inkwell/pkg/pagination"
)

// FieldUserID names the user path parameter.
const FieldUserID = "userID"

// PublicProfile is the subset of a user safe to show to anyone.
//
// It deliberately omits the email address.
type PublicProfile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFinder resolves users by ID. Satisfied by the auth user repository.
type UserFinder interface {
	FindByID(context context.Context, id string) (*auth.User, error)
}

// PostLister pages a user's posts. Satisfied by the post service.
type PostLister interface {
	ListByAuthor(context context.Context, authorID, viewerID string, params pagination.Params) ([]*post.Post, pagination.Meta, error)
}

// Service implements profile reads.
type Service struct {
	users UserFinder
	posts PostLister
}

// NewService creates a new account service.
func NewService(users UserFinder, posts PostLister) *Service {
	return &Service{users: users, posts: posts}
}

/*
GetOwn returns the caller's full profile, email included.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *auth.User: The caller's account
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) GetOwn(context context.Context, userID string) (*auth.User, error) {
	return service.users.FindByID(context, userID)
}

/*
GetPublic returns another user's public profile.

Parameters:
  - context: context.Context
  - userID: string

Returns:
  - *PublicProfile: The profile without private fields
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) GetPublic(context context.Context, userID string) (*PublicProfile, error) {
	user, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	return &PublicProfile{
		ID:        user.ID,
		Username:  user.Username,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt,
	}, nil
}

/*
ListPosts returns a user's posts as seen by the viewer.

Description: A user browsing their own profile sees private posts too; anyone
else only sees public ones.

Parameters:
  - context: context.Context
  - userID: string
  - viewerID: string
  - params: pagination.Params

Returns:
  - []*post.Post: Page of posts
  - pagination.Meta: Pagination metadata
  - error: Retrieval failures
*/
func (service *Service) ListPosts(context context.Context, userID, viewerID string, params pagination.Params) ([]*post.Post, pagination.Meta, error) {
	if _, err := service.users.FindByID(context, userID); err != nil {
		return nil, pagination.Meta{}, err
	}

	return service.posts.ListByAuthor(context, userID, viewerID, params)
}
