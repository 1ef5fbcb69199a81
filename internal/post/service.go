// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package post

import (
	"context"

	"github.com/duybui/inkwell/internal/platform/apperr"
	"github.com/duybui/inkwell/pkg/pagination"
	"github.com/duybui/inkwell/pkg/slug"
	"github.com/duybui/inkwell/pkg/uuidv7"
)

// Service implements post use cases on top of the repository.
type Service struct {
	postRepository PostRepository
}

// NewService constructs a new [Service].
func NewService(postRepo PostRepository) *Service {
	return &Service{postRepository: postRepo}
}

// CreateInput holds the data for a new post.
type CreateInput struct {
	AuthorID string
	Title    string
	Body     string
	IsPublic bool
	Tags     []string
}

// UpdateInput holds the mutable fields of a post. Tags replaces the whole
// tag set when non-nil; a nil Tags leaves the existing set untouched.
type UpdateInput struct {
	Title    string
	Body     string
	IsPublic bool
	Tags     []string
}

/*
Create persists a new post for the author, normalizing raw tags to slugs.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Post: Created entity
  - error: Persistence failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Post, error) {
	post := &Post{
		ID:       uuidv7.New(),
		AuthorID: input.AuthorID,
		Title:    input.Title,
		Body:     input.Body,
		IsPublic: input.IsPublic,
		Tags:     normalizeTags(input.Tags),
	}

	if err := service.postRepository.Create(context, post); err != nil {
		return nil, err
	}

	return post, nil
}

/*
Get returns a post by ID, enforcing visibility: private posts are visible to
their author only. viewerID is empty for anonymous requests.

Description: A private post a viewer may not see reports NotFound rather than
Forbidden, so its existence is not leaked.

Parameters:
  - context: context.Context
  - id: string
  - viewerID: string

Returns:
  - *Post: Hydrated entity
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) Get(context context.Context, id, viewerID string) (*Post, error) {
	post, err := service.postRepository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if !post.IsPublic && post.AuthorID != viewerID {
		return nil, apperr.NotFound("Post")
	}

	return post, nil
}

/*
Update applies changes to a post. Owner-only.

Parameters:
  - context: context.Context
  - id: string
  - actorID: string
  - input: UpdateInput

Returns:
  - *Post: Updated entity
  - error: apperr.Forbidden, apperr.NotFound, or persistence failures
*/
func (service *Service) Update(context context.Context, id, actorID string, input UpdateInput) (*Post, error) {
	post, err := service.postRepository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != actorID {
		return nil, apperr.Forbidden("Only the author can modify this post")
	}

	post.Title = input.Title
	post.Body = input.Body
	post.IsPublic = input.IsPublic

	replaceTags := input.Tags != nil
	if replaceTags {
		post.Tags = normalizeTags(input.Tags)
	}

	if err := service.postRepository.Update(context, post, replaceTags); err != nil {
		return nil, err
	}

	return post, nil
}

/*
Delete removes a post. Owner-only.

Parameters:
  - context: context.Context
  - id: string
  - actorID: string

Returns:
  - error: apperr.Forbidden, apperr.NotFound, or deletion failures
*/
func (service *Service) Delete(context context.Context, id, actorID string) error {
	post, err := service.postRepository.FindByID(context, id)
	if err != nil {
		return err
	}

	if post.AuthorID != actorID {
		return apperr.Forbidden("Only the author can delete this post")
	}

	return service.postRepository.Delete(context, id)
}

/*
ListPublic returns a page of public posts, optionally filtered by tag.

Parameters:
  - context: context.Context
  - rawTag: string (free-form; normalized to a slug before lookup)
  - params: pagination.Params

Returns:
  - []*Post: Page of posts
  - pagination.Meta: Page metadata
  - error: Retrieval failures
*/
func (service *Service) ListPublic(context context.Context, rawTag string, params pagination.Params) ([]*Post, pagination.Meta, error) {
	tagSlug := ""
	if rawTag != "" {
		tagSlug = slug.From(rawTag)
	}

	posts, total, err := service.postRepository.ListPublic(context, tagSlug, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return posts, pagination.NewMeta(params.Page, params.Limit, total), nil
}

/*
ListByAuthor returns a page of one author's posts. Private posts appear only
when the viewer is the author.

Parameters:
  - context: context.Context
  - authorID: string
  - viewerID: string
  - params: pagination.Params

Returns:
  - []*Post: Page of posts
  - pagination.Meta: Page metadata
  - error: Retrieval failures
*/
func (service *Service) ListByAuthor(context context.Context, authorID, viewerID string, params pagination.Params) ([]*Post, pagination.Meta, error) {
	includePrivate := authorID == viewerID && viewerID != ""

	posts, total, err := service.postRepository.ListByAuthor(context, authorID, includePrivate, params)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	return posts, pagination.NewMeta(params.Page, params.Limit, total), nil
}

// normalizeTags slugifies, deduplicates, and bounds a raw tag list.
func normalizeTags(rawTags []string) []string {
	seen := map[string]bool{}
	normalized := []string{}

	for _, rawTag := range rawTags {
		tagSlug := slug.From(rawTag)
		if tagSlug == "" || seen[tagSlug] {
			continue
		}
		seen[tagSlug] = true
		normalized = append(normalized, tagSlug)

		if len(normalized) == MaxTagsPerPost {
			break
		}
	}

	return normalized
}
