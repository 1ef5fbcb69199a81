// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package favorite_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duybui/inkwell/internal/favorite"
	"github.com/duybui/inkwell/internal/platform/apperr"
	"github.com/duybui/inkwell/internal/post"
	"github.com/duybui/inkwell/pkg/pagination"
)

type fakePostGetter struct {
	posts map[string]*post.Post
}

func (g *fakePostGetter) Get(_ context.Context, id, viewerID string) (*post.Post, error) {
	p, ok := g.posts[id]
	if !ok {
		return nil, apperr.NotFound("Post")
	}
	if !p.IsPublic && p.AuthorID != viewerID {
		return nil, apperr.NotFound("Post")
	}
	return p, nil
}

// fakeFavoriteRepo is an in-memory FavoriteRepository keyed by (user, post).
type fakeFavoriteRepo struct {
	favorites map[string]*favorite.Favorite
	posts     map[string]*post.Post
}

func pairKey(userID, postID string) string { return userID + "/" + postID }

func (r *fakeFavoriteRepo) Add(_ context.Context, f *favorite.Favorite) error {
	key := pairKey(f.UserID, f.PostID)
	if _, exists := r.favorites[key]; exists {
		return apperr.ConflictField(favorite.FieldPostID, "Postid already exists")
	}
	copied := *f
	r.favorites[key] = &copied
	return nil
}

func (r *fakeFavoriteRepo) Remove(_ context.Context, userID, postID string) (bool, error) {
	key := pairKey(userID, postID)
	if _, exists := r.favorites[key]; !exists {
		return false, nil
	}
	delete(r.favorites, key)
	return true, nil
}

func (r *fakeFavoriteRepo) ListPosts(_ context.Context, userID string, params pagination.Params) ([]*post.Post, int, error) {
	matched := []*post.Post{}
	for _, f := range r.favorites {
		if f.UserID == userID {
			if p, ok := r.posts[f.PostID]; ok {
				copied := *p
				matched = append(matched, &copied)
			}
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, len(matched), nil
}

func newFavoriteService() (*favorite.Service, *fakeFavoriteRepo) {
	posts := map[string]*post.Post{
		"post-public":  {ID: "post-public", AuthorID: "alice", IsPublic: true},
		"post-private": {ID: "post-private", AuthorID: "alice", IsPublic: false},
	}
	repo := &fakeFavoriteRepo{favorites: map[string]*favorite.Favorite{}, posts: posts}
	return favorite.NewService(repo, &fakePostGetter{posts: posts}), repo
}

func TestAdd_DuplicateConflict(t *testing.T) {
	service, repo := newFavoriteService()

	require.NoError(t, service.Add(context.Background(), "bob", "post-public"))
	assert.Len(t, repo.favorites, 1)

	err := service.Add(context.Background(), "bob", "post-public")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperr.As(err).Code)
}

func TestAdd_InvisiblePostNotFound(t *testing.T) {
	service, repo := newFavoriteService()

	err := service.Add(context.Background(), "bob", "post-private")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	assert.Empty(t, repo.favorites)

	// The author can favorite their own private post.
	require.NoError(t, service.Add(context.Background(), "alice", "post-private"))
}

func TestRemove_Idempotent(t *testing.T) {
	service, repo := newFavoriteService()

	require.NoError(t, service.Add(context.Background(), "bob", "post-public"))
	require.NoError(t, service.Remove(context.Background(), "bob", "post-public"))
	assert.Empty(t, repo.favorites)

	// Removing again is a quiet no-op.
	require.NoError(t, service.Remove(context.Background(), "bob", "post-public"))
}

func TestListPosts_PaginationMeta(t *testing.T) {
	service, _ := newFavoriteService()

	require.NoError(t, service.Add(context.Background(), "bob", "post-public"))

	posts, meta, err := service.ListPosts(context.Background(), "bob", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "post-public", posts[0].ID)
	assert.Equal(t, 1, meta.Total)
	assert.Equal(t, 1, meta.TotalPages)
}
