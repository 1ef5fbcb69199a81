// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package comment_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duybui/inkwell/internal/comment"
	"github.com/duybui/inkwell/internal/platform/apperr"
	"github.com/duybui/inkwell/internal/post"
	"github.com/duybui/inkwell/pkg/pagination"
)

// fakePostGetter applies the same visibility rule as the post service: a
// private post is not-found to anyone but its author.
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

// fakeCommentRepo is an in-memory CommentRepository.
type fakeCommentRepo struct {
	comments map[string]*comment.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[string]*comment.Comment{}}
}

func (r *fakeCommentRepo) Create(_ context.Context, c *comment.Comment) error {
	copied := *c
	r.comments[c.ID] = &copied
	return nil
}

func (r *fakeCommentRepo) FindByID(_ context.Context, id string) (*comment.Comment, error) {
	if c, ok := r.comments[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, apperr.NotFound("Comment")
}

func (r *fakeCommentRepo) Delete(_ context.Context, id string) error {
	delete(r.comments, id)
	return nil
}

func (r *fakeCommentRepo) ListByPost(_ context.Context, postID string, params pagination.Params) ([]*comment.Comment, int, error) {
	matched := []*comment.Comment{}
	for _, c := range r.comments {
		if c.PostID == postID {
			copied := *c
			matched = append(matched, &copied)
		}
	}
	return matched, len(matched), nil
}

func newCommentService() (*comment.Service, *fakeCommentRepo, *fakePostGetter) {
	repo := newFakeCommentRepo()
	getter := &fakePostGetter{posts: map[string]*post.Post{
		"post-public":  {ID: "post-public", AuthorID: "alice", IsPublic: true},
		"post-private": {ID: "post-private", AuthorID: "alice", IsPublic: false},
	}}
	return comment.NewService(repo, getter), repo, getter
}

func TestCreate_VisibilityGate(t *testing.T) {
	service, repo, _ := newCommentService()

	created, err := service.Create(context.Background(), "post-public", "bob", "Nice write-up")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "post-public", created.PostID)
	assert.Equal(t, "bob", created.AuthorID)
	assert.Len(t, repo.comments, 1)

	// A stranger cannot comment on a private post, and the failure does not
	// reveal that the post exists.
	_, err = service.Create(context.Background(), "post-private", "bob", "Hello?")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)

	// The author still can.
	_, err = service.Create(context.Background(), "post-private", "alice", "Note to self")
	require.NoError(t, err)
}

func TestDelete_OwnerOnly(t *testing.T) {
	service, repo, _ := newCommentService()

	created, err := service.Create(context.Background(), "post-public", "bob", "Mine")
	require.NoError(t, err)

	err = service.Delete(context.Background(), created.ID, "mallory")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	assert.Len(t, repo.comments, 1)

	require.NoError(t, service.Delete(context.Background(), created.ID, "bob"))
	assert.Empty(t, repo.comments)

	err = service.Delete(context.Background(), created.ID, "bob")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}

func TestListByPost_PrivatePostHidden(t *testing.T) {
	service, _, _ := newCommentService()

	_, err := service.Create(context.Background(), "post-private", "alice", "Draft thoughts")
	require.NoError(t, err)

	// The author sees the thread.
	comments, meta, err := service.ListByPost(context.Background(), "post-private", "alice", pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, comments, 1)
	assert.Equal(t, 1, meta.Total)

	// Everyone else gets the same not-found a direct read would.
	_, _, err = service.ListByPost(context.Background(), "post-private", "bob", pagination.Params{Page: 1, Limit: 20})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
}
