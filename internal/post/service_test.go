// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package post_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duybui/inkwell/internal/platform/apperr"
	"github.com/duybui/inkwell/internal/post"
	"github.com/duybui/inkwell/pkg/pagination"
)

// fakePostRepo is an in-memory PostRepository.
type fakePostRepo struct {
	posts map[string]*post.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*post.Post{}}
}

func (r *fakePostRepo) Create(_ context.Context, p *post.Post) error {
	copied := *p
	r.posts[p.ID] = &copied
	return nil
}

func (r *fakePostRepo) FindByID(_ context.Context, id string) (*post.Post, error) {
	if p, ok := r.posts[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, apperr.NotFound("Post")
}

func (r *fakePostRepo) Update(_ context.Context, p *post.Post, replaceTags bool) error {
	stored, ok := r.posts[p.ID]
	if !ok {
		return apperr.NotFound("Post")
	}
	tags := stored.Tags
	copied := *p
	if !replaceTags {
		copied.Tags = tags
	}
	r.posts[p.ID] = &copied
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id string) error {
	delete(r.posts, id)
	return nil
}

func (r *fakePostRepo) ListPublic(_ context.Context, tagSlug string, params pagination.Params) ([]*post.Post, int, error) {
	matched := []*post.Post{}
	for _, p := range r.posts {
		if !p.IsPublic {
			continue
		}
		if tagSlug != "" && !contains(p.Tags, tagSlug) {
			continue
		}
		copied := *p
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	return page(matched, params), len(matched), nil
}

func (r *fakePostRepo) ListByAuthor(_ context.Context, authorID string, includePrivate bool, params pagination.Params) ([]*post.Post, int, error) {
	matched := []*post.Post{}
	for _, p := range r.posts {
		if p.AuthorID != authorID {
			continue
		}
		if !p.IsPublic && !includePrivate {
			continue
		}
		copied := *p
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	return page(matched, params), len(matched), nil
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}

func page(posts []*post.Post, params pagination.Params) []*post.Post {
	offset := params.Offset()
	if offset >= len(posts) {
		return []*post.Post{}
	}
	end := offset + params.Limit
	if end > len(posts) {
		end = len(posts)
	}
	return posts[offset:end]
}

func newService() (*post.Service, *fakePostRepo) {
	repo := newFakePostRepo()
	return post.NewService(repo), repo
}

/*
TestCreate_NormalizesTags verifies slug normalization, deduplication, and
the per-post tag cap.
*/
func TestCreate_NormalizesTags(t *testing.T) {
	service, _ := newService()

	created, err := service.Create(context.Background(), post.CreateInput{
		AuthorID: "author-1",
		Title:    "Go Concurrency",
		Body:     "...",
		IsPublic: true,
		Tags:     []string{"Go Lang", "go-lang", "  ", "Databases & SQL"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"go-lang", "databases-sql"}, created.Tags)
}

/*
TestGet_PrivateVisibility ensures private posts resolve for the author only
and report NotFound (not Forbidden) to everyone else.
*/
func TestGet_PrivateVisibility(t *testing.T) {
	service, _ := newService()

	created, err := service.Create(context.Background(), post.CreateInput{
		AuthorID: "author-1",
		Title:    "Draft",
		Body:     "...",
		IsPublic: false,
	})
	require.NoError(t, err)

	// Author sees it.
	fetched, err := service.Get(context.Background(), created.ID, "author-1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)

	// Stranger and anonymous get 404.
	for _, viewerID := range []string{"someone-else", ""} {
		_, err = service.Get(context.Background(), created.ID, viewerID)
		require.Error(t, err)
		assert.Equal(t, "NOT_FOUND", apperr.As(err).Code)
	}
}

/*
TestUpdate_OwnerOnly covers ownership enforcement and the keep-tags-when-nil
update contract.
*/
func TestUpdate_OwnerOnly(t *testing.T) {
	service, _ := newService()

	created, err := service.Create(context.Background(), post.CreateInput{
		AuthorID: "author-1",
		Title:    "Original",
		Body:     "...",
		IsPublic: true,
		Tags:     []string{"golang"},
	})
	require.NoError(t, err)

	// Non-owner is rejected.
	_, err = service.Update(context.Background(), created.ID, "intruder", post.UpdateInput{
		Title: "Hijacked", Body: "...", IsPublic: true,
	})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)

	// Owner update with nil Tags keeps the existing set.
	updated, err := service.Update(context.Background(), created.ID, "author-1", post.UpdateInput{
		Title: "Renamed", Body: "...", IsPublic: false,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, []string{"golang"}, updated.Tags)

	// Owner update with explicit Tags replaces wholesale.
	updated, err = service.Update(context.Background(), created.ID, "author-1", post.UpdateInput{
		Title: "Renamed", Body: "...", IsPublic: false, Tags: []string{"Databases"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"databases"}, updated.Tags)
}

/*
TestDelete_OwnerOnly verifies only the author can delete.
*/
func TestDelete_OwnerOnly(t *testing.T) {
	service, repo := newService()

	created, err := service.Create(context.Background(), post.CreateInput{
		AuthorID: "author-1", Title: "Doomed", Body: "...", IsPublic: true,
	})
	require.NoError(t, err)

	err = service.Delete(context.Background(), created.ID, "intruder")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperr.As(err).Code)
	assert.Len(t, repo.posts, 1)

	require.NoError(t, service.Delete(context.Background(), created.ID, "author-1"))
	assert.Empty(t, repo.posts)
}

/*
TestListPublic_TagFilter checks that the raw tag query value is normalized
before matching and that private posts never appear.
*/
func TestListPublic_TagFilter(t *testing.T) {
	service, _ := newService()

	_, err := service.Create(context.Background(), post.CreateInput{
		AuthorID: "author-1", Title: "Public Go", Body: "...", IsPublic: true, Tags: []string{"Go Lang"},
	})
	require.NoError(t, err)

	_, err = service.Create(context.Background(), post.CreateInput{
		AuthorID: "author-1", Title: "Private Go", Body: "...", IsPublic: false, Tags: []string{"Go Lang"},
	})
	require.NoError(t, err)

	posts, meta, err := service.ListPublic(context.Background(), "Go Lang", pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Public Go", posts[0].Title)
	assert.Equal(t, 1, meta.Total)
}

/*
TestListByAuthor_SelfSeesPrivate verifies the include-private switch.
*/
func TestListByAuthor_SelfSeesPrivate(t *testing.T) {
	service, _ := newService()

	for _, isPublic := range []bool{true, false} {
		_, err := service.Create(context.Background(), post.CreateInput{
			AuthorID: "author-1", Title: "Post", Body: "...", IsPublic: isPublic,
		})
		require.NoError(t, err)
	}

	own, meta, err := service.ListByAuthor(context.Background(), "author-1", "author-1", pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, own, 2)
	assert.Equal(t, 2, meta.Total)

	visible, meta, err := service.ListByAuthor(context.Background(), "author-1", "stranger", pagination.Params{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, visible, 1)
	assert.Equal(t, 1, meta.Total)
}
