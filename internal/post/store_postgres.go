// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package post

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duybui/inkwell/internal/platform/apperr"
	"github.com/duybui/inkwell/internal/platform/dberr"
	"github.com/duybui/inkwell/pkg/pagination"
	"github.com/duybui/inkwell/pkg/uuidv7"
)

// PostgresPostRepository implements the PostRepository interface using pgx.
type PostgresPostRepository struct {
	pool *pgxpool.Pool
}

// NewPostRepository creates a new PostgreSQL implementation of the PostRepository.
func NewPostRepository(pool *pgxpool.Pool) *PostgresPostRepository {
	return &PostgresPostRepository{pool: pool}
}

// selectColumns is the shared projection for hydrating posts with author and tags.
const selectColumns = `
	p.id, p.authorid, a.username, p.title, p.body, p.ispublic, p.createdat, p.updatedat,
	COALESCE(ARRAY_AGG(t.slug) FILTER (WHERE t.slug IS NOT NULL), '{}') AS tags`

const selectJoins = `
	FROM post p
	JOIN account a ON a.id = p.authorid
	LEFT JOIN post_tag pt ON pt.postid = p.id
	LEFT JOIN tag t ON t.id = pt.tagid`

/*
Create persists a new post and its tag associations in one transaction.

Parameters:
  - context: context.Context
  - post: *Post

Returns:
  - error: Persistence failures
*/
func (repository *PostgresPostRepository) Create(context context.Context, post *Post) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_post_tx")
	}
	defer func() { _ = transaction.Rollback(context) }()

	const query = `
		INSERT INTO post (
			id, authorid, title, body, ispublic, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now

	_, err = transaction.Exec(context, query,
		post.ID,
		post.AuthorID,
		post.Title,
		post.Body,
		post.IsPublic,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "create_post")
	}

	if err := syncTags(context, transaction, post.ID, post.Tags); err != nil {
		return err
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_post_tx")
	}

	return nil
}

/*
FindByID retrieves a single post with author username and tag slugs.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Post: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresPostRepository) FindByID(context context.Context, id string) (*Post, error) {
	query := "SELECT " + selectColumns + selectJoins + `
		WHERE p.id = $1
		GROUP BY p.id, a.username`

	post := &Post{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&post.ID,
		&post.AuthorID,
		&post.AuthorUsername,
		&post.Title,
		&post.Body,
		&post.IsPublic,
		&post.CreatedAt,
		&post.UpdatedAt,
		&post.Tags,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Post")
		}
		return nil, dberr.Wrap(err, "find_post")
	}

	return post, nil
}

/*
Update persists changes to title, body, and visibility, optionally replacing
the tag set wholesale.

Parameters:
  - context: context.Context
  - post: *Post
  - replaceTags: bool

Returns:
  - error: Update failures
*/
func (repository *PostgresPostRepository) Update(context context.Context, post *Post, replaceTags bool) error {
	transaction, err := repository.pool.Begin(context)
	if err != nil {
		return dberr.Wrap(err, "begin_post_tx")
	}
	defer func() { _ = transaction.Rollback(context) }()

	const query = `
		UPDATE post
		SET title = $2, body = $3, ispublic = $4, updatedat = $5
		WHERE id = $1`

	post.UpdatedAt = time.Now()
	_, err = transaction.Exec(context, query,
		post.ID,
		post.Title,
		post.Body,
		post.IsPublic,
		post.UpdatedAt,
	)
	if err != nil {
		return dberr.Wrap(err, "update_post")
	}

	if replaceTags {
		if _, err := transaction.Exec(context, "DELETE FROM post_tag WHERE postid = $1", post.ID); err != nil {
			return dberr.Wrap(err, "clear_post_tags")
		}
		if err := syncTags(context, transaction, post.ID, post.Tags); err != nil {
			return err
		}
	}

	if err := transaction.Commit(context); err != nil {
		return dberr.Wrap(err, "commit_post_tx")
	}

	return nil
}

/*
Delete removes a post. Tag links and comments cascade at the schema level.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Deletion failures
*/
func (repository *PostgresPostRepository) Delete(context context.Context, id string) error {
	_, err := repository.pool.Exec(context, "DELETE FROM post WHERE id = $1", id)
	if err != nil {
		return dberr.Wrap(err, "delete_post")
	}
	return nil
}

/*
ListPublic returns public posts, newest first, optionally filtered by tag slug.

Parameters:
  - context: context.Context
  - tagSlug: string
  - params: pagination.Params

Returns:
  - []*Post: Page of posts
  - int: Total matching count
  - error: Retrieval failures
*/
func (repository *PostgresPostRepository) ListPublic(context context.Context, tagSlug string, params pagination.Params) ([]*Post, int, error) {
	const tagFilter = ` AND EXISTS (
		SELECT 1 FROM post_tag ptf
		JOIN tag tf ON tf.id = ptf.tagid
		WHERE ptf.postid = p.id AND tf.slug = %s)`

	listFilter := "WHERE p.ispublic = TRUE"
	countFilter := "WHERE p.ispublic = TRUE"
	arguments := []any{params.Limit, params.Offset()}
	countArguments := []any{}

	if tagSlug != "" {
		// The list query binds limit/offset first, so the slug lands on $3;
		// the count query binds only the slug.
		listFilter += fmt.Sprintf(tagFilter, "$3")
		countFilter += fmt.Sprintf(tagFilter, "$1")
		arguments = append(arguments, tagSlug)
		countArguments = append(countArguments, tagSlug)
	}

	listQuery := "SELECT " + selectColumns + selectJoins + "\n" + listFilter + `
		GROUP BY p.id, a.username
		ORDER BY p.createdat DESC
		LIMIT $1 OFFSET $2`

	countQuery := "SELECT COUNT(*) FROM post p " + countFilter

	return repository.listAndCount(context, listQuery, arguments, countQuery, countArguments)
}

/*
ListByAuthor returns an author's posts, newest first.

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
func (repository *PostgresPostRepository) ListByAuthor(context context.Context, authorID string, includePrivate bool, params pagination.Params) ([]*Post, int, error) {
	filter := "WHERE p.authorid = $3"
	if !includePrivate {
		filter += " AND p.ispublic = TRUE"
	}

	listQuery := "SELECT " + selectColumns + selectJoins + "\n" + filter + `
		GROUP BY p.id, a.username
		ORDER BY p.createdat DESC
		LIMIT $1 OFFSET $2`

	arguments := []any{params.Limit, params.Offset(), authorID}

	// Count query binds only the author argument; placeholders renumber.
	countQuery := "SELECT COUNT(*) FROM post p WHERE p.authorid = $1"
	if !includePrivate {
		countQuery += " AND p.ispublic = TRUE"
	}

	return repository.listAndCount(context, listQuery, arguments, countQuery, []any{authorID})
}

// listAndCount executes the page query and the total count query.
func (repository *PostgresPostRepository) listAndCount(
	context context.Context,
	listQuery string, listArguments []any,
	countQuery string, countArguments []any,
) ([]*Post, int, error) {

	rows, err := repository.pool.Query(context, listQuery, listArguments...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_posts")
	}
	defer rows.Close()

	posts := []*Post{}
	for rows.Next() {
		post := &Post{}
		err := rows.Scan(
			&post.ID,
			&post.AuthorID,
			&post.AuthorUsername,
			&post.Title,
			&post.Body,
			&post.IsPublic,
			&post.CreatedAt,
			&post.UpdatedAt,
			&post.Tags,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_post")
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_posts")
	}

	var total int
	if err := repository.pool.QueryRow(context, countQuery, countArguments...).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_posts")
	}

	return posts, total, nil
}

// syncTags upserts each slug into the tag table and links it to the post.
func syncTags(context context.Context, transaction pgx.Tx, postID string, slugs []string) error {
	for _, slug := range slugs {
		_, err := transaction.Exec(context,
			"INSERT INTO tag (id, slug) VALUES ($1, $2) ON CONFLICT (slug) DO NOTHING",
			uuidv7.New(), slug,
		)
		if err != nil {
			return dberr.Wrap(err, "upsert_tag")
		}

		_, err = transaction.Exec(context,
			`INSERT INTO post_tag (postid, tagid)
			 SELECT $1, id FROM tag WHERE slug = $2
			 ON CONFLICT DO NOTHING`,
			postID, slug,
		)
		if err != nil {
			return dberr.Wrap(err, "link_post_tag")
		}
	}
	return nil
}
