// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package favorite

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duybui/inkwell/internal/platform/dberr"
	"github.com/duybui/inkwell/internal/post"
	"github.com/duybui/inkwell/pkg/pagination"
)

// PostgresFavoriteRepository implements the FavoriteRepository interface using pgx.
type PostgresFavoriteRepository struct {
	pool *pgxpool.Pool
}

// NewFavoriteRepository creates a new PostgreSQL implementation of the FavoriteRepository.
func NewFavoriteRepository(pool *pgxpool.Pool) *PostgresFavoriteRepository {
	return &PostgresFavoriteRepository{pool: pool}
}

/*
Add persists a favorite record.

Description: The favorite_userid_postid_unique constraint turns a duplicate
pair into a typed 409 conflict naming the post field.

Parameters:
  - context: context.Context
  - favorite: *Favorite

Returns:
  - error: apperr.Conflict or persistence failures
*/
func (repository *PostgresFavoriteRepository) Add(context context.Context, favorite *Favorite) error {
	const query = `
		INSERT INTO favorite (
			id, userid, postid, createdat
		) VALUES ($1, $2, $3, $4)`

	if favorite.CreatedAt.IsZero() {
		favorite.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		favorite.ID,
		favorite.UserID,
		favorite.PostID,
		favorite.CreatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "add_favorite")
	}

	return nil
}

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
func (repository *PostgresFavoriteRepository) Remove(context context.Context, userID, postID string) (bool, error) {
	const query = "DELETE FROM favorite WHERE userid = $1 AND postid = $2"

	commandTag, err := repository.pool.Exec(context, query, userID, postID)
	if err != nil {
		return false, dberr.Wrap(err, "remove_favorite")
	}

	return commandTag.RowsAffected() > 0, nil
}

/*
ListPosts returns the user's favorited posts, most recently favorited first.

Parameters:
  - context: context.Context
  - userID: string
  - params: pagination.Params

Returns:
  - []*post.Post: Page of posts
  - int: Total favorite count
  - error: Retrieval failures
*/
func (repository *PostgresFavoriteRepository) ListPosts(context context.Context, userID string, params pagination.Params) ([]*post.Post, int, error) {
	const query = `
		SELECT p.id, p.authorid, a.username, p.title, p.body, p.ispublic, p.createdat, p.updatedat,
			COALESCE(ARRAY_AGG(t.slug) FILTER (WHERE t.slug IS NOT NULL), '{}') AS tags
		FROM favorite f
		JOIN post p ON p.id = f.postid
		JOIN account a ON a.id = p.authorid
		LEFT JOIN post_tag pt ON pt.postid = p.id
		LEFT JOIN tag t ON t.id = pt.tagid
		WHERE f.userid = $1
		GROUP BY p.id, a.username, f.createdat
		ORDER BY f.createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, userID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_favorites")
	}
	defer rows.Close()

	posts := []*post.Post{}
	for rows.Next() {
		entry := &post.Post{}
		err := rows.Scan(
			&entry.ID,
			&entry.AuthorID,
			&entry.AuthorUsername,
			&entry.Title,
			&entry.Body,
			&entry.IsPublic,
			&entry.CreatedAt,
			&entry.UpdatedAt,
			&entry.Tags,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_favorite_post")
		}
		posts = append(posts, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_favorites")
	}

	var total int
	if err := repository.pool.QueryRow(context, "SELECT COUNT(*) FROM favorite WHERE userid = $1", userID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_favorites")
	}

	return posts, total, nil
}
