// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

package comment

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duybui/inkwell/internal/platform/apperr"
	"github.com/duybui/inkwell/internal/platform/dberr"
	"github.com/duybui/inkwell/pkg/pagination"
)

// PostgresCommentRepository implements the CommentRepository interface using pgx.
type PostgresCommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new PostgreSQL implementation of the CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

/*
Create persists a new comment record.

Parameters:
  - context: context.Context
  - comment: *Comment

Returns:
  - error: Persistence failures
*/
func (repository *PostgresCommentRepository) Create(context context.Context, comment *Comment) error {
	const query = `
		INSERT INTO comment (
			id, postid, authorid, body, createdat
		) VALUES ($1, $2, $3, $4, $5)`

	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		comment.ID,
		comment.PostID,
		comment.AuthorID,
		comment.Body,
		comment.CreatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "create_comment")
	}

	return nil
}

/*
FindByID retrieves a comment with the author's username joined.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Comment: Hydrated entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresCommentRepository) FindByID(context context.Context, id string) (*Comment, error) {
	const query = `
		SELECT c.id, c.postid, c.authorid, a.username, c.body, c.createdat
		FROM comment c
		JOIN account a ON a.id = c.authorid
		WHERE c.id = $1`

	comment := &Comment{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&comment.ID,
		&comment.PostID,
		&comment.AuthorID,
		&comment.AuthorUsername,
		&comment.Body,
		&comment.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Comment")
		}
		return nil, dberr.Wrap(err, "find_comment")
	}

	return comment, nil
}

/*
Delete removes a comment.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Deletion failures
*/
func (repository *PostgresCommentRepository) Delete(context context.Context, id string) error {
	_, err := repository.pool.Exec(context, "DELETE FROM comment WHERE id = $1", id)
	if err != nil {
		return dberr.Wrap(err, "delete_comment")
	}
	return nil
}

/*
ListByPost returns a post's comments, oldest first.

Parameters:
  - context: context.Context
  - postID: string
  - params: pagination.Params

Returns:
  - []*Comment: Page of comments
  - int: Total count for the post
  - error: Retrieval failures
*/
func (repository *PostgresCommentRepository) ListByPost(context context.Context, postID string, params pagination.Params) ([]*Comment, int, error) {
	const query = `
		SELECT c.id, c.postid, c.authorid, a.username, c.body, c.createdat
		FROM comment c
		JOIN account a ON a.id = c.authorid
		WHERE c.postid = $1
		ORDER BY c.createdat ASC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, postID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_comments")
	}
	defer rows.Close()

	comments := []*Comment{}
	for rows.Next() {
		comment := &Comment{}
		err := rows.Scan(
			&comment.ID,
			&comment.PostID,
			&comment.AuthorID,
			&comment.AuthorUsername,
			&comment.Body,
			&comment.CreatedAt,
		)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_comment")
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_comments")
	}

	var total int
	if err := repository.pool.QueryRow(context, "SELECT COUNT(*) FROM comment WHERE postid = $1", postID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_comments")
	}

	return comments, total, nil
}
