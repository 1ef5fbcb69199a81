// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

/*
Package comment implements comments attached to public posts.

Comments follow the post's visibility: a comment thread exists only on posts
its readers can see, and deleting a post cascades its comments away at the
schema level.
*/
package comment

import "time"

// Comment represents a single comment on a post.
type Comment struct {
	ID             string    `json:"id"`
	PostID         string    `json:"post_id"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username,omitempty"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

// # Field Identifiers

const (
	FieldBody      = "body"
	FieldPostID    = "postID"
	FieldCommentID = "commentID"
)

// MaxBodyLength caps comment bodies.
const MaxBodyLength = 5000
