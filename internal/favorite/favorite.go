// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

/*
Package favorite implements per-user post bookmarks.

A favorite is a (user, post) pair with a uniqueness guarantee at the schema
level: favoriting the same post twice conflicts.
*/
package favorite

import "time"

// Favorite represents one user's bookmark of one post.
type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PostID    string    `json:"post_id"`
	CreatedAt time.Time `json:"created_at"`
}

// FieldPostID names the URL parameter for favorite endpoints.
const FieldPostID = "postID"
