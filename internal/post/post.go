// Copyright (c) 2026 Inkwell. All rights reserved.
// Author: duy.bui.dev@gmail.com

/*
Package post implements blog posts and their tag associations.

A post belongs to one author, carries free-form tags (normalized to slugs),
and is either public or private. Private posts are visible to their author
only; everyone can read public posts.
*/
package post

import "time"

// # Domain Entities

// Post represents a blog entry.
type Post struct {
	ID             string    `json:"id"`
	AuthorID       string    `json:"author_id"`
	AuthorUsername string    `json:"author_username,omitempty"`
	Title          string    `json:"title"`
	Body           string    `json:"body"`
	IsPublic       bool      `json:"is_public"`
	Tags           []string  `json:"tags"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldTitle    = "title"
	FieldBody     = "body"
	FieldIsPublic = "is_public"
	FieldTags     = "tags"
	FieldPostID   = "postID"
)

// # Constraints

const (
	// MaxTitleLength caps post titles.
	MaxTitleLength = 200

	// MaxTagsPerPost bounds the tag list on a single post.
	MaxTagsPerPost = 10

	// MaxTagLength caps a single raw tag before slug normalization.
	MaxTagLength = 40
)
