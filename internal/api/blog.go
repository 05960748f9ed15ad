// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/url"
)

// BlogForm is the create/update payload for a blog post.
type BlogForm struct {
	Title         string   `json:"title"`
	Slug          string   `json:"slug,omitempty"`
	Excerpt       string   `json:"excerpt"`
	Content       string   `json:"content"`
	FeaturedImage string   `json:"featuredImage,omitempty"`
	Category      string   `json:"category,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Status        string   `json:"status,omitempty"`
}

// ListBlogPosts fetches all blog posts, drafts included.
func (c *Client) ListBlogPosts(ctx context.Context) ([]BlogPost, error) {
	var posts []BlogPost
	if err := c.get(ctx, "/blog", nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetBlogPost fetches one post by ID or slug.
func (c *Client) GetBlogPost(ctx context.Context, idOrSlug string) (*BlogPost, error) {
	var post BlogPost
	if err := c.get(ctx, "/blog/"+url.PathEscape(idOrSlug), nil, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// CreateBlogPost creates a post.
func (c *Client) CreateBlogPost(ctx context.Context, form BlogForm) (*BlogPost, error) {
	var post BlogPost
	if err := c.postJSON(ctx, "/blog", form, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdateBlogPost replaces a post by ID.
func (c *Client) UpdateBlogPost(ctx context.Context, id string, form BlogForm) (*BlogPost, error) {
	var post BlogPost
	if err := c.putJSON(ctx, "/blog/"+url.PathEscape(id), form, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// DeleteBlogPost removes a post by ID.
func (c *Client) DeleteBlogPost(ctx context.Context, id string) error {
	return c.delete(ctx, "/blog/"+url.PathEscape(id))
}
