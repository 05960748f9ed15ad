// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/url"
)

// GetPageContent fetches the editable sections for one public page.
func (c *Client) GetPageContent(ctx context.Context, page string) (*PageContent, error) {
	var content PageContent
	if err := c.get(ctx, "/content/"+url.PathEscape(page), nil, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// SectionForm is the create/update payload for a page section.
type SectionForm struct {
	SectionID  string `json:"sectionId"`
	Title      string `json:"title,omitempty"`
	Subtitle   string `json:"subtitle,omitempty"`
	Content    string `json:"content,omitempty"`
	ButtonText string `json:"buttonText,omitempty"`
	ButtonLink string `json:"buttonLink,omitempty"`
	ImageURL   string `json:"imageUrl,omitempty"`
	Order      int    `json:"order"`
	IsActive   bool   `json:"isActive"`
}

// CreateSection adds a section to a page.
func (c *Client) CreateSection(ctx context.Context, page string, form SectionForm) (*PageContent, error) {
	var content PageContent
	if err := c.postJSON(ctx, "/content/"+url.PathEscape(page)+"/sections", form, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// UpdateSection replaces a section identified by its sectionId.
func (c *Client) UpdateSection(ctx context.Context, page, sectionID string, form SectionForm) (*PageContent, error) {
	var content PageContent
	endpoint := "/content/" + url.PathEscape(page) + "/sections/" + url.PathEscape(sectionID)
	if err := c.putJSON(ctx, endpoint, form, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// DeleteSection removes a section from a page.
func (c *Client) DeleteSection(ctx context.Context, page, sectionID string) error {
	return c.delete(ctx, "/content/"+url.PathEscape(page)+"/sections/"+url.PathEscape(sectionID))
}
