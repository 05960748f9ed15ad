// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/url"
)

// SubmitContact sends a public contact-form submission.
func (c *Client) SubmitContact(ctx context.Context, form ContactForm) error {
	return c.postJSON(ctx, "/contact", form, nil)
}

// ContactStats fetches the inbox status counters.
func (c *Client) ContactStats(ctx context.Context) (*InboxStats, error) {
	var stats InboxStats
	if err := c.get(ctx, "/contact/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// InboxFilter narrows the inbox listing. Zero values mean no filtering.
type InboxFilter struct {
	Status string
	Search string
}

// Inbox fetches contact submissions, optionally filtered by status and
// a free-text search term.
func (c *Client) Inbox(ctx context.Context, filter InboxFilter) ([]Contact, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	var contacts []Contact
	if err := c.get(ctx, "/contact/inbox", query, &contacts); err != nil {
		return nil, err
	}
	return contacts, nil
}

// ContactUpdate mutates the admin-owned fields of a submission.
type ContactUpdate struct {
	Status string `json:"status,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// UpdateContact changes the status or notes of a submission.
func (c *Client) UpdateContact(ctx context.Context, id string, update ContactUpdate) (*Contact, error) {
	var contact Contact
	if err := c.putJSON(ctx, "/contact/"+url.PathEscape(id), update, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// DeleteContact removes a submission by ID.
func (c *Client) DeleteContact(ctx context.Context, id string) error {
	return c.delete(ctx, "/contact/"+url.PathEscape(id))
}
