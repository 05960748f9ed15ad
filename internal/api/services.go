// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/url"
)

// ServiceForm is the create/update payload for a service.
type ServiceForm struct {
	Title            string   `json:"title"`
	Slug             string   `json:"slug,omitempty"`
	ShortDescription string   `json:"shortDescription"`
	Description      string   `json:"description"`
	Image            string   `json:"image,omitempty"`
	Features         []string `json:"features"`
	IsActive         bool     `json:"isActive"`
	Order            int      `json:"order"`
}

// ListServices fetches all services, active and inactive.
func (c *Client) ListServices(ctx context.Context) ([]Service, error) {
	var services []Service
	if err := c.get(ctx, "/services", nil, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// GetServiceBySlug fetches one service by its public slug.
func (c *Client) GetServiceBySlug(ctx context.Context, slug string) (*Service, error) {
	var service Service
	if err := c.get(ctx, "/services/"+url.PathEscape(slug), nil, &service); err != nil {
		return nil, err
	}
	return &service, nil
}

// CreateService creates a service.
func (c *Client) CreateService(ctx context.Context, form ServiceForm) (*Service, error) {
	var service Service
	if err := c.postJSON(ctx, "/services", form, &service); err != nil {
		return nil, err
	}
	return &service, nil
}

// UpdateService replaces a service by ID.
func (c *Client) UpdateService(ctx context.Context, id string, form ServiceForm) (*Service, error) {
	var service Service
	if err := c.putJSON(ctx, "/services/"+url.PathEscape(id), form, &service); err != nil {
		return nil, err
	}
	return &service, nil
}

// DeleteService removes a service by ID.
func (c *Client) DeleteService(ctx context.Context, id string) error {
	return c.delete(ctx, "/services/"+url.PathEscape(id))
}
