// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/url"
)

// UserForm is the create/update payload for a user account.
type UserForm struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// ListUsers fetches all admin accounts.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.get(ctx, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser creates an admin account directly.
func (c *Client) CreateUser(ctx context.Context, form UserForm) (*User, error) {
	var user User
	if err := c.postJSON(ctx, "/users", form, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser replaces an account by ID.
func (c *Client) UpdateUser(ctx context.Context, id string, form UserForm) (*User, error) {
	var user User
	if err := c.putJSON(ctx, "/users/"+url.PathEscape(id), form, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes an account by ID.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.delete(ctx, "/users/"+url.PathEscape(id))
}

// InviteUser sends an invitation email to a new admin.
func (c *Client) InviteUser(ctx context.Context, name, email, role string) error {
	payload := map[string]string{"name": name, "email": email, "role": role}
	return c.postJSON(ctx, "/invitation/invite", payload, nil)
}

// Invitation is the pending-invite record behind a verification token.
type Invitation struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// VerifyInvitation checks an invitation token and returns the invite it
// belongs to.
func (c *Client) VerifyInvitation(ctx context.Context, token string) (*Invitation, error) {
	var invitation Invitation
	if err := c.get(ctx, "/invitation/verify/"+url.PathEscape(token), nil, &invitation); err != nil {
		return nil, err
	}
	return &invitation, nil
}

// CompleteInvitation sets the invited user's password and activates the
// account, returning a logged-in session.
func (c *Client) CompleteInvitation(ctx context.Context, token, password string) (*AuthResult, error) {
	payload := map[string]string{"password": password}
	var result AuthResult
	if err := c.postJSON(ctx, "/invitation/setup/"+url.PathEscape(token), payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
