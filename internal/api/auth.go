// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import "context"

// LoginRequest is the credentials payload for Login.
type LoginRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	TurnstileToken string `json:"turnstileToken,omitempty"`
}

// Login exchanges credentials for a user and bearer token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	var result AuthResult
	if err := c.postJSON(ctx, "/auth/login", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetupRequest is the payload for the one-time super-admin bootstrap.
type SetupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SetupSuperAdmin creates the initial super-admin account. The server
// rejects the call once a super-admin exists.
func (c *Client) SetupSuperAdmin(ctx context.Context, req SetupRequest) (*AuthResult, error) {
	var result AuthResult
	if err := c.postJSON(ctx, "/auth/setup", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SetupRequired reports whether the one-time bootstrap is still open.
func (c *Client) SetupRequired(ctx context.Context) (bool, error) {
	var data struct {
		SetupRequired bool `json:"setupRequired"`
	}
	if err := c.get(ctx, "/auth/setup-status", nil, &data); err != nil {
		return false, err
	}
	return data.SetupRequired, nil
}

// Me validates the current token and returns the fresh user record.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.get(ctx, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RequestPasswordReset asks the API to email a one-time reset code.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	payload := struct {
		Email string `json:"email"`
	}{Email: email}
	return c.postJSON(ctx, "/auth/forgot-password", payload, nil)
}

// ResetPasswordRequest is the OTP-based password reset payload.
type ResetPasswordRequest struct {
	Email    string `json:"email"`
	OTP      string `json:"otp"`
	Password string `json:"password"`
}

// ResetPassword completes an OTP password reset.
func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	return c.postJSON(ctx, "/auth/reset-password", req, nil)
}
