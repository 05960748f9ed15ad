// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import "context"

// SettingsForm is the update payload for the settings singleton. Empty
// fields are omitted so partial updates leave server values untouched.
type SettingsForm struct {
	SiteName        string       `json:"siteName,omitempty"`
	SiteDescription string       `json:"siteDescription,omitempty"`
	ContactEmail    string       `json:"contactEmail,omitempty"`
	ContactPhone    string       `json:"contactPhone,omitempty"`
	Address         string       `json:"address,omitempty"`
	CompanyInfo     *CompanyInfo `json:"companyInfo,omitempty"`
	SocialLinks     *SocialLinks `json:"socialLinks,omitempty"`
	Logo            string       `json:"logo,omitempty"`
	Favicon         string       `json:"favicon,omitempty"`
	OGImage         string       `json:"ogImage,omitempty"`
}

// GetSettings fetches the site settings singleton.
func (c *Client) GetSettings(ctx context.Context) (*Settings, error) {
	var settings Settings
	if err := c.get(ctx, "/settings", nil, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings writes the site settings singleton.
func (c *Client) UpdateSettings(ctx context.Context, form SettingsForm) (*Settings, error) {
	var settings Settings
	if err := c.putJSON(ctx, "/settings", form, &settings); err != nil {
		return nil, err
	}
	return &settings, nil
}
