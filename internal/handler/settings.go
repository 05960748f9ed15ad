// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/89tcapl/advisors-web/internal/api"
	"github.com/89tcapl/advisors-web/internal/cache"
	"github.com/89tcapl/advisors-web/internal/render"
	"github.com/89tcapl/advisors-web/internal/session"
	"github.com/89tcapl/advisors-web/internal/store"
)

// SiteSettingsCacheKey is where the layout-level site settings live in
// the cache. Updates here must invalidate it so the chrome refreshes.
const SiteSettingsCacheKey = "site:settings"

// SettingsHandler manages the site settings singleton.
type SettingsHandler struct {
	client    *api.Client
	sessions  *session.Store
	renderer  *render.Renderer
	events    *store.Events
	siteCache *cache.TypedCache[api.Settings]
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(client *api.Client, sessions *session.Store, renderer *render.Renderer, events *store.Events, siteCache *cache.TypedCache[api.Settings]) *SettingsHandler {
	return &SettingsHandler{client: client, sessions: sessions, renderer: renderer, events: events, siteCache: siteCache}
}

// Form renders the settings page.
func (h *SettingsHandler) Form(w http.ResponseWriter, r *http.Request) {
	settings, err := h.client.GetSettings(r.Context())
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, RouteAdminDashboard)
		return
	}
	renderAdmin(w, r, h.renderer, "admin/settings", "Site Settings", settings, []render.Breadcrumb{
		{Label: "Dashboard", URL: RouteAdminDashboard},
		{Label: "Settings", Active: true},
	})
}

// Update saves the settings form.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteAdminSettings) {
		return
	}

	siteName := strings.TrimSpace(r.FormValue("site_name"))
	if siteName == "" {
		flashError(w, r, h.renderer, RouteAdminSettings, "Site name is required")
		return
	}
	email, err := validateEmail(r.FormValue("contact_email"))
	if err != nil {
		flashError(w, r, h.renderer, RouteAdminSettings, err.Error())
		return
	}

	form := api.SettingsForm{
		SiteName:        siteName,
		SiteDescription: strings.TrimSpace(r.FormValue("site_description")),
		ContactEmail:    email,
		ContactPhone:    strings.TrimSpace(r.FormValue("contact_phone")),
		Address:         strings.TrimSpace(r.FormValue("address")),
		CompanyInfo: &api.CompanyInfo{
			CIN:               strings.TrimSpace(r.FormValue("cin")),
			IncorporationDate: strings.TrimSpace(r.FormValue("incorporation_date")),
			Status:            strings.TrimSpace(r.FormValue("company_status")),
		},
		SocialLinks: &api.SocialLinks{
			Facebook:  strings.TrimSpace(r.FormValue("facebook")),
			Twitter:   strings.TrimSpace(r.FormValue("twitter")),
			LinkedIn:  strings.TrimSpace(r.FormValue("linkedin")),
			Instagram: strings.TrimSpace(r.FormValue("instagram")),
		},
		Logo:    strings.TrimSpace(r.FormValue("logo")),
		Favicon: strings.TrimSpace(r.FormValue("favicon")),
		OGImage: strings.TrimSpace(r.FormValue("og_image")),
	}

	if _, err := h.client.UpdateSettings(r.Context(), form); err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, RouteAdminSettings)
		return
	}
	if h.siteCache != nil {
		if err := h.siteCache.Delete(r.Context(), SiteSettingsCacheKey); err != nil {
			slog.Warn("invalidating site settings cache failed", "error", err)
		}
	}

	user, _ := h.sessions.User(r.Context())
	err = h.events.Create(r.Context(), store.CreateEventParams{
		Level:     store.EventLevelInfo,
		Category:  store.EventCategoryConfig,
		Message:   "Site settings updated",
		UserID:    user.ID,
		UserEmail: user.Email,
		IP:        clientIP(r),
		Path:      r.URL.Path,
	})
	if err != nil {
		slog.Error("writing config event failed", "error", err)
	}

	flashSuccess(w, r, h.renderer, RouteAdminSettings, "Settings saved")
}
