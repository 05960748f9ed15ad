// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/89tcapl/advisors-web/internal/api"
	"github.com/89tcapl/advisors-web/internal/render"
	"github.com/89tcapl/advisors-web/internal/session"
	"github.com/89tcapl/advisors-web/internal/store"
)

// DashboardHandler serves the admin landing page.
type DashboardHandler struct {
	client   *api.Client
	sessions *session.Store
	renderer *render.Renderer
	events   *store.Events
}

// NewDashboardHandler creates a DashboardHandler.
func NewDashboardHandler(client *api.Client, sessions *session.Store, renderer *render.Renderer, events *store.Events) *DashboardHandler {
	return &DashboardHandler{client: client, sessions: sessions, renderer: renderer, events: events}
}

type dashboardData struct {
	ServiceCount   int
	ActiveServices int
	PostCount      int
	PublishedPosts int
	Inbox          api.InboxStats
	RecentEvents   []store.Event
}

// Dashboard renders the overview page. Individual stat fetches may fail
// without taking the page down; a 401 on any of them still signs the
// session out.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	var data dashboardData

	services, err := h.client.ListServices(r.Context())
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			handleAPIError(w, r, h.renderer, h.sessions, err, RouteAdminDashboard)
			return
		}
		slog.Warn("dashboard services fetch failed", "error", err)
	}
	data.ServiceCount = len(services)
	for _, s := range services {
		if s.IsActive {
			data.ActiveServices++
		}
	}

	posts, err := h.client.ListBlogPosts(r.Context())
	if err != nil {
		slog.Warn("dashboard blog fetch failed", "error", err)
	}
	data.PostCount = len(posts)
	for _, p := range posts {
		if p.Published() {
			data.PublishedPosts++
		}
	}

	if stats, err := h.client.ContactStats(r.Context()); err != nil {
		slog.Warn("dashboard inbox stats fetch failed", "error", err)
	} else {
		data.Inbox = *stats
	}

	if recent, err := h.events.List(r.Context(), store.EventFilter{Limit: 10}); err != nil {
		slog.Warn("dashboard event list failed", "error", err)
	} else {
		data.RecentEvents = recent
	}

	renderAdmin(w, r, h.renderer, "admin/dashboard", "Dashboard", data, nil)
}

// Events renders the local audit log with level/category filters.
func (h *DashboardHandler) Events(w http.ResponseWriter, r *http.Request) {
	filter := store.EventFilter{
		Level:    r.URL.Query().Get("level"),
		Category: r.URL.Query().Get("category"),
		Limit:    50,
	}
	events, err := h.events.List(r.Context(), filter)
	if err != nil {
		logAndInternalError(w, "listing events failed", "error", err)
		return
	}
	total, err := h.events.Count(r.Context(), filter)
	if err != nil {
		logAndInternalError(w, "counting events failed", "error", err)
		return
	}

	renderAdmin(w, r, h.renderer, "admin/events", "Event Log", struct {
		Events []store.Event
		Total  int64
		Filter store.EventFilter
	}{events, total, filter}, []render.Breadcrumb{
		{Label: "Dashboard", URL: RouteAdminDashboard},
		{Label: "Event Log", Active: true},
	})
}
