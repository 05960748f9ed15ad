// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/89tcapl/advisors-web/internal/api"
	"github.com/89tcapl/advisors-web/internal/render"
	"github.com/89tcapl/advisors-web/internal/session"
)

// contactStatuses lists the workflow states the inbox UI offers.
var contactStatuses = []string{
	api.ContactStatusNew,
	api.ContactStatusRead,
	api.ContactStatusReplied,
	api.ContactStatusArchived,
}

// InboxHandler manages contact-form submissions.
type InboxHandler struct {
	client   *api.Client
	sessions *session.Store
	renderer *render.Renderer
}

// NewInboxHandler creates an InboxHandler.
func NewInboxHandler(client *api.Client, sessions *session.Store, renderer *render.Renderer) *InboxHandler {
	return &InboxHandler{client: client, sessions: sessions, renderer: renderer}
}

type inboxData struct {
	Contacts []api.Contact
	Stats    api.InboxStats
	Statuses []string
	Filter   api.InboxFilter
}

// List renders the inbox with status and search filters.
func (h *InboxHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := api.InboxFilter{
		Status: r.URL.Query().Get("status"),
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
	}
	if filter.Status != "" && !slices.Contains(contactStatuses, filter.Status) {
		filter.Status = ""
	}

	contacts, err := h.client.Inbox(r.Context(), filter)
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, RouteAdminDashboard)
		return
	}
	stats, err := h.client.ContactStats(r.Context())
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, RouteAdminDashboard)
		return
	}

	renderAdmin(w, r, h.renderer, "admin/inbox", "Inbox", inboxData{
		Contacts: contacts,
		Stats:    *stats,
		Statuses: contactStatuses,
		Filter:   filter,
	}, []render.Breadcrumb{
		{Label: "Dashboard", URL: RouteAdminDashboard},
		{Label: "Inbox", Active: true},
	})
}

// Update changes the status or notes of a submission.
func (h *InboxHandler) Update(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteAdminInbox) {
		return
	}
	id := chi.URLParam(r, "id")

	update := api.ContactUpdate{
		Status: r.FormValue("status"),
		Notes:  r.FormValue("notes"),
	}
	if update.Status != "" && !slices.Contains(contactStatuses, update.Status) {
		flashError(w, r, h.renderer, RouteAdminInbox, "Unknown status "+update.Status)
		return
	}

	if _, err := h.client.UpdateContact(r.Context(), id, update); err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, RouteAdminInbox)
		return
	}
	flashSuccess(w, r, h.renderer, RouteAdminInbox, "Message updated")
}

// Delete removes a submission.
func (h *InboxHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.client.DeleteContact(r.Context(), id); err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, RouteAdminInbox)
		return
	}
	flashSuccess(w, r, h.renderer, RouteAdminInbox, "Message deleted")
}
