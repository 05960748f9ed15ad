// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/89tcapl/advisors-web/internal/api"
	"github.com/89tcapl/advisors-web/internal/render"
	"github.com/89tcapl/advisors-web/internal/session"
	"github.com/89tcapl/advisors-web/internal/store"
)

// ServicesHandler manages advisory services in the admin area.
type ServicesHandler struct {
	client   *api.Client
	sessions *session.Store
	renderer *render.Renderer
	events   *store.Events
}

// NewServicesHandler creates a ServicesHandler.
func NewServicesHandler(client *api.Client, sessions *session.Store, renderer *render.Renderer, events *store.Events) *ServicesHandler {
	return &ServicesHandler{client: client, sessions: sessions, renderer: renderer, events: events}
}

// List renders all services, inactive ones included.
func (h *ServicesHandler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.client.ListServices(r.Context())
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, RouteAdminDashboard)
		return
	}
	renderAdmin(w, r, h.renderer, "admin/services_list", "Services", services, h.crumbs(""))
}

// NewForm renders the create form.
func (h *ServicesHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	renderAdmin(w, r, h.renderer, "admin/services_form", "New Service", &api.Service{IsActive: true}, h.crumbs("New Service"))
}

// Create adds a service.
func (h *ServicesHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := h.parseServiceForm(w, r, RouteAdminServices+RouteSuffixNew)
	if err != nil {
		return
	}
	svc, err := h.client.CreateService(r.Context(), *form)
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, RouteAdminServices+RouteSuffixNew)
		return
	}
	h.logContentEvent(r, "Service created", svc.ID, svc.Title)
	flashSuccess(w, r, h.renderer, RouteAdminServices, "Service created")
}

// EditForm renders the edit form for one service.
func (h *ServicesHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	svc, ok := h.find(w, r)
	if !ok {
		return
	}
	renderAdmin(w, r, h.renderer, "admin/services_form", "Edit Service", svc, h.crumbs("Edit Service"))
}

// Update saves changes to a service.
func (h *ServicesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	backURL := RouteAdminServices + "/" + id + "/edit"
	form, err := h.parseServiceForm(w, r, backURL)
	if err != nil {
		return
	}
	svc, err := h.client.UpdateService(r.Context(), id, *form)
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, backURL)
		return
	}
	h.logContentEvent(r, "Service updated", svc.ID, svc.Title)
	flashSuccess(w, r, h.renderer, RouteAdminServices, "Service updated")
}

// Delete removes a service.
func (h *ServicesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.client.DeleteService(r.Context(), id); err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, RouteAdminServices)
		return
	}
	h.logContentEvent(r, "Service deleted", id, "")
	flashSuccess(w, r, h.renderer, RouteAdminServices, "Service deleted")
}

// find resolves the {id} route parameter to a service using the list
// endpoint; the API has no fetch-by-ID for services.
func (h *ServicesHandler) find(w http.ResponseWriter, r *http.Request) (*api.Service, bool) {
	id := chi.URLParam(r, "id")
	services, err := h.client.ListServices(r.Context())
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, RouteAdminServices)
		return nil, false
	}
	for i := range services {
		if services[i].ID == id {
			return &services[i], true
		}
	}
	flashError(w, r, h.renderer, RouteAdminServices, "Service not found")
	return nil, false
}

func (h *ServicesHandler) parseServiceForm(w http.ResponseWriter, r *http.Request, backURL string) (*api.ServiceForm, error) {
	if !parseFormOrRedirect(w, r, h.renderer, backURL) {
		return nil, errAlreadyHandled
	}

	title := strings.TrimSpace(r.FormValue("title"))
	short := strings.TrimSpace(r.FormValue("short_description"))
	if err := validateRequired(
		requiredField{"title", title},
		requiredField{"short description", short},
	); err != nil {
		flashError(w, r, h.renderer, backURL, err.Error())
		return nil, errAlreadyHandled
	}
	slug, err := validateSlug(r.FormValue("slug"), title)
	if err != nil {
		flashError(w, r, h.renderer, backURL, err.Error())
		return nil, errAlreadyHandled
	}

	return &api.ServiceForm{
		Title:            title,
		Slug:             slug,
		ShortDescription: short,
		Description:      r.FormValue("description"),
		Image:            strings.TrimSpace(r.FormValue("image")),
		Features:         splitLines(r.FormValue("features")),
		IsActive:         formBool(r, "is_active"),
		Order:            formInt(r, "order", 0),
	}, nil
}

func (h *ServicesHandler) logContentEvent(r *http.Request, message, id, title string) {
	user, _ := h.sessions.User(r.Context())
	metadata := `{"service_id":"` + id + `"}`
	if title != "" {
		slog.Info(strings.ToLower(message), "service_id", id, "title", title)
	}
	err := h.events.Create(r.Context(), store.CreateEventParams{
		Level:     store.EventLevelInfo,
		Category:  store.EventCategoryContent,
		Message:   message,
		UserID:    user.ID,
		UserEmail: user.Email,
		IP:        clientIP(r),
		Path:      r.URL.Path,
		Metadata:  metadata,
	})
	if err != nil {
		slog.Error("writing content event failed", "error", err)
	}
}

func (h *ServicesHandler) crumbs(leaf string) []render.Breadcrumb {
	crumbs := []render.Breadcrumb{
		{Label: "Dashboard", URL: RouteAdminDashboard},
		{Label: "Services", URL: RouteAdminServices},
	}
	if leaf != "" {
		crumbs = append(crumbs, render.Breadcrumb{Label: leaf, Active: true})
	} else {
		crumbs[len(crumbs)-1].Active = true
	}
	return crumbs
}
