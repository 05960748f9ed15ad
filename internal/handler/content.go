// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/89tcapl/advisors-web/internal/api"
	"github.com/89tcapl/advisors-web/internal/content"
	"github.com/89tcapl/advisors-web/internal/render"
	"github.com/89tcapl/advisors-web/internal/session"
	"github.com/89tcapl/advisors-web/internal/store"
	"github.com/89tcapl/advisors-web/internal/util"
)

// ContentHandler manages the editable page sections. Every mutation
// invalidates the resolver cache for the page so the public site picks
// the change up on the next request.
type ContentHandler struct {
	client   *api.Client
	sessions *session.Store
	renderer *render.Renderer
	resolver *content.Resolver
	events   *store.Events
}

// NewContentHandler creates a ContentHandler.
func NewContentHandler(client *api.Client, sessions *session.Store, renderer *render.Renderer, resolver *content.Resolver, events *store.Events) *ContentHandler {
	return &ContentHandler{client: client, sessions: sessions, renderer: renderer, resolver: resolver, events: events}
}

// Pages renders the list of editable pages.
func (h *ContentHandler) Pages(w http.ResponseWriter, r *http.Request) {
	renderAdmin(w, r, h.renderer, "admin/content_pages", "Page Content", ContentPages, h.crumbs("", ""))
}

type sectionsData struct {
	Page     string
	Sections []api.Section
}

// Sections renders all sections of one page, inactive ones included.
func (h *ContentHandler) Sections(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}
	pc, err := h.client.GetPageContent(r.Context(), page)
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, RouteAdminContent)
		return
	}
	sections := slices.Clone(pc.Sections)
	slices.SortStableFunc(sections, func(a, b api.Section) int { return a.Order - b.Order })
	renderAdmin(w, r, h.renderer, "admin/content_sections", "Sections: "+page,
		sectionsData{Page: page, Sections: sections}, h.crumbs(page, ""))
}

type sectionFormData struct {
	Page    string
	Section api.Section
	IsNew   bool
}

// NewSectionForm renders the create form.
func (h *ContentHandler) NewSectionForm(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}
	renderAdmin(w, r, h.renderer, "admin/content_section_form", "New Section",
		sectionFormData{Page: page, Section: api.Section{IsActive: true}, IsNew: true}, h.crumbs(page, "New Section"))
}

// CreateSection adds a section to a page.
func (h *ContentHandler) CreateSection(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}
	backURL := RouteAdminContent + "/" + page + "/sections/new"
	form, err := h.parseSectionForm(w, r, backURL, "")
	if err != nil {
		return
	}
	if _, err := h.client.CreateSection(r.Context(), page, *form); err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, backURL)
		return
	}
	h.afterMutation(r, page, form.SectionID, "Section created")
	flashSuccess(w, r, h.renderer, RouteAdminContent+"/"+page, "Section created")
}

// EditSectionForm renders the edit form for one section.
func (h *ContentHandler) EditSectionForm(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}
	sectionID := chi.URLParam(r, "sectionID")
	pc, err := h.client.GetPageContent(r.Context(), page)
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, RouteAdminContent+"/"+page)
		return
	}
	for _, s := range pc.Sections {
		if s.SectionID == sectionID {
			renderAdmin(w, r, h.renderer, "admin/content_section_form", "Edit Section",
				sectionFormData{Page: page, Section: s}, h.crumbs(page, "Edit Section"))
			return
		}
	}
	flashError(w, r, h.renderer, RouteAdminContent+"/"+page, "Section not found")
}

// UpdateSection saves changes to a section.
func (h *ContentHandler) UpdateSection(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}
	sectionID := chi.URLParam(r, "sectionID")
	backURL := RouteAdminContent + "/" + page + "/sections/" + sectionID
	form, err := h.parseSectionForm(w, r, backURL, sectionID)
	if err != nil {
		return
	}
	if _, err := h.client.UpdateSection(r.Context(), page, sectionID, *form); err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, backURL)
		return
	}
	h.afterMutation(r, page, sectionID, "Section updated")
	flashSuccess(w, r, h.renderer, RouteAdminContent+"/"+page, "Section updated")
}

// DeleteSection removes a section.
func (h *ContentHandler) DeleteSection(w http.ResponseWriter, r *http.Request) {
	page, ok := h.page(w, r)
	if !ok {
		return
	}
	sectionID := chi.URLParam(r, "sectionID")
	if err := h.client.DeleteSection(r.Context(), page, sectionID); err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, RouteAdminContent+"/"+page)
		return
	}
	h.afterMutation(r, page, sectionID, "Section deleted")
	flashSuccess(w, r, h.renderer, RouteAdminContent+"/"+page, "Section deleted")
}

// page validates the {page} route parameter against the editable set.
func (h *ContentHandler) page(w http.ResponseWriter, r *http.Request) (string, bool) {
	page := chi.URLParam(r, "page")
	if !slices.Contains(ContentPages, page) {
		flashError(w, r, h.renderer, RouteAdminContent, "Unknown page "+page)
		return "", false
	}
	return page, true
}

func (h *ContentHandler) parseSectionForm(w http.ResponseWriter, r *http.Request, backURL, sectionID string) (*api.SectionForm, error) {
	if !parseFormOrRedirect(w, r, h.renderer, backURL) {
		return nil, errAlreadyHandled
	}

	if sectionID == "" {
		sectionID = strings.TrimSpace(r.FormValue("section_id"))
		if !util.IsValidSlug(sectionID) {
			flashError(w, r, h.renderer, backURL, "Section ID must contain only lowercase letters, digits and hyphens")
			return nil, errAlreadyHandled
		}
	}

	return &api.SectionForm{
		SectionID:  sectionID,
		Title:      strings.TrimSpace(r.FormValue("title")),
		Subtitle:   strings.TrimSpace(r.FormValue("subtitle")),
		Content:    r.FormValue("content"),
		ButtonText: strings.TrimSpace(r.FormValue("button_text")),
		ButtonLink: strings.TrimSpace(r.FormValue("button_link")),
		ImageURL:   strings.TrimSpace(r.FormValue("image_url")),
		Order:      formInt(r, "order", 0),
		IsActive:   formBool(r, "is_active"),
	}, nil
}

func (h *ContentHandler) afterMutation(r *http.Request, page, sectionID, message string) {
	h.resolver.Invalidate(r.Context(), page)

	user, _ := h.sessions.User(r.Context())
	err := h.events.Create(r.Context(), store.CreateEventParams{
		Level:     store.EventLevelInfo,
		Category:  store.EventCategoryContent,
		Message:   message,
		UserID:    user.ID,
		UserEmail: user.Email,
		IP:        clientIP(r),
		Path:      r.URL.Path,
		Metadata:  `{"page":"` + page + `","section_id":"` + sectionID + `"}`,
	})
	if err != nil {
		slog.Error("writing content event failed", "error", err)
	}
}

func (h *ContentHandler) crumbs(page, leaf string) []render.Breadcrumb {
	crumbs := []render.Breadcrumb{
		{Label: "Dashboard", URL: RouteAdminDashboard},
		{Label: "Page Content", URL: RouteAdminContent},
	}
	if page != "" {
		crumbs = append(crumbs, render.Breadcrumb{Label: page, URL: RouteAdminContent + "/" + page})
	}
	if leaf != "" {
		crumbs = append(crumbs, render.Breadcrumb{Label: leaf, Active: true})
	} else {
		crumbs[len(crumbs)-1].Active = true
	}
	return crumbs
}
