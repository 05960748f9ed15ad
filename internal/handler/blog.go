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

// BlogHandler manages blog posts in the admin area.
type BlogHandler struct {
	client   *api.Client
	sessions *session.Store
	renderer *render.Renderer
	events   *store.Events
}

// NewBlogHandler creates a BlogHandler.
func NewBlogHandler(client *api.Client, sessions *session.Store, renderer *render.Renderer, events *store.Events) *BlogHandler {
	return &BlogHandler{client: client, sessions: sessions, renderer: renderer, events: events}
}

// List renders all posts, drafts included.
func (h *BlogHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.client.ListBlogPosts(r.Context())
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, RouteAdminDashboard)
		return
	}
	renderAdmin(w, r, h.renderer, "admin/blog_list", "Blog Posts", posts, h.crumbs(""))
}

// NewForm renders the create form.
func (h *BlogHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	renderAdmin(w, r, h.renderer, "admin/blog_form", "New Post", &api.BlogPost{Status: api.BlogStatusDraft}, h.crumbs("New Post"))
}

// Create adds a post.
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := h.parseBlogForm(w, r, RouteAdminBlog+RouteSuffixNew)
	if err != nil {
		return
	}
	post, err := h.client.CreateBlogPost(r.Context(), *form)
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, RouteAdminBlog+RouteSuffixNew)
		return
	}
	h.logContentEvent(r, "Blog post created", post.ID, post.Title)
	flashSuccess(w, r, h.renderer, RouteAdminBlog, "Post created")
}

// EditForm renders the edit form for one post.
func (h *BlogHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	post, err := h.client.GetBlogPost(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, RouteAdminBlog)
		return
	}
	renderAdmin(w, r, h.renderer, "admin/blog_form", "Edit Post", post, h.crumbs("Edit Post"))
}

// Update saves changes to a post.
func (h *BlogHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	backURL := RouteAdminBlog + "/" + id + "/edit"
	form, err := h.parseBlogForm(w, r, backURL)
	if err != nil {
		return
	}
	post, err := h.client.UpdateBlogPost(r.Context(), id, *form)
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, backURL)
		return
	}
	h.logContentEvent(r, "Blog post updated", post.ID, post.Title)
	flashSuccess(w, r, h.renderer, RouteAdminBlog, "Post updated")
}

// Delete removes a post.
func (h *BlogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.client.DeleteBlogPost(r.Context(), id); err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, RouteAdminBlog)
		return
	}
	h.logContentEvent(r, "Blog post deleted", id, "")
	flashSuccess(w, r, h.renderer, RouteAdminBlog, "Post deleted")
}

func (h *BlogHandler) parseBlogForm(w http.ResponseWriter, r *http.Request, backURL string) (*api.BlogForm, error) {
	if !parseFormOrRedirect(w, r, h.renderer, backURL) {
		return nil, errAlreadyHandled
	}

	title := strings.TrimSpace(r.FormValue("title"))
	excerpt := strings.TrimSpace(r.FormValue("excerpt"))
	content := r.FormValue("content")
	if err := validateRequired(
		requiredField{"title", title},
		requiredField{"excerpt", excerpt},
		requiredField{"content", content},
	); err != nil {
		flashError(w, r, h.renderer, backURL, err.Error())
		return nil, errAlreadyHandled
	}
	if err := validateExcerpt(excerpt); err != nil {
		flashError(w, r, h.renderer, backURL, err.Error())
		return nil, errAlreadyHandled
	}
	slug, err := validateSlug(r.FormValue("slug"), title)
	if err != nil {
		flashError(w, r, h.renderer, backURL, err.Error())
		return nil, errAlreadyHandled
	}

	status := r.FormValue("status")
	if status != api.BlogStatusPublished {
		status = api.BlogStatusDraft
	}

	return &api.BlogForm{
		Title:         title,
		Slug:          slug,
		Excerpt:       excerpt,
		Content:       content,
		FeaturedImage: strings.TrimSpace(r.FormValue("featured_image")),
		Category:      strings.TrimSpace(r.FormValue("category")),
		Tags:          splitComma(r.FormValue("tags")),
		Status:        status,
	}, nil
}

func (h *BlogHandler) logContentEvent(r *http.Request, message, id, title string) {
	user, _ := h.sessions.User(r.Context())
	if title != "" {
		slog.Info(strings.ToLower(message), "post_id", id, "title", title)
	}
	err := h.events.Create(r.Context(), store.CreateEventParams{
		Level:     store.EventLevelInfo,
		Category:  store.EventCategoryContent,
		Message:   message,
		UserID:    user.ID,
		UserEmail: user.Email,
		IP:        clientIP(r),
		Path:      r.URL.Path,
		Metadata:  `{"post_id":"` + id + `"}`,
	})
	if err != nil {
		slog.Error("writing content event failed", "error", err)
	}
}

func (h *BlogHandler) crumbs(leaf string) []render.Breadcrumb {
	crumbs := []render.Breadcrumb{
		{Label: "Dashboard", URL: RouteAdminDashboard},
		{Label: "Blog", URL: RouteAdminBlog},
	}
	if leaf != "" {
		crumbs = append(crumbs, render.Breadcrumb{Label: leaf, Active: true})
	} else {
		crumbs[len(crumbs)-1].Active = true
	}
	return crumbs
}
