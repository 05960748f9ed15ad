// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/89tcapl/advisors-web/internal/api"
	"github.com/89tcapl/advisors-web/internal/content"
	"github.com/89tcapl/advisors-web/internal/markdown"
	"github.com/89tcapl/advisors-web/internal/render"
)

// PublicHandler serves the visitor-facing site. Page copy comes from
// the content resolver, which falls back to built-in defaults when the
// API is unreachable, so the public site renders through outages.
type PublicHandler struct {
	client           *api.Client
	resolver         *content.Resolver
	renderer         *render.Renderer
	turnstileSiteKey string
}

// NewPublicHandler creates a PublicHandler.
func NewPublicHandler(client *api.Client, resolver *content.Resolver, renderer *render.Renderer, turnstileSiteKey string) *PublicHandler {
	return &PublicHandler{client: client, resolver: resolver, renderer: renderer, turnstileSiteKey: turnstileSiteKey}
}

// activeServices keeps only displayable services, ordered by their
// admin-assigned position.
func activeServices(services []api.Service) []api.Service {
	var out []api.Service
	for _, s := range services {
		if s.IsActive {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b api.Service) int { return a.Order - b.Order })
	return out
}

// publishedPosts keeps only published posts, newest first.
func publishedPosts(posts []api.BlogPost) []api.BlogPost {
	var out []api.BlogPost
	for _, p := range posts {
		if p.Published() {
			out = append(out, p)
		}
	}
	slices.SortStableFunc(out, func(a, b api.BlogPost) int {
		return b.PublishDate().Compare(a.PublishDate())
	})
	return out
}

type homeData struct {
	Page     content.PageView
	Services []api.Service
	Posts    []api.BlogPost
}

// Home renders the landing page: hero copy plus featured services and
// the latest posts. Either list may be empty on API failure.
func (h *PublicHandler) Home(w http.ResponseWriter, r *http.Request) {
	data := homeData{Page: h.resolver.Page(r.Context(), "home")}

	if services, err := h.client.ListServices(r.Context()); err != nil {
		slog.Warn("home services fetch failed", "error", err)
	} else {
		data.Services = activeServices(services)
		if len(data.Services) > 3 {
			data.Services = data.Services[:3]
		}
	}
	if posts, err := h.client.ListBlogPosts(r.Context()); err != nil {
		slog.Warn("home blog fetch failed", "error", err)
	} else {
		data.Posts = publishedPosts(posts)
		if len(data.Posts) > 3 {
			data.Posts = data.Posts[:3]
		}
	}

	h.render(w, r, "public/home", data.Page.Value("hero", content.FieldTitle, "Your Trusted Partner in Corporate Compliance"), data)
}

// About renders the about page.
func (h *PublicHandler) About(w http.ResponseWriter, r *http.Request) {
	page := h.resolver.Page(r.Context(), "about")
	h.render(w, r, "public/about", page.Value("intro", content.FieldTitle, "About Us"), page)
}

type servicesPageData struct {
	Page     content.PageView
	Services []api.Service
}

// Services renders the service catalogue.
func (h *PublicHandler) Services(w http.ResponseWriter, r *http.Request) {
	data := servicesPageData{Page: h.resolver.Page(r.Context(), "services")}
	if services, err := h.client.ListServices(r.Context()); err != nil {
		slog.Warn("services fetch failed", "error", err)
	} else {
		data.Services = activeServices(services)
	}
	h.render(w, r, "public/services", data.Page.Value("intro", content.FieldTitle, "Our Services"), data)
}

type serviceDetailData struct {
	Service     api.Service
	Description template.HTML
}

// ServiceDetail renders one service by slug. Inactive services 404.
func (h *PublicHandler) ServiceDetail(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	svc, err := h.client.GetServiceBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		h.serviceUnavailable(w, r, err)
		return
	}
	if !svc.IsActive {
		h.NotFound(w, r)
		return
	}
	h.render(w, r, "public/service", svc.Title, serviceDetailData{
		Service:     *svc,
		Description: markdown.RenderOrPlain(svc.Description),
	})
}

// filterByCategory narrows posts to one category. "all" or blank means
// no filter.
func filterByCategory(posts []api.BlogPost, category string) []api.BlogPost {
	if category == "" || category == "all" {
		return posts
	}
	var out []api.BlogPost
	for _, p := range posts {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// postCategories lists the distinct categories of the given posts,
// sorted, for the filter bar.
func postCategories(posts []api.BlogPost) []string {
	var out []string
	for _, p := range posts {
		if p.Category != "" && !slices.Contains(out, p.Category) {
			out = append(out, p.Category)
		}
	}
	slices.Sort(out)
	return out
}

type blogIndexData struct {
	Posts      []api.BlogPost
	Categories []string
	Category   string
}

// Blog renders the public blog index, optionally narrowed by the
// category query parameter.
func (h *PublicHandler) Blog(w http.ResponseWriter, r *http.Request) {
	data := blogIndexData{Category: r.URL.Query().Get("category")}
	if fetched, err := h.client.ListBlogPosts(r.Context()); err != nil {
		slog.Warn("blog fetch failed", "error", err)
	} else {
		published := publishedPosts(fetched)
		data.Categories = postCategories(published)
		data.Posts = filterByCategory(published, data.Category)
	}
	h.render(w, r, "public/blog", "Blog", data)
}

type blogPostData struct {
	Post    api.BlogPost
	Content template.HTML
}

// BlogPost renders one post by slug. Drafts 404 on the public site.
func (h *PublicHandler) BlogPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	post, err := h.client.GetBlogPost(r.Context(), slug)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			h.NotFound(w, r)
			return
		}
		h.serviceUnavailable(w, r, err)
		return
	}
	if !post.Published() {
		h.NotFound(w, r)
		return
	}
	h.render(w, r, "public/post", post.Title, blogPostData{
		Post:    *post,
		Content: markdown.RenderOrPlain(post.Content),
	})
}

type contactPageData struct {
	Page             content.PageView
	Services         []api.Service
	TurnstileSiteKey string
	Form             api.ContactForm
}

// ContactForm renders the contact page with the service interest
// dropdown.
func (h *PublicHandler) ContactForm(w http.ResponseWriter, r *http.Request) {
	data := contactPageData{
		Page:             h.resolver.Page(r.Context(), "contact"),
		TurnstileSiteKey: h.turnstileSiteKey,
	}
	if services, err := h.client.ListServices(r.Context()); err != nil {
		slog.Warn("contact services fetch failed", "error", err)
	} else {
		data.Services = activeServices(services)
	}
	h.render(w, r, "public/contact", data.Page.Value("intro", content.FieldTitle, "Contact Us"), data)
}

// ContactSubmit forwards a contact submission to the API.
func (h *PublicHandler) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteContact) {
		return
	}

	fullName := strings.TrimSpace(r.FormValue("full_name"))
	message := strings.TrimSpace(r.FormValue("message"))
	email, err := validateEmail(r.FormValue("email"))
	if err != nil {
		flashError(w, r, h.renderer, RouteContact, err.Error())
		return
	}
	if err := validateRequired(
		requiredField{"name", fullName},
		requiredField{"message", message},
	); err != nil {
		flashError(w, r, h.renderer, RouteContact, err.Error())
		return
	}

	form := api.ContactForm{
		FullName:        fullName,
		Email:           email,
		Phone:           strings.TrimSpace(r.FormValue("phone")),
		ServiceInterest: strings.TrimSpace(r.FormValue("service_interest")),
		Message:         message,
		TurnstileToken:  r.FormValue("cf-turnstile-response"),
	}
	if err := h.client.SubmitContact(r.Context(), form); err != nil {
		flashError(w, r, h.renderer, RouteContact, err.Error())
		return
	}

	slog.Info("contact submission received", "email", email)
	flashSuccess(w, r, h.renderer, RouteContact, "Thank you for reaching out. We will get back to you shortly.")
}

// NotFound is the public 404 page, also mounted as the router fallback.
func (h *PublicHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	h.render(w, r, "public/404", "Page Not Found", nil)
}

func (h *PublicHandler) serviceUnavailable(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("public page upstream failure", "path", r.URL.Path, "error", err)
	w.WriteHeader(http.StatusServiceUnavailable)
	h.render(w, r, "public/error", "Service Unavailable", err.Error())
}

func (h *PublicHandler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	err := h.renderer.Render(w, r, name, render.TemplateData{Title: title, Data: data})
	if err != nil {
		logAndInternalError(w, "rendering public page failed", "template", name, "error", err)
	}
}
