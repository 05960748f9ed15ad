// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/89tcapl/advisors-web/internal/api"
	"github.com/89tcapl/advisors-web/internal/seo"
)

// SEOHandler serves the crawler endpoints: sitemap.xml and robots.txt.
type SEOHandler struct {
	client      *api.Client
	siteURL     string
	disallowAll bool
}

// NewSEOHandler creates a SEOHandler. disallowAll blocks crawlers
// entirely, for staging deployments.
func NewSEOHandler(client *api.Client, siteURL string, disallowAll bool) *SEOHandler {
	return &SEOHandler{client: client, siteURL: siteURL, disallowAll: disallowAll}
}

// Sitemap renders sitemap.xml from the static pages plus the live
// service and post slugs. API failures degrade to the static entries.
func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	b := seo.NewSitemapBuilder(h.siteURL)
	b.AddHomepage()
	for _, path := range []string{RouteAbout, RouteServices, RouteBlog, RouteContact} {
		b.AddStatic(path)
	}

	if services, err := h.client.ListServices(r.Context()); err != nil {
		slog.Warn("sitemap services fetch failed", "error", err)
	} else {
		for _, s := range activeServices(services) {
			b.AddService(s.Slug, s.UpdatedAt)
		}
	}
	if posts, err := h.client.ListBlogPosts(r.Context()); err != nil {
		slog.Warn("sitemap blog fetch failed", "error", err)
	} else {
		for _, p := range publishedPosts(posts) {
			b.AddPost(p.Slug, p.PublishDate())
		}
	}

	out, err := b.Build()
	if err != nil {
		logAndInternalError(w, "building sitemap failed", "error", err)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	_, _ = w.Write(out)
}

// Robots renders robots.txt.
func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	content := seo.GenerateRobots(seo.RobotsConfig{
		SiteURL:     h.siteURL,
		DisallowAll: h.disallowAll,
	})
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(content))
}
