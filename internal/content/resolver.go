// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content resolves editable page copy from the content API.
// Every lookup carries a default so public pages render complete even
// when the API is unreachable or a section has been switched off.
package content

import (
	"context"
	"log/slog"
	"time"

	"github.com/89tcapl/advisors-web/internal/api"
	"github.com/89tcapl/advisors-web/internal/cache"
)

// Section field names accepted by PageView.Value.
const (
	FieldTitle      = "title"
	FieldSubtitle   = "subtitle"
	FieldContent    = "content"
	FieldButtonText = "buttonText"
	FieldButtonLink = "buttonLink"
	FieldImageURL   = "imageUrl"
)

// Resolver fetches page content through a cache so repeated page views
// do not hammer the API.
type Resolver struct {
	client *api.Client
	pages  *cache.TypedCache[api.PageContent]
}

// NewResolver creates a resolver backed by the given cache.
func NewResolver(client *api.Client, cacher cache.Cacher, ttl time.Duration) *Resolver {
	return &Resolver{
		client: client,
		pages:  cache.NewTypedCache[api.PageContent](cacher, ttl),
	}
}

func pageKey(name string) string { return "page:" + name }

// Page returns the view for one public page. It never fails: when the
// API call errors and nothing is cached, an empty view is returned and
// every Value lookup falls back to its default.
func (r *Resolver) Page(ctx context.Context, name string) PageView {
	pc, err := r.pages.GetOrSet(ctx, pageKey(name), func() (*api.PageContent, error) {
		return r.client.GetPageContent(ctx, name)
	})
	if err != nil {
		slog.Warn("page content unavailable, using defaults", "page", name, "error", err)
		return PageView{name: name}
	}
	return newPageView(name, pc.Sections)
}

// Invalidate drops the cached copy of one page, e.g. after an admin
// edited its sections.
func (r *Resolver) Invalidate(ctx context.Context, name string) {
	_ = r.pages.Delete(ctx, pageKey(name))
}

// Refresh re-fetches the given pages and replaces their cached copies.
// Used by the scheduler to keep content warm.
func (r *Resolver) Refresh(ctx context.Context, names ...string) {
	for _, name := range names {
		pc, err := r.client.GetPageContent(ctx, name)
		if err != nil {
			slog.Warn("content refresh failed", "page", name, "error", err)
			continue
		}
		if err := r.pages.Set(ctx, pageKey(name), pc); err != nil {
			slog.Warn("content refresh cache write failed", "page", name, "error", err)
		}
	}
}

// PageView is a read-only snapshot of one page's sections. Inactive
// sections are filtered out at construction, so lookups against them
// fall through to the defaults.
type PageView struct {
	name     string
	sections map[string]api.Section
}

func newPageView(name string, sections []api.Section) PageView {
	active := make(map[string]api.Section, len(sections))
	for _, s := range sections {
		if s.IsActive {
			active[s.SectionID] = s
		}
	}
	return PageView{name: name, sections: active}
}

// Name returns the page this view belongs to.
func (v PageView) Name() string { return v.name }

// Section returns an active section by ID.
func (v PageView) Section(sectionID string) (api.Section, bool) {
	s, ok := v.sections[sectionID]
	return s, ok
}

// Value resolves one field of a section, falling back to def when the
// section is missing, inactive, or the field is empty.
func (v PageView) Value(sectionID, field, def string) string {
	s, ok := v.sections[sectionID]
	if !ok {
		return def
	}

	var value string
	switch field {
	case FieldTitle:
		value = s.Title
	case FieldSubtitle:
		value = s.Subtitle
	case FieldContent:
		value = s.Content
	case FieldButtonText:
		value = s.ButtonText
	case FieldButtonLink:
		value = s.ButtonLink
	case FieldImageURL:
		value = s.ImageURL
	}

	if value == "" {
		return def
	}
	return value
}
