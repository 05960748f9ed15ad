// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/89tcapl/advisors-web/internal/api"
	"github.com/89tcapl/advisors-web/internal/cache"
)

func newTestResolver(t *testing.T, handler http.Handler) *Resolver {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL, nil)
	require.NoError(t, err)

	c := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })

	return NewResolver(client, c, time.Minute)
}

const homePayload = `{"success":true,"data":{"_id":"p1","page":"home","sections":[
	{"sectionId":"hero","title":"Compliance, handled","subtitle":"","content":"We keep your filings on time.","isActive":true,"order":1},
	{"sectionId":"cta","title":"Outdated offer","isActive":false,"order":2}
]}}`

func TestPageViewValue(t *testing.T) {
	resolver := newTestResolver(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/content/home", r.URL.Path)
		_, _ = w.Write([]byte(homePayload))
	}))

	view := resolver.Page(context.Background(), "home")

	tests := []struct {
		name      string
		sectionID string
		field     string
		def       string
		want      string
	}{
		{"populated field wins", "hero", FieldTitle, "Default title", "Compliance, handled"},
		{"empty field falls back", "hero", FieldSubtitle, "Your trusted partner", "Your trusted partner"},
		{"content field", "hero", FieldContent, "default", "We keep your filings on time."},
		{"missing section falls back", "why-choose-us", FieldTitle, "Why Choose Us", "Why Choose Us"},
		{"inactive section falls back", "cta", FieldTitle, "Ready to get started?", "Ready to get started?"},
		{"unknown field falls back", "hero", "bogus", "fallback", "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := view.Value(tt.sectionID, tt.field, tt.def)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageViewSection(t *testing.T) {
	resolver := newTestResolver(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(homePayload))
	}))

	view := resolver.Page(context.Background(), "home")

	if _, ok := view.Section("hero"); !ok {
		t.Error("active section not found")
	}
	if _, ok := view.Section("cta"); ok {
		t.Error("inactive section should not be visible")
	}
}

func TestPageFallsBackToDefaultsOnAPIFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // API is down

	client, err := api.New(srv.URL, nil)
	require.NoError(t, err)

	c := cache.NewSimpleMemoryCache(time.Minute)
	defer c.Close()

	resolver := NewResolver(client, c, time.Minute)
	view := resolver.Page(context.Background(), "home")

	got := view.Value("hero", FieldTitle, "Your Trusted Partner in Corporate Compliance")
	assert.Equal(t, "Your Trusted Partner in Corporate Compliance", got)
}

func TestPageUsesCache(t *testing.T) {
	requests := 0
	resolver := newTestResolver(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(homePayload))
	}))

	for i := 0; i < 3; i++ {
		resolver.Page(context.Background(), "home")
	}

	assert.Equal(t, 1, requests, "repeated views must be served from cache")
}

func TestInvalidateForcesRefetch(t *testing.T) {
	requests := 0
	resolver := newTestResolver(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(homePayload))
	}))

	ctx := context.Background()
	resolver.Page(ctx, "home")
	resolver.Invalidate(ctx, "home")
	resolver.Page(ctx, "home")

	assert.Equal(t, 2, requests)
}

func TestRefreshWarmsCache(t *testing.T) {
	requests := 0
	resolver := newTestResolver(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(homePayload))
	}))

	ctx := context.Background()
	resolver.Refresh(ctx, "home")
	require.Equal(t, 1, requests)

	// Subsequent views hit the warmed cache.
	view := resolver.Page(ctx, "home")
	assert.Equal(t, 1, requests)
	assert.Equal(t, "Compliance, handled", view.Value("hero", FieldTitle, "default"))
}
