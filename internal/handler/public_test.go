// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"testing"
	"time"

	"github.com/89tcapl/advisors-web/internal/api"
)

func TestActiveServices(t *testing.T) {
	services := []api.Service{
		{ID: "3", Title: "Third", IsActive: true, Order: 3},
		{ID: "x", Title: "Hidden", IsActive: false, Order: 0},
		{ID: "1", Title: "First", IsActive: true, Order: 1},
		{ID: "2", Title: "Second", IsActive: true, Order: 2},
	}

	got := activeServices(services)
	if len(got) != 3 {
		t.Fatalf("got %d services, want 3", len(got))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if got[i].Title != want {
			t.Errorf("position %d = %q, want %q", i, got[i].Title, want)
		}
	}
	for _, s := range got {
		if !s.IsActive {
			t.Errorf("inactive service %q leaked into public list", s.Title)
		}
	}
}

func TestActiveServicesEmpty(t *testing.T) {
	if got := activeServices(nil); len(got) != 0 {
		t.Errorf("got %d services from nil input, want 0", len(got))
	}
	all := []api.Service{{Title: "Hidden", IsActive: false}}
	if got := activeServices(all); len(got) != 0 {
		t.Errorf("got %d services from all-inactive input, want 0", len(got))
	}
}

func TestPublishedPosts(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
	}
	older := day(1)
	newer := day(20)
	created := day(10)

	posts := []api.BlogPost{
		{ID: "a", Title: "Older", Status: api.BlogStatusPublished, PublishedAt: &older},
		{ID: "b", Title: "Draft", Status: api.BlogStatusDraft, PublishedAt: &newer},
		{ID: "c", Title: "Newer", Status: api.BlogStatusPublished, PublishedAt: &newer},
		// No publishedAt: createdAt decides the position.
		{ID: "d", Title: "Middle", Status: api.BlogStatusPublished, CreatedAt: created},
	}

	got := publishedPosts(posts)
	if len(got) != 3 {
		t.Fatalf("got %d posts, want 3", len(got))
	}
	for i, want := range []string{"Newer", "Middle", "Older"} {
		if got[i].Title != want {
			t.Errorf("position %d = %q, want %q", i, got[i].Title, want)
		}
	}
	for _, p := range got {
		if !p.Published() {
			t.Errorf("draft %q leaked into public list", p.Title)
		}
	}
}

func TestFilterByCategory(t *testing.T) {
	posts := []api.BlogPost{
		{ID: "a", Category: "Compliance"},
		{ID: "b", Category: "Tax"},
		{ID: "c", Category: "Compliance"},
		{ID: "d"},
	}

	if got := filterByCategory(posts, "Compliance"); len(got) != 2 {
		t.Errorf("got %d Compliance posts, want 2", len(got))
	}
	// "all" and blank mean no filtering.
	if got := filterByCategory(posts, "all"); len(got) != 4 {
		t.Errorf("got %d posts for category=all, want 4", len(got))
	}
	if got := filterByCategory(posts, ""); len(got) != 4 {
		t.Errorf("got %d posts for empty category, want 4", len(got))
	}
	// Exact match only.
	if got := filterByCategory(posts, "compliance"); len(got) != 0 {
		t.Errorf("got %d posts for lowercase category, want 0", len(got))
	}
}

func TestPostCategories(t *testing.T) {
	posts := []api.BlogPost{
		{Category: "Tax"},
		{Category: "Compliance"},
		{Category: "Tax"},
		{},
	}

	got := postCategories(posts)
	want := []string{"Compliance", "Tax"}
	if len(got) != len(want) {
		t.Fatalf("got %d categories, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("category %d = %q, want %q", i, got[i], want[i])
		}
	}
}
