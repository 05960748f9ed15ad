// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package seo

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateRobotsDefault(t *testing.T) {
	content := GenerateRobots(RobotsConfig{SiteURL: "https://example.com"})

	if !strings.Contains(content, "User-agent: *") {
		t.Error("robots.txt should contain 'User-agent: *'")
	}
	for _, path := range []string{"/admin", "/healthz"} {
		if !strings.Contains(content, "Disallow: "+path) {
			t.Errorf("robots.txt should disallow %q", path)
		}
	}
	if !strings.Contains(content, "Allow: /") {
		t.Error("robots.txt should contain 'Allow: /'")
	}
	if !strings.Contains(content, "Sitemap: https://example.com/sitemap.xml") {
		t.Error("robots.txt should reference the sitemap")
	}
}

func TestGenerateRobotsDisallowAll(t *testing.T) {
	content := GenerateRobots(RobotsConfig{SiteURL: "https://example.com", DisallowAll: true})

	if !strings.Contains(content, "Disallow: /\n") {
		t.Error("staging robots.txt should disallow everything")
	}
	if strings.Contains(content, "Sitemap:") {
		t.Error("staging robots.txt should not reference the sitemap")
	}
}

func TestSitemapBuilder(t *testing.T) {
	b := NewSitemapBuilder("https://example.com")
	b.AddHomepage()
	b.AddStatic("/about")
	b.AddService("company-registration", time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	b.AddPost("annual-filing-guide", time.Time{})

	out, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	content := string(out)

	for _, want := range []string{
		"<loc>https://example.com/</loc>",
		"<loc>https://example.com/about</loc>",
		"<loc>https://example.com/services/company-registration</loc>",
		"<loc>https://example.com/blog/annual-filing-guide</loc>",
		"<lastmod>2026-03-01T00:00:00Z</lastmod>",
		XMLNamespace,
	} {
		if !strings.Contains(content, want) {
			t.Errorf("sitemap should contain %q", want)
		}
	}
	if strings.Count(content, "<lastmod>") != 1 {
		t.Error("zero-time entries should not carry lastmod")
	}
}
