// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package markdown converts API-sourced markdown (service descriptions,
// blog posts) into sanitized HTML for the public templates.
package markdown

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// htmlSanitizer strips anything the content API could smuggle into
// rendered pages. UGCPolicy allows the usual formatting tags plus links
// and images.
var htmlSanitizer = bluemonday.UGCPolicy()

var converter = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Render converts markdown to sanitized HTML.
func Render(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := converter.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return template.HTML(htmlSanitizer.SanitizeBytes(buf.Bytes())), nil //nolint:gosec // sanitized above
}

// RenderOrPlain converts markdown to sanitized HTML, falling back to the
// escaped source text if conversion fails.
func RenderOrPlain(source string) template.HTML {
	html, err := Render(source)
	if err != nil {
		return template.HTML(template.HTMLEscapeString(source)) //nolint:gosec // escaped
	}
	return html
}

// Sanitize runs raw HTML through the shared sanitizer policy.
func Sanitize(html string) template.HTML {
	return template.HTML(htmlSanitizer.Sanitize(html)) //nolint:gosec // sanitized
}
