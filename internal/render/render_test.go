// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package render

import (
	"io/fs"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/89tcapl/advisors-web/internal/api"
	"github.com/89tcapl/advisors-web/web"
)

func newEmbeddedRenderer(t *testing.T) *Renderer {
	t.Helper()
	templates, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	r, err := New(Config{TemplatesFS: templates})
	require.NoError(t, err)
	return r
}

func renderPage(t *testing.T, r *Renderer, name string, data TemplateData) string {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	require.NoError(t, r.Render(rec, req, name, data))
	return rec.Body.String()
}

func TestRender_AdminFormsCarryUploadWidget(t *testing.T) {
	r := newEmbeddedRenderer(t)
	admin := &api.User{Name: "Admin", Role: api.RoleAdmin}

	tests := []struct {
		name   string
		data   TemplateData
		target string
	}{
		{"admin/services_form", TemplateData{User: admin, Data: api.Service{}}, "image"},
		{"admin/blog_form", TemplateData{User: admin, Data: api.BlogPost{}}, "featured_image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := renderPage(t, r, tt.name, tt.data)

			assert.Contains(t, body, `class="upload-file"`,
				"form should offer a file picker next to the URL field")
			assert.Contains(t, body, `data-target="`+tt.target+`"`)
			assert.Contains(t, body, `/static/js/upload.js`,
				"admin layout should load the upload script")
		})
	}
}

func TestRender_TruncateKeepsRunesIntact(t *testing.T) {
	fn := (&Renderer{}).templateFuncs()["truncate"].(func(string, int) string)

	tests := []struct {
		name   string
		input  string
		length int
		want   string
	}{
		{"short ascii untouched", "advisory", 20, "advisory"},
		{"long ascii cut", "corporate advisory services", 9, "corporate..."},
		{"multibyte cut on rune boundary", "Société Générale", 7, "Société..."},
		{"multibyte short untouched", "नमस्ते", 10, "नमस्ते"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fn(tt.input, tt.length)
			assert.Equal(t, tt.want, got)
			assert.True(t, strings.ToValidUTF8(got, "") == got,
				"truncated output must stay valid UTF-8")
		})
	}
}
