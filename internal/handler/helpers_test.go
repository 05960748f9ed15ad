// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/89tcapl/advisors-web/internal/api"
	"github.com/89tcapl/advisors-web/internal/render"
	"github.com/89tcapl/advisors-web/internal/session"
)

// newTestRenderer builds a renderer over a minimal in-memory template
// set, enough for flash handling without the real template tree.
func newTestRenderer(t *testing.T, sm *scs.SessionManager) *render.Renderer {
	t.Helper()
	fsys := fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{define "base"}}{{template "content" .}}{{end}}`)},
	}
	r, err := render.New(render.Config{TemplatesFS: fsys, SessionManager: sm})
	if err != nil {
		t.Fatalf("render.New failed: %v", err)
	}
	return r
}

// sessionRequest returns a request whose context carries a live scs
// session, the way requests look after LoadAndSave.
func sessionRequest(t *testing.T, sm *scs.SessionManager, method, target string) *http.Request {
	t.Helper()
	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	return httptest.NewRequest(method, target, nil).WithContext(ctx)
}

func TestHandleAPIErrorUnauthorizedPurgesSession(t *testing.T) {
	sm := scs.New()
	sessions := session.NewStore(sm)
	renderer := newTestRenderer(t, sm)

	r := sessionRequest(t, sm, http.MethodGet, "/admin/services")
	if err := sessions.SignIn(r.Context(), api.User{ID: "u1", Email: "a@b.test"}, "tok"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	w := httptest.NewRecorder()
	handleAPIError(w, r, renderer, sessions, fmt.Errorf("session check: %w", api.ErrUnauthorized), RouteAdminServices)

	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if loc := w.Header().Get("Location"); loc != RouteAdminLogin {
		t.Errorf("redirect = %q, want %q", loc, RouteAdminLogin)
	}
	if sessions.IsAuthenticated(r.Context()) {
		t.Error("session still authenticated after 401")
	}
	if tok := sessions.Token(r.Context()); tok != "" {
		t.Errorf("token %q survived the 401 purge", tok)
	}
}

func TestHandleAPIErrorOtherFailureFlashesBack(t *testing.T) {
	sm := scs.New()
	sessions := session.NewStore(sm)
	renderer := newTestRenderer(t, sm)

	r := sessionRequest(t, sm, http.MethodGet, "/admin/services")
	if err := sessions.SignIn(r.Context(), api.User{ID: "u1"}, "tok"); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	w := httptest.NewRecorder()
	handleAPIError(w, r, renderer, sessions, fmt.Errorf("No response from server"), RouteAdminServices)

	if loc := w.Header().Get("Location"); loc != RouteAdminServices {
		t.Errorf("redirect = %q, want %q", loc, RouteAdminServices)
	}
	if !sessions.IsAuthenticated(r.Context()) {
		t.Error("transport failure must not sign the user out")
	}
	if flash := sm.PopString(r.Context(), "flash"); flash != "No response from server" {
		t.Errorf("flash = %q, want the normalized transport message", flash)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		realIP  string
		fwdFor  string
		remote  string
		want    string
	}{
		{"remote addr only", "", "", "10.0.0.1:4321", "10.0.0.1"},
		{"x-real-ip wins", "203.0.113.7", "198.51.100.2", "10.0.0.1:4321", "203.0.113.7"},
		{"first forwarded hop", "", "198.51.100.2, 10.0.0.9", "10.0.0.1:4321", "198.51.100.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remote
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.fwdFor != "" {
				r.Header.Set("X-Forwarded-For", tt.fwdFor)
			}
			if got := clientIP(r); got != tt.want {
				t.Errorf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserAgentSummary(t *testing.T) {
	got := userAgentSummary("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	if !strings.Contains(got, "Chrome") || !strings.Contains(got, "Windows") {
		t.Errorf("summary %q missing browser or OS", got)
	}
	if got := userAgentSummary(""); got != "" {
		t.Errorf("empty input produced %q", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30 seconds"},
		{time.Minute, "1 minute"},
		{15 * time.Minute, "15 minutes"},
		{time.Hour, "1 hour"},
		{3 * time.Hour, "3 hours"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormHelpers(t *testing.T) {
	form := url.Values{
		"order":    {"7"},
		"garbage":  {"seven"},
		"checked":  {"on"},
		"explicit": {"true"},
		"off":      {""},
	}
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if err := r.ParseForm(); err != nil {
		t.Fatalf("ParseForm failed: %v", err)
	}

	if got := formInt(r, "order", 0); got != 7 {
		t.Errorf("formInt(order) = %d, want 7", got)
	}
	if got := formInt(r, "garbage", 42); got != 42 {
		t.Errorf("formInt(garbage) = %d, want fallback 42", got)
	}
	if got := formInt(r, "missing", 5); got != 5 {
		t.Errorf("formInt(missing) = %d, want fallback 5", got)
	}
	if !formBool(r, "checked") || !formBool(r, "explicit") {
		t.Error("formBool missed a set checkbox")
	}
	if formBool(r, "off") || formBool(r, "missing") {
		t.Error("formBool reported an unset checkbox as set")
	}
}

func TestSplitHelpers(t *testing.T) {
	lines := splitLines("first\n  second  \n\n\nthird\n")
	if len(lines) != 3 || lines[1] != "second" {
		t.Errorf("splitLines = %v", lines)
	}
	tags := splitComma("go, web,, compliance ,")
	if len(tags) != 3 || tags[2] != "compliance" {
		t.Errorf("splitComma = %v", tags)
	}
}
