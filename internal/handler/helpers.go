// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mileusna/useragent"

	"github.com/89tcapl/advisors-web/internal/api"
	"github.com/89tcapl/advisors-web/internal/middleware"
	"github.com/89tcapl/advisors-web/internal/render"
	"github.com/89tcapl/advisors-web/internal/session"
)

// errAlreadyHandled signals that the response was already written by a
// form helper; the caller should just return.
var errAlreadyHandled = errors.New("response already written")

// flashAndRedirect sets a flash message and redirects with 303.
func flashAndRedirect(w http.ResponseWriter, r *http.Request, rend *render.Renderer, url, message, flashType string) {
	rend.SetFlash(r, message, flashType)
	http.Redirect(w, r, url, http.StatusSeeOther)
}

func flashError(w http.ResponseWriter, r *http.Request, rend *render.Renderer, url, message string) {
	flashAndRedirect(w, r, rend, url, message, "error")
}

func flashSuccess(w http.ResponseWriter, r *http.Request, rend *render.Renderer, url, message string) {
	flashAndRedirect(w, r, rend, url, message, "success")
}

// parseFormOrRedirect parses the request form, flashing an error and
// redirecting on failure. Returns false when the caller should stop.
func parseFormOrRedirect(w http.ResponseWriter, r *http.Request, rend *render.Renderer, redirectURL string) bool {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, rend, redirectURL, "Invalid form data")
		return false
	}
	return true
}

// logAndInternalError logs the error with context and sends a plain 500.
func logAndInternalError(w http.ResponseWriter, msg string, args ...any) {
	slog.Error(msg, args...)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// handleAPIError routes an API failure to the right response. A 401
// invalidates the whole session regardless of which endpoint produced
// it: the stored token is dead, so every protected page must fall back
// to the login screen. Anything else flashes the normalized message and
// returns to backURL.
func handleAPIError(w http.ResponseWriter, r *http.Request, rend *render.Renderer, sessions *session.Store, err error, backURL string) {
	if errors.Is(err, api.ErrUnauthorized) {
		if serr := sessions.SignOut(r.Context()); serr != nil {
			slog.Error("session purge after 401 failed", "error", serr)
		}
		flashAndRedirect(w, r, rend, RouteAdminLogin, "Your session has expired. Please sign in again.", "warning")
		return
	}
	flashError(w, r, rend, backURL, err.Error())
}

// renderAdmin renders an admin template with the signed-in user and the
// breadcrumb trail filled in.
func renderAdmin(w http.ResponseWriter, r *http.Request, rend *render.Renderer, name, title string, data any, crumbs []render.Breadcrumb) {
	err := rend.Render(w, r, name, render.TemplateData{
		Title:       title,
		Data:        data,
		User:        middleware.GetUser(r),
		Breadcrumbs: crumbs,
	})
	if err != nil {
		logAndInternalError(w, "rendering admin page failed", "template", name, "error", err)
	}
}

// clientIP extracts the client IP, honoring reverse-proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i >= 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	host := r.RemoteAddr
	if i := strings.LastIndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	return host
}

// userAgentSummary condenses a raw User-Agent header into
// "browser/version on os" for the audit log.
func userAgentSummary(raw string) string {
	if raw == "" {
		return ""
	}
	ua := useragent.Parse(raw)
	if ua.Name == "" {
		return raw
	}
	summary := ua.Name
	if ua.Version != "" {
		summary += "/" + ua.Version
	}
	if ua.OS != "" {
		summary += " on " + ua.OS
	}
	return summary
}

// formatDuration renders a lockout duration for the login page.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}

// formInt parses an int form value, falling back to def on garbage.
func formInt(r *http.Request, key string, def int) int {
	v := strings.TrimSpace(r.FormValue(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// formBool reports whether a checkbox-style form value is set.
func formBool(r *http.Request, key string) bool {
	switch strings.ToLower(r.FormValue(key)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// splitLines splits a textarea value into trimmed, non-empty lines.
func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// splitComma splits a comma-separated value into trimmed, non-empty parts.
func splitComma(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
