// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for authentication,
// authorization, and request context handling.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/89tcapl/advisors-web/internal/api"
	"github.com/89tcapl/advisors-web/internal/session"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// Context keys for request-scoped data.
const (
	ContextKeyUser        ContextKey = "user"
	ContextKeyAuthState   ContextKey = "auth_state"
	ContextKeyRequestPath ContextKey = "request_path"
)

// Admin URLs the gate redirects to.
const (
	LoginURL     = "/admin/login"
	DashboardURL = "/admin/dashboard"
)

// Decision is the outcome of the route authorization gate.
type Decision int

const (
	// DecisionWait means the session state is still unsettled; show a
	// holding response rather than redirecting.
	DecisionWait Decision = iota
	// DecisionLogin redirects to the admin login page.
	DecisionLogin
	// DecisionDashboard redirects to the admin dashboard.
	DecisionDashboard
	// DecisionRender lets the protected page render.
	DecisionRender
)

// Decide is the route authorization gate. It is a pure function of the
// session state and the page's requirements, so the redirect rules can
// be tested without HTTP plumbing:
//
//   - unsettled state never redirects
//   - anonymous visitors go to the login page
//   - authenticated users lacking the super admin role on a
//     super-admin-only page go to the dashboard, never to login
func Decide(state session.State, superOnly, isSuper bool) Decision {
	switch state {
	case session.StateUnknown:
		return DecisionWait
	case session.StateAnonymous:
		return DecisionLogin
	}
	if superOnly && !isSuper {
		return DecisionDashboard
	}
	return DecisionRender
}

// Authenticate resolves the session against the content API once per
// request and stores the outcome in the request context. It never blocks
// a request by itself; pair it with RequireAuth for protected routes.
func Authenticate(store *session.Store, client *api.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state, user := store.Resolve(r.Context(), client)

			ctx := context.WithValue(r.Context(), ContextKeyAuthState, state)
			if state == session.StateAuthenticated {
				ctx = context.WithValue(ctx, ContextKeyUser, user)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth guards admin routes. Must run after Authenticate.
func RequireAuth(next http.Handler) http.Handler {
	return requireDecision(false, next)
}

// RequireSuperAdmin guards routes reserved for the super admin role.
// Must run after Authenticate.
func RequireSuperAdmin(next http.Handler) http.Handler {
	return requireDecision(true, next)
}

func requireDecision(superOnly bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := GetUser(r)
		isSuper := user != nil && user.IsSuperAdmin()

		switch Decide(GetAuthState(r), superOnly, isSuper) {
		case DecisionWait:
			http.Error(w, "Service temporarily unavailable", http.StatusServiceUnavailable)
		case DecisionLogin:
			http.Redirect(w, r, LoginURL, http.StatusSeeOther)
		case DecisionDashboard:
			slog.Warn("access denied",
				"status", http.StatusForbidden,
				"method", r.Method,
				"path", r.URL.Path,
				"user_id", userID(user),
			)
			http.Redirect(w, r, DashboardURL, http.StatusSeeOther)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

// RedirectIfAuthenticated keeps signed-in users off guest-only pages
// such as the login form. Must run after Authenticate.
func RedirectIfAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetAuthState(r) == session.StateAuthenticated {
			http.Redirect(w, r, DashboardURL, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetUser retrieves the current user from the request context.
// Returns nil if no user is in context.
func GetUser(r *http.Request) *api.User {
	user, ok := r.Context().Value(ContextKeyUser).(api.User)
	if !ok {
		return nil
	}
	return &user
}

// GetAuthState retrieves the resolved session state from the request
// context. Requests that never passed Authenticate count as anonymous.
func GetAuthState(r *http.Request) session.State {
	state, ok := r.Context().Value(ContextKeyAuthState).(session.State)
	if !ok {
		return session.StateAnonymous
	}
	return state
}

func userID(user *api.User) string {
	if user == nil {
		return ""
	}
	return user.ID
}

// RequestPath creates middleware that stores the request path in the context.
// This is used by the logging handler to include the URL in error logs.
func RequestPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), ContextKeyRequestPath, r.URL.Path)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestPath retrieves the request path from the context.
func GetRequestPath(ctx context.Context) string {
	path, ok := ctx.Value(ContextKeyRequestPath).(string)
	if !ok {
		return ""
	}
	return path
}
