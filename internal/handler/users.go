// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/89tcapl/advisors-web/internal/api"
	"github.com/89tcapl/advisors-web/internal/middleware"
	"github.com/89tcapl/advisors-web/internal/render"
	"github.com/89tcapl/advisors-web/internal/session"
	"github.com/89tcapl/advisors-web/internal/store"
)

// UsersHandler manages admin accounts. Every route in this handler is
// mounted behind the super admin gate.
type UsersHandler struct {
	client   *api.Client
	sessions *session.Store
	renderer *render.Renderer
	events   *store.Events
}

// NewUsersHandler creates a UsersHandler.
func NewUsersHandler(client *api.Client, sessions *session.Store, renderer *render.Renderer, events *store.Events) *UsersHandler {
	return &UsersHandler{client: client, sessions: sessions, renderer: renderer, events: events}
}

// List renders all admin accounts.
func (h *UsersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.client.ListUsers(r.Context())
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, RouteAdminDashboard)
		return
	}
	renderAdmin(w, r, h.renderer, "admin/users_list", "Users", users, h.crumbs(""))
}

// NewForm renders the create form.
func (h *UsersHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	renderAdmin(w, r, h.renderer, "admin/users_form", "New User", &api.User{Role: api.RoleAdmin, IsActive: true}, h.crumbs("New User"))
}

// Create adds an admin account with an explicit password.
func (h *UsersHandler) Create(w http.ResponseWriter, r *http.Request) {
	backURL := RouteAdminUsers + RouteSuffixNew
	form, err := h.parseUserForm(w, r, backURL, true)
	if err != nil {
		return
	}
	user, err := h.client.CreateUser(r.Context(), *form)
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, backURL)
		return
	}
	h.logUserEvent(r, "User created", user.ID, user.Email)
	flashSuccess(w, r, h.renderer, RouteAdminUsers, "User created")
}

// EditForm renders the edit form for one account.
func (h *UsersHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	user, ok := h.find(w, r)
	if !ok {
		return
	}
	renderAdmin(w, r, h.renderer, "admin/users_form", "Edit User", user, h.crumbs("Edit User"))
}

// Update saves changes to an account.
func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	backURL := RouteAdminUsers + "/" + id + "/edit"
	form, err := h.parseUserForm(w, r, backURL, false)
	if err != nil {
		return
	}

	// Deactivating or demoting yourself locks you out one request later.
	if me := middleware.GetUser(r); me != nil && me.ID == id {
		if form.IsActive != nil && !*form.IsActive {
			flashError(w, r, h.renderer, backURL, "You cannot deactivate your own account")
			return
		}
		if form.Role != "" && form.Role != api.RoleSuperAdmin {
			flashError(w, r, h.renderer, backURL, "You cannot change your own role")
			return
		}
	}

	user, err := h.client.UpdateUser(r.Context(), id, *form)
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, backURL)
		return
	}
	h.logUserEvent(r, "User updated", user.ID, user.Email)
	flashSuccess(w, r, h.renderer, RouteAdminUsers, "User updated")
}

// Delete removes an account. Self-deletion is rejected.
func (h *UsersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if me := middleware.GetUser(r); me != nil && me.ID == id {
		flashError(w, r, h.renderer, RouteAdminUsers, "You cannot delete your own account")
		return
	}
	if err := h.client.DeleteUser(r.Context(), id); err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, RouteAdminUsers)
		return
	}
	h.logUserEvent(r, "User deleted", id, "")
	flashSuccess(w, r, h.renderer, RouteAdminUsers, "User deleted")
}

// Invite sends an invitation email through the API.
func (h *UsersHandler) Invite(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteAdminUsers) {
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	email, err := validateEmail(r.FormValue("email"))
	if err != nil {
		flashError(w, r, h.renderer, RouteAdminUsers, err.Error())
		return
	}
	if name == "" {
		flashError(w, r, h.renderer, RouteAdminUsers, "Name is required")
		return
	}
	role := r.FormValue("role")
	if role != api.RoleSuperAdmin {
		role = api.RoleAdmin
	}

	if err := h.client.InviteUser(r.Context(), name, email, role); err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, RouteAdminUsers)
		return
	}
	h.logUserEvent(r, "User invited", "", email)
	flashSuccess(w, r, h.renderer, RouteAdminUsers, "Invitation sent to "+email)
}

// find resolves the {id} route parameter via the list endpoint.
func (h *UsersHandler) find(w http.ResponseWriter, r *http.Request) (*api.User, bool) {
	id := chi.URLParam(r, "id")
	users, err := h.client.ListUsers(r.Context())
	if err != nil {
		handleAPIError(w, r, h.renderer, h.sessions, err, RouteAdminUsers)
		return nil, false
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], true
		}
	}
	flashError(w, r, h.renderer, RouteAdminUsers, "User not found")
	return nil, false
}

func (h *UsersHandler) parseUserForm(w http.ResponseWriter, r *http.Request, backURL string, requirePassword bool) (*api.UserForm, error) {
	if !parseFormOrRedirect(w, r, h.renderer, backURL) {
		return nil, errAlreadyHandled
	}

	name := strings.TrimSpace(r.FormValue("name"))
	email, err := validateEmail(r.FormValue("email"))
	if err != nil {
		flashError(w, r, h.renderer, backURL, err.Error())
		return nil, errAlreadyHandled
	}
	if name == "" {
		flashError(w, r, h.renderer, backURL, "Name is required")
		return nil, errAlreadyHandled
	}

	password := r.FormValue("password")
	if requirePassword || password != "" {
		if err := validatePassword(password); err != nil {
			flashError(w, r, h.renderer, backURL, err.Error())
			return nil, errAlreadyHandled
		}
	}

	role := r.FormValue("role")
	if role != api.RoleSuperAdmin {
		role = api.RoleAdmin
	}
	isActive := formBool(r, "is_active")

	return &api.UserForm{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     role,
		IsActive: &isActive,
	}, nil
}

func (h *UsersHandler) logUserEvent(r *http.Request, message, id, email string) {
	actor, _ := h.sessions.User(r.Context())
	err := h.events.Create(r.Context(), store.CreateEventParams{
		Level:     store.EventLevelInfo,
		Category:  store.EventCategoryUser,
		Message:   message,
		UserID:    actor.ID,
		UserEmail: actor.Email,
		IP:        clientIP(r),
		Path:      r.URL.Path,
		Metadata:  `{"subject_id":"` + id + `","subject_email":"` + email + `"}`,
	})
	if err != nil {
		slog.Error("writing user event failed", "error", err)
	}
}

func (h *UsersHandler) crumbs(leaf string) []render.Breadcrumb {
	crumbs := []render.Breadcrumb{
		{Label: "Dashboard", URL: RouteAdminDashboard},
		{Label: "Users", URL: RouteAdminUsers},
	}
	if leaf != "" {
		crumbs = append(crumbs, render.Breadcrumb{Label: leaf, Active: true})
	} else {
		crumbs[len(crumbs)-1].Active = true
	}
	return crumbs
}
