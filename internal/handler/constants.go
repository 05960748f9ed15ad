// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

// Public routes.
const (
	RouteRoot     = "/"
	RouteAbout    = "/about"
	RouteServices = "/services"
	RouteBlog     = "/blog"
	RouteContact  = "/contact"
	RouteHealth   = "/healthz"
)

// Admin routes.
const (
	RouteAdmin          = "/admin"
	RouteAdminLogin     = "/admin/login"
	RouteAdminLogout    = "/admin/logout"
	RouteAdminSetup     = "/admin/setup"
	RouteAdminForgot    = "/admin/forgot-password"
	RouteAdminReset     = "/admin/reset-password"
	RouteAdminInvite    = "/admin/invitation"
	RouteAdminDashboard = "/admin/dashboard"
	RouteAdminServices  = "/admin/services"
	RouteAdminBlog      = "/admin/blog"
	RouteAdminContent   = "/admin/content"
	RouteAdminSettings  = "/admin/settings"
	RouteAdminUsers     = "/admin/users"
	RouteAdminInbox     = "/admin/inbox"
	RouteAdminUpload    = "/admin/upload"
	RouteAdminEvents    = "/admin/events"
)

// Route fragments used when composing chi subrouters.
const (
	RouteSuffixNew    = "/new"
	RouteParamID      = "/{id}"
	RouteParamIDEdit  = "/{id}/edit"
	RouteParamSlug    = "/{slug}"
	RouteParamPage    = "/{page}"
	RouteParamSection = "/{page}/sections/{sectionID}"
)

// Pages whose sections are editable in the admin content area. The API
// rejects any other page name, so the admin UI offers exactly these.
var ContentPages = []string{"home", "about", "services", "contact"}
