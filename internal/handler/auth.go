// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/89tcapl/advisors-web/internal/api"
	"github.com/89tcapl/advisors-web/internal/middleware"
	"github.com/89tcapl/advisors-web/internal/render"
	"github.com/89tcapl/advisors-web/internal/session"
	"github.com/89tcapl/advisors-web/internal/store"
)

// AuthHandler serves login, logout, the one-time setup flow, password
// reset and invitation acceptance. All credential checks happen on the
// API side; this handler translates forms to API calls and the returned
// token into a server session.
type AuthHandler struct {
	client           *api.Client
	sessions         *session.Store
	renderer         *render.Renderer
	events           *store.Events
	loginProtection  *middleware.LoginProtection
	turnstileSiteKey string
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(client *api.Client, sessions *session.Store, renderer *render.Renderer, events *store.Events, lp *middleware.LoginProtection, turnstileSiteKey string) *AuthHandler {
	return &AuthHandler{
		client:           client,
		sessions:         sessions,
		renderer:         renderer,
		events:           events,
		loginProtection:  lp,
		turnstileSiteKey: turnstileSiteKey,
	}
}

// logAuthEvent records an auth audit entry. Failures are logged and
// swallowed: the audit trail never blocks a login.
func (h *AuthHandler) logAuthEvent(r *http.Request, level, message string, user *api.User, metadata string) {
	p := store.CreateEventParams{
		Level:     level,
		Category:  store.EventCategoryAuth,
		Message:   message,
		IP:        clientIP(r),
		Path:      r.URL.Path,
		UserAgent: userAgentSummary(r.UserAgent()),
		Metadata:  metadata,
	}
	if user != nil {
		p.UserID = user.ID
		p.UserEmail = user.Email
	}
	if err := h.events.Create(r.Context(), p); err != nil {
		slog.Error("writing auth event failed", "error", err)
	}
}

type loginPageData struct {
	TurnstileSiteKey string
	Email            string
}

// LoginForm renders the login page. Authenticated users are sent to the
// dashboard; a fresh installation is sent to the setup flow instead.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.sessions.IsAuthenticated(r.Context()) {
		http.Redirect(w, r, RouteAdminDashboard, http.StatusSeeOther)
		return
	}
	if required, err := h.client.SetupRequired(r.Context()); err == nil && required {
		http.Redirect(w, r, RouteAdminSetup, http.StatusSeeOther)
		return
	}
	h.render(w, r, "auth/login", "Sign In", loginPageData{TurnstileSiteKey: h.turnstileSiteKey})
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteAdminLogin) {
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")
	if email == "" || password == "" {
		flashError(w, r, h.renderer, RouteAdminLogin, "Email and password are required")
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			h.logAuthEvent(r, store.EventLevelWarning, "Login attempt on locked account", nil, fmt.Sprintf(`{"email":%q}`, email))
			flashError(w, r, h.renderer, RouteAdminLogin, "Too many failed attempts. Try again in "+formatDuration(remaining))
			return
		}
	}

	result, err := h.client.Login(r.Context(), api.LoginRequest{
		Email:          email,
		Password:       password,
		TurnstileToken: r.FormValue("cf-turnstile-response"),
	})
	if err != nil {
		h.logAuthEvent(r, store.EventLevelWarning, "Login failed", nil, fmt.Sprintf(`{"email":%q}`, email))
		if h.loginProtection != nil {
			if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
				flashError(w, r, h.renderer, RouteAdminLogin, "Too many failed attempts. Try again in "+formatDuration(lockDuration))
				return
			}
			if remaining := h.loginProtection.GetRemainingAttempts(email); remaining > 0 && remaining <= 3 {
				flashError(w, r, h.renderer, RouteAdminLogin, fmt.Sprintf("%s (%d attempts remaining)", loginFailureMessage(err), remaining))
				return
			}
		}
		flashError(w, r, h.renderer, RouteAdminLogin, loginFailureMessage(err))
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	if err := h.sessions.SignIn(r.Context(), result.User, result.Token); err != nil {
		logAndInternalError(w, "storing session after login failed", "error", err)
		return
	}

	slog.Info("user logged in", "user_id", result.User.ID, "email", result.User.Email)
	h.logAuthEvent(r, store.EventLevelInfo, "User logged in", &result.User, "")

	flashSuccess(w, r, h.renderer, RouteAdminDashboard, "Welcome back, "+result.User.Name)
}

// loginFailureMessage keeps credential failures generic while letting
// transport failures through verbatim, so an outage is distinguishable
// from a typo.
func loginFailureMessage(err error) string {
	if errors.Is(err, api.ErrUnauthorized) {
		return "Invalid email or password"
	}
	return err.Error()
}

// Logout destroys the session. It is safe to call without one.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if user, ok := h.sessions.User(r.Context()); ok {
		h.logAuthEvent(r, store.EventLevelInfo, "User logged out", &user, "")
	}
	if err := h.sessions.SignOut(r.Context()); err != nil {
		slog.Error("session destroy error", "error", err)
	}
	flashAndRedirect(w, r, h.renderer, RouteAdminLogin, "You have been signed out", "info")
}

// SetupForm renders the one-time super admin bootstrap page. Once the
// API reports setup as done the page is gone for good.
func (h *AuthHandler) SetupForm(w http.ResponseWriter, r *http.Request) {
	required, err := h.client.SetupRequired(r.Context())
	if err != nil {
		flashError(w, r, h.renderer, RouteAdminLogin, err.Error())
		return
	}
	if !required {
		flashAndRedirect(w, r, h.renderer, RouteAdminLogin, "Setup is already complete", "info")
		return
	}
	h.render(w, r, "auth/setup", "Initial Setup", nil)
}

// Setup creates the initial super admin account and signs it in.
func (h *AuthHandler) Setup(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteAdminSetup) {
		return
	}

	name := r.FormValue("name")
	email, err := validateEmail(r.FormValue("email"))
	if err != nil {
		flashError(w, r, h.renderer, RouteAdminSetup, err.Error())
		return
	}
	password := r.FormValue("password")
	if name == "" {
		flashError(w, r, h.renderer, RouteAdminSetup, "Name is required")
		return
	}
	if err := validatePassword(password); err != nil {
		flashError(w, r, h.renderer, RouteAdminSetup, err.Error())
		return
	}
	if password != r.FormValue("password_confirm") {
		flashError(w, r, h.renderer, RouteAdminSetup, "Passwords do not match")
		return
	}

	result, err := h.client.SetupSuperAdmin(r.Context(), api.SetupRequest{Name: name, Email: email, Password: password})
	if err != nil {
		flashError(w, r, h.renderer, RouteAdminSetup, err.Error())
		return
	}

	if err := h.sessions.SignIn(r.Context(), result.User, result.Token); err != nil {
		logAndInternalError(w, "storing session after setup failed", "error", err)
		return
	}

	slog.Info("super admin created", "user_id", result.User.ID, "email", result.User.Email)
	h.logAuthEvent(r, store.EventLevelInfo, "Super admin account created", &result.User, "")

	flashSuccess(w, r, h.renderer, RouteAdminDashboard, "Welcome, "+result.User.Name)
}

// ForgotForm renders the password reset request page.
func (h *AuthHandler) ForgotForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "auth/forgot", "Forgot Password", nil)
}

// Forgot requests a one-time reset code. The confirmation message is
// identical whether or not the account exists.
func (h *AuthHandler) Forgot(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteAdminForgot) {
		return
	}
	email, err := validateEmail(r.FormValue("email"))
	if err != nil {
		flashError(w, r, h.renderer, RouteAdminForgot, err.Error())
		return
	}
	if err := h.client.RequestPasswordReset(r.Context(), email); err != nil {
		slog.Warn("password reset request failed", "error", err)
	}
	flashAndRedirect(w, r, h.renderer, RouteAdminReset+"?email="+email,
		"If the account exists, a reset code has been sent", "info")
}

type resetPageData struct {
	Email string
}

// ResetForm renders the OTP reset page.
func (h *AuthHandler) ResetForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "auth/reset", "Reset Password", resetPageData{Email: r.URL.Query().Get("email")})
}

// Reset completes the OTP password reset.
func (h *AuthHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteAdminReset) {
		return
	}
	email, err := validateEmail(r.FormValue("email"))
	if err != nil {
		flashError(w, r, h.renderer, RouteAdminReset, err.Error())
		return
	}
	password := r.FormValue("password")
	if err := validatePassword(password); err != nil {
		flashError(w, r, h.renderer, RouteAdminReset+"?email="+email, err.Error())
		return
	}
	if password != r.FormValue("password_confirm") {
		flashError(w, r, h.renderer, RouteAdminReset+"?email="+email, "Passwords do not match")
		return
	}
	if err := h.client.ResetPassword(r.Context(), api.ResetPasswordRequest{
		Email:    email,
		OTP:      r.FormValue("otp"),
		Password: password,
	}); err != nil {
		flashError(w, r, h.renderer, RouteAdminReset+"?email="+email, err.Error())
		return
	}

	h.logAuthEvent(r, store.EventLevelInfo, "Password reset completed", nil, fmt.Sprintf(`{"email":%q}`, email))
	flashSuccess(w, r, h.renderer, RouteAdminLogin, "Password updated. Please sign in.")
}

type invitationPageData struct {
	Token string
	api.Invitation
}

// InvitationForm verifies an invitation token and renders the accept
// page.
func (h *AuthHandler) InvitationForm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		flashError(w, r, h.renderer, RouteAdminLogin, "Invitation link is missing its token")
		return
	}
	invite, err := h.client.VerifyInvitation(r.Context(), token)
	if err != nil {
		flashError(w, r, h.renderer, RouteAdminLogin, err.Error())
		return
	}
	h.render(w, r, "auth/invitation", "Accept Invitation", invitationPageData{Token: token, Invitation: *invite})
}

// Invitation completes an invitation: sets the password and signs the
// new account in.
func (h *AuthHandler) Invitation(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, RouteAdminLogin) {
		return
	}
	token := r.FormValue("token")
	if token == "" {
		flashError(w, r, h.renderer, RouteAdminLogin, "Invitation token is required")
		return
	}
	backURL := RouteAdminInvite + "?token=" + token

	password := r.FormValue("password")
	if err := validatePassword(password); err != nil {
		flashError(w, r, h.renderer, backURL, err.Error())
		return
	}
	if password != r.FormValue("password_confirm") {
		flashError(w, r, h.renderer, backURL, "Passwords do not match")
		return
	}

	result, err := h.client.CompleteInvitation(r.Context(), token, password)
	if err != nil {
		flashError(w, r, h.renderer, backURL, err.Error())
		return
	}
	if err := h.sessions.SignIn(r.Context(), result.User, result.Token); err != nil {
		logAndInternalError(w, "storing session after invitation failed", "error", err)
		return
	}

	h.logAuthEvent(r, store.EventLevelInfo, "Invitation accepted", &result.User, "")
	flashSuccess(w, r, h.renderer, RouteAdminDashboard, "Welcome, "+result.User.Name)
}

func (h *AuthHandler) render(w http.ResponseWriter, r *http.Request, name, title string, data any) {
	err := h.renderer.Render(w, r, name, render.TemplateData{Title: title, Data: data})
	if err != nil {
		logAndInternalError(w, "rendering auth page failed", "template", name, "error", err)
	}
}
