// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session manages server-side sessions backed by SQLite. A session
// carries the bearer token issued by the content API plus a cached copy of
// the authenticated user's profile.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/89tcapl/advisors-web/internal/api"
)

// Session keys. The user profile is stored as JSON so a restart of the
// upstream API does not log everyone out.
const (
	keyToken     = "auth_token"
	keyUser      = "auth_user"
	keyValidated = "auth_validated"
)

// State describes what the session knows about the visitor. A freshly
// parsed request starts out unknown until the token has been checked.
type State int

const (
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// New creates a session manager configured with a SQLite store.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()

	sm.Store = sqlite3store.New(db)

	sm.Lifetime = 24 * time.Hour
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev // Secure cookies in production only

	return sm
}

// Store reads and writes authentication state through a session manager.
// It satisfies api.TokenSource, so the API client picks the bearer token
// straight out of the current request's session.
type Store struct {
	sm *scs.SessionManager
}

func NewStore(sm *scs.SessionManager) *Store {
	return &Store{sm: sm}
}

// Manager exposes the underlying session manager for middleware wiring.
func (s *Store) Manager() *scs.SessionManager { return s.sm }

// Token returns the bearer token for the current session, or "" when the
// visitor is not signed in. scs panics on contexts that never passed the
// session middleware, so background work (cache warmers, cron jobs)
// reads as signed out instead.
func (s *Store) Token(ctx context.Context) (token string) {
	defer func() {
		if recover() != nil {
			token = ""
		}
	}()
	return s.sm.GetString(ctx, keyToken)
}

// SignIn rotates the session ID and persists the token and user profile.
func (s *Store) SignIn(ctx context.Context, user api.User, token string) error {
	if err := s.sm.RenewToken(ctx); err != nil {
		return err
	}
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	s.sm.Put(ctx, keyToken, token)
	s.sm.Put(ctx, keyUser, string(raw))
	// The login call itself just proved the token; no extra /auth/me
	// round-trip is needed for this session.
	s.sm.Put(ctx, keyValidated, true)
	return nil
}

// SignOut destroys the session. Calling it on an already-anonymous
// session is a no-op, so repeated logouts stay safe.
func (s *Store) SignOut(ctx context.Context) error {
	return s.sm.Destroy(ctx)
}

// User returns the cached profile of the signed-in user.
func (s *Store) User(ctx context.Context) (api.User, bool) {
	raw := s.sm.GetString(ctx, keyUser)
	if raw == "" {
		return api.User{}, false
	}
	var user api.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return api.User{}, false
	}
	return user, true
}

// SetUser refreshes the cached profile, e.g. after the API returned a
// newer copy.
func (s *Store) SetUser(ctx context.Context, user api.User) {
	raw, err := json.Marshal(user)
	if err != nil {
		return
	}
	s.sm.Put(ctx, keyUser, string(raw))
}

// IsAuthenticated reports whether the session holds a bearer token.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// Resolve settles the session state against the API. A session without a
// token is anonymous. A session with a token is revalidated through
// GET /auth/me once; after that the cached profile is authoritative and
// token expiry is caught reactively, by the 401 of a real API call.
// During revalidation a 401 purges the session, any other API failure
// keeps the cached profile so a brief upstream outage does not log
// admins out.
func (s *Store) Resolve(ctx context.Context, client *api.Client) (State, api.User) {
	if !s.IsAuthenticated(ctx) {
		return StateAnonymous, api.User{}
	}

	if s.sm.GetBool(ctx, keyValidated) {
		if cached, ok := s.User(ctx); ok {
			return StateAuthenticated, cached
		}
	}

	user, err := client.Me(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			_ = s.SignOut(ctx)
			return StateAnonymous, api.User{}
		}
		if cached, ok := s.User(ctx); ok {
			return StateAuthenticated, cached
		}
		return StateUnknown, api.User{}
	}

	s.SetUser(ctx, *user)
	s.sm.Put(ctx, keyValidated, true)
	return StateAuthenticated, *user
}
