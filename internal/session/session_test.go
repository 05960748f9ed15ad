// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/89tcapl/advisors-web/internal/api"
)

func newTestStore(t *testing.T) (*Store, context.Context) {
	t.Helper()
	sm := scs.New() // in-memory store is enough for unit tests
	ctx, err := sm.Load(context.Background(), "")
	require.NoError(t, err)
	return NewStore(sm), ctx
}

// restoreSession plants a token (and optionally a cached profile) the
// way a session persisted before this request would carry them, without
// the validated marker a fresh login writes.
func restoreSession(t *testing.T, store *Store, ctx context.Context, token string, user *api.User) {
	t.Helper()
	store.sm.Put(ctx, keyToken, token)
	if user != nil {
		raw, err := json.Marshal(user)
		require.NoError(t, err)
		store.sm.Put(ctx, keyUser, string(raw))
	}
}

func TestStore_SignInPersistsTokenAndUser(t *testing.T) {
	store, ctx := newTestStore(t)

	assert.False(t, store.IsAuthenticated(ctx))
	assert.Empty(t, store.Token(ctx))

	user := api.User{ID: "u1", Name: "Admin", Email: "admin@89t.test", Role: api.RoleAdmin}
	require.NoError(t, store.SignIn(ctx, user, "jwt-abc"))

	assert.True(t, store.IsAuthenticated(ctx))
	assert.Equal(t, "jwt-abc", store.Token(ctx))

	got, ok := store.User(ctx)
	require.True(t, ok)
	assert.Equal(t, "admin@89t.test", got.Email)
}

func TestStore_SignOutIsIdempotent(t *testing.T) {
	store, ctx := newTestStore(t)

	require.NoError(t, store.SignIn(ctx, api.User{ID: "u1"}, "jwt-abc"))
	require.NoError(t, store.SignOut(ctx))
	assert.False(t, store.IsAuthenticated(ctx))

	// A second logout on an already-anonymous session must not fail.
	require.NoError(t, store.SignOut(ctx))
	assert.False(t, store.IsAuthenticated(ctx))
}

// Background jobs hand the API client a plain context that never passed
// the session middleware. That must read as signed out, not crash.
func TestStore_TokenOnBareContext(t *testing.T) {
	store := NewStore(scs.New())

	assert.Empty(t, store.Token(context.Background()))
	assert.False(t, store.IsAuthenticated(context.Background()))
}

func TestStore_ClientRequestOnBareContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"success":true,"data":{"page":"home","sections":[]}}`))
	}))
	defer srv.Close()

	store := NewStore(scs.New())
	client, err := api.New(srv.URL, store)
	require.NoError(t, err)

	// The cache warmer path: no request, no session, just a context.
	content, err := client.GetPageContent(context.Background(), "home")
	require.NoError(t, err)
	assert.Equal(t, "home", content.Page)
}

func TestStore_ResolveAnonymous(t *testing.T) {
	store, ctx := newTestStore(t)

	state, _ := store.Resolve(ctx, nil)
	assert.Equal(t, StateAnonymous, state)
}

func TestStore_ResolveRevalidatesRestoredTokenOnce(t *testing.T) {
	var meCalls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/me", r.URL.Path)
		assert.Equal(t, "Bearer jwt-abc", r.Header.Get("Authorization"))
		meCalls.Add(1)
		_, _ = w.Write([]byte(`{"success":true,"data":{"_id":"u1","name":"Admin","email":"admin@89t.test","role":"super_admin","isActive":true}}`))
	}))
	defer srv.Close()

	store, ctx := newTestStore(t)
	client, err := api.New(srv.URL, store)
	require.NoError(t, err)

	restoreSession(t, store, ctx, "jwt-abc", &api.User{ID: "u1"})

	state, user := store.Resolve(ctx, client)
	assert.Equal(t, StateAuthenticated, state)
	assert.True(t, user.IsSuperAdmin())
	assert.Equal(t, int32(1), meCalls.Load())

	// The cached profile picked up the fresh copy.
	cached, ok := store.User(ctx)
	require.True(t, ok)
	assert.Equal(t, "Admin", cached.Name)

	// Later requests in the same session answer from the session alone.
	state, user = store.Resolve(ctx, client)
	assert.Equal(t, StateAuthenticated, state)
	assert.Equal(t, "Admin", user.Name)
	assert.Equal(t, int32(1), meCalls.Load(), "Resolve must not revalidate twice per session")
}

func TestStore_ResolveAfterSignInSkipsRevalidation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected API call %s: login already proved the token", r.URL.Path)
	}))
	defer srv.Close()

	store, ctx := newTestStore(t)
	client, err := api.New(srv.URL, store)
	require.NoError(t, err)

	require.NoError(t, store.SignIn(ctx, api.User{ID: "u1", Name: "Admin"}, "jwt-abc"))

	state, user := store.Resolve(ctx, client)
	assert.Equal(t, StateAuthenticated, state)
	assert.Equal(t, "Admin", user.Name)
}

func TestStore_ResolvePurgesOnUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"Token expired"}`))
	}))
	defer srv.Close()

	store, ctx := newTestStore(t)
	client, err := api.New(srv.URL, store)
	require.NoError(t, err)

	restoreSession(t, store, ctx, "stale", nil)

	state, _ := store.Resolve(ctx, client)
	assert.Equal(t, StateAnonymous, state)
	assert.False(t, store.IsAuthenticated(ctx), "stale token must be purged")
}

func TestStore_ResolveKeepsCachedProfileOnOutage(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // upstream is down

	store, ctx := newTestStore(t)
	client, err := api.New(srv.URL, store)
	require.NoError(t, err)

	restoreSession(t, store, ctx, "jwt-abc", &api.User{ID: "u1", Name: "Admin"})

	state, user := store.Resolve(ctx, client)
	assert.Equal(t, StateAuthenticated, state)
	assert.Equal(t, "Admin", user.Name)
	assert.True(t, store.IsAuthenticated(ctx))
}
