// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/89tcapl/advisors-web/internal/api"
	"github.com/89tcapl/advisors-web/internal/cache"
	"github.com/89tcapl/advisors-web/internal/content"
	"github.com/89tcapl/advisors-web/internal/store"
)

func newTestScheduler(t *testing.T, handler http.Handler, retentionDays int) (*Scheduler, *store.Events) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL, nil)
	require.NoError(t, err)

	c := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	resolver := content.NewResolver(client, c, time.Minute)

	db, err := store.NewDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, store.Migrate(db))
	events := store.NewEvents(db)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(resolver, events, retentionDays, logger), events
}

func TestRefreshContentWarmsAllPages(t *testing.T) {
	var pages []string
	s, _ := newTestScheduler(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages = append(pages, r.URL.Path)
		_, _ = w.Write([]byte(`{"success":true,"data":{"_id":"p","page":"x","sections":[]}}`))
	}), 90)

	s.refreshContent()

	assert.ElementsMatch(t, []string{
		"/content/home", "/content/about", "/content/services", "/content/contact",
	}, pages)
}

func TestPruneEventsHonorsRetention(t *testing.T) {
	s, events := newTestScheduler(t, http.NotFoundHandler(), 30)
	ctx := context.Background()

	require.NoError(t, events.Create(ctx, store.CreateEventParams{
		Level: store.EventLevelInfo, Message: "ancient",
		CreatedAt: time.Now().UTC().AddDate(0, 0, -40),
	}))
	require.NoError(t, events.Create(ctx, store.CreateEventParams{
		Level: store.EventLevelInfo, Message: "recent",
	}))

	s.pruneEvents()

	remaining, err := events.List(ctx, store.EventFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "recent", remaining[0].Message)
}

func TestPruneEventsDisabled(t *testing.T) {
	s, events := newTestScheduler(t, http.NotFoundHandler(), 0)
	ctx := context.Background()

	require.NoError(t, events.Create(ctx, store.CreateEventParams{
		Level: store.EventLevelInfo, Message: "ancient",
		CreatedAt: time.Now().UTC().AddDate(0, 0, -400),
	}))

	s.pruneEvents()

	remaining, err := events.List(ctx, store.EventFilter{})
	require.NoError(t, err)
	assert.Len(t, remaining, 1, "retention 0 disables pruning")
}

func TestStartStop(t *testing.T) {
	s, _ := newTestScheduler(t, http.NotFoundHandler(), 90)
	require.NoError(t, s.Start())
	s.Stop()
}
