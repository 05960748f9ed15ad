// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/89tcapl/advisors-web/internal/store"
)

func TestEventLogHandlerMirrorsWarnings(t *testing.T) {
	db, err := store.NewDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, store.Migrate(db))

	inner := slog.NewTextHandler(io.Discard, nil)
	logger := slog.New(NewEventLogHandler(inner, db))

	logger.Info("page served", "path", "/")
	logger.Warn("login rate limit exceeded", "ip", "203.0.113.9")
	logger.Error("content refresh failed", "page", "home")

	events := store.NewEvents(db)
	all, err := events.List(context.Background(), store.EventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2, "info records must not reach the event log")

	byMessage := map[string]store.Event{}
	for _, ev := range all {
		byMessage[ev.Message] = ev
	}

	warn := byMessage["login rate limit exceeded"]
	assert.Equal(t, store.EventLevelWarning, warn.Level)
	assert.Equal(t, store.EventCategoryAuth, warn.Category)
	assert.Contains(t, warn.Metadata, `"ip":"203.0.113.9"`)

	errEv := byMessage["content refresh failed"]
	assert.Equal(t, store.EventLevelError, errEv.Level)
	assert.Equal(t, store.EventCategoryContent, errEv.Category)
}

func TestExtractCategoryExplicitAttr(t *testing.T) {
	db, err := store.NewDB(":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, store.Migrate(db))

	logger := slog.New(NewEventLogHandler(slog.NewTextHandler(io.Discard, nil), db))
	logger.Warn("something odd", "category", store.EventCategoryConfig)

	all, err := store.NewEvents(db).List(context.Background(), store.EventFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, store.EventCategoryConfig, all[0].Category)
	assert.Equal(t, "{}", all[0].Metadata, "category attr is not duplicated into metadata")
}
