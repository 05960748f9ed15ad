// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs the site's background jobs: warming the content
// cache and pruning the audit event log.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/89tcapl/advisors-web/internal/content"
	"github.com/89tcapl/advisors-web/internal/store"
)

// contentPages are the public pages whose sections get kept warm.
var contentPages = []string{"home", "about", "services", "contact"}

// Scheduler handles the site's recurring jobs.
type Scheduler struct {
	cron          *cron.Cron
	resolver      *content.Resolver
	events        *store.Events
	retentionDays int
	logger        *slog.Logger
}

// New creates a new scheduler instance. Jobs run behind a recover
// wrapper: a panicking job must not take the whole process down.
func New(resolver *content.Resolver, events *store.Events, retentionDays int, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:          cron.New(cron.WithChain(cron.Recover(cronLogger{logger}))),
		resolver:      resolver,
		events:        events,
		retentionDays: retentionDays,
		logger:        logger,
	}
}

// cronLogger adapts slog to the cron.Logger interface so recovered job
// panics land in the main log.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Info(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}

// Start registers the jobs and begins the cron loop.
func (s *Scheduler) Start() error {
	// Refresh public page content every 5 minutes
	if _, err := s.cron.AddFunc("*/5 * * * *", s.refreshContent); err != nil {
		return err
	}

	// Prune old events nightly
	if _, err := s.cron.AddFunc("30 3 * * *", s.pruneEvents); err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
	return nil
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// refreshContent re-fetches the section content for every public page so
// visitors rarely hit a cold cache.
func (s *Scheduler) refreshContent() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.resolver.Refresh(ctx, contentPages...)
	s.logger.Debug("content cache refreshed", "pages", len(contentPages))
}

// pruneEvents removes audit events past the retention window.
func (s *Scheduler) pruneEvents() {
	if s.retentionDays <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().UTC().AddDate(0, 0, -s.retentionDays)
	removed, err := s.events.Prune(ctx, cutoff)
	if err != nil {
		s.logger.Error("event pruning failed", "error", err)
		return
	}
	if removed > 0 {
		s.logger.Info("pruned audit events", "removed", removed, "retention_days", s.retentionDays)
	}
}
