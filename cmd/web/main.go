// Copyright (c) 2025-2026 89T Corporate Advisors
// SPDX-License-Identifier: GPL-3.0-or-later

// Command web runs the 89T Corporate Advisors website: the public
// marketing site and the admin panel, both rendered server-side from
// content served by the advisors REST API.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/89tcapl/advisors-web/internal/api"
	"github.com/89tcapl/advisors-web/internal/cache"
	"github.com/89tcapl/advisors-web/internal/config"
	"github.com/89tcapl/advisors-web/internal/content"
	"github.com/89tcapl/advisors-web/internal/handler"
	"github.com/89tcapl/advisors-web/internal/logging"
	"github.com/89tcapl/advisors-web/internal/middleware"
	"github.com/89tcapl/advisors-web/internal/render"
	"github.com/89tcapl/advisors-web/internal/scheduler"
	"github.com/89tcapl/advisors-web/internal/session"
	"github.com/89tcapl/advisors-web/internal/store"
	"github.com/89tcapl/advisors-web/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "advisors-web - 89T Corporate Advisors website\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADV_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADV_API_BASE_URL      Advisors REST API base URL (default: http://localhost:5000/api)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADV_DB_PATH           SQLite database path (default: ./data/advisors.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADV_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADV_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADV_SITE_URL          Public base URL for sitemap links (default: server address)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADV_REDIS_URL         Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  ADV_TURNSTILE_SITE_KEY  Cloudflare Turnstile site key (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Printf("advisors-web %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	// Local SQLite holds sessions and the audit event log; all site
	// content lives behind the API.
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to mirror WARN and ERROR records into the event log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	events := store.NewEvents(db)

	// Session manager and store
	sessionManager := session.New(db, cfg.IsDevelopment())
	sessions := session.NewStore(sessionManager)
	slog.Info("session manager initialized")

	// API client: the bearer token comes from the request session
	client, err := api.New(cfg.APIBaseURL, sessions)
	if err != nil {
		return fmt.Errorf("creating API client: %w", err)
	}
	slog.Info("API client initialized", "base_url", cfg.APIBaseURL)

	// Page content cache, Redis-backed when configured
	cacher := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	})
	defer func() {
		if err := cacher.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	resolver := content.NewResolver(client, cacher, time.Duration(cfg.CacheTTL)*time.Second)

	// Site settings cache feeding every layout (site name, footer,
	// favicon). Failures leave Site nil and templates fall back.
	siteCache := cache.NewTypedCache[api.Settings](cacher, time.Duration(cfg.CacheTTL)*time.Second)
	siteSource := func(ctx context.Context) *api.Settings {
		settings, err := siteCache.GetOrSet(ctx, handler.SiteSettingsCacheKey, func() (*api.Settings, error) {
			return client.GetSettings(ctx)
		})
		if err != nil {
			slog.Warn("site settings fetch failed", "error", err)
			return nil
		}
		return settings
	}

	// Template renderer over the embedded template tree
	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		SiteSource:     siteSource,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	// Background jobs: content cache warming and event log pruning
	sched := scheduler.New(resolver, events, cfg.EventRetentionDays, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	// Handlers
	authHandler := handler.NewAuthHandler(client, sessions, renderer, events, loginProtection, cfg.TurnstileSiteKey)
	publicHandler := handler.NewPublicHandler(client, resolver, renderer, cfg.TurnstileSiteKey)
	dashboardHandler := handler.NewDashboardHandler(client, sessions, renderer, events)
	servicesHandler := handler.NewServicesHandler(client, sessions, renderer, events)
	blogHandler := handler.NewBlogHandler(client, sessions, renderer, events)
	contentHandler := handler.NewContentHandler(client, sessions, renderer, resolver, events)
	settingsHandler := handler.NewSettingsHandler(client, sessions, renderer, events, siteCache)
	usersHandler := handler.NewUsersHandler(client, sessions, renderer, events)
	inboxHandler := handler.NewInboxHandler(client, sessions, renderer)
	uploadHandler := handler.NewUploadHandler(client, sessions)
	healthHandler := handler.NewHealthHandler(db, appVersion)
	seoHandler := handler.NewSEOHandler(client, cfg.SiteURL, cfg.IsDevelopment())

	// Router
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.RequestPath)
	r.Use(sessionManager.LoadAndSave)
	r.Use(middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment())))
	r.Use(middleware.Authenticate(sessions, client))

	globalLimiter := middleware.NewGlobalRateLimiter(20, 40)
	r.Use(globalLimiter.Middleware())

	// Public site
	r.Get(handler.RouteRoot, publicHandler.Home)
	r.Get(handler.RouteAbout, publicHandler.About)
	r.Get(handler.RouteServices, publicHandler.Services)
	r.Get(handler.RouteServices+handler.RouteParamSlug, publicHandler.ServiceDetail)
	r.Get(handler.RouteBlog, publicHandler.Blog)
	r.Get(handler.RouteBlog+handler.RouteParamSlug, publicHandler.BlogPost)
	r.Get(handler.RouteContact, publicHandler.ContactForm)
	r.Post(handler.RouteContact, publicHandler.ContactSubmit)
	r.Get(handler.RouteHealth, healthHandler.Health)
	r.Get("/sitemap.xml", seoHandler.Sitemap)
	r.Get("/robots.txt", seoHandler.Robots)

	// Auth routes: guests only, with brute-force protection on login
	r.Group(func(r chi.Router) {
		r.Use(middleware.RedirectIfAuthenticated)
		r.Use(loginProtection.Middleware())
		r.Get(handler.RouteAdminLogin, authHandler.LoginForm)
		r.Post(handler.RouteAdminLogin, authHandler.Login)
		r.Get(handler.RouteAdminSetup, authHandler.SetupForm)
		r.Post(handler.RouteAdminSetup, authHandler.Setup)
		r.Get(handler.RouteAdminForgot, authHandler.ForgotForm)
		r.Post(handler.RouteAdminForgot, authHandler.Forgot)
		r.Get(handler.RouteAdminReset, authHandler.ResetForm)
		r.Post(handler.RouteAdminReset, authHandler.Reset)
		r.Get(handler.RouteAdminInvite, authHandler.InvitationForm)
		r.Post(handler.RouteAdminInvite, authHandler.Invitation)
	})

	// Admin area
	r.Route(handler.RouteAdmin, func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Get("/", func(w http.ResponseWriter, req *http.Request) {
			http.Redirect(w, req, handler.RouteAdminDashboard, http.StatusSeeOther)
		})
		r.Get("/dashboard", dashboardHandler.Dashboard)
		r.Post("/logout", authHandler.Logout)
		r.Post("/upload", uploadHandler.Upload)

		registerCRUD(r, "/services", servicesHandler.List, servicesHandler.NewForm, servicesHandler.Create,
			servicesHandler.EditForm, servicesHandler.Update, servicesHandler.Delete)
		registerCRUD(r, "/blog", blogHandler.List, blogHandler.NewForm, blogHandler.Create,
			blogHandler.EditForm, blogHandler.Update, blogHandler.Delete)

		r.Route("/content", func(r chi.Router) {
			r.Get("/", contentHandler.Pages)
			r.Get("/{page}", contentHandler.Sections)
			r.Get("/{page}/sections/new", contentHandler.NewSectionForm)
			r.Post("/{page}/sections", contentHandler.CreateSection)
			r.Get("/{page}/sections/{sectionID}", contentHandler.EditSectionForm)
			r.Post("/{page}/sections/{sectionID}", contentHandler.UpdateSection)
			r.Post("/{page}/sections/{sectionID}/delete", contentHandler.DeleteSection)
		})

		r.Get("/settings", settingsHandler.Form)
		r.Post("/settings", settingsHandler.Update)

		r.Route("/inbox", func(r chi.Router) {
			r.Get("/", inboxHandler.List)
			r.Post("/{id}", inboxHandler.Update)
			r.Post("/{id}/delete", inboxHandler.Delete)
		})

		// Super admin only
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSuperAdmin)
			r.Get("/events", dashboardHandler.Events)
			registerCRUD(r, "/users", usersHandler.List, usersHandler.NewForm, usersHandler.Create,
				usersHandler.EditForm, usersHandler.Update, usersHandler.Delete)
			r.Post("/users/invite", usersHandler.Invite)
		})
	})

	// Static assets from the embedded tree
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	r.NotFound(publicHandler.NotFound)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// registerCRUD mounts the conventional list/new/create/edit/update/delete
// routes for an admin resource. HTML forms only send GET and POST, so
// update and delete ride on POST.
func registerCRUD(r chi.Router, base string, list, newForm, create, editForm, update, del http.HandlerFunc) {
	r.Get(base, list)
	r.Get(base+handler.RouteSuffixNew, newForm)
	r.Post(base, create)
	r.Get(base+"/{id}/edit", editForm)
	r.Post(base+"/{id}", update)
	r.Post(base+"/{id}/delete", del)
}
