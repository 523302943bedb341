package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"finitefield.org/hanko-theme/internal/config"
	"finitefield.org/hanko-theme/internal/content"
	"finitefield.org/hanko-theme/internal/observability"
	"finitefield.org/hanko-theme/internal/server"
	"finitefield.org/hanko-theme/internal/site"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		var invalid *config.ValidationError
		if errors.As(err, &invalid) {
			log.Fatalf("invalid configuration: %s", strings.Join(invalid.Fields(), ", "))
		}
		log.Fatalf("load configuration: %v", err)
	}

	var (
		addr       string
		renderSlug string
	)
	flag.StringVar(&cfg.Site.File, "site", cfg.Site.File, "site description file (YAML)")
	flag.StringVar(&cfg.Site.ContentDir, "content", cfg.Site.ContentDir, "page content directory")
	flag.StringVar(&cfg.Site.MenuLocation, "location", cfg.Site.MenuLocation, "menu location rendered in the header")
	flag.StringVar(&addr, "addr", cfg.Server.Addr(), "HTTP listen address")
	flag.StringVar(&renderSlug, "render", "", "print the header for the given page slug and exit (use \"/\" for the home page)")
	flag.Parse()

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	loader, err := siteLoader(cfg, logger)
	if err != nil {
		logger.Fatal("failed to load site", zap.String("file", cfg.Site.File), zap.Error(err))
	}

	ttl := cfg.Site.ContentTTL
	if cfg.DevMode {
		ttl = 0
	}
	pages := content.NewStore(cfg.Site.ContentDir, content.WithCacheTTL(ttl))

	srv := server.New(loader, pages,
		server.WithLogger(logger),
		server.WithMenuLocation(cfg.Site.MenuLocation),
	)

	if renderSlug != "" {
		slug := strings.Trim(renderSlug, "/")
		out, err := srv.RenderHeader(slug, "/"+slug)
		if err != nil {
			logger.Fatal("render header", zap.String("slug", slug), zap.Error(err))
		}
		fmt.Fprint(os.Stdout, out)
		return
	}

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverLogger := logger.Named("http").With(zap.String("addr", addr))
	go func() {
		serverLogger.Info("hanko-theme listening",
			zap.String("site", cfg.Site.File),
			zap.String("content", cfg.Site.ContentDir),
			zap.Bool("dev", cfg.DevMode),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverLogger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received; draining requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// siteLoader parses the site file once, or on every request in dev mode so
// menu and head edits show up without a restart.
func siteLoader(cfg config.Config, logger *zap.Logger) (server.SiteLoader, error) {
	st, err := site.Load(cfg.Site.File)
	if err != nil {
		return nil, err
	}
	if !cfg.DevMode {
		return server.StaticSite(st), nil
	}
	logger.Info("dev mode: reloading site file per request")
	return func() (*site.Site, error) {
		return site.Load(cfg.Site.File)
	}, nil
}
