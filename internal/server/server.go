package server

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"finitefield.org/hanko-theme/internal/content"
	"finitefield.org/hanko-theme/internal/header"
	mw "finitefield.org/hanko-theme/internal/middleware"
	"finitefield.org/hanko-theme/internal/nav"
	"finitefield.org/hanko-theme/internal/observability"
	"finitefield.org/hanko-theme/internal/site"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.New("_root").ParseFS(templateFS, "templates/*.tmpl"))

var notFoundPage = content.Page{
	Title: "Not found",
	Body:  template.HTML("<p>The page you requested could not be found.</p>"),
}

// SiteLoader returns the site to render. Dev hosts reload the site file per request.
type SiteLoader func() (*site.Site, error)

// StaticSite returns a loader that always yields s.
func StaticSite(s *site.Site) SiteLoader {
	return func() (*site.Site, error) { return s, nil }
}

// Server is the HTTP host around the header renderer.
type Server struct {
	loadSite SiteLoader
	pages    *content.Store
	renderer *header.Renderer
	location string
	logger   *zap.Logger
	timeout  time.Duration
}

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the base logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMenuLocation selects the menu location rendered in the header.
func WithMenuLocation(location string) Option {
	return func(s *Server) {
		if location != "" {
			s.location = location
		}
	}
}

// WithRenderer replaces the header renderer.
func WithRenderer(r *header.Renderer) Option {
	return func(s *Server) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithRequestTimeout bounds handler execution.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.timeout = d
	}
}

// New builds a Server.
func New(loadSite SiteLoader, pages *content.Store, opts ...Option) *Server {
	s := &Server{
		loadSite: loadSite,
		pages:    pages,
		location: nav.PrimaryLocation,
		logger:   zap.NewNop(),
		timeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.renderer == nil {
		s.renderer = header.New(header.WithLogger(s.logger))
	}
	return s
}

// Router returns the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.InjectLogger(s.logger))
	r.Use(mw.Logger)
	r.Use(chimw.Recoverer)
	if s.timeout > 0 {
		r.Use(chimw.Timeout(s.timeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/", s.handlePage)
	r.Get("/{slug}", s.handlePage)
	return r
}

// RenderHeader renders only the header for slug, as the page at path would show it.
func (s *Server) RenderHeader(slug, path string) (string, error) {
	st, err := s.loadSite()
	if err != nil {
		return "", err
	}
	page := header.PageContext{CurrentPageSlug: slug}
	menu := nav.MarkCurrent(st.Menus().Menu(s.location), path)
	return s.renderer.Render(st.Metadata(page), menu, page, st.Head().Render())
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.FromContext(ctx)

	st, err := s.loadSite()
	if err != nil {
		logger.Error("load site", zap.Error(err))
		http.Error(w, "site unavailable", http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	page, err := s.pages.Get(ctx, chi.URLParam(r, "slug"))
	var meta *header.SiteMetadata
	switch {
	case err == nil:
		meta = st.Metadata(header.PageContext{CurrentPageSlug: page.Slug})
	case errors.Is(err, content.ErrNotFound):
		status = http.StatusNotFound
		page = notFoundPage
		meta = st.NotFoundMetadata()
	default:
		logger.Error("load page", zap.Error(err))
		http.Error(w, "page unavailable", http.StatusInternalServerError)
		return
	}

	pageCtx := header.PageContext{CurrentPageSlug: page.Slug}
	menu := nav.MarkCurrent(st.Menus().Menu(s.location), r.URL.Path)
	hdr := s.renderer.Component(meta, menu, pageCtx, st.Head().Render())

	templ.Handler(
		pageComponent(hdr, page),
		templ.WithStatus(status),
		templ.WithContentType("text/html; charset="+meta.Charset),
		templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				observability.FromContext(r.Context()).Error("render page", zap.Error(err))
				http.Error(w, "render failed", http.StatusInternalServerError)
			})
		}),
	).ServeHTTP(w, r)
}

func pageComponent(hdr templ.Component, page content.Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := hdr.Render(ctx, w); err != nil {
			return err
		}
		return pageTemplate.ExecuteTemplate(w, "page", page)
	})
}
