package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when no page exists for a slug.
var ErrNotFound = errors.New("content: not found")

const (
	defaultFormat   = "markdown"
	defaultCacheTTL = 5 * time.Minute
	indexSlug       = "index"
)

// Page is a rendered content page.
type Page struct {
	Slug    string
	Title   string
	Summary string
	Body    template.HTML
}

type frontMatter struct {
	Title   string `yaml:"title"`
	Summary string `yaml:"summary"`
	Format  string `yaml:"format"`
}

type cacheEntry struct {
	page    Page
	expires time.Time
}

// Store serves pages from a directory of markdown files.
type Store struct {
	dir      string
	ttl      time.Duration
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
	now      func() time.Time

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// Option customises a Store.
type Option func(*Store)

// WithCacheTTL overrides the cache lifetime. Non-positive values disable caching.
func WithCacheTTL(d time.Duration) Option {
	return func(s *Store) {
		s.ttl = d
	}
}

// NewStore returns a Store reading <dir>/<slug>.md files.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		dir:      strings.TrimSpace(dir),
		ttl:      defaultCacheTTL,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:   newPagePolicy(),
		now:      time.Now,
		cache:    map[string]cacheEntry{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newPagePolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("figure", "figcaption")
	policy.AllowAttrs("class").OnElements("figure", "figcaption", "p", "span")
	policy.AllowAttrs("loading").OnElements("img")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

// Dir returns the backing directory.
func (s *Store) Dir() string { return s.dir }

// Get returns the page for slug. The empty slug addresses the index page.
func (s *Store) Get(ctx context.Context, slug string) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	name, ok := sanitizeSlug(slug)
	if !ok {
		return Page{}, ErrNotFound
	}
	if page, ok := s.cached(name); ok {
		return page, nil
	}
	page, err := s.read(name)
	if err != nil {
		return Page{}, err
	}
	s.store(name, page)
	return page, nil
}

func (s *Store) read(name string) (Page, error) {
	file := filepath.Join(s.dir, name+".md")
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Page{}, ErrNotFound
		}
		return Page{}, fmt.Errorf("content: read %s: %w", file, err)
	}
	fm, body := splitFrontMatter(string(data))
	front := frontMatter{}
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Page{}, fmt.Errorf("content: parse front matter %s: %w", file, err)
		}
	}
	rendered, err := s.renderBody(body, strings.TrimSpace(front.Format))
	if err != nil {
		return Page{}, fmt.Errorf("content: render %s: %w", file, err)
	}
	page := Page{
		Slug:    name,
		Title:   strings.TrimSpace(front.Title),
		Summary: strings.TrimSpace(front.Summary),
		Body:    rendered,
	}
	if name == indexSlug {
		page.Slug = ""
	}
	if page.Title == "" {
		page.Title = prettifySlug(name)
	}
	return page, nil
}

func (s *Store) renderBody(body, format string) (template.HTML, error) {
	if format == "" {
		format = defaultFormat
	}
	var raw []byte
	switch strings.ToLower(format) {
	case "html":
		raw = []byte(body)
	case "markdown", "md":
		var buf bytes.Buffer
		if err := s.markdown.Convert([]byte(body), &buf); err != nil {
			return "", err
		}
		raw = buf.Bytes()
	default:
		return "", fmt.Errorf("unsupported format %q", format)
	}
	return template.HTML(s.policy.SanitizeBytes(raw)), nil
}

func (s *Store) cached(name string) (Page, bool) {
	if s.ttl <= 0 {
		return Page{}, false
	}
	s.mu.RLock()
	entry, ok := s.cache[name]
	s.mu.RUnlock()
	if !ok || s.now().After(entry.expires) {
		return Page{}, false
	}
	return entry.page, true
}

func (s *Store) store(name string, page Page) {
	if s.ttl <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[name] = cacheEntry{page: page, expires: s.now().Add(s.ttl)}
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func sanitizeSlug(slug string) (string, bool) {
	slug = strings.TrimSpace(strings.ToLower(slug))
	slug = strings.Trim(slug, "/")
	if slug == "" {
		return indexSlug, true
	}
	if strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return "", false
	}
	return slug, true
}

func prettifySlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		if runes[0] >= 'a' && runes[0] <= 'z' {
			runes[0] -= 'a' - 'A'
		}
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}
