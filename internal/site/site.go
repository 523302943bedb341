package site

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"finitefield.org/hanko-theme/internal/header"
	"finitefield.org/hanko-theme/internal/hooks"
	"finitefield.org/hanko-theme/internal/nav"
)

const (
	defaultCharset  = "UTF-8"
	defaultHomeURL  = "/"
	defaultLanguage = "en-US"
)

// Site is the resolved configuration of a site file.
type Site struct {
	Name        string
	Description string
	Charset     string
	HomeURL     string
	Language    string
	BodyClasses []string

	menus *nav.Registry
	head  *hooks.Registry
}

type siteFile struct {
	Name        string                `yaml:"name"`
	Description string                `yaml:"description"`
	Charset     string                `yaml:"charset"`
	HomeURL     string                `yaml:"home_url"`
	Language    string                `yaml:"language"`
	BodyClasses []string              `yaml:"body_classes"`
	Menus       map[string][]menuItem `yaml:"menus"`
	Head        []headFragment        `yaml:"head"`
}

type menuItem struct {
	Label    string     `yaml:"label"`
	URL      string     `yaml:"url"`
	Children []menuItem `yaml:"children"`
}

type headFragment struct {
	Name     string `yaml:"name"`
	Priority *int   `yaml:"priority"`
	HTML     string `yaml:"html"`
}

// Load reads and parses a YAML site file.
func Load(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("site: read %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("site: %s: %w", path, err)
	}
	return s, nil
}

// Parse builds a Site from YAML, applying defaults and validating menus.
func Parse(data []byte) (*Site, error) {
	var f siteFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse site file: %w", err)
	}
	s := &Site{
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		Charset:     firstNonEmpty(f.Charset, defaultCharset),
		HomeURL:     firstNonEmpty(f.HomeURL, defaultHomeURL),
		Language:    firstNonEmpty(f.Language, defaultLanguage),
		BodyClasses: sanitizeClasses(f.BodyClasses),
		menus:       nav.NewRegistry(),
		head:        hooks.NewRegistry(),
	}
	locations := make([]string, 0, len(f.Menus))
	for location := range f.Menus {
		locations = append(locations, location)
	}
	sort.Strings(locations)
	for _, location := range locations {
		if err := s.menus.Register(location, convertMenu(f.Menus[location])); err != nil {
			return nil, err
		}
	}
	for _, h := range f.Head {
		priority := hooks.DefaultPriority
		if h.Priority != nil {
			priority = *h.Priority
		}
		s.head.Add(h.Name, priority, h.HTML)
	}
	return s, nil
}

func convertMenu(items []menuItem) []header.MenuItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]header.MenuItem, 0, len(items))
	for _, it := range items {
		out = append(out, header.MenuItem{
			Label:    strings.TrimSpace(it.Label),
			URL:      strings.TrimSpace(it.URL),
			Children: convertMenu(it.Children),
		})
	}
	return out
}

// Menus exposes the menu registry keyed by theme location.
func (s *Site) Menus() *nav.Registry { return s.menus }

// Head exposes the head fragment registry.
func (s *Site) Head() *hooks.Registry { return s.head }

// Metadata resolves the header metadata for a page. Each call returns a fresh value.
func (s *Site) Metadata(page header.PageContext) *header.SiteMetadata {
	return &header.SiteMetadata{
		Name:               s.Name,
		Description:        s.Description,
		Charset:            s.Charset,
		HomeURL:            s.HomeURL,
		LanguageAttributes: LanguageAttributes(s.Language),
		BodyClasses:        BodyClasses(page.CurrentPageSlug, s.BodyClasses),
	}
}

// NotFoundMetadata is Metadata for pages that do not exist.
func (s *Site) NotFoundMetadata() *header.SiteMetadata {
	meta := s.Metadata(header.PageContext{})
	meta.BodyClasses = sanitizeClasses(append([]string{"error404"}, s.BodyClasses...))
	return meta
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
