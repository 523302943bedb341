package nav

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"finitefield.org/hanko-theme/internal/header"
)

// PrimaryLocation is the theme location rendered in the site header.
const PrimaryLocation = "primary"

// DefaultMaxDepth bounds menu nesting accepted by Validate.
const DefaultMaxDepth = 8

// ErrInvalidMenu is returned when a menu tree fails validation.
var ErrInvalidMenu = errors.New("nav: invalid menu")

// Validate checks labels and nesting depth. maxDepth <= 0 uses DefaultMaxDepth.
func Validate(items []header.MenuItem, maxDepth int) error {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return validateLevel(items, "", 1, maxDepth)
}

func validateLevel(items []header.MenuItem, parent string, level, maxDepth int) error {
	if len(items) > 0 && level > maxDepth {
		return fmt.Errorf("%w: %s exceeds max depth %d", ErrInvalidMenu, parent, maxDepth)
	}
	for i, it := range items {
		p := fmt.Sprintf("%s[%d]", parent, i)
		if strings.TrimSpace(it.Label) == "" {
			return fmt.Errorf("%w: %s has an empty label", ErrInvalidMenu, p)
		}
		if err := validateLevel(it.Children, p+".children", level+1, maxDepth); err != nil {
			return err
		}
	}
	return nil
}

// MarkCurrent returns a deep copy of items with Current set on entries whose
// URL path matches currentPath.
func MarkCurrent(items []header.MenuItem, currentPath string) []header.MenuItem {
	return markLevel(items, normalizeRoute(currentPath))
}

func markLevel(items []header.MenuItem, current string) []header.MenuItem {
	if items == nil {
		return nil
	}
	out := make([]header.MenuItem, len(items))
	for i, it := range items {
		out[i] = header.MenuItem{
			Label:    it.Label,
			URL:      it.URL,
			Current:  isActive(it.URL, current),
			Children: markLevel(it.Children, current),
		}
	}
	return out
}

// Clone deep-copies a menu tree.
func Clone(items []header.MenuItem) []header.MenuItem {
	if items == nil {
		return nil
	}
	out := make([]header.MenuItem, len(items))
	for i, it := range items {
		out[i] = it
		out[i].Children = Clone(it.Children)
	}
	return out
}

// Count returns the number of items in the tree.
func Count(items []header.MenuItem) int {
	n := len(items)
	for _, it := range items {
		n += Count(it.Children)
	}
	return n
}

func isActive(itemURL, current string) bool {
	if strings.TrimSpace(itemURL) == "" {
		return false
	}
	return routeOf(itemURL) == current
}

// routeOf reduces absolute and relative URLs to a normalized path.
func routeOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return normalizeRoute(raw)
	}
	return normalizeRoute(u.Path)
}

func normalizeRoute(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}
	return path
}

// Registry holds menus keyed by theme location.
type Registry struct {
	mu    sync.RWMutex
	menus map[string][]header.MenuItem
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{menus: map[string][]header.MenuItem{}}
}

// Register stores a copy of items under location, replacing any previous menu.
func (r *Registry) Register(location string, items []header.MenuItem) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return fmt.Errorf("%w: empty location", ErrInvalidMenu)
	}
	if err := Validate(items, 0); err != nil {
		return fmt.Errorf("location %s: %w", location, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.menus[location] = Clone(items)
	return nil
}

// Menu returns a copy of the menu at location. Unknown locations yield an empty menu.
func (r *Registry) Menu(location string) []header.MenuItem {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Clone(r.menus[strings.TrimSpace(location)])
}

// Locations lists registered locations in sorted order.
func (r *Registry) Locations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.menus))
	for k := range r.menus {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
