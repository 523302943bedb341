package header

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"strings"

	"go.uber.org/zap"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var baseTemplate = template.Must(template.New("_root").ParseFS(templateFS, "templates/*.tmpl"))

// Renderer produces the header markup. The zero value is not usable; call New.
// A Renderer holds no per-call state and is safe for concurrent use.
type Renderer struct {
	tmpl   *template.Template
	logger *zap.Logger
	depth  int
}

// Option customises a Renderer.
type Option func(*Renderer)

// WithLogger attaches a logger used to report rejected input.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithDepth limits how many menu levels are rendered. Zero renders every level.
func WithDepth(depth int) Option {
	return func(r *Renderer) {
		if depth < 0 {
			depth = 0
		}
		r.depth = depth
	}
}

// New constructs a Renderer.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		tmpl:   baseTemplate,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRenderer = New()

// Render renders the header with the default renderer.
func Render(meta *SiteMetadata, menu []MenuItem, page PageContext, head HeadExtension) (string, error) {
	return defaultRenderer.Render(meta, menu, page, head)
}

// Render returns the header markup, from the doctype through the close of the
// header block. Nothing is returned when validation fails.
func (r *Renderer) Render(meta *SiteMetadata, menu []MenuItem, page PageContext, head HeadExtension) (string, error) {
	var buf bytes.Buffer
	if err := r.execute(&buf, meta, menu, page, head); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderTo writes the header to w. w is untouched when rendering fails.
func (r *Renderer) RenderTo(w io.Writer, meta *SiteMetadata, menu []MenuItem, page PageContext, head HeadExtension) error {
	var buf bytes.Buffer
	if err := r.execute(&buf, meta, menu, page, head); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

type headerView struct {
	LanguageAttributes template.HTMLAttr
	Charset            string
	Name               string
	Description        string
	HomeURL            string
	HeadExtension      template.HTML
	BodyClass          string
	Menu               []menuItemView
	Welcome            bool
	WelcomeHeading     string
}

type menuItemView struct {
	Class    string
	Label    string
	URL      string
	Current  bool
	Children []menuItemView
}

func (r *Renderer) execute(buf *bytes.Buffer, meta *SiteMetadata, menu []MenuItem, page PageContext, head HeadExtension) error {
	if err := validate(meta); err != nil {
		r.logger.Warn("header render rejected input", zap.Error(err))
		return err
	}
	view := headerView{
		LanguageAttributes: languageAttributes(meta.LanguageAttributes),
		Charset:            strings.TrimSpace(meta.Charset),
		Name:               meta.Name,
		Description:        meta.Description,
		HomeURL:            meta.HomeURL,
		HeadExtension:      template.HTML(head),
		BodyClass:          strings.Join(meta.BodyClasses, " "),
		Menu:               buildMenuView(menu, 1, r.depth),
		Welcome:            page.CurrentPageSlug == WelcomePageSlug,
		WelcomeHeading:     WelcomeHeading,
	}
	return r.tmpl.ExecuteTemplate(buf, "header", view)
}

func buildMenuView(items []MenuItem, level, maxDepth int) []menuItemView {
	if len(items) == 0 {
		return nil
	}
	out := make([]menuItemView, 0, len(items))
	for _, it := range items {
		v := menuItemView{
			Label:   it.Label,
			URL:     it.URL,
			Current: it.Current,
		}
		if maxDepth == 0 || level < maxDepth {
			v.Children = buildMenuView(it.Children, level+1, maxDepth)
		}
		v.Class = menuItemClass(v, level)
		out = append(out, v)
	}
	return out
}

func menuItemClass(v menuItemView, level int) string {
	classes := []string{"menu-item"}
	if len(v.Children) > 0 {
		classes = append(classes, "menu-item-has-children")
	}
	if v.Current {
		classes = append(classes, "current-menu-item")
	}
	if level > 1 {
		classes = append(classes, "sub-menu-item")
	}
	return strings.Join(classes, " ")
}
