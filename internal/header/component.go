package header

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Component adapts the renderer to templ so templ layouts can embed the header.
func (r *Renderer) Component(meta *SiteMetadata, menu []MenuItem, page PageContext, head HeadExtension) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return r.RenderTo(w, meta, menu, page, head)
	})
}
