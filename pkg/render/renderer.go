package render

import (
	"context"

	"github.com/macro-obs/obsportal/pkg/forms"
)

// Page carries everything a renderer needs to produce one portal document.
// Forms holds the visibility-filtered form models in display order.
type Page struct {
	Name  string
	Title string
	Forms []forms.FormModel
	Data  map[string]any
}

// Renderer converts a Page into a byte representation (HTML today; other
// surfaces can register alongside it).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page Page, options Options) ([]byte, error)
}
