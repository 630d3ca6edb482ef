// Package html renders portal pages as server-side HTML through pongo2
// templates. Pages are composed from the embedded template bundle; callers
// can swap in their own bundle or a pre-built engine.
package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/macro-obs/obsportal/pkg/forms"
	"github.com/macro-obs/obsportal/pkg/render"
	"github.com/macro-obs/obsportal/pkg/render/template/pongo"
)

// StylesheetAssetKey resolves the themed stylesheet URL when a theme config
// with an AssetURL resolver is supplied.
const StylesheetAssetKey = "html.stylesheet"

type Option func(*config)

type config struct {
	templateFS fs.FS
	engine     *pongo.Engine
	themeCfg   *theme.RendererConfig
	assetPath  string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithEngine injects a pre-configured template engine.
func WithEngine(engine *pongo.Engine) Option {
	return func(cfg *config) {
		if engine != nil {
			cfg.engine = engine
		}
	}
}

// WithTheme applies a theme configuration. CSS variables are emitted as a
// :root style block and the stylesheet URL is resolved through the theme's
// AssetURL when present.
func WithTheme(themeCfg *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.themeCfg = themeCfg
	}
}

// WithAssetPath overrides the URL prefix the default stylesheet and runtime
// script are served under. Defaults to "/assets".
func WithAssetPath(path string) Option {
	return func(cfg *config) {
		trimmed := strings.TrimRight(strings.TrimSpace(path), "/")
		if trimmed != "" {
			cfg.assetPath = trimmed
		}
	}
}

// Renderer implements render.Renderer for the HTML surface.
type Renderer struct {
	engine    *pongo.Engine
	themeView themeView
	assets    assetView
}

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS: TemplatesFS(),
		assetPath:  "/assets",
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	engine := cfg.engine
	if engine == nil {
		var err error
		engine, err = pongo.New(pongo.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template engine: %w", err)
		}
	}

	return &Renderer{
		engine:    engine,
		themeView: buildThemeView(cfg.themeCfg),
		assets:    buildAssetView(cfg.assetPath, cfg.themeCfg),
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render executes the page template named by page.Name. Form models are
// flattened into per-field views so templates stay free of lookup logic.
func (r *Renderer) Render(_ context.Context, page render.Page, options render.Options) ([]byte, error) {
	if r.engine == nil {
		return nil, fmt.Errorf("html renderer: template engine is nil")
	}
	if page.Name == "" {
		return nil, fmt.Errorf("html renderer: page name is required")
	}

	mode := options.Mode
	if mode == "" {
		mode = forms.FormTypeSingle
	}

	views := make([]formView, 0, len(page.Forms))
	for _, form := range page.Forms {
		views = append(views, buildFormView(form, options))
	}

	data := map[string]any{
		"page":    pageView{Name: page.Name, Title: page.Title},
		"forms":   views,
		"mode":    mode,
		"viewer":  options.Viewer,
		"values":  options.Values,
		"errors":  options.Errors,
		"flashes": render.SanitizeFlashes(options.Flashes),
		"theme":   r.themeView,
		"assets":  r.assets,
	}
	for key, value := range page.Data {
		if _, reserved := data[key]; reserved {
			continue
		}
		data[key] = value
	}

	result, err := r.engine.RenderTemplate("templates/pages/"+page.Name, data)
	if err != nil {
		return nil, fmt.Errorf("html renderer: render page %q: %w", page.Name, err)
	}
	return []byte(result), nil
}

type pageView struct {
	Name  string
	Title string
}

type themeView struct {
	Name         string
	Variant      string
	CSSVarsStyle string
}

type assetView struct {
	StylesheetURL string
	SwitcherURL   string
}

// formView flattens a forms.FormModel for template consumption. Mode carries
// the hidden form_type discriminator so the submit page can mark the
// non-initial form hidden without any template-side map lookups.
type formView struct {
	Name     string
	Title    string
	Endpoint string
	Method   string
	Enctype  string
	Mode     string
	Hidden   []hiddenView
	Fields   []fieldView
}

type hiddenView struct {
	Name  string
	Value string
}

type fieldView struct {
	Name        string
	ID          string
	Type        string
	Required    bool
	Label       string
	Placeholder string
	Description string
	Value       string
	Checked     bool
	Accept      string
	Errors      []string
}

func buildFormView(form forms.FormModel, options render.Options) formView {
	view := formView{
		Name:     form.Name,
		Title:    form.Title,
		Endpoint: form.Endpoint,
		Method:   form.Method,
		Enctype:  form.Enctype,
		Mode:     form.Hidden["form_type"],
	}

	hiddenNames := make([]string, 0, len(form.Hidden))
	for name := range form.Hidden {
		hiddenNames = append(hiddenNames, name)
	}
	sort.Strings(hiddenNames)
	for _, name := range hiddenNames {
		view.Hidden = append(view.Hidden, hiddenView{Name: name, Value: form.Hidden[name]})
	}

	for _, field := range form.Fields {
		view.Fields = append(view.Fields, buildFieldView(form.Name, field, options))
	}
	return view
}

func buildFieldView(formName string, field forms.Field, options render.Options) fieldView {
	value := options.Value(field.Name)
	if value == "" && field.Default != nil {
		value = fmt.Sprintf("%v", field.Default)
	}

	view := fieldView{
		Name:        field.Name,
		ID:          formName + "-" + field.Name,
		Type:        inputType(field.Type),
		Required:    field.Required,
		Label:       field.Label,
		Placeholder: field.Placeholder,
		Description: field.Description,
		Value:       value,
		Accept:      field.Metadata[forms.MetaAccept],
		Errors:      options.FieldErrors(field.Name),
	}

	if field.Type == forms.FieldTypeCheckbox {
		view.Value = ""
		switch strings.ToLower(options.Value(field.Name)) {
		case "on", "true", "1":
			view.Checked = true
		}
	}
	return view
}

func inputType(fieldType forms.FieldType) string {
	switch fieldType {
	case forms.FieldTypeInteger:
		return "number"
	case forms.FieldTypeCheckbox:
		return "checkbox"
	case forms.FieldTypeFile:
		return "file"
	case forms.FieldTypeHidden:
		return "hidden"
	default:
		return "text"
	}
}

func buildThemeView(cfg *theme.RendererConfig) themeView {
	if cfg == nil {
		return themeView{}
	}
	return themeView{
		Name:         cfg.Theme,
		Variant:      cfg.Variant,
		CSSVarsStyle: cssVarsStyle(cfg.CSSVars),
	}
}

func buildAssetView(assetPath string, cfg *theme.RendererConfig) assetView {
	view := assetView{
		StylesheetURL: assetPath + "/" + StylesheetName,
		SwitcherURL:   assetPath + "/" + RuntimeScriptName,
	}
	if cfg != nil && cfg.AssetURL != nil {
		if url := cfg.AssetURL(StylesheetAssetKey); url != "" {
			view.StylesheetURL = url
		}
	}
	return view
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
