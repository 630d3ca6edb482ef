package html

import (
	"context"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/macro-obs/obsportal/pkg/forms"
	"github.com/macro-obs/obsportal/pkg/render"
	"github.com/macro-obs/obsportal/pkg/visibility"
)

func submitPage(role visibility.Role) render.Page {
	single := forms.SingleEntryForm()
	upload := forms.FileUploadForm()
	ctx := visibility.Context{Role: role}
	visibility.Apply(&single, visibility.RoleEvaluator(), ctx)
	visibility.Apply(&upload, visibility.RoleEvaluator(), ctx)

	return render.Page{
		Name:  "submit",
		Title: "Submit",
		Forms: []forms.FormModel{single, upload},
	}
}

func renderSubmit(t *testing.T, role visibility.Role, options render.Options) string {
	t.Helper()
	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	output, err := renderer.Render(context.Background(), submitPage(role), options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(output)
}

func TestRenderSubmitDefaultsToSingleMode(t *testing.T) {
	output := renderSubmit(t, visibility.RoleNovice, render.Options{})

	if !strings.Contains(output, `data-initial-mode="single"`) {
		t.Fatal("expected switcher to carry the initial mode attribute")
	}
	if !strings.Contains(output, `data-form-mode="single"`) {
		t.Fatal("expected single form to be tagged with its mode")
	}
	if !strings.Contains(output, `data-form-mode="file" hidden`) {
		t.Fatal("expected file form to start hidden in single mode")
	}
	if strings.Contains(output, `data-form-mode="single" hidden`) {
		t.Fatal("expected single form to start visible")
	}
}

func TestRenderSubmitFileMode(t *testing.T) {
	output := renderSubmit(t, visibility.RoleNovice, render.Options{Mode: forms.FormTypeFile})

	if !strings.Contains(output, `data-initial-mode="file"`) {
		t.Fatal("expected switcher to carry file mode")
	}
	if !strings.Contains(output, `data-form-mode="single" hidden`) {
		t.Fatal("expected single form to start hidden in file mode")
	}
	if strings.Contains(output, `data-form-mode="file" hidden`) {
		t.Fatal("expected file form to start visible")
	}
}

func TestRenderSubmitRequiredAndAccept(t *testing.T) {
	output := renderSubmit(t, visibility.RoleNovice, render.Options{})

	for _, name := range []string{"ra", "dec", "nexp", "exposure_time", "schedule_file"} {
		input := `name="` + name + `"`
		idx := strings.Index(output, input)
		if idx < 0 {
			t.Fatalf("expected input for %s", name)
		}
		end := strings.Index(output[idx:], ">")
		if !strings.Contains(output[idx:idx+end], "required") {
			t.Fatalf("expected %s input to be required", name)
		}
	}

	if !strings.Contains(output, `accept=".sch,.txt,.csv,.ecsv"`) {
		t.Fatal("expected file input to restrict extensions")
	}
	if !strings.Contains(output, `type="hidden" name="form_type" value="single"`) {
		t.Fatal("expected hidden form_type discriminator on the single form")
	}
	if !strings.Contains(output, `type="hidden" name="form_type" value="file"`) {
		t.Fatal("expected hidden form_type discriminator on the upload form")
	}
}

func TestRenderSubmitRoleConditionalFields(t *testing.T) {
	novice := renderSubmit(t, visibility.RoleNovice, render.Options{})
	if strings.Contains(novice, `name="cadence"`) {
		t.Fatal("expected cadence to be absent for novice")
	}
	if strings.Contains(novice, `name="priority_override"`) {
		t.Fatal("expected priority override to be absent for novice")
	}

	intermediate := renderSubmit(t, visibility.RoleIntermediate, render.Options{})
	if !strings.Contains(intermediate, `name="cadence"`) {
		t.Fatal("expected cadence for intermediate")
	}
	if strings.Contains(intermediate, `name="priority_override"`) {
		t.Fatal("expected priority override to be absent for intermediate")
	}

	admin := renderSubmit(t, visibility.RoleAdmin, render.Options{})
	if !strings.Contains(admin, `name="cadence"`) {
		t.Fatal("expected cadence for admin")
	}
	if !strings.Contains(admin, `name="priority_override"`) {
		t.Fatal("expected priority override for admin")
	}
	if !strings.Contains(admin, `type="checkbox"`) {
		t.Fatal("expected priority override to render as a checkbox")
	}
}

func TestRenderPreservesValuesAndErrors(t *testing.T) {
	options := render.Options{
		Values: map[string]string{"ra": "14:15:39"},
		Errors: map[string][]string{"dec": {"Declination is required"}},
	}
	output := renderSubmit(t, visibility.RoleNovice, options)

	if !strings.Contains(output, `value="14:15:39"`) {
		t.Fatal("expected submitted RA to be preserved")
	}
	if !strings.Contains(output, "Declination is required") {
		t.Fatal("expected field error message to render")
	}
	if !strings.Contains(output, "has-errors") {
		t.Fatal("expected errored field to be marked")
	}
}

func TestRenderSanitizesFlashes(t *testing.T) {
	options := render.Options{
		Flashes: []string{`Added 3 observations <script>alert(1)</script>`},
	}
	output := renderSubmit(t, visibility.RoleNovice, options)

	if strings.Contains(output, "<script>alert(1)</script>") {
		t.Fatal("expected script tags to be stripped from flashes")
	}
	if !strings.Contains(output, "Added 3 observations") {
		t.Fatal("expected flash text to survive sanitising")
	}
}

func TestRenderViewerChrome(t *testing.T) {
	options := render.Options{
		Viewer: render.Viewer{
			FirstName:    "Jane",
			ObserverCode: "mjd",
			Role:         visibility.RoleNovice,
			LoggedIn:     true,
		},
	}
	output := renderSubmit(t, visibility.RoleNovice, options)

	if !strings.Contains(output, "Jane (mjd)") {
		t.Fatal("expected logged-in viewer chrome")
	}
	if !strings.Contains(output, `href="/logout"`) {
		t.Fatal("expected logout link for logged-in viewer")
	}

	anonymous := renderSubmit(t, visibility.RoleNovice, render.Options{})
	if !strings.Contains(anonymous, `href="/login"`) {
		t.Fatal("expected login link for anonymous viewer")
	}
}

func TestRenderWithTheme(t *testing.T) {
	renderer, err := New(WithTheme(&theme.RendererConfig{
		Theme:   "macro",
		Variant: "dark",
		CSSVars: map[string]string{"--obsportal-accent": "#ff8800"},
		AssetURL: func(key string) string {
			return "/themes/macro/" + key
		},
	}))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	output, err := renderer.Render(context.Background(), submitPage(visibility.RoleNovice), render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	html := string(output)
	if !strings.Contains(html, "theme-dark") {
		t.Fatal("expected variant class on body")
	}
	if !strings.Contains(html, "--obsportal-accent: #ff8800;") {
		t.Fatal("expected CSS vars style block")
	}
	if !strings.Contains(html, `href="/themes/macro/html.stylesheet"`) {
		t.Fatal("expected themed stylesheet URL")
	}
}

func TestRenderUnknownPage(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := renderer.Render(context.Background(), render.Page{Name: "missing"}, render.Options{}); err == nil {
		t.Fatal("expected error for unknown page template")
	}
}

func TestAssetsBundle(t *testing.T) {
	assets := AssetsFS()
	for _, name := range []string{StylesheetName, RuntimeScriptName} {
		if _, err := assets.Open(name); err != nil {
			t.Fatalf("expected embedded asset %s: %v", name, err)
		}
	}
}
