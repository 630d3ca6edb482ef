package render

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type stubRenderer struct {
	name string
}

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(context.Context, Page, Options) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(stubRenderer{name: "html"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(stubRenderer{name: "html"}); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatal("expected nil renderer to fail")
	}
	if err := registry.Register(stubRenderer{}); err == nil {
		t.Fatal("expected unnamed renderer to fail")
	}

	renderer, err := registry.Get("html")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if renderer.Name() != "html" {
		t.Fatalf("expected html renderer, got %s", renderer.Name())
	}

	if _, err := registry.Get("tui"); err == nil {
		t.Fatal("expected lookup of unknown renderer to fail")
	}
	if !registry.Has("html") || registry.Has("tui") {
		t.Fatal("Has disagrees with registered contents")
	}

	_ = registry.Register(stubRenderer{name: "json"})
	if diff := cmp.Diff([]string{"html", "json"}, registry.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestOptionsAccessors(t *testing.T) {
	options := Options{
		Values: map[string]string{"ra": "1:2:3"},
		Errors: map[string][]string{"dec": {"required"}},
	}
	if options.Value("ra") != "1:2:3" {
		t.Fatal("expected stored value")
	}
	if options.Value("missing") != "" {
		t.Fatal("expected empty string for unknown field")
	}
	if len(options.FieldErrors("dec")) != 1 {
		t.Fatal("expected one error for dec")
	}

	var zero Options
	if zero.Value("ra") != "" || zero.FieldErrors("dec") != nil {
		t.Fatal("zero options should be safe to query")
	}
}

func TestSanitizeFlashes(t *testing.T) {
	got := SanitizeFlashes([]string{
		"Added 3 observations",
		"<script>alert(1)</script>",
		"  <b>bold claim</b>  ",
		"",
	})
	want := []string{"Added 3 observations", "bold claim"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sanitize mismatch (-want +got):\n%s", diff)
	}

	if SanitizeFlashes(nil) != nil {
		t.Fatal("expected nil for no messages")
	}
	if SanitizeFlashes([]string{"<script>x</script>"}) != nil {
		t.Fatal("expected nil when everything is stripped")
	}
}
