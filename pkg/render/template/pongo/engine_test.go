package pongo

import (
	"strings"
	"testing"
	"testing/fstest"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"templates/base.html": &fstest.MapFile{
			Data: []byte("<title>{% block title %}default{% endblock %}</title>"),
		},
		"templates/child.html": &fstest.MapFile{
			Data: []byte(`{% extends "templates/base.html" %}{% block title %}{{ name }}{% endblock %}`),
		},
		"templates/pages/nested.html": &fstest.MapFile{
			Data: []byte(`{% extends "templates/base.html" %}{% block title %}{% include "templates/partials/name.html" %}{% endblock %}`),
		},
		"templates/partials/name.html": &fstest.MapFile{
			Data: []byte("{{ name }}"),
		},
	}
}

func TestNewRequiresSource(t *testing.T) {
	if _, err := New(); err == nil {
		t.Fatal("expected error without a template source")
	}
}

func TestRenderTemplateWithInheritance(t *testing.T) {
	engine, err := New(WithFS(testFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	out, err := engine.RenderTemplate("templates/child", map[string]any{"name": "obsportal"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<title>obsportal</title>") {
		t.Fatalf("unexpected output %q", out)
	}

	// Second render hits the path cache.
	if _, err := engine.RenderTemplate("templates/child.html", map[string]any{"name": "again"}); err != nil {
		t.Fatalf("cached render: %v", err)
	}
}

func TestRenderTemplateResolvesFromBundleRoot(t *testing.T) {
	engine, err := New(WithFS(testFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	// Extends and includes in a nested directory must resolve against the
	// bundle root, not the including template's directory.
	out, err := engine.RenderTemplate("templates/pages/nested", map[string]any{"name": "obsportal"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<title>obsportal</title>") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderTemplateUnknownPath(t *testing.T) {
	engine, err := New(WithFS(testFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	if _, err := engine.RenderTemplate("templates/missing", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestRenderString(t *testing.T) {
	engine, err := New(WithFS(testFS()))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	out, err := engine.RenderString("{{ a }}+{{ b }}", map[string]any{"a": 1, "b": 2})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if out != "1+2" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestGlobals(t *testing.T) {
	engine, err := New(WithFS(testFS()), WithGlobals(map[string]any{"site": "MACRO"}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	out, err := engine.RenderString("{{ site }}", nil)
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if out != "MACRO" {
		t.Fatalf("expected global to resolve, got %q", out)
	}
}
