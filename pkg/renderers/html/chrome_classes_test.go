package html

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/macro-obs/obsportal/pkg/render"
	"github.com/macro-obs/obsportal/pkg/visibility"
)

func TestChromeClassesMatchTemplates(t *testing.T) {
	options := render.Options{
		Flashes: []string{"Saved."},
		Errors:  map[string][]string{"dec": {"Declination is required"}},
	}
	output := renderSubmit(t, visibility.RoleNovice, options)

	for _, class := range []ChromeClass{
		ClassPage,
		ClassHeader,
		ClassFlashes,
		ClassSwitcher,
		ClassForm,
		ClassField,
		ClassErrors,
		ClassActions,
	} {
		if !strings.Contains(output, string(class)) {
			t.Fatalf("expected chrome class %q in the submit page", class)
		}
	}
}

func TestChromeClassTableInObservations(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	page := render.Page{
		Name:  "observations",
		Title: "My Observations",
		Data: map[string]any{"requests": []map[string]any{{
			"TargetName":   "Arcturus",
			"RA":           "14:15:39",
			"Dec":          "+19:10:56",
			"NExp":         3,
			"ExposureTime": 30,
			"Filters":      "g,r",
			"Priority":     "normal",
			"Status":       "pending",
			"SubmittedOn":  time.Now(),
		}}},
	}
	output, err := renderer.Render(context.Background(), page, render.Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(output), string(ClassTable)) {
		t.Fatalf("expected chrome class %q in the observations page", ClassTable)
	}
}
