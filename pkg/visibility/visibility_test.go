package visibility

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/macro-obs/obsportal/pkg/forms"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"novice":        RoleNovice,
		"  Admin ":      RoleAdmin,
		"INTERMEDIATE":  RoleIntermediate,
		"superobserver": "",
		"":              "",
	}
	for raw, want := range cases {
		if got := ParseRole(raw); got != want {
			t.Fatalf("ParseRole(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestAtLeast(t *testing.T) {
	if !RoleAdmin.AtLeast(RoleNovice) {
		t.Fatal("admin should satisfy novice")
	}
	if !RoleIntermediate.AtLeast(RoleIntermediate) {
		t.Fatal("a role should satisfy itself")
	}
	if RoleNovice.AtLeast(RoleIntermediate) {
		t.Fatal("novice should not satisfy intermediate")
	}
	if Role("").AtLeast(RoleNovice) {
		t.Fatal("unknown roles satisfy nothing")
	}
	if RoleAdmin.AtLeast(Role("galactic")) {
		t.Fatal("unknown minimums are never satisfied")
	}
}

func TestApplyFiltersByRole(t *testing.T) {
	cases := []struct {
		role Role
		want []string
	}{
		{RoleNovice, []string{"target_name", "ra", "dec", "nexp", "exposure_time", "filters"}},
		{RoleIntermediate, []string{"target_name", "ra", "dec", "nexp", "exposure_time", "filters", "cadence"}},
		{RoleLead, []string{"target_name", "ra", "dec", "nexp", "exposure_time", "filters", "cadence"}},
		{RoleAdmin, []string{"target_name", "ra", "dec", "nexp", "exposure_time", "filters", "cadence", "priority_override"}},
		{Role(""), []string{"target_name", "ra", "dec", "nexp", "exposure_time", "filters"}},
	}

	for _, tc := range cases {
		form := forms.SingleEntryForm()
		if err := Apply(&form, RoleEvaluator(), Context{Role: tc.role}); err != nil {
			t.Fatalf("apply for %q: %v", tc.role, err)
		}
		if diff := cmp.Diff(tc.want, form.FieldNames()); diff != "" {
			t.Fatalf("fields for %q mismatch (-want +got):\n%s", tc.role, diff)
		}
	}
}

func TestApplyMalformedRuleHidesField(t *testing.T) {
	form := forms.FormModel{
		Fields: []forms.Field{
			{Name: "plain"},
			{Name: "gated", Metadata: map[string]string{forms.MetaMinRole: "emperor"}},
		},
	}
	if err := Apply(&form, RoleEvaluator(), Context{Role: RoleAdmin}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if diff := cmp.Diff([]string{"plain"}, form.FieldNames()); diff != "" {
		t.Fatalf("expected malformed rule to hide the field (-want +got):\n%s", diff)
	}
}

func TestApplyNilEvaluatorKeepsFields(t *testing.T) {
	form := forms.SingleEntryForm()
	total := len(form.Fields)
	if err := Apply(&form, nil, Context{}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if len(form.Fields) != total {
		t.Fatalf("expected all %d fields kept, got %d", total, len(form.Fields))
	}
}

func TestVisibleFields(t *testing.T) {
	visible := VisibleFields(RoleNovice)
	if visible["cadence"] || visible["priority_override"] {
		t.Fatal("novice should not see gated fields")
	}
	if !visible["ra"] || !visible["dec"] {
		t.Fatal("baseline fields should always be visible")
	}

	admin := VisibleFields(RoleAdmin)
	if !admin["cadence"] || !admin["priority_override"] {
		t.Fatal("admin should see every field")
	}
}
