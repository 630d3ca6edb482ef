package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/macro-obs/obsportal/pkg/forms"
)

func TestDocumentLoadsAndValidates(t *testing.T) {
	doc, err := Document(context.Background())
	if err != nil {
		t.Fatalf("load document: %v", err)
	}

	for _, path := range []string{forms.SingleEndpoint, forms.UploadEndpoint} {
		item := doc.Paths.Find(path)
		if item == nil || item.Post == nil {
			t.Fatalf("expected POST %s in the document", path)
		}
	}
}

func TestDocumentMatchesSingleEntryForm(t *testing.T) {
	doc, err := Document(context.Background())
	if err != nil {
		t.Fatalf("load document: %v", err)
	}

	body := doc.Paths.Find(forms.SingleEndpoint).Post.RequestBody.Value
	media := body.Content.Get("application/x-www-form-urlencoded")
	if media == nil {
		t.Fatal("expected form-encoded request body for the single endpoint")
	}
	schema := media.Schema.Value

	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	form := forms.SingleEntryForm()
	for _, field := range form.Fields {
		if _, ok := schema.Properties[field.Name]; !ok {
			t.Fatalf("document is missing property %q", field.Name)
		}
		if field.Required && !required[field.Name] {
			t.Fatalf("document does not require %q", field.Name)
		}
	}
	if !required["form_type"] {
		t.Fatal("document does not require the form_type discriminator")
	}
}

func TestHandlerServesJSON(t *testing.T) {
	doc, err := Document(context.Background())
	if err != nil {
		t.Fatalf("load document: %v", err)
	}

	recorder := httptest.NewRecorder()
	Handler(doc).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/openapi.json", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var payload map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if payload["openapi"] == "" {
		t.Fatal("expected an openapi version marker")
	}

	recorder = httptest.NewRecorder()
	Handler(doc).ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/openapi.json", nil))
	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for POST, got %d", recorder.Code)
	}
}
