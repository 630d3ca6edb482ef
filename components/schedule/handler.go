package schedule

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/macro-obs/obsportal/components/auth"
	"github.com/macro-obs/obsportal/internal/httpflash"
	"github.com/macro-obs/obsportal/pkg/forms"
	"github.com/macro-obs/obsportal/pkg/render"
	"github.com/macro-obs/obsportal/pkg/schedule"
	"github.com/macro-obs/obsportal/pkg/visibility"
)

type handler struct {
	opts Options
}

func newHandler(opts Options) *handler {
	return &handler{opts: opts}
}

// home renders the landing page. The root pattern matches everything, so
// unknown paths 404 here.
func (h *handler) home(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != h.opts.HomePath {
		http.NotFound(w, r)
		return
	}

	page := render.Page{Name: "home", Title: "Home"}
	h.renderPage(w, r, http.StatusOK, page, render.Options{})
}

// submit serves the submission page on GET and the schedule file upload on
// POST; both live on the same path.
func (h *handler) submit(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		mode := normalizeMode(r.URL.Query().Get("form_type"))
		h.renderSubmit(w, r, http.StatusOK, mode, nil, nil)
	case http.MethodPost:
		h.handleUpload(w, r)
	default:
		w.Header().Set("Allow", http.MethodGet+", "+http.MethodPost)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

// single accepts the manual one-target form. Role-gated fields are dropped
// server-side when the session role does not qualify, whatever the browser
// sent.
func (h *handler) single(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	viewer, _ := auth.ViewerFrom(r.Context())

	form := forms.SingleEntryForm()
	if err := visibility.Apply(&form, h.opts.Evaluator, visibility.Context{Role: viewer.Role}); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	values := map[string]string{}
	for _, name := range form.FieldNames() {
		values[name] = strings.TrimSpace(r.PostFormValue(name))
	}

	request, fieldErrors := buildRequest(viewer, form, values)
	if len(fieldErrors) > 0 {
		h.renderSubmit(w, r, http.StatusUnprocessableEntity, forms.FormTypeSingle, values, fieldErrors)
		return
	}

	created, err := h.opts.Store.CreateRequest(r.Context(), request)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if !created {
		httpflash.Set(w, "An identical request is already queued; nothing was added.")
	} else {
		httpflash.Set(w, fmt.Sprintf("Observation request for %s submitted.", request.TargetName))
	}
	http.Redirect(w, r, h.opts.ObservationsPath, http.StatusSeeOther)
}

// buildRequest converts the visible form values into a schedule request.
// Validation feedback is keyed by field name so the form can re-render with
// inline errors.
func buildRequest(viewer render.Viewer, form forms.FormModel, values map[string]string) (schedule.Request, map[string][]string) {
	fieldErrors := map[string][]string{}

	request := schedule.Request{
		ObserverCode: viewer.ObserverCode,
		TargetName:   values["target_name"],
		RA:           values["ra"],
		Dec:          values["dec"],
		Filters:      values["filters"],
	}

	for _, field := range form.Fields {
		if field.Required && values[field.Name] == "" {
			fieldErrors[field.Name] = append(fieldErrors[field.Name], field.Label+" is required.")
		}
	}

	for name, target := range map[string]*int{
		"nexp":          &request.NExp,
		"exposure_time": &request.ExposureTime,
	} {
		raw := values[name]
		if raw == "" {
			continue
		}
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			fieldErrors[name] = append(fieldErrors[name], "Must be a positive whole number.")
			continue
		}
		*target = value
	}

	// Only fields the role may see made it into values; a cadence or
	// priority override posted by a lesser role never reaches the request.
	if _, visible := form.Field("cadence"); visible {
		cadence := values["cadence"]
		if cadence != "" && !schedule.ValidClock(cadence) {
			fieldErrors["cadence"] = append(fieldErrors["cadence"], "Cadence must follow hh:mm:ss.")
		} else {
			request.Cadence = cadence
		}
	}
	if _, visible := form.Field("priority_override"); visible {
		switch strings.ToLower(values["priority_override"]) {
		case "on", "true", "1":
			request.Priority = schedule.PriorityOverride
		}
	}

	if len(fieldErrors) > 0 {
		return schedule.Request{}, fieldErrors
	}

	request.Normalize()
	if err := request.Validate(); err != nil {
		fieldErrors["ra"] = append(fieldErrors["ra"], err.Error())
		return schedule.Request{}, fieldErrors
	}
	return request, nil
}

func (h *handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	viewer, _ := auth.ViewerFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.opts.MaxUploadBytes); err != nil {
		h.renderSubmit(w, r, http.StatusUnprocessableEntity, forms.FormTypeFile, nil,
			map[string][]string{"schedule_file": {"Upload too large or malformed."}})
		return
	}

	file, header, err := r.FormFile("schedule_file")
	if err != nil {
		h.renderSubmit(w, r, http.StatusUnprocessableEntity, forms.FormTypeFile, nil,
			map[string][]string{"schedule_file": {"Pick a schedule file to upload."}})
		return
	}
	defer file.Close()

	if !forms.AllowedExtension(header.Filename) {
		h.renderSubmit(w, r, http.StatusUnprocessableEntity, forms.FormTypeFile, nil,
			map[string][]string{"schedule_file": {
				"Accepted formats: " + strings.Join(forms.UploadExtensions, ", ") + ".",
			}})
		return
	}

	requests, err := schedule.ParseFile(header.Filename, file)
	if err != nil {
		h.renderSubmit(w, r, http.StatusUnprocessableEntity, forms.FormTypeFile, nil,
			map[string][]string{"schedule_file": {err.Error()}})
		return
	}

	for i := range requests {
		requests[i].ObserverCode = viewer.ObserverCode
	}

	added, skipped, err := h.opts.Store.CreateBatch(r.Context(), requests)
	if err != nil {
		h.renderSubmit(w, r, http.StatusUnprocessableEntity, forms.FormTypeFile, nil,
			map[string][]string{"schedule_file": {err.Error()}})
		return
	}

	notice := fmt.Sprintf("Added %d observation request(s) from %s.", added, header.Filename)
	if skipped > 0 {
		notice = fmt.Sprintf("%s Skipped %d duplicate(s).", notice, skipped)
	}
	httpflash.Set(w, notice)
	http.Redirect(w, r, h.opts.ObservationsPath, http.StatusSeeOther)
}

func (h *handler) observations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	if h.opts.Guard != nil {
		if err := h.opts.Guard(r); err != nil {
			auth.WriteGuardError(w, err)
			return
		}
	}

	viewer, _ := auth.ViewerFrom(r.Context())
	requests, err := h.opts.Store.RequestsByObserver(r.Context(), viewer.ObserverCode)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	page := render.Page{
		Name:  "observations",
		Title: "My Observations",
		Data:  map[string]any{"requests": requests},
	}
	h.renderPage(w, r, http.StatusOK, page, render.Options{})
}

func (h *handler) faq(w http.ResponseWriter, r *http.Request) {
	page := render.Page{Name: "faq", Title: "FAQ"}
	h.renderPage(w, r, http.StatusOK, page, render.Options{})
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := h.opts.Store.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "degraded"})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (h *handler) renderSubmit(w http.ResponseWriter, r *http.Request, status int, mode string, values map[string]string, fieldErrors map[string][]string) {
	viewer, _ := auth.ViewerFrom(r.Context())

	single := forms.SingleEntryForm()
	upload := forms.FileUploadForm()
	ctx := visibility.Context{Role: viewer.Role}
	if err := visibility.Apply(&single, h.opts.Evaluator, ctx); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if err := visibility.Apply(&upload, h.opts.Evaluator, ctx); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	page := render.Page{
		Name:  "submit",
		Title: "Submit",
		Forms: []forms.FormModel{single, upload},
	}
	h.renderPage(w, r, status, page, render.Options{
		Mode:   mode,
		Values: values,
		Errors: fieldErrors,
	})
}

func (h *handler) renderPage(w http.ResponseWriter, r *http.Request, status int, page render.Page, options render.Options) {
	viewer, _ := auth.ViewerFrom(r.Context())
	options.Viewer = viewer
	if options.Flashes == nil {
		options.Flashes = httpflash.Take(w, r)
	}

	body, err := h.opts.Renderer.Render(r.Context(), page, options)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", h.opts.Renderer.ContentType())
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func normalizeMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case forms.FormTypeFile:
		return forms.FormTypeFile
	default:
		return forms.FormTypeSingle
	}
}
