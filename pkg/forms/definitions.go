package forms

import "strings"

// Endpoints the browser posts the two forms to. Defined here so the form
// definitions, the HTTP component, and the OpenAPI document agree on them.
const (
	SingleEndpoint = "/schedule"
	UploadEndpoint = "/submit"
)

// Discriminator values carried in the hidden form_type field.
const (
	FormTypeSingle = "single"
	FormTypeFile   = "file"
)

// UploadExtensions lists the schedule file extensions the upload form
// accepts, in the order they appear in the accept attribute.
var UploadExtensions = []string{".sch", ".txt", ".csv", ".ecsv"}

// SingleEntryForm returns the manual one-target entry form. RA, Dec, number
// of exposures, and exposure time are required; cadence and the priority
// override only render for sufficiently privileged roles (see pkg/visibility).
func SingleEntryForm() FormModel {
	return FormModel{
		Name:     "single-entry",
		Title:    "Schedule an Observation",
		Endpoint: SingleEndpoint,
		Method:   "POST",
		Hidden:   map[string]string{"form_type": FormTypeSingle},
		Fields: []Field{
			{
				Name:        "target_name",
				Type:        FieldTypeText,
				Label:       "Target Name",
				Placeholder: "e.g. M31",
				Description: "Optional; defaults to a J2000 designation built from RA/Dec.",
			},
			{
				Name:        "ra",
				Type:        FieldTypeText,
				Required:    true,
				Label:       "Right Ascension",
				Placeholder: "hh:mm:ss",
			},
			{
				Name:        "dec",
				Type:        FieldTypeText,
				Required:    true,
				Label:       "Declination",
				Placeholder: "+dd:mm:ss",
			},
			{
				Name:     "nexp",
				Type:     FieldTypeInteger,
				Required: true,
				Label:    "Number of Exposures",
				Default:  1,
			},
			{
				Name:     "exposure_time",
				Type:     FieldTypeInteger,
				Required: true,
				Label:    "Exposure Time (s)",
				Default:  1,
			},
			{
				Name:        "filters",
				Type:        FieldTypeText,
				Label:       "Filters",
				Placeholder: "e.g. g,r,i",
			},
			{
				Name:        "cadence",
				Type:        FieldTypeText,
				Label:       "Cadence",
				Placeholder: "hh:mm:ss",
				Description: "Time between individual exposure start times.",
				Metadata:    map[string]string{MetaMinRole: "intermediate"},
			},
			{
				Name:     "priority_override",
				Type:     FieldTypeCheckbox,
				Label:    "Priority Override",
				Metadata: map[string]string{MetaMinRole: "admin"},
			},
		},
	}
}

// FileUploadForm returns the bulk schedule upload form. The file input is
// required and restricted client-side to the known schedule extensions; the
// server re-checks the extension on submission.
func FileUploadForm() FormModel {
	return FormModel{
		Name:     "file-upload",
		Title:    "Upload a Schedule File",
		Endpoint: UploadEndpoint,
		Method:   "POST",
		Enctype:  "multipart/form-data",
		Hidden:   map[string]string{"form_type": FormTypeFile},
		Fields: []Field{
			{
				Name:        "schedule_file",
				Type:        FieldTypeFile,
				Required:    true,
				Label:       "Schedule File",
				Description: "Accepted formats: " + strings.Join(UploadExtensions, ", "),
				Metadata:    map[string]string{MetaAccept: strings.Join(UploadExtensions, ",")},
			},
		},
	}
}

// AllowedExtension reports whether name carries one of the accepted schedule
// file extensions. The comparison is case-insensitive.
func AllowedExtension(name string) bool {
	lowered := strings.ToLower(strings.TrimSpace(name))
	for _, ext := range UploadExtensions {
		if strings.HasSuffix(lowered, ext) {
			return true
		}
	}
	return false
}
