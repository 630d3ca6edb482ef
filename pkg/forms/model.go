package forms

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeInteger  FieldType = "integer"
	FieldTypeCheckbox FieldType = "checkbox"
	FieldTypeFile     FieldType = "file"
	FieldTypeHidden   FieldType = "hidden"
)

// Metadata keys understood by the visibility and render layers.
const (
	MetaMinRole = "minRole"
	MetaAccept  = "accept"
)

// Field models an individual input inside a portal form. Struct fields are
// annotated so renderers and tests can serialise them directly when needed.
type Field struct {
	Name        string            `json:"name"`
	Type        FieldType         `json:"type"`
	Required    bool              `json:"required"`
	Label       string            `json:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Description string            `json:"description,omitempty"`
	Default     any               `json:"default,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// FormModel is the top-level representation renderers consume. Endpoint and
// Method describe where the browser posts the fields; Enctype distinguishes
// the multipart upload form from the ordinary form-encoded one.
type FormModel struct {
	Name     string            `json:"name"`
	Title    string            `json:"title,omitempty"`
	Endpoint string            `json:"endpoint"`
	Method   string            `json:"method"`
	Enctype  string            `json:"enctype,omitempty"`
	Fields   []Field           `json:"fields"`
	Hidden   map[string]string `json:"hidden,omitempty"`
}

// Field returns the named field and whether it exists.
func (m FormModel) Field(name string) (Field, bool) {
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// FieldNames returns the field names in declaration order.
func (m FormModel) FieldNames() []string {
	names := make([]string, 0, len(m.Fields))
	for _, field := range m.Fields {
		names = append(names, field.Name)
	}
	return names
}
