package render

import "github.com/macro-obs/obsportal/pkg/visibility"

// Viewer identifies the authenticated observer a page is rendered for.
// A zero Viewer renders the logged-out chrome.
type Viewer struct {
	FirstName    string
	Email        string
	ObserverCode string
	Role         visibility.Role
	LoggedIn     bool
}

// Options describe per-request data renderers use to customise their output
// without mutating the page's form models.
type Options struct {
	// Mode selects which of the two submission forms is initially visible
	// ("single" or "file"). Renderers convey it via a data attribute so the
	// client-side switcher never executes interpolated values.
	Mode string
	// Values pre-populates rendered controls by field name, typically to
	// preserve input after a failed submission.
	Values map[string]string
	// Errors surfaces server-side validation feedback keyed by field name.
	Errors map[string][]string
	// Flashes are one-shot notices rendered at the top of the page. They are
	// sanitised before rendering; see SanitizeFlashes.
	Flashes []string
	// Viewer drives the logged-in chrome and role-conditional rendering.
	Viewer Viewer
}

// Value returns the preserved value for a field, or the empty string.
func (o Options) Value(name string) string {
	if o.Values == nil {
		return ""
	}
	return o.Values[name]
}

// FieldErrors returns the error messages recorded for a field.
func (o Options) FieldErrors(name string) []string {
	if o.Errors == nil {
		return nil
	}
	return o.Errors[name]
}
