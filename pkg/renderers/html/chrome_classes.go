package html

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassPage     ChromeClass = "obsportal-page"
	ClassHeader   ChromeClass = "obsportal-header"
	ClassFlashes  ChromeClass = "obsportal-flashes"
	ClassSwitcher ChromeClass = "obsportal-switcher"
	ClassForm     ChromeClass = "obsportal-form"
	ClassField    ChromeClass = "obsportal-field"
	ClassErrors   ChromeClass = "obsportal-errors"
	ClassActions  ChromeClass = "obsportal-actions"
	ClassTable    ChromeClass = "obsportal-table"
)
