package domain

// Setting is one configuration entry with its effective value.
type Setting struct {
	// Key is the configuration key, in dotted form.
	Key string

	// Value is the effective value, formatted for display.
	Value string

	// IsDefault is true when no value is stored and the built-in
	// default applies.
	IsDefault bool

	// Description says what the setting controls.
	Description string
}
