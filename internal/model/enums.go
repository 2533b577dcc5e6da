package model

import (
	"errors"
	"fmt"
)

// FieldType identifies one variant of the closed field palette.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldDropdown FieldType = "dropdown"
	FieldCheckbox FieldType = "checkbox"
	FieldDate     FieldType = "date"
	FieldEmail    FieldType = "email"
	FieldPhone    FieldType = "phone"
	FieldNumber   FieldType = "number"
)

// FieldTypes lists the palette in display order.
var FieldTypes = []FieldType{
	FieldText,
	FieldTextarea,
	FieldDropdown,
	FieldCheckbox,
	FieldDate,
	FieldEmail,
	FieldPhone,
	FieldNumber,
}

// paletteLabels holds the default label for each field type.
var paletteLabels = map[FieldType]string{
	FieldText:     "Text Input",
	FieldTextarea: "Textarea",
	FieldDropdown: "Dropdown",
	FieldCheckbox: "Checkbox",
	FieldDate:     "Date Picker",
	FieldEmail:    "Email",
	FieldPhone:    "Phone",
	FieldNumber:   "Number",
}

// ErrUnknownFieldType is returned when a string names no palette entry.
var ErrUnknownFieldType = errors.New("unknown field type")

// ErrUnknownTheme is returned for theme values other than light or dark.
var ErrUnknownTheme = errors.New("unknown theme")

// ErrUnknownPreviewMode is returned for preview modes outside the device set.
var ErrUnknownPreviewMode = errors.New("unknown preview mode")

// Valid reports whether t is one of the palette types.
func (t FieldType) Valid() bool {
	_, ok := paletteLabels[t]
	return ok
}

// Label returns the palette label for t, or "Field" for unknown types.
func (t FieldType) Label() string {
	if l, ok := paletteLabels[t]; ok {
		return l
	}
	return "Field"
}

// ParseFieldType converts s to a FieldType.
func ParseFieldType(s string) (FieldType, error) {
	t := FieldType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownFieldType, s)
	}
	return t, nil
}

// Theme is the persisted color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// Valid reports whether t is light or dark.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// ParseTheme converts s to a Theme.
func ParseTheme(s string) (Theme, error) {
	t := Theme(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
	}
	return t, nil
}

// PreviewMode is the device width the builder previews at.
type PreviewMode string

const (
	PreviewDesktop PreviewMode = "desktop"
	PreviewTablet  PreviewMode = "tablet"
	PreviewMobile  PreviewMode = "mobile"
)

// Valid reports whether m is a known device width.
func (m PreviewMode) Valid() bool {
	switch m {
	case PreviewDesktop, PreviewTablet, PreviewMobile:
		return true
	}
	return false
}

// ParsePreviewMode converts s to a PreviewMode.
func ParsePreviewMode(s string) (PreviewMode, error) {
	m := PreviewMode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPreviewMode, s)
	}
	return m, nil
}
