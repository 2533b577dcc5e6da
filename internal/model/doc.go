// Package model defines the form builder's data types: fields, forms,
// responses and the small enumerations shared by every other package.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import model; model imports nothing internal.
//
// Key design constraints:
//   - FieldType, Theme and PreviewMode are closed sets; parse functions
//     reject anything outside them
//   - Field IDs are assigned once and never patched
//   - JSON tags use camelCase to match the persisted record layout
//   - User-visible text is NFC normalized at construction and patch time
package model
