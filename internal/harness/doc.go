// Package harness runs scripted builder sessions and checks their outcome.
//
// A scenario drives one application context through a list of steps, the
// same operations a person performs in the builder and filler screens,
// then evaluates assertions against the final state. Every step appends a
// line to the execution trace, which is compared against a golden file.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: contact_form
//	description: "Build, save and fill a contact form"
//	steps:
//	  - op: create
//	    title: Contact
//	    as: contact
//	  - op: add_field
//	    type: email
//	    label: Email
//	    required: true
//	    as: email
//	  - op: save
//	  - op: submit
//	    form: contact
//	    values: { email: "ada@example.com" }
//	    expect: accepted
//	assertions:
//	  - type: field_labels
//	    labels: [Email]
//	  - type: response_count
//	    form: contact
//	    count: 1
//
// Steps may name their result with "as"; later steps and assertions refer
// to forms and fields by that alias. Unaliased references are used as
// literal ids.
//
// # Step Operations
//
//   - create: start a new form (title)
//   - add_field: append a field (type, label, placeholder, required, options)
//   - update_field: patch a field (field, patch)
//   - remove_field: delete a field (field)
//   - reorder: move a field (from, to)
//   - undo, redo, save
//   - load: open a saved form (form)
//   - select: select a field (field)
//   - submit: fill a saved form (form, values, expect accepted|rejected)
//
// # Assertion Types
//
//   - field_labels: labels of the current form, in order
//   - history: undo cursor and log length (index, len)
//   - saved_count: number of saved forms
//   - response_count: responses recorded for a form
//   - can_undo, can_redo: availability of undo and redo
//
// # Deterministic Testing
//
// Each run uses a fresh in-memory backend, testutil.DeterministicClock and
// sequential ids, so identical scenarios always produce identical traces.
package harness
