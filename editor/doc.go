// Package editor is the editable page: it wires the document model, the
// element factory and the virtualization engine to a host scroll element,
// reads the host selection and turns keydown events into structural edits.
//
// The package is responsible for key dispatch, caret placement after merges
// and splits, rollback of failed edits, change events and persisted state.
package editor
