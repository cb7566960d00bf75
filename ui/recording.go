package ui

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// Entry records a single UI method call for test assertions.
type Entry struct {
	Method string
	Value  string // formatted text, or the input served for Ask
	Level  int
}

// sharedState is shared by a RecordingUI and every child from Indent so that
// nested Ask calls advance one input cursor.
type sharedState struct {
	mu      sync.Mutex
	entries []Entry
	inputs  []string
	nextIdx int
	buf     bytes.Buffer
	// inputHook runs before each scripted input is served.
	inputHook func(idx int)
}

// RecordingUI implements UI for tests. Output is captured as entries; Ask,
// Confirm and Choose serve scripted inputs in order and panic when the script
// runs out.
type RecordingUI struct {
	shared      *sharedState
	indentLevel int
}

func NewRecordingUI(scriptedInputs ...string) *RecordingUI {
	return &RecordingUI{
		shared: &sharedState{inputs: scriptedInputs},
	}
}

// OnInput registers fn to run before the scripted input at idx is served.
// Tests use it to wait for background work between prompts.
func (r *RecordingUI) OnInput(fn func(idx int)) {
	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	r.shared.inputHook = fn
}

func (r *RecordingUI) record(method, value string) {
	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	r.shared.entries = append(r.shared.entries, Entry{
		Method: method,
		Value:  value,
		Level:  r.indentLevel,
	})
}

func (r *RecordingUI) nextInput(caller string) string {
	r.shared.mu.Lock()
	hook := r.shared.inputHook
	idx := r.shared.nextIdx
	r.shared.mu.Unlock()
	if hook != nil {
		hook(idx)
	}

	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	if r.shared.nextIdx >= len(r.shared.inputs) {
		panic(fmt.Sprintf(
			"RecordingUI: no scripted input left for %s (consumed %d so far)",
			caller, r.shared.nextIdx,
		))
	}
	input := r.shared.inputs[r.shared.nextIdx]
	r.shared.nextIdx++
	return input
}

func (r *RecordingUI) Style(t StyledText) string {
	return t.Text
}

func (r *RecordingUI) Info(format string, args ...any) {
	r.record("Info", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Success(format string, args ...any) {
	r.record("Success", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Warn(format string, args ...any) {
	r.record("Warn", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Error(format string, args ...any) {
	r.record("Error", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Critical(format string, args ...any) {
	r.record("Critical", fmt.Sprintf(format, args...))
}

func (r *RecordingUI) Section(title string) {
	r.record("Section", title)
}

func (r *RecordingUI) Interpret(value string) {
	r.record("Interpret", value)
}

// KeyValue records each row as "label: value".
func (r *RecordingUI) KeyValue(rows [][2]string) {
	for _, row := range rows {
		r.record("KeyValue", row[0]+": "+row[1])
	}
}

// Table records each row with its cells joined by " | ".
func (r *RecordingUI) Table(headers []string, rows [][]string) {
	r.TableWithGroups(headers, [][][]string{rows})
}

func (r *RecordingUI) TableWithGroups(headers []string, groups [][][]string) {
	for _, g := range groups {
		for _, row := range g {
			r.record("Table", strings.Join(row, " | "))
		}
	}
}

func (r *RecordingUI) Spinner(msg string) func() {
	r.record("Spinner", msg)
	return func() {}
}

// Ask returns the next scripted input. Input failing validate panics since
// there is no user to correct it.
func (r *RecordingUI) Ask(validate func(string) error) string {
	input := r.nextInput("Ask")
	r.record("Ask", input)
	if validate != nil {
		if err := validate(input); err != nil {
			panic(fmt.Sprintf(
				"RecordingUI: scripted input %q failed validation in Ask: %s",
				input, err,
			))
		}
	}
	return input
}

// Confirm reads "y"/"yes" as true, "n"/"no" as false and "" as defaultYes.
func (r *RecordingUI) Confirm(prompt string, defaultYes bool) bool {
	r.record("Confirm", prompt)
	input := strings.ToLower(strings.TrimSpace(r.nextInput("Confirm")))
	if input == "" {
		return defaultYes
	}
	return input == "y" || input == "yes"
}

// Choose accepts a 1-based number or the option text, case-insensitive.
func (r *RecordingUI) Choose(prompt string, options []string) int {
	r.record("Choose", prompt)
	input := r.nextInput("Choose")
	if idx, err := strconv.Atoi(strings.TrimSpace(input)); err == nil {
		if idx >= 1 && idx <= len(options) {
			return idx - 1
		}
	}
	for i, opt := range options {
		if strings.EqualFold(input, opt) {
			return i
		}
	}
	panic(fmt.Sprintf(
		"RecordingUI: scripted input %q does not match any option in Choose(%q, %v)",
		input, prompt, options,
	))
}

func (r *RecordingUI) Indent() UI {
	return &RecordingUI{
		shared:      r.shared,
		indentLevel: r.indentLevel + 1,
	}
}

type lockedWriter struct {
	s *sharedState
}

func (w lockedWriter) Write(p []byte) (int, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()
	return w.s.buf.Write(p)
}

// Writer appends to an internal buffer read back with Output. Indentation
// is not applied.
func (r *RecordingUI) Writer() io.Writer {
	return lockedWriter{s: r.shared}
}

// --- Test helpers ---

func (r *RecordingUI) Entries() []Entry {
	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	return append([]Entry{}, r.shared.entries...)
}

func (r *RecordingUI) InfoMessages() []string {
	return r.methodValues("Info")
}

func (r *RecordingUI) ErrorMessages() []string {
	return r.methodValues("Error")
}

func (r *RecordingUI) WarnMessages() []string {
	return r.methodValues("Warn")
}

// HasMessage reports whether any entry's value contains substr, ignoring
// case.
func (r *RecordingUI) HasMessage(substr string) bool {
	lower := strings.ToLower(substr)
	for _, e := range r.Entries() {
		if strings.Contains(strings.ToLower(e.Value), lower) {
			return true
		}
	}
	return false
}

// Output returns everything written to Writer.
func (r *RecordingUI) Output() string {
	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	return r.shared.buf.String()
}

func (r *RecordingUI) methodValues(method string) []string {
	var out []string
	for _, e := range r.Entries() {
		if e.Method == method {
			out = append(out, e.Value)
		}
	}
	return out
}
