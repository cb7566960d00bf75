package ui

import (
	"encoding/json"
	"io"
)

// Severity classifies the visual weight of a piece of inline text. The
// terminal maps each value to a colour; JSON consumers and tests see plain
// text.
type Severity uint8

const (
	SeverityInfo     Severity = iota // plain
	SeveritySuccess                  // green, a record that resolved
	SeverityWarn                     // yellow, absent or unsupported
	SeverityError                    // red, a failed lookup
	SeverityCritical                 // bold, addresses the user acts on
)

// StyledText pairs a plain string with a Severity annotation. It marshals as
// just the plain Text.
//
//	u.Info("Owner: %s", u.Style(ui.StyledText{Text: owner, Severity: ui.SeverityCritical}))
type StyledText struct {
	Text     string
	Severity Severity
}

func (s StyledText) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Text)
}

// UI is all terminal interaction of ensgraph commands. TerminalUI is the
// production implementation; tests use RecordingUI.
//
// Implementations must be safe for concurrent use: explore prints profiles
// from background searches while the prompt waits for input.
type UI interface {
	// Style returns t coloured by its Severity, or plain when colours are
	// off.
	Style(t StyledText) string

	Info(format string, args ...any)
	Success(format string, args ...any)
	Warn(format string, args ...any)
	// Error writes a failure in red. It does not exit.
	Error(format string, args ...any)
	// Critical writes something the user should not miss, in bold.
	Critical(format string, args ...any)

	// Section writes a separator centred around title:
	// "===== vitalik.eth ====="
	Section(title string)

	// KeyValue renders label/value rows with values aligned.
	KeyValue(rows [][2]string)

	// Table renders a bordered table. A nil header renders no header row.
	Table(headers []string, rows [][]string)

	// TableWithGroups renders a bordered table with a divider between
	// groups of rows.
	TableWithGroups(headers []string, groups [][][]string)

	// Spinner shows msg with an animation until the returned stop function
	// is called.
	Spinner(msg string) func()

	// Interpret echoes what was understood from the last input, prefixed
	// with "→".
	Interpret(value string)

	// Ask shows a "> " prompt and reads a line, looping until validate
	// accepts it. A nil validate accepts anything.
	Ask(validate func(string) error) string

	// Confirm asks a yes/no question.
	Confirm(prompt string, defaultYes bool) bool

	// Choose prints numbered options and returns the 0-based choice.
	Choose(prompt string, options []string) int

	// Indent returns a child UI one level deeper sharing the same streams.
	Indent() UI

	// Writer returns the output stream with the current indentation
	// applied to every line.
	Writer() io.Writer
}
