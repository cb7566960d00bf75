package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/logrusorgru/aurora"
	runewidth "github.com/mattn/go-runewidth"
	indent "github.com/openconfig/goyang/pkg/indent"
	"golang.org/x/term"
)

const (
	indentUnit      = "  " // 2 spaces per indent level
	sectionWidth    = 50   // total character width for Section separators
	promptPrefix    = "> " // shown on the input line before the cursor
	interpretPrefix = "→ "
)

// TerminalUI is the production UI implementation. Indentation is tracked as
// a level count; each level adds two spaces. Writes from concurrent
// goroutines are serialised line by line.
type TerminalUI struct {
	indentLevel int
	out         io.Writer
	in          *bufio.Reader
	au          aurora.Aurora
	tty         bool
	mu          *sync.Mutex
}

// NewTerminalUI creates a TerminalUI on os.Stdout and os.Stdin. Colours are
// enabled when stdout is a real terminal.
func NewTerminalUI() *TerminalUI {
	tty := term.IsTerminal(int(os.Stdout.Fd()))
	return newTerminalUI(os.Stdin, os.Stdout, tty)
}

// NewPlainUI writes uncoloured output to out and reads from in. Spinners only
// print their message.
func NewPlainUI(in io.Reader, out io.Writer) *TerminalUI {
	return newTerminalUI(in, out, false)
}

func newTerminalUI(in io.Reader, out io.Writer, tty bool) *TerminalUI {
	return &TerminalUI{
		out: out,
		in:  bufio.NewReader(in),
		au:  aurora.NewAurora(tty),
		tty: tty,
		mu:  &sync.Mutex{},
	}
}

func (u *TerminalUI) prefix() string {
	return strings.Repeat(indentUnit, u.indentLevel)
}

func (u *TerminalUI) writef(format string, args ...any) {
	u.mu.Lock()
	defer u.mu.Unlock()
	fmt.Fprintf(u.out, format, args...)
}

// writeLine writes a single line with the current indent prefix.
func (u *TerminalUI) writeLine(line string) {
	u.writef("%s%s\n", u.prefix(), line)
}

func (u *TerminalUI) Style(t StyledText) string {
	switch t.Severity {
	case SeveritySuccess:
		return u.au.Green(t.Text).String()
	case SeverityWarn:
		return u.au.Yellow(t.Text).String()
	case SeverityError:
		return u.au.Red(t.Text).String()
	case SeverityCritical:
		return u.au.Bold(t.Text).String()
	default: // SeverityInfo
		return t.Text
	}
}

func (u *TerminalUI) Info(format string, args ...any) {
	u.writeLine(fmt.Sprintf(format, args...))
}

func (u *TerminalUI) Success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	u.writeLine(u.au.Green(msg).String())
}

func (u *TerminalUI) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	u.writeLine(u.au.Yellow(msg).String())
}

func (u *TerminalUI) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	u.writeLine(u.au.Red(msg).String())
}

func (u *TerminalUI) Critical(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	u.writeLine(u.au.Bold(msg).String())
}

// Section prints a separator line centred around the title, surrounded by
// blank lines.
//
//	================== vitalik.eth ===================
func (u *TerminalUI) Section(title string) {
	titled := " " + title + " "
	bars := sectionWidth - runewidth.StringWidth(titled)
	if bars < 6 {
		bars = 6
	}
	left := bars / 2
	right := bars - left
	line := strings.Repeat("=", left) + titled + strings.Repeat("=", right)
	u.writef("\n%s%s\n\n", u.prefix(), line)
}

// Interpret is shown one extra level deep so it stands apart from the prompt
// and the raw input line.
func (u *TerminalUI) Interpret(value string) {
	u.writef("%s%s%s%s\n",
		u.prefix(),
		indentUnit,
		interpretPrefix,
		u.au.Cyan(value).String(),
	)
}

// Ask prints a "> " prompt and reads a line. It repeats until validate
// returns nil. At end of input it returns what was read so far, which lets
// piped sessions finish.
func (u *TerminalUI) Ask(validate func(string) error) string {
	for {
		u.writef("%s%s", u.prefix(), promptPrefix)
		text, err := u.in.ReadString('\n')
		input := strings.TrimRight(text, "\r\n")
		if err != nil {
			return input
		}
		if validate == nil {
			return input
		}
		if verr := validate(input); verr == nil {
			return input
		} else {
			u.writeLine(u.au.Red(verr.Error()).String())
		}
	}
}

// Confirm prints a yes/no question followed by a "> " prompt. An empty
// response accepts the default.
func (u *TerminalUI) Confirm(prompt string, defaultYes bool) bool {
	options := "[Y/n]"
	if !defaultYes {
		options = "[y/N]"
	}
	u.Info("%s %s", prompt, options)
	input := strings.ToLower(strings.TrimSpace(u.Ask(func(s string) error {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || s == "y" || s == "n" {
			return nil
		}
		return errors.New("please enter y or n")
	})))
	if input == "" {
		return defaultYes
	}
	return input == "y"
}

// Choose prints a numbered list of options, then prompts for an index.
func (u *TerminalUI) Choose(prompt string, options []string) int {
	for i, opt := range options {
		u.Info("%d. %s", i+1, opt)
	}
	u.Info("%s [1-%d]", prompt, len(options))
	input := u.Ask(func(s string) error {
		idx, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || idx < 1 || idx > len(options) {
			return fmt.Errorf("please enter a number between 1 and %d", len(options))
		}
		return nil
	})
	idx, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || idx < 1 || idx > len(options) {
		return 0
	}
	return idx - 1
}

// KeyValue renders an aligned 2-column block. The label column is padded to
// the longest label.
func (u *TerminalUI) KeyValue(rows [][2]string) {
	if len(rows) == 0 {
		return
	}
	maxLabel := 0
	for _, r := range rows {
		if w := runewidth.StringWidth(r[0]); w > maxLabel {
			maxLabel = w
		}
	}
	p := u.prefix()
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(p)
		b.WriteString(runewidth.FillRight(r[0], maxLabel))
		b.WriteString("  ")
		b.WriteString(r[1])
		b.WriteString("\n")
	}
	u.writef("%s", b.String())
}

// Table renders a full bordered table. With no headers it makes a compact
// bordered card.
func (u *TerminalUI) Table(headers []string, rows [][]string) {
	u.TableWithGroups(headers, [][][]string{rows})
}

// TableWithGroups renders a bordered table where each group of rows is
// separated from the next by a horizontal divider (├─┼─┤). Column widths are
// computed across all groups so every column aligns.
func (u *TerminalUI) TableWithGroups(headers []string, groups [][][]string) {
	if len(groups) == 0 {
		return
	}
	ncols := len(headers)
	if ncols == 0 {
		for _, g := range groups {
			for _, r := range g {
				if len(r) > ncols {
					ncols = len(r)
				}
			}
		}
	}

	// visible width, ANSI stripped
	cellWidth := func(s string) int {
		return runewidth.StringWidth(ansi.Strip(s))
	}

	widths := make([]int, ncols)
	for i, h := range headers {
		widths[i] = cellWidth(h)
	}
	for _, group := range groups {
		for _, row := range group {
			for i := 0; i < ncols && i < len(row); i++ {
				if w := cellWidth(row[i]); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	pad := func(s string, w int) string {
		visible := cellWidth(s)
		if visible >= w {
			return s
		}
		return s + strings.Repeat(" ", w-visible)
	}

	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	border := func(s string) string {
		if !u.tty {
			return s
		}
		return borderStyle.Render(s)
	}

	dashes := make([]string, ncols)
	for i, w := range widths {
		dashes[i] = strings.Repeat("─", w+2)
	}
	topBorder := border("┌" + strings.Join(dashes, "┬") + "┐")
	midBorder := border("├" + strings.Join(dashes, "┼") + "┤")
	botBorder := border("└" + strings.Join(dashes, "┴") + "┘")

	renderRow := func(cells []string) string {
		parts := make([]string, ncols)
		for i := 0; i < ncols; i++ {
			val := ""
			if i < len(cells) {
				val = cells[i]
			}
			parts[i] = " " + pad(val, widths[i]) + " "
		}
		return border("│") + strings.Join(parts, border("│")) + border("│")
	}

	p := u.prefix()
	var b strings.Builder
	line := func(s string) {
		b.WriteString(p)
		b.WriteString(s)
		b.WriteString("\n")
	}
	line(topBorder)
	if len(headers) > 0 {
		line(renderRow(headers))
		line(midBorder)
	}
	for gi, group := range groups {
		if gi > 0 {
			line(midBorder)
		}
		for _, row := range group {
			line(renderRow(row))
		}
	}
	line(botBorder)
	u.writef("%s", b.String())
}

// Spinner starts an animated spinner with msg and returns a stop function
// that clears it. Without a terminal only the message is printed once.
func (u *TerminalUI) Spinner(msg string) func() {
	if !u.tty {
		u.writeLine(msg)
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 80*time.Millisecond, spinner.WithWriter(u.out))
	s.Suffix = " " + msg
	s.Start()
	return func() {
		s.Stop()
		// the spinner clears with \r and leaves no newline
		u.writef("\n")
	}
}

// Indent returns a child UI one level deeper. The child shares the writer,
// reader and lock with its parent.
func (u *TerminalUI) Indent() UI {
	return &TerminalUI{
		indentLevel: u.indentLevel + 1,
		out:         u.out,
		in:          u.in,
		au:          u.au,
		tty:         u.tty,
		mu:          u.mu,
	}
}

type syncWriter struct {
	mu *sync.Mutex
	w  io.Writer
}

func (s syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// Writer returns an io.Writer that prepends the current indentation to every
// line written to it.
func (u *TerminalUI) Writer() io.Writer {
	w := syncWriter{mu: u.mu, w: u.out}
	if u.indentLevel == 0 {
		return w
	}
	return indent.NewWriter(w, u.prefix())
}
