// Package diagnostics implements the compiler diagnostic format fixed by
// spec §6 "Diagnostics": a primary span, optional secondary spans, a
// message, optional help text, and notes, rendered with an annotated
// source line and carets.
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/orus-lang/orus/internal/token"
)

// Span is a source location: a file, a 1-based line/column, and a
// caret length.
type Span struct {
	File   string
	Line   int
	Column int
	Length int
}

// Diagnostic is one compile-time error or warning.
type Diagnostic struct {
	// ID uniquely identifies this diagnostic instance so multiple
	// interpreter contexts running concurrently in tests never collide
	// when correlating a diagnostic with the run that produced it.
	ID        string
	Code      string
	File      string
	Primary   Span
	Secondary []Span
	Message   string
	Help      string
	Notes     []string
}

// NewError builds a Diagnostic anchored at tok with message code/msg.
func NewError(code string, tok token.Token, msg string) *Diagnostic {
	return &Diagnostic{
		ID:   uuid.NewString(),
		Code: code,
		Primary: Span{
			Line:   tok.Line,
			Column: tok.Column,
			Length: max(1, len(tok.Lexeme)),
		},
		Message: msg,
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// WithSecondary attaches a secondary span, e.g. a prior definition site.
func (d *Diagnostic) WithSecondary(tok token.Token, note string) *Diagnostic {
	d.Secondary = append(d.Secondary, Span{
		Line:   tok.Line,
		Column: tok.Column,
		Length: max(1, len(tok.Lexeme)),
	})
	if note != "" {
		d.Notes = append(d.Notes, note)
	}
	return d
}

// WithHelp attaches a one-line suggested fix.
func (d *Diagnostic) WithHelp(help string) *Diagnostic {
	d.Help = help
	return d
}

// WithNote appends a freeform note.
func (d *Diagnostic) WithNote(note string) *Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// Error implements the error interface so a *Diagnostic can flow through
// ordinary Go error-handling paths.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s: %s", d.File, d.Primary.Line, d.Primary.Column, d.Code, d.Message)
}

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31;1m"
	colorBlue   = "\x1b[34;1m"
	colorYellow = "\x1b[33;1m"
	colorBold   = "\x1b[1m"
)

// Render prints the diagnostic the way spec §6 describes: header,
// location, annotated source line with carets, secondary spans, help,
// notes. Color escapes are emitted unconditionally (no TTY gate; that
// decision belongs to the CLI, not to this renderer).
func Render(d *Diagnostic, source string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%serror[%s]%s: %s\n", colorRed, d.Code, colorReset, d.Message)
	fmt.Fprintf(&b, "%s  --> %s:%d:%d%s\n", colorBlue, d.File, d.Primary.Line, d.Primary.Column, colorReset)

	lines := strings.Split(source, "\n")
	writeAnnotated(&b, lines, d.Primary, colorRed)
	for _, sec := range d.Secondary {
		writeAnnotated(&b, lines, sec, colorYellow)
	}
	if d.Help != "" {
		fmt.Fprintf(&b, "%shelp%s: %s\n", colorBold, colorReset, d.Help)
	}
	for _, n := range d.Notes {
		fmt.Fprintf(&b, "%snote%s: %s\n", colorBold, colorReset, n)
	}
	return b.String()
}

func writeAnnotated(b *strings.Builder, lines []string, sp Span, color string) {
	idx := sp.Line - 1
	if idx < 0 || idx >= len(lines) {
		return
	}
	fmt.Fprintf(b, "%4d | %s\n", sp.Line, lines[idx])
	pad := strings.Repeat(" ", sp.Column-1)
	carets := strings.Repeat("^", max(1, sp.Length))
	fmt.Fprintf(b, "     | %s%s%s%s\n", pad, color, carets, colorReset)
}
