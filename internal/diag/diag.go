/*
Copyright (C) 2026  kilkeac contributors

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package diag is the shared diagnostic type and renderer used by every
// compiler stage (lexer never emits any, parser and type checker do).
package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/width"
)

// Span is a byte-range plus line/column location of a source region.
// Line is displayed one-based; everything else is zero-based. StartPos and
// EndPos are byte offsets into the source, EndPos inclusive.
type Span struct {
	Line     int
	Column   int
	StartPos int
	EndPos   int
}

// Code is the closed set of diagnostic kinds the compiler can emit.
type Code int

const (
	UnexpectedEOF Code = iota
	UnexpectedToken
	ExpectedToken
	UndefinedIdentifier
	MismatchedTypes
	MutationError
)

var codeNames = map[Code]string{
	UnexpectedEOF:       "E1000",
	UnexpectedToken:      "E1001",
	ExpectedToken:        "E1002",
	UndefinedIdentifier:  "E1003",
	MismatchedTypes:      "E1004",
	MutationError:        "E1005",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "E????"
}

// Diagnostic is a single compiler error: a code, a message, a span into the
// source, and optional note/help lines. Path and Source are carried so the
// diagnostic can render its own context without further lookups.
type Diagnostic struct {
	Code    Code
	Details string
	Span    Span
	Source  string
	Path    string
	Note    string
	Help    string
}

// New constructs a Diagnostic with no note/help.
func New(code Code, details string, span Span, source, path string) *Diagnostic {
	return &Diagnostic{Code: code, Details: details, Span: span, Source: source, Path: path}
}

// WithNote attaches a note line and returns the receiver for chaining.
func (d *Diagnostic) WithNote(note string) *Diagnostic {
	d.Note = note
	return d
}

// WithHelp attaches a help line and returns the receiver for chaining.
func (d *Diagnostic) WithHelp(help string) *Diagnostic {
	d.Help = help
	return d
}

const contextSpread = 2

// runeWidth accounts for east-asian-wide runes so the caret underline lines
// up under multi-byte source text, the one thing a naive len() on the
// preceding text would get wrong.
func runeWidth(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

func digits(n int) int {
	if n <= 0 {
		return 1
	}
	d := 0
	for n > 0 {
		d++
		n /= 10
	}
	return d
}

// Error renders the diagnostic as plain text with ANSI color, matching the
// layout: header (code and details), location line, source context, caret
// underline, then an optional note/help line.
func (d *Diagnostic) Error() string {
	var b strings.Builder
	boldRed := color.New(color.FgRed, color.Bold)
	boldCyan := color.New(color.FgCyan, color.Bold)

	w := digits(d.Span.Line + 1 + contextSpread)

	boldRed.Fprintf(&b, "error[%s]", d.Code)
	fmt.Fprintf(&b, ": %s\n", d.Details)
	fmt.Fprintf(&b, "%s> %s:%d:%d\n", strings.Repeat("-", w+2), d.Path, d.Span.Line+1, d.Span.Column)

	lines := strings.Split(d.Source, "\n")
	d.writeContext(&b, lines, w, d.Span.Line, contextSpread, false)

	if d.Span.Line >= 0 && d.Span.Line < len(lines) {
		line := lines[d.Span.Line]
		fmt.Fprintf(&b, " %*d | %s\n", w, d.Span.Line+1, line)
		caretLen := d.Span.EndPos - d.Span.StartPos + 1
		if caretLen < 1 {
			caretLen = 1
		}
		pad := runeWidth(padPrefix(line, d.Span.Column))
		fmt.Fprintf(&b, " %*s | %s", w, "", strings.Repeat(" ", pad))
		boldRed.Fprint(&b, strings.Repeat("^", caretLen))
	}

	d.writeContext(&b, lines, w, d.Span.Line, contextSpread, true)

	if d.Note != "" {
		fmt.Fprintf(&b, "\n %*s = ", w, "")
		boldCyan.Fprint(&b, "note")
		fmt.Fprintf(&b, ": %s", d.Note)
	}
	if d.Help != "" {
		fmt.Fprintf(&b, "\n %*s = ", w, "")
		boldCyan.Fprint(&b, "help")
		fmt.Fprintf(&b, ": %s", d.Help)
	}

	return b.String()
}

// padPrefix returns the leading slice of line up to column runes, used only
// to measure display width for caret alignment.
func padPrefix(line string, column int) string {
	runes := []rune(line)
	if column > len(runes) {
		column = len(runes)
	}
	if column < 0 {
		return ""
	}
	return string(runes[:column])
}

func (d *Diagnostic) writeContext(b *strings.Builder, lines []string, w, line, spread int, after bool) {
	if after {
		for i := 1; i <= spread; i++ {
			ln := line + i
			if ln < 0 || ln >= len(lines) {
				continue
			}
			fmt.Fprintf(b, "\n %*d | %s", w, ln+1, lines[ln])
		}
		return
	}
	for i := spread; i >= 1; i-- {
		ln := line - i
		if ln < 0 || ln >= len(lines) {
			continue
		}
		fmt.Fprintf(b, " %*d | %s\n", w, ln+1, lines[ln])
	}
}

// Set is an ordered collection of diagnostics produced by a single stage.
type Set []*Diagnostic

func (s Set) Error() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = d.Error()
	}
	return strings.Join(parts, "\n\n")
}
