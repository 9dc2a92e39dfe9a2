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

package diag

import (
	"strings"
	"testing"
)

func TestDiagnostic_ErrorContainsCodeAndLocation(t *testing.T) {
	src := "let x = 1\nlet y = x +\n"
	d := New(MismatchedTypes, "cannot do `+` operation", Span{Line: 1, Column: 11, StartPos: 21, EndPos: 21}, src, "main.kk")

	out := d.Error()
	if !strings.Contains(out, "E1004") {
		t.Fatalf("expected error code E1004 in output, got:\n%s", out)
	}
	if !strings.Contains(out, "main.kk:2:11") {
		t.Fatalf("expected location main.kk:2:11 in output, got:\n%s", out)
	}
	if !strings.Contains(out, "cannot do `+` operation") {
		t.Fatalf("expected details in output, got:\n%s", out)
	}
}

func TestDiagnostic_NoteAndHelp(t *testing.T) {
	d := New(UndefinedIdentifier, "undefined identifier `fo`", Span{Line: 0, Column: 0, StartPos: 0, EndPos: 1}, "fo\n", "x.kk")
	d.WithHelp("did you mean: `foo`?").WithNote("names are case sensitive")

	out := d.Error()
	if !strings.Contains(out, "did you mean: `foo`?") {
		t.Fatalf("expected help text, got:\n%s", out)
	}
	if !strings.Contains(out, "names are case sensitive") {
		t.Fatalf("expected note text, got:\n%s", out)
	}
}

func TestSet_ErrorJoinsWithBlankLine(t *testing.T) {
	d1 := New(UnexpectedEOF, "unexpected eof", Span{}, "", "a.kk")
	d2 := New(UnexpectedToken, "unexpected token", Span{}, "", "a.kk")
	set := Set{d1, d2}

	out := set.Error()
	if !strings.Contains(out, "\n\n") {
		t.Fatalf("expected diagnostics separated by a blank line, got:\n%s", out)
	}
}

func TestCode_String(t *testing.T) {
	if MismatchedTypes.String() != "E1004" {
		t.Fatalf("MismatchedTypes.String() = %q, want E1004", MismatchedTypes.String())
	}
}
